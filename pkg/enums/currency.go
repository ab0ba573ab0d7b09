package enums

import "fmt"

// Currency represents supported monetary denominations for orders.
type Currency string

const (
	CurrencyUZS Currency = "UZS"
	CurrencyUSD Currency = "USD"
)

var validCurrencies = []Currency{
	CurrencyUZS,
	CurrencyUSD,
}

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}

// IsValid reports whether the currency is recognized.
func (c Currency) IsValid() bool {
	for _, candidate := range validCurrencies {
		if candidate == c {
			return true
		}
	}
	return false
}

// NumericISO returns the ISO 4217 numeric code used on the gateway link.
func (c Currency) NumericISO() (int, error) {
	switch c {
	case CurrencyUZS:
		return 860, nil
	case CurrencyUSD:
		return 840, nil
	}
	return 0, fmt.Errorf("no numeric ISO code for currency %q", c)
}

// ParseCurrency converts a raw string into a Currency.
func ParseCurrency(value string) (Currency, error) {
	for _, candidate := range validCurrencies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid currency %q", value)
}
