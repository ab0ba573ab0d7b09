package cart

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/darkandwhite/shop-backend/pkg/enums"
)

// Key identifies one cart line: a catalog product, a design asset, or the
// single donation line. Donation keys carry no entity id.
type Key struct {
	Kind enums.ItemKind
	ID   uuid.UUID
}

// ProductKey returns the key for a catalog product line.
func ProductKey(id uuid.UUID) Key {
	return Key{Kind: enums.ItemKindProduct, ID: id}
}

// DesignKey returns the key for a design asset line.
func DesignKey(id uuid.UUID) Key {
	return Key{Kind: enums.ItemKindDesign, ID: id}
}

// DonationKey returns the sentinel key for the donation line.
func DonationKey() Key {
	return Key{Kind: enums.ItemKindDonation}
}

// String renders the key in its wire form, e.g. "product:<uuid>" or "donation".
func (k Key) String() string {
	if k.Kind == enums.ItemKindDonation {
		return string(enums.ItemKindDonation)
	}
	return fmt.Sprintf("%s:%s", k.Kind, k.ID)
}

// MarshalText lets Key act as a JSON object key when the cart is serialized
// into the session store.
func (k Key) MarshalText() ([]byte, error) {
	if !k.Kind.IsValid() {
		return nil, fmt.Errorf("invalid item kind %q", k.Kind)
	}
	if k.Kind != enums.ItemKindDonation && k.ID == uuid.Nil {
		return nil, fmt.Errorf("%s key requires an entity id", k.Kind)
	}
	return []byte(k.String()), nil
}

// UnmarshalText parses the wire form produced by MarshalText.
func (k *Key) UnmarshalText(text []byte) error {
	raw := string(text)
	kindPart, idPart, found := strings.Cut(raw, ":")

	kind, err := enums.ParseItemKind(kindPart)
	if err != nil {
		return fmt.Errorf("parsing cart key %q: %w", raw, err)
	}

	if kind == enums.ItemKindDonation {
		if found {
			return fmt.Errorf("donation key %q must not carry an id", raw)
		}
		*k = Key{Kind: kind}
		return nil
	}

	if !found {
		return fmt.Errorf("cart key %q is missing an entity id", raw)
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return fmt.Errorf("parsing cart key %q: %w", raw, err)
	}
	*k = Key{Kind: kind, ID: id}
	return nil
}

// ParseKey converts the wire form back into a Key.
func ParseKey(raw string) (Key, error) {
	var k Key
	if err := k.UnmarshalText([]byte(raw)); err != nil {
		return Key{}, err
	}
	return k, nil
}
