package cart

// Cart is the session-scoped mapping of line key to quantity. Quantities are
// always >= 1; removing a line deletes its key instead of leaving a zero.
type Cart struct {
	Items map[Key]int `json:"items"`
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{Items: make(map[Key]int)}
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// Count returns the total quantity across all lines.
func (c *Cart) Count() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, qty := range c.Items {
		total += qty
	}
	return total
}

// Add increments the quantity for key, creating the line when absent.
// Non-positive quantities are coerced to 1.
func (c *Cart) Add(key Key, qty int) int {
	if qty < 1 {
		qty = 1
	}
	if c.Items == nil {
		c.Items = make(map[Key]int)
	}
	c.Items[key] += qty
	return c.Items[key]
}

// Increment bumps an existing line by one.
func (c *Cart) Increment(key Key) (int, bool) {
	qty, ok := c.Items[key]
	if !ok {
		return 0, false
	}
	c.Items[key] = qty + 1
	return qty + 1, true
}

// Decrement lowers an existing line by one, flooring at 1. Removal is an
// explicit separate action.
func (c *Cart) Decrement(key Key) (int, bool) {
	qty, ok := c.Items[key]
	if !ok {
		return 0, false
	}
	if qty > 1 {
		qty--
	}
	c.Items[key] = qty
	return qty, true
}

// Remove deletes the line entirely.
func (c *Cart) Remove(key Key) bool {
	if _, ok := c.Items[key]; !ok {
		return false
	}
	delete(c.Items, key)
	return true
}

// Quantity returns the quantity for key, zero when absent.
func (c *Cart) Quantity(key Key) int {
	if c == nil {
		return 0
	}
	return c.Items[key]
}
