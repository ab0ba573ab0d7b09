package cart

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/darkandwhite/shop-backend/internal/catalog"
	"github.com/darkandwhite/shop-backend/pkg/enums"
	pkgerrors "github.com/darkandwhite/shop-backend/pkg/errors"
)

// UpdateAction enumerates the mutations allowed on an existing line.
type UpdateAction string

const (
	ActionIncrement UpdateAction = "inc"
	ActionDecrement UpdateAction = "dec"
	ActionRemove    UpdateAction = "remove"
)

// ResolvedLine is one cart entry priced from the authoritative source.
type ResolvedLine struct {
	Key       Key
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Resolution is the priced view of a cart. Stale lines are excluded without
// mutating the stored cart.
type Resolution struct {
	Lines    []ResolvedLine
	Subtotal decimal.Decimal
}

// AddResult reports the state after an add.
type AddResult struct {
	Key      Key
	Quantity int
	Count    int
}

// UpdateResult reports the state after an update. LineTotal and Subtotal are
// recomputed from the same resolver the order path uses so displayed totals
// can never drift from what checkout will charge.
type UpdateResult struct {
	Key       Key
	Quantity  int
	Count     int
	Removed   bool
	LineTotal decimal.Decimal
	Subtotal  decimal.Decimal
}

// DonationName is the display name snapshotted onto donation order items.
const DonationName = "Advance Payment"

// Service owns session cart mutation and pricing resolution.
type Service interface {
	Add(ctx context.Context, sessionID string, kind enums.ItemKind, entityID uuid.UUID, qty int) (*AddResult, error)
	AddDonation(ctx context.Context, sessionID string, amount decimal.Decimal, qty int) (*AddResult, error)
	Update(ctx context.Context, sessionID string, key Key, action UpdateAction) (*UpdateResult, error)
	Resolve(ctx context.Context, sessionID string) (*Resolution, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	store   Store
	catalog catalog.Reader
}

// NewService wires the cart service.
func NewService(store Store, reader catalog.Reader) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if reader == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	return &service{store: store, catalog: reader}, nil
}

func (s *service) Add(ctx context.Context, sessionID string, kind enums.ItemKind, entityID uuid.UUID, qty int) (*AddResult, error) {
	var key Key
	switch kind {
	case enums.ItemKindProduct:
		listing, err := s.catalog.GetProduct(ctx, entityID)
		if err != nil {
			return nil, err
		}
		if !listing.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		key = ProductKey(entityID)
	case enums.ItemKindDesign:
		listing, err := s.catalog.GetDesign(ctx, entityID)
		if err != nil {
			return nil, err
		}
		if !listing.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "design asset not found")
		}
		key = DesignKey(entityID)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported item kind").
			WithDetails(map[string]any{"kind": string(kind)})
	}

	c, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	lineQty := c.Add(key, qty)
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}

	return &AddResult{Key: key, Quantity: lineQty, Count: c.Count()}, nil
}

// AddDonation stores the donation unit price on the session alongside the
// cart line. The price is a single session-scoped scalar: adding a second
// donation at a different amount reprices the existing line.
func (s *service) AddDonation(ctx context.Context, sessionID string, amount decimal.Decimal, qty int) (*AddResult, error) {
	if amount.IsNegative() || amount.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "donation amount must be positive")
	}

	c, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	key := DonationKey()
	lineQty := c.Add(key, qty)
	if err := s.store.SetDonationPrice(ctx, sessionID, amount); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save donation price")
	}
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}

	return &AddResult{Key: key, Quantity: lineQty, Count: c.Count()}, nil
}

func (s *service) Update(ctx context.Context, sessionID string, key Key, action UpdateAction) (*UpdateResult, error) {
	c, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	var (
		qty     int
		ok      bool
		removed bool
	)
	switch action {
	case ActionIncrement:
		qty, ok = c.Increment(key)
	case ActionDecrement:
		qty, ok = c.Decrement(key)
	case ActionRemove:
		ok = c.Remove(key)
		removed = ok
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported cart action").
			WithDetails(map[string]any{"action": string(action)})
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
	}

	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}

	resolution, err := s.resolveCart(ctx, sessionID, c)
	if err != nil {
		return nil, err
	}

	lineTotal := decimal.Zero
	for _, line := range resolution.Lines {
		if line.Key == key {
			lineTotal = line.LineTotal
			break
		}
	}

	return &UpdateResult{
		Key:       key,
		Quantity:  qty,
		Count:     c.Count(),
		Removed:   removed,
		LineTotal: lineTotal,
		Subtotal:  resolution.Subtotal,
	}, nil
}

func (s *service) Resolve(ctx context.Context, sessionID string) (*Resolution, error) {
	c, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return s.resolveCart(ctx, sessionID, c)
}

// Clear drops the session cart and its donation price after checkout.
func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// resolveCart prices every line from the authoritative source. Lines whose
// entity can no longer be found are dropped from the view without touching
// the stored cart; a donation with no stored price resolves at zero.
func (s *service) resolveCart(ctx context.Context, sessionID string, c *Cart) (*Resolution, error) {
	resolution := &Resolution{Subtotal: decimal.Zero}

	for key, qty := range c.Items {
		var (
			name  string
			price decimal.Decimal
		)
		switch key.Kind {
		case enums.ItemKindProduct:
			listing, err := s.catalog.GetProduct(ctx, key.ID)
			if err != nil {
				if pkgerrors.As(err) != nil && pkgerrors.As(err).Code() == pkgerrors.CodeNotFound {
					continue
				}
				return nil, err
			}
			name, price = listing.Name, listing.Price
		case enums.ItemKindDesign:
			listing, err := s.catalog.GetDesign(ctx, key.ID)
			if err != nil {
				if pkgerrors.As(err) != nil && pkgerrors.As(err).Code() == pkgerrors.CodeNotFound {
					continue
				}
				return nil, err
			}
			name, price = listing.Name, listing.Price
		case enums.ItemKindDonation:
			stored, _, err := s.store.DonationPrice(ctx, sessionID)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load donation price")
			}
			name, price = DonationName, stored
		default:
			continue
		}

		lineTotal := price.Mul(decimal.NewFromInt(int64(qty)))
		resolution.Lines = append(resolution.Lines, ResolvedLine{
			Key:       key,
			Name:      name,
			Quantity:  qty,
			UnitPrice: price,
			LineTotal: lineTotal,
		})
		resolution.Subtotal = resolution.Subtotal.Add(lineTotal)
	}

	// Map iteration order is unspecified; keep the view stable for clients.
	sort.Slice(resolution.Lines, func(i, j int) bool {
		return resolution.Lines[i].Key.String() < resolution.Lines[j].Key.String()
	})

	return resolution, nil
}
