package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	pkgredis "github.com/darkandwhite/shop-backend/pkg/redis"
)

// Store persists session carts and the session's donation unit price.
// Carts never outlive the session TTL; durable state starts at the Order.
type Store interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, cart *Cart) error
	Clear(ctx context.Context, sessionID string) error
	DonationPrice(ctx context.Context, sessionID string) (decimal.Decimal, bool, error)
	SetDonationPrice(ctx context.Context, sessionID string, price decimal.Decimal) error
}

type redisStore struct {
	client *pkgredis.Client
	ttl    time.Duration
}

// NewRedisStore builds a Store on the shared redis client.
func NewRedisStore(client *pkgredis.Client, ttl time.Duration) (Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &redisStore{client: client, ttl: ttl}, nil
}

func (s *redisStore) Get(ctx context.Context, sessionID string) (*Cart, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(sessionID))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return New(), nil
		}
		return nil, fmt.Errorf("loading cart: %w", err)
	}

	var items map[Key]int
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decoding cart payload: %w", err)
	}
	if items == nil {
		items = make(map[Key]int)
	}

	// Activity slides the session window; both session keys age together.
	_ = s.client.Expire(ctx, s.client.CartKey(sessionID), s.ttl)
	_ = s.client.Expire(ctx, s.client.DonationPriceKey(sessionID), s.ttl)

	return &Cart{Items: items}, nil
}

func (s *redisStore) Save(ctx context.Context, sessionID string, cart *Cart) error {
	if cart == nil {
		cart = New()
	}
	payload, err := json.Marshal(cart.Items)
	if err != nil {
		return fmt.Errorf("encoding cart payload: %w", err)
	}
	return s.client.Set(ctx, s.client.CartKey(sessionID), string(payload), s.ttl)
}

func (s *redisStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx,
		s.client.CartKey(sessionID),
		s.client.DonationPriceKey(sessionID),
	)
}

func (s *redisStore) DonationPrice(ctx context.Context, sessionID string) (decimal.Decimal, bool, error) {
	raw, err := s.client.Get(ctx, s.client.DonationPriceKey(sessionID))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, fmt.Errorf("loading donation price: %w", err)
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("decoding donation price %q: %w", raw, err)
	}
	return price, true, nil
}

func (s *redisStore) SetDonationPrice(ctx context.Context, sessionID string, price decimal.Decimal) error {
	return s.client.Set(ctx, s.client.DonationPriceKey(sessionID), price.String(), s.ttl)
}
