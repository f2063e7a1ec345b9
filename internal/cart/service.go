package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	pkgerrors "github.com/pwproductions/storefront-backend/pkg/errors"
	"github.com/pwproductions/storefront-backend/pkg/logger"
	pkgredis "github.com/pwproductions/storefront-backend/pkg/redis"
)

// KV is the durable key-value collaborator the cart persists to.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// Service loads, mutates and persists session carts. The whole snapshot
// is written back after every mutation; corrupt persisted state is
// logged and replaced with an empty cart rather than surfaced.
type Service interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	Add(ctx context.Context, sessionID string, product Product, quantity int, variant *Variant) (*Cart, error)
	UpdateQuantity(ctx context.Context, sessionID string, productID, variantID int64, quantity int) (*Cart, error)
	Remove(ctx context.Context, sessionID string, productID, variantID int64) (*Cart, error)
	Clear(ctx context.Context, sessionID string) (*Cart, error)
}

type service struct {
	kv   KV
	logg *logger.Logger
}

// NewService builds a cart service backed by the provided key-value store.
func NewService(kv KV, logg *logger.Logger) (Service, error) {
	if kv == nil {
		return nil, fmt.Errorf("cart key-value store required")
	}
	return &service{kv: kv, logg: logg}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	return s.load(ctx, sessionID)
}

func (s *service) Add(ctx context.Context, sessionID string, product Product, quantity int, variant *Variant) (*Cart, error) {
	if product.ID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.mutate(ctx, sessionID, func(c *Cart) {
		c.Add(product, quantity, variant)
	})
}

func (s *service) UpdateQuantity(ctx context.Context, sessionID string, productID, variantID int64, quantity int) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) {
		c.UpdateQuantity(productID, variantID, quantity)
	})
}

func (s *service) Remove(ctx context.Context, sessionID string, productID, variantID int64) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) {
		c.Remove(productID, variantID)
	})
}

func (s *service) Clear(ctx context.Context, sessionID string) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) {
		c.Clear()
	})
}

func (s *service) mutate(ctx context.Context, sessionID string, fn func(*Cart)) (*Cart, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	fn(cart)

	if err := s.save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) load(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	raw, err := s.kv.Get(ctx, s.kv.CartKey(sessionID))
	if errors.Is(err, pkgredis.ErrNotFound) {
		return &Cart{}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		if s.logg != nil {
			ctx = s.logg.WithSessionID(ctx, sessionID)
			s.logg.Warn(ctx, "discarding malformed persisted cart")
		}
		return &Cart{}, nil
	}
	return &cart, nil
}

func (s *service) save(ctx context.Context, sessionID string, cart *Cart) error {
	encoded, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding cart")
	}
	if err := s.kv.Set(ctx, s.kv.CartKey(sessionID), string(encoded)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting cart")
	}
	return nil
}
