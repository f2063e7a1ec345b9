package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pwproductions/storefront-backend/internal/tenants"
	"github.com/pwproductions/storefront-backend/pkg/config"
	pkgerrors "github.com/pwproductions/storefront-backend/pkg/errors"
	"github.com/pwproductions/storefront-backend/pkg/logger"
	"github.com/pwproductions/storefront-backend/pkg/printful"
)

// vendorClient is the slice of the Printful client the gateway drives.
type vendorClient interface {
	StoreProducts(ctx context.Context, storeID int64) (printful.Envelope, error)
	StoreProduct(ctx context.Context, storeID int64, productID string) (printful.Envelope, error)
	CatalogProducts(ctx context.Context) (printful.Envelope, error)
	CatalogProduct(ctx context.Context, productID string) (printful.Envelope, error)
	CreateOrder(ctx context.Context, storeID int64, confirm bool, order printful.OrderRequest) (printful.Envelope, error)
	Order(ctx context.Context, storeID int64, orderID string) (printful.Envelope, error)
	Orders(ctx context.Context, storeID int64, params printful.OrderListParams) (printful.Envelope, error)
}

// Response pairs a vendor envelope with the resolved client's metadata so
// tenant-scoped responses identify which storefront they belong to.
type Response struct {
	Envelope printful.Envelope
	Client   tenants.ClientInfo
}

// Service is the tenant-aware proxy over the fulfillment vendor. It
// resolves client keys to vendor stores, validates what can be validated
// before the network, and forwards everything else unchanged.
type Service interface {
	ListStores() []tenants.ClientStore
	ListProducts(ctx context.Context, clientKey string, limit int) (*Response, error)
	GetProduct(ctx context.Context, clientKey, productID string) (*Response, error)
	ListCatalog(ctx context.Context) (printful.Envelope, error)
	GetCatalogItem(ctx context.Context, productID string) (printful.Envelope, error)
	CreateOrder(ctx context.Context, clientKey string, confirm bool, order printful.OrderRequest) (printful.Envelope, error)
	GetOrder(ctx context.Context, clientKey, orderID string) (*Response, error)
	ListOrders(ctx context.Context, clientKey string, params printful.OrderListParams) (*Response, error)
}

type service struct {
	directory    *tenants.Directory
	vendor       vendorClient
	defaultLimit int
	logg         *logger.Logger
}

// NewService wires the gateway to the client directory and vendor client.
func NewService(directory *tenants.Directory, vendor vendorClient, cfg config.CatalogConfig, logg *logger.Logger) (Service, error) {
	if directory == nil {
		return nil, fmt.Errorf("client directory required")
	}
	if vendor == nil {
		return nil, fmt.Errorf("vendor client required")
	}
	return &service{
		directory:    directory,
		vendor:       vendor,
		defaultLimit: cfg.PageLimit,
		logg:         logg,
	}, nil
}

func (s *service) ListStores() []tenants.ClientStore {
	return s.directory.Available()
}

// ListProducts lists the resolved client's sync products. A positive limit
// truncates the result list; zero applies the configured default, which
// itself defaults to no truncation.
func (s *service) ListProducts(ctx context.Context, clientKey string, limit int) (*Response, error) {
	client, err := s.directory.Resolve(clientKey)
	if err != nil {
		return nil, err
	}

	env, err := s.vendor.StoreProducts(ctx, client.StoreID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > 0 {
		env = truncateResult(env, limit)
	}
	return &Response{Envelope: env, Client: client.Info()}, nil
}

func (s *service) GetProduct(ctx context.Context, clientKey, productID string) (*Response, error) {
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	client, err := s.directory.Resolve(clientKey)
	if err != nil {
		return nil, err
	}

	env, err := s.vendor.StoreProduct(ctx, client.StoreID, productID)
	if err != nil {
		return nil, err
	}
	return &Response{Envelope: env, Client: client.Info()}, nil
}

// ListCatalog passes the public catalog through with no store scoping.
func (s *service) ListCatalog(ctx context.Context) (printful.Envelope, error) {
	return s.vendor.CatalogProducts(ctx)
}

func (s *service) GetCatalogItem(ctx context.Context, productID string) (printful.Envelope, error) {
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.vendor.CatalogProduct(ctx, productID)
}

// CreateOrder forwards an order for the resolved client. Orders missing a
// recipient or items fail before any network call.
func (s *service) CreateOrder(ctx context.Context, clientKey string, confirm bool, order printful.OrderRequest) (printful.Envelope, error) {
	client, err := s.directory.Resolve(clientKey)
	if err != nil {
		return nil, err
	}
	if order.Recipient == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidOrder, "order recipient is required")
	}
	if len(order.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidOrder, "order must include at least one item")
	}
	return s.vendor.CreateOrder(ctx, client.StoreID, confirm, order)
}

func (s *service) GetOrder(ctx context.Context, clientKey, orderID string) (*Response, error) {
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	client, err := s.directory.Resolve(clientKey)
	if err != nil {
		return nil, err
	}

	env, err := s.vendor.Order(ctx, client.StoreID, orderID)
	if err != nil {
		return nil, err
	}
	return &Response{Envelope: env, Client: client.Info()}, nil
}

func (s *service) ListOrders(ctx context.Context, clientKey string, params printful.OrderListParams) (*Response, error) {
	client, err := s.directory.Resolve(clientKey)
	if err != nil {
		return nil, err
	}

	env, err := s.vendor.Orders(ctx, client.StoreID, params)
	if err != nil {
		return nil, err
	}
	return &Response{Envelope: env, Client: client.Info()}, nil
}

// truncateResult caps the envelope's result array at limit entries. A
// non-array result, such as an error body, passes through untouched.
func truncateResult(env printful.Envelope, limit int) printful.Envelope {
	raw, ok := env.Result()
	if !ok {
		return env
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return env
	}
	if len(items) <= limit {
		return env
	}

	truncated, err := json.Marshal(items[:limit])
	if err != nil {
		return env
	}
	out := make(printful.Envelope, len(env))
	for k, v := range env {
		out[k] = v
	}
	out["result"] = truncated
	return out
}
