package printful

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pwproductions/storefront-backend/pkg/config"
	pkgerrors "github.com/pwproductions/storefront-backend/pkg/errors"
	"github.com/pwproductions/storefront-backend/pkg/logger"
	"github.com/pwproductions/storefront-backend/pkg/metrics"
)

const storeIDHeader = "X-PF-Store-Id"

var (
	errTokenRequired  = errors.New("printful access token is required")
	errLoggerRequired = errors.New("printful logger is required")
)

// Client exposes the Printful REST endpoints the storefront proxies, with
// centralized auth, logging, metrics, and error mapping. No retries and no
// caching; every call hits the vendor live.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *logger.Logger
	metrics    *metrics.VendorMetrics
}

// NewClient validates the credentials and builds the vendor client.
func NewClient(cfg config.PrintfulConfig, logg *logger.Logger, vm *metrics.VendorMetrics) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errTokenRequired
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.printful.com"
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    baseURL,
		token:      token,
		logger:     logg,
		metrics:    vm,
	}, nil
}

// Ping verifies the vendor endpoint is reachable. Any HTTP response
// counts as reachable; only transport failures fail readiness.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building vendor ping")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "printful unreachable")
	}
	resp.Body.Close()
	return nil
}

// StoreProducts lists the sync products of the given store.
func (c *Client) StoreProducts(ctx context.Context, storeID int64) (Envelope, error) {
	return c.do(ctx, "store_products", http.MethodGet, "/store/products", nil, storeID, nil)
}

// StoreProduct fetches one sync product with its variants.
func (c *Client) StoreProduct(ctx context.Context, storeID int64, productID string) (Envelope, error) {
	return c.do(ctx, "store_product", http.MethodGet, "/store/products/"+url.PathEscape(productID), nil, storeID, nil)
}

// CatalogProducts lists the public catalog. No store header is sent.
func (c *Client) CatalogProducts(ctx context.Context) (Envelope, error) {
	return c.do(ctx, "catalog_products", http.MethodGet, "/products", nil, 0, nil)
}

// CatalogProduct fetches one public catalog item. No store header is sent.
func (c *Client) CatalogProduct(ctx context.Context, productID string) (Envelope, error) {
	return c.do(ctx, "catalog_product", http.MethodGet, "/products/"+url.PathEscape(productID), nil, 0, nil)
}

// CreateOrder submits an order, optionally confirming it for production.
func (c *Client) CreateOrder(ctx context.Context, storeID int64, confirm bool, order OrderRequest) (Envelope, error) {
	query := url.Values{}
	if confirm {
		query.Set("confirm", "true")
	}
	return c.do(ctx, "create_order", http.MethodPost, "/orders", query, storeID, order)
}

// Order fetches one order by vendor id or external id.
func (c *Client) Order(ctx context.Context, storeID int64, orderID string) (Envelope, error) {
	return c.do(ctx, "get_order", http.MethodGet, "/orders/"+url.PathEscape(orderID), nil, storeID, nil)
}

// Orders lists orders with the optional status/limit/offset filters.
func (c *Client) Orders(ctx context.Context, storeID int64, params OrderListParams) (Envelope, error) {
	return c.do(ctx, "list_orders", http.MethodGet, "/orders", params.query(), storeID, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, storeID int64, payload any) (Envelope, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding vendor request")
		}
		body = bytes.NewReader(encoded)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building vendor request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	if storeID > 0 {
		req.Header.Set(storeIDHeader, strconv.FormatInt(storeID, 10))
	}

	c.log(ctx, "request", op, map[string]any{
		"method":   method,
		"path":     path,
		"store_id": storeID,
	})

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveCall(op, "transport_error", time.Since(start))
		c.log(ctx, "error", op, map[string]any{"error": err.Error()})
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("printful %s failed", op))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.ObserveCall(op, "transport_error", time.Since(start))
		c.log(ctx, "error", op, map[string]any{"error": err.Error()})
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("printful %s failed", op))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.ObserveCall(op, "vendor_error", time.Since(start))
		c.log(ctx, "error", op, map[string]any{
			"status": resp.StatusCode,
			"error":  vendorMessage(raw),
		})
		return nil, mapVendorError(op, resp.StatusCode, raw)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.metrics.ObserveCall(op, "decode_error", time.Since(start))
		c.log(ctx, "error", op, map[string]any{"error": err.Error()})
		return nil, pkgerrors.Wrap(pkgerrors.CodeVendor, err, "malformed vendor response")
	}

	c.metrics.ObserveCall(op, "success", time.Since(start))
	c.log(ctx, "response", op, map[string]any{"status": resp.StatusCode})
	return env, nil
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = v
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("printful %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("printful %s", phase))
	}
}
