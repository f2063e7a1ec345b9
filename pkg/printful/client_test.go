package printful

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/pwproductions/storefront-backend/pkg/config"
	pkgerrors "github.com/pwproductions/storefront-backend/pkg/errors"
	"github.com/pwproductions/storefront-backend/pkg/logger"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logg := logger.New(logger.Options{ServiceName: "printful-test", Output: io.Discard})
	client, err := NewClient(config.PrintfulConfig{
		Token:   "pf-test-token",
		BaseURL: server.URL,
	}, logg, nil)
	if err != nil {
		t.Fatalf("building client: %v", err)
	}
	return client, server
}

func TestNewClientRequiresToken(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "printful-test", Output: io.Discard})
	if _, err := NewClient(config.PrintfulConfig{Token: "  "}, logg, nil); err == nil {
		t.Fatal("expected error for blank token")
	}
	if _, err := NewClient(config.PrintfulConfig{Token: "x"}, nil, nil); err == nil {
		t.Fatal("expected error for nil logger")
	}
}

func TestStoreProductsSendsAuthAndStoreHeader(t *testing.T) {
	var gotAuth, gotStore, gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotStore = r.Header.Get("X-PF-Store-Id")
		gotPath = r.URL.Path
		w.Write([]byte(`{"code":200,"result":[{"id":1}]}`))
	}))

	env, err := client.StoreProducts(context.Background(), 16236391)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer pf-test-token" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotStore != "16236391" {
		t.Fatalf("unexpected store header %q", gotStore)
	}
	if gotPath != "/store/products" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if _, ok := env.Result(); !ok {
		t.Fatal("expected result field in envelope")
	}
}

func TestCatalogOmitsStoreHeader(t *testing.T) {
	var sawStoreHeader bool
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawStoreHeader = r.Header["X-Pf-Store-Id"]
		w.Write([]byte(`{"code":200,"result":[]}`))
	}))

	if _, err := client.CatalogProducts(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sawStoreHeader {
		t.Fatal("catalog calls must not carry the store header")
	}
}

func TestCreateOrderForwardsConfirmAndBody(t *testing.T) {
	var gotQuery string
	var gotBody map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"code":200,"result":{"id":5551,"external_id":"order-abc","status":"draft"}}`))
	}))

	order := OrderRequest{
		ExternalID: "order-abc",
		Shipping:   "STANDARD",
		Recipient:  &Recipient{Name: "Jordan Pay", Address1: "1 Main St", City: "Austin", StateCode: "TX", CountryCode: "US", Zip: "78701", Phone: "5550001111", Email: "jordan@example.com"},
		Items: []OrderItem{
			{SyncVariantID: 7, Quantity: 2, RetailPrice: decimal.RequireFromString("19.99")},
		},
	}

	env, err := client.CreateOrder(context.Background(), 16236391, true, order)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "confirm=true" {
		t.Fatalf("expected confirm flag forwarded, got %q", gotQuery)
	}
	items, ok := gotBody["items"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected one forwarded item, got %v", gotBody["items"])
	}
	item := items[0].(map[string]any)
	if item["retail_price"] != "19.99" {
		t.Fatalf("expected retail price as decimal string, got %v", item["retail_price"])
	}

	summary, err := env.OrderSummary()
	if err != nil {
		t.Fatalf("decoding order summary: %v", err)
	}
	if summary.ID != 5551 {
		t.Fatalf("unexpected order id %d", summary.ID)
	}
}

func TestOrdersForwardsFilters(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"code":200,"result":[]}`))
	}))

	_, err := client.Orders(context.Background(), 42, OrderListParams{Status: "fulfilled", Limit: 10, Offset: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "limit=10&offset=20&status=fulfilled" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
}

func TestVendorNotFoundPropagatesStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":404,"result":"Sync product not found","error":null}`))
	}))

	_, err := client.StoreProduct(context.Background(), 42, "999")
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found code, got %s", typed.Code())
	}
	if typed.HTTPStatus() != http.StatusNotFound {
		t.Fatalf("expected 404 propagated, got %d", typed.HTTPStatus())
	}
	if typed.Message() != "Sync product not found" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestVendorMessagePriority(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
		want string
	}{
		{"string result wins", `{"code":400,"result":"Missing recipient zip","error":{"message":"generic"}}`, "Missing recipient zip"},
		{"nested error message", `{"code":400,"result":null,"error":{"message":"Invalid variant","reason":"BadRequest"}}`, "Invalid variant"},
		{"plain error string", `{"code":400,"error":"upstream exploded"}`, "upstream exploded"},
		{"structured result ignored", `{"code":400,"result":{"id":1}}`, "Unknown error"},
		{"not json", `<html>gateway timeout</html>`, "Unknown error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := vendorMessage([]byte(tc.body)); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestVendorErrorCarriesRawPayload(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":400,"result":"Missing recipient zip"}`))
	}))

	_, err := client.CreateOrder(context.Background(), 42, false, OrderRequest{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeVendor {
		t.Fatalf("expected vendor error, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("unexpected details type %T", typed.Details())
	}
	if details["vendor"] == nil {
		t.Fatal("expected raw vendor payload in details")
	}
}

func TestTransportErrorMapsToDependency(t *testing.T) {
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := client.CatalogProducts(context.Background())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
