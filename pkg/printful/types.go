package printful

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
)

// Envelope is the vendor response body, kept as raw fields so unknown
// vendor data passes through untouched.
type Envelope map[string]json.RawMessage

// Result returns the envelope's result field, if present.
func (e Envelope) Result() (json.RawMessage, bool) {
	raw, ok := e["result"]
	return raw, ok
}

// OrderSummary is the subset of the vendor's order representation the
// checkout workflow needs.
type OrderSummary struct {
	ID         int64  `json:"id"`
	ExternalID string `json:"external_id"`
	Status     string `json:"status"`
}

// OrderSummary decodes the created-order result out of the envelope.
func (e Envelope) OrderSummary() (OrderSummary, error) {
	raw, ok := e.Result()
	if !ok {
		return OrderSummary{}, fmt.Errorf("vendor response has no result field")
	}
	var summary OrderSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return OrderSummary{}, fmt.Errorf("decoding order result: %w", err)
	}
	return summary, nil
}

// OrderRequest is the order-creation payload forwarded to the vendor.
type OrderRequest struct {
	ExternalID string      `json:"external_id,omitempty"`
	Shipping   string      `json:"shipping,omitempty"`
	Recipient  *Recipient  `json:"recipient"`
	Items      []OrderItem `json:"items"`
}

// Recipient carries the shipping destination. Field names follow the
// vendor's wire format.
type Recipient struct {
	Name        string `json:"name"`
	Company     string `json:"company,omitempty"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city"`
	StateCode   string `json:"state_code"`
	StateName   string `json:"state_name,omitempty"`
	CountryCode string `json:"country_code"`
	CountryName string `json:"country_name,omitempty"`
	Zip         string `json:"zip"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	TaxNumber   string `json:"tax_number,omitempty"`
}

// OrderItem references a sync variant with its quantity and retail price.
type OrderItem struct {
	SyncVariantID int64           `json:"sync_variant_id"`
	Quantity      int             `json:"quantity"`
	RetailPrice   decimal.Decimal `json:"retail_price"`
}

// OrderListParams are the optional filters forwarded unchanged to the
// vendor's order listing endpoint.
type OrderListParams struct {
	Status string
	Limit  int
	Offset int
}

func (p OrderListParams) query() url.Values {
	values := url.Values{}
	if p.Status != "" {
		values.Set("status", p.Status)
	}
	if p.Limit > 0 {
		values.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		values.Set("offset", strconv.Itoa(p.Offset))
	}
	return values
}
