package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pwproductions/storefront-backend/internal/cart"
	pkgerrors "github.com/pwproductions/storefront-backend/pkg/errors"
	"github.com/pwproductions/storefront-backend/pkg/printful"
)

// State is the checkout workflow phase.
type State string

const (
	StateBrowsing   State = "browsing"
	StateFormOpen   State = "form_open"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

const defaultShipping = "STANDARD"

// requiredRecipientFields are presence-checked before submission.
var requiredRecipientFields = []struct {
	name  string
	value func(printful.Recipient) string
}{
	{"name", func(r printful.Recipient) string { return r.Name }},
	{"address1", func(r printful.Recipient) string { return r.Address1 }},
	{"city", func(r printful.Recipient) string { return r.City }},
	{"state_code", func(r printful.Recipient) string { return r.StateCode }},
	{"zip", func(r printful.Recipient) string { return r.Zip }},
	{"phone", func(r printful.Recipient) string { return r.Phone }},
	{"email", func(r printful.Recipient) string { return r.Email }},
}

var countryNames = map[string]string{
	"US": "United States",
	"CA": "Canada",
	"GB": "United Kingdom",
	"AU": "Australia",
}

// MissingRecipientFields lists required shipping fields that are blank.
func MissingRecipientFields(r printful.Recipient) []string {
	var missing []string
	for _, field := range requiredRecipientFields {
		if strings.TrimSpace(field.value(r)) == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}

// Submitter forwards a finished order to the fulfillment vendor.
type Submitter interface {
	CreateOrder(ctx context.Context, clientKey string, confirm bool, order printful.OrderRequest) (printful.Envelope, error)
}

// Workflow drives a single checkout over the session's cart:
// browsing, form open, submitting, then succeeded or failed. Only one
// submission is in flight at a time.
type Workflow struct {
	state     State
	cart      *cart.Cart
	recipient printful.Recipient
	shipping  string
	orderID   int64
	failure   string
}

// NewWorkflow starts a workflow over the given cart in the browsing state.
func NewWorkflow(c *cart.Cart) *Workflow {
	return &Workflow{state: StateBrowsing, cart: c, shipping: defaultShipping}
}

func (w *Workflow) State() State { return w.state }

// OrderID returns the vendor-assigned order id after a successful
// submission.
func (w *Workflow) OrderID() int64 { return w.orderID }

// FailureMessage returns the surfaced message after a failed submission.
func (w *Workflow) FailureMessage() string { return w.failure }

// OpenForm moves to the shipping form. The cart must not be empty.
func (w *Workflow) OpenForm() error {
	if w.cart == nil || w.cart.IsEmpty() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	w.state = StateFormOpen
	return nil
}

// SetRecipient records the shipping destination while the form is open.
func (w *Workflow) SetRecipient(r printful.Recipient) {
	w.recipient = r
}

// SetShipping overrides the shipping method. Blank keeps the default.
func (w *Workflow) SetShipping(method string) {
	if strings.TrimSpace(method) != "" {
		w.shipping = method
	}
}

// BuildOrder assembles a fresh order payload from the cart. Incomplete
// shipping information keeps the form open and names the blank fields;
// no payload is constructed in that case.
func (w *Workflow) BuildOrder() (printful.OrderRequest, error) {
	if w.state != StateFormOpen {
		return printful.OrderRequest{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("cannot submit from state %q", w.state))
	}

	if missing := MissingRecipientFields(w.recipient); len(missing) > 0 {
		return printful.OrderRequest{}, pkgerrors.New(pkgerrors.CodeValidation, "incomplete shipping information").
			WithDetails(map[string]any{"missing_fields": missing})
	}

	items := make([]printful.OrderItem, 0, len(w.cart.Items))
	for _, line := range w.cart.Items {
		if line.Variant == nil {
			return printful.OrderRequest{}, pkgerrors.New(pkgerrors.CodeInvalidOrder, fmt.Sprintf("line item %q has no variant selected", line.Product.Name))
		}
		items = append(items, printful.OrderItem{
			SyncVariantID: line.Variant.ID,
			Quantity:      line.Quantity,
			RetailPrice:   line.UnitPrice(),
		})
	}
	if len(items) == 0 {
		return printful.OrderRequest{}, pkgerrors.New(pkgerrors.CodeInvalidOrder, "order must include at least one item")
	}

	recipient := w.recipient
	recipient.StateCode = strings.ToUpper(strings.TrimSpace(recipient.StateCode))
	recipient.CountryCode = strings.ToUpper(strings.TrimSpace(recipient.CountryCode))
	if recipient.CountryCode == "" {
		recipient.CountryCode = "US"
	}
	if recipient.CountryName == "" {
		recipient.CountryName = countryNames[recipient.CountryCode]
	}

	return printful.OrderRequest{
		ExternalID: newExternalID(),
		Shipping:   w.shipping,
		Recipient:  &recipient,
		Items:      items,
	}, nil
}

// Submit validates, forwards the order through the gateway, and settles
// into succeeded or failed. On success the cart is cleared and the
// vendor order id recorded; on failure the form state is preserved for
// retry.
func (w *Workflow) Submit(ctx context.Context, submitter Submitter, clientKey string, confirm bool) error {
	if w.state == StateSubmitting {
		return pkgerrors.New(pkgerrors.CodeConflict, "a submission is already in flight")
	}

	order, err := w.BuildOrder()
	if err != nil {
		return err
	}

	w.state = StateSubmitting
	env, err := submitter.CreateOrder(ctx, clientKey, confirm, order)
	if err != nil {
		w.state = StateFailed
		w.failure = FailureMessage(err)
		return err
	}

	summary, err := env.OrderSummary()
	if err != nil {
		w.state = StateFailed
		w.failure = FailureMessage(err)
		return pkgerrors.Wrap(pkgerrors.CodeVendor, err, "order created but response unreadable")
	}

	w.cart.Clear()
	w.orderID = summary.ID
	w.state = StateSucceeded
	return nil
}

// Acknowledge dismisses the terminal state: success resets to browsing
// with a fresh form, failure returns to the form with its contents
// preserved.
func (w *Workflow) Acknowledge() {
	switch w.state {
	case StateSucceeded:
		w.recipient = printful.Recipient{}
		w.shipping = defaultShipping
		w.failure = ""
		w.state = StateBrowsing
	case StateFailed:
		w.failure = ""
		w.state = StateFormOpen
	}
}

// FailureMessage picks the most specific message available from an
// error. The vendor adapter already normalizes vendor payloads into the
// tagged error's message, so this reads the typed message first and
// falls back to a generic label.
func FailureMessage(err error) string {
	if err == nil {
		return ""
	}
	if typed := pkgerrors.As(err); typed != nil && typed.Message() != "" {
		return typed.Message()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Unknown error"
}

func newExternalID() string {
	return "order-" + uuid.NewString()
}
