package printful

import (
	"encoding/json"
	"fmt"
	"net/http"

	pkgerrors "github.com/pwproductions/storefront-backend/pkg/errors"
)

const fallbackMessage = "Unknown error"

// vendorErrorBody probes the shapes the vendor uses for failures. The
// message priority is: string result, nested error message, top-level
// error string, then the fallback.
type vendorErrorBody struct {
	Code   int             `json:"code"`
	Result json.RawMessage `json:"result"`
	Error  json.RawMessage `json:"error"`
}

type nestedError struct {
	Message string `json:"message"`
	Reason  string `json:"reason"`
}

func vendorMessage(raw []byte) string {
	var body vendorErrorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return fallbackMessage
	}

	var resultMsg string
	if len(body.Result) > 0 && json.Unmarshal(body.Result, &resultMsg) == nil && resultMsg != "" {
		return resultMsg
	}

	if len(body.Error) > 0 {
		var nested nestedError
		if json.Unmarshal(body.Error, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
		var plain string
		if json.Unmarshal(body.Error, &plain) == nil && plain != "" {
			return plain
		}
	}

	return fallbackMessage
}

// mapVendorError turns a non-2xx vendor response into a tagged error. The
// vendor's HTTP status propagates verbatim and the raw payload rides along
// as details for diagnostics.
func mapVendorError(op string, status int, raw []byte) error {
	code := pkgerrors.CodeVendor
	if status == http.StatusNotFound {
		code = pkgerrors.CodeNotFound
	}

	var details any
	if err := json.Unmarshal(raw, &details); err != nil {
		details = string(raw)
	}

	return pkgerrors.New(code, vendorMessage(raw)).
		WithHTTPStatus(status).
		WithDetails(map[string]any{
			"operation": fmt.Sprintf("printful %s", op),
			"vendor":    details,
		})
}
