package responses

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pwproductions/storefront-backend/internal/tenants"
	pkgerrors "github.com/pwproductions/storefront-backend/pkg/errors"
	"github.com/pwproductions/storefront-backend/pkg/printful"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	return body
}

func TestWriteSuccessWrapsData(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	data, _ := body["data"].(map[string]any)
	if data["status"] != "ok" {
		t.Fatalf("expected wrapped data, got %v", body)
	}
}

func TestWriteVendorMergesClientBlock(t *testing.T) {
	t.Parallel()

	env := printful.Envelope{
		"code":   json.RawMessage(`200`),
		"result": json.RawMessage(`[{"id":1}]`),
	}
	client := tenants.ClientInfo{Key: "fire-conversation", Name: "The Fire Conversation Podcast"}

	rec := httptest.NewRecorder()
	WriteVendor(rec, env, &client)

	body := decodeBody(t, rec)
	if body["code"] != float64(200) {
		t.Fatalf("vendor fields must pass through, got %v", body)
	}
	block, _ := body["client"].(map[string]any)
	if block["key"] != "fire-conversation" {
		t.Fatalf("expected client block merged in, got %v", body)
	}
}

func TestWriteVendorWithoutClient(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteVendor(rec, printful.Envelope{"result": json.RawMessage(`[]`)}, nil)

	body := decodeBody(t, rec)
	if _, present := body["client"]; present {
		t.Fatal("catalog responses must not carry a client block")
	}
}

func TestWriteErrorUsesStatusOverride(t *testing.T) {
	t.Parallel()

	err := pkgerrors.New(pkgerrors.CodeVendor, "Missing recipient zip").WithHTTPStatus(400)

	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, err)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected vendor status propagated, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	errBlock, _ := body["error"].(map[string]any)
	if errBlock["message"] != "Missing recipient zip" {
		t.Fatalf("expected specific vendor message, got %v", errBlock)
	}
}

func TestWriteErrorLiftsAvailableClients(t *testing.T) {
	t.Parallel()

	err := pkgerrors.New(pkgerrors.CodeClientUnavailable, `client "nope" not found or store not configured`).
		WithDetails(map[string]any{"available_clients": []string{"fire-conversation"}})

	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, err)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	keys, _ := body["available_clients"].([]any)
	if len(keys) != 1 || keys[0] != "fire-conversation" {
		t.Fatalf("expected available clients lifted to the top level, got %v", body)
	}
}

func TestWriteErrorMasksInternalMessages(t *testing.T) {
	t.Parallel()

	err := pkgerrors.New(pkgerrors.CodeInternal, "redis exploded at 10.0.0.5")

	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, err)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	errBlock, _ := body["error"].(map[string]any)
	if errBlock["message"] != "internal server error" {
		t.Fatalf("internal details must not leak, got %v", errBlock)
	}
}

func TestWriteErrorWrapsUntypedErrors(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, context.DeadlineExceeded)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for untyped errors, got %d", rec.Code)
	}
}
