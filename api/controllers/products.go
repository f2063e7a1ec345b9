package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pwproductions/storefront-backend/api/responses"
	"github.com/pwproductions/storefront-backend/api/validators"
	"github.com/pwproductions/storefront-backend/internal/gateway"
	pkgerrors "github.com/pwproductions/storefront-backend/pkg/errors"
	"github.com/pwproductions/storefront-backend/pkg/logger"
)

const maxProductLimit = 100

// PrintfulProducts proxies the resolved client's product listing. The
// optional ?limit= caps the result list.
func PrintfulProducts(svc gateway.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gateway unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, maxProductLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		clientKey := clientKeyFromRequest(r)
		if logg != nil && clientKey != "" {
			ctx = logg.WithClientKey(ctx, clientKey)
		}

		resp, err := svc.ListProducts(ctx, clientKey, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteVendor(w, resp.Envelope, &resp.Client)
	}
}

// PrintfulProduct proxies one product with its variants.
func PrintfulProduct(svc gateway.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gateway unavailable"))
			return
		}

		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		ctx := r.Context()
		clientKey := clientKeyFromRequest(r)
		if logg != nil && clientKey != "" {
			ctx = logg.WithClientKey(ctx, clientKey)
		}

		resp, err := svc.GetProduct(ctx, clientKey, productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteVendor(w, resp.Envelope, &resp.Client)
	}
}

func clientKeyFromRequest(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("client"))
}
