package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pwproductions/storefront-backend/api/responses"
	"github.com/pwproductions/storefront-backend/internal/gateway"
	pkgerrors "github.com/pwproductions/storefront-backend/pkg/errors"
	"github.com/pwproductions/storefront-backend/pkg/logger"
)

// PrintfulCatalog proxies the public print catalog. No client scoping.
func PrintfulCatalog(svc gateway.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gateway unavailable"))
			return
		}

		env, err := svc.ListCatalog(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteVendor(w, env, nil)
	}
}

// PrintfulCatalogItem proxies one public catalog item.
func PrintfulCatalogItem(svc gateway.Service, logg *logger.Logger) http.HandlerFunc {
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

		env, err := svc.GetCatalogItem(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteVendor(w, env, nil)
	}
}
