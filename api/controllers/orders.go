package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pwproductions/storefront-backend/api/responses"
	"github.com/pwproductions/storefront-backend/api/validators"
	"github.com/pwproductions/storefront-backend/internal/gateway"
	pkgerrors "github.com/pwproductions/storefront-backend/pkg/errors"
	"github.com/pwproductions/storefront-backend/pkg/logger"
	"github.com/pwproductions/storefront-backend/pkg/printful"
)

const maxOrderPageSize = 100

// PrintfulCreateOrder forwards an order to the vendor for the resolved
// client. ?confirm=true submits it straight to production.
func PrintfulCreateOrder(svc gateway.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gateway unavailable"))
			return
		}

		var order printful.OrderRequest
		if err := validators.DecodeJSONBody(r, &order); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		confirm, err := parseConfirm(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		clientKey := clientKeyFromRequest(r)
		if logg != nil && clientKey != "" {
			ctx = logg.WithClientKey(ctx, clientKey)
		}

		env, err := svc.CreateOrder(ctx, clientKey, confirm, order)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteVendor(w, env, nil)
	}
}

// PrintfulOrder proxies one order lookup by vendor or external id.
func PrintfulOrder(svc gateway.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gateway unavailable"))
			return
		}

		orderID := strings.TrimSpace(chi.URLParam(r, "orderId"))
		if orderID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id is required"))
			return
		}

		resp, err := svc.GetOrder(r.Context(), clientKeyFromRequest(r), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteVendor(w, resp.Envelope, &resp.Client)
	}
}

// PrintfulOrders proxies the order listing with its optional filters.
func PrintfulOrders(svc gateway.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gateway unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, maxOrderPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 10000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := printful.OrderListParams{
			Status: strings.TrimSpace(r.URL.Query().Get("status")),
			Limit:  limit,
			Offset: offset,
		}

		resp, err := svc.ListOrders(r.Context(), clientKeyFromRequest(r), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteVendor(w, resp.Envelope, &resp.Client)
	}
}

func parseConfirm(r *http.Request) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("confirm"))
	if raw == "" {
		return false, nil
	}
	confirm, err := strconv.ParseBool(raw)
	if err != nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "confirm must be a boolean").WithDetails(map[string]any{"field": "confirm"})
	}
	return confirm, nil
}
