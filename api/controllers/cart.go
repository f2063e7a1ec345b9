package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/pwproductions/storefront-backend/api/middleware"
	"github.com/pwproductions/storefront-backend/api/responses"
	"github.com/pwproductions/storefront-backend/api/validators"
	cartsvc "github.com/pwproductions/storefront-backend/internal/cart"
	pkgerrors "github.com/pwproductions/storefront-backend/pkg/errors"
	"github.com/pwproductions/storefront-backend/pkg/logger"
)

type cartProductPayload struct {
	ID          int64           `json:"id" validate:"required,min=1"`
	Name        string          `json:"name"`
	Thumbnail   string          `json:"thumbnail_url,omitempty"`
	RetailPrice decimal.Decimal `json:"retail_price"`
}

type cartVariantPayload struct {
	ID          int64           `json:"id" validate:"required,min=1"`
	Name        string          `json:"name"`
	RetailPrice decimal.Decimal `json:"retail_price"`
	Image       string          `json:"image,omitempty"`
}

type cartAddRequest struct {
	Product  cartProductPayload  `json:"product"`
	Variant  *cartVariantPayload `json:"variant,omitempty"`
	Quantity int                 `json:"quantity"`
}

type cartUpdateRequest struct {
	ProductID int64 `json:"product_id" validate:"required,min=1"`
	VariantID int64 `json:"variant_id,omitempty"`
	Quantity  int   `json:"quantity"`
}

type cartRemoveRequest struct {
	ProductID int64 `json:"product_id" validate:"required,min=1"`
	VariantID int64 `json:"variant_id,omitempty"`
}

type cartResponse struct {
	Items []cartsvc.LineItem `json:"items"`
	Open  bool               `json:"open"`
	Total decimal.Decimal    `json:"total"`
	Count int                `json:"count"`
}

func newCartResponse(c *cartsvc.Cart) cartResponse {
	items := c.Items
	if items == nil {
		items = []cartsvc.LineItem{}
	}
	return cartResponse{
		Items: items,
		Open:  c.Open,
		Total: c.Total(),
		Count: c.Count(),
	}
}

func sessionIDFromRequest(r *http.Request) (string, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return sessionID, nil
}

// CartFetch returns the session's cart, empty for fresh sessions.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := sessionIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(cart))
	}
}

// CartAddItem adds or merges a line item into the session's cart.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := sessionIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartAddRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product := cartsvc.Product{
			ID:          payload.Product.ID,
			Name:        payload.Product.Name,
			Thumbnail:   payload.Product.Thumbnail,
			RetailPrice: payload.Product.RetailPrice,
		}
		var variant *cartsvc.Variant
		if payload.Variant != nil {
			variant = &cartsvc.Variant{
				ID:          payload.Variant.ID,
				Name:        payload.Variant.Name,
				RetailPrice: payload.Variant.RetailPrice,
				Image:       payload.Variant.Image,
			}
		}

		cart, err := svc.Add(r.Context(), sessionID, product, payload.Quantity, variant)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(cart))
	}
}

// CartUpdateItem replaces a line item's quantity; zero or below removes it.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := sessionIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.UpdateQuantity(r.Context(), sessionID, payload.ProductID, payload.VariantID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(cart))
	}
}

// CartRemoveItem deletes a line item. Absent items are a no-op.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := sessionIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartRemoveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.Remove(r.Context(), sessionID, payload.ProductID, payload.VariantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(cart))
	}
}

// CartClear empties the session's cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := sessionIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.Clear(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(cart))
	}
}
