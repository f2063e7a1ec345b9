package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/pwproductions/storefront-backend/api/responses"
	"github.com/pwproductions/storefront-backend/api/validators"
	cartsvc "github.com/pwproductions/storefront-backend/internal/cart"
	checkoutsvc "github.com/pwproductions/storefront-backend/internal/checkout"
	pkgerrors "github.com/pwproductions/storefront-backend/pkg/errors"
	"github.com/pwproductions/storefront-backend/pkg/logger"
	"github.com/pwproductions/storefront-backend/pkg/printful"
)

// checkoutLockTTL bounds how long a stuck submission can block a session.
const checkoutLockTTL = 30 * time.Second

// CheckoutLocker guards against concurrent submissions for one session.
type CheckoutLocker interface {
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	CheckoutLockKey(sessionID string) string
}

type checkoutRequest struct {
	Recipient printful.Recipient `json:"recipient"`
	Shipping  string             `json:"shipping,omitempty"`
	Client    string             `json:"client,omitempty"`
	Confirm   bool               `json:"confirm,omitempty"`
}

type checkoutResponse struct {
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
}

// Checkout submits the session's cart as a vendor order. One submission
// per session is in flight at a time, enforced with a short-lived lock.
// On success the persisted cart is emptied.
func Checkout(cartService cartsvc.Service, submitter checkoutsvc.Submitter, locker CheckoutLocker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cartService == nil || submitter == nil || locker == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}

		sessionID, err := sessionIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil && payload.Client != "" {
			ctx = logg.WithClientKey(ctx, payload.Client)
		}

		lockKey := locker.CheckoutLockKey(sessionID)
		won, err := locker.SetNX(ctx, lockKey, "1", checkoutLockTTL)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquiring checkout lock"))
			return
		}
		if !won {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeConflict, "a checkout is already in progress for this session"))
			return
		}
		defer locker.Del(ctx, lockKey)

		cart, err := cartService.Get(ctx, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		workflow := checkoutsvc.NewWorkflow(cart)
		if err := workflow.OpenForm(); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		workflow.SetRecipient(payload.Recipient)
		workflow.SetShipping(payload.Shipping)

		if err := workflow.Submit(ctx, submitter, payload.Client, payload.Confirm); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		// the workflow cleared its in-memory copy; persist the empty cart
		if _, err := cartService.Clear(ctx, sessionID); err != nil && logg != nil {
			logg.Error(ctx, "clearing cart after checkout", err)
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{
			OrderID: workflow.OrderID(),
			Status:  string(workflow.State()),
		})
	}
}
