package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/pwproductions/storefront-backend/api/responses"
	"github.com/pwproductions/storefront-backend/pkg/config"
	pkgerrors "github.com/pwproductions/storefront-backend/pkg/errors"
	"github.com/pwproductions/storefront-backend/pkg/logger"
)

const readyTimeout = 5 * time.Second

// Pinger is the dependency health surface checked by readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the cart store and the fulfillment vendor, reporting
// every failing dependency rather than stopping at the first.
func HealthReady(cfg *config.Config, logg *logger.Logger, redisP, vendorP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		var combined error
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				combined = multierr.Append(combined, fmt.Errorf("redis: %w", err))
			}
		}
		if vendorP != nil {
			if err := vendorP.Ping(ctx); err != nil {
				combined = multierr.Append(combined, fmt.Errorf("printful: %w", err))
			}
		}

		if combined != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "dependencies not ready"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
