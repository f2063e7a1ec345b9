package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/pwproductions/storefront-backend/pkg/config"
)

// CORS returns middleware that applies the storefront's allowed origin
// policy. Origins come from configuration so new frontend deployments
// only need an env change.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Session-Id", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Session-Id", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
