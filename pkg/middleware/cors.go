package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS configures cross-origin access for the booking widget. An empty
// origin list allows any origin, which matches the widget being embedded
// on arbitrary property pages.
func CORS(allowOrigins []string) func(http.Handler) http.Handler {
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"*"}
	}

	c := cors.New(cors.Options{
		AllowedOrigins: allowOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Idempotency-Key"},
		MaxAge:         300,
	})

	return c.Handler
}
