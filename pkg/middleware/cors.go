package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows the dashboard API to be called from the configured origins.
// A "*" entry opens the API to any origin without credentials.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	wildcard := false
	for _, origin := range allowedOrigins {
		if origin == "*" {
			wildcard = true
		}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: !wildcard,
		MaxAge:           300,
	})

	return c.Handler
}
