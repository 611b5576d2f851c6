package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/cors"
)

// CORS builds the cross-origin policy from PI_CORS_ORIGINS, a comma-separated
// origin list. Unset means wide open, which only makes sense in development.
func CORS() func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}
	if raw := os.Getenv("PI_CORS_ORIGINS"); raw != "" {
		origins := []string{}
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			options.AllowedOrigins = origins
			options.AllowCredentials = true
		}
	}
	return cors.Handler(options)
}
