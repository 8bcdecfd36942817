package transport

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig configures cross-origin behavior for the HTTP transport.
type CORSConfig struct {
	// AllowOrigins lists permitted origins. "*" allows all.
	AllowOrigins []string

	// AllowMethods lists permitted HTTP methods.
	// Default: GET, POST, OPTIONS.
	AllowMethods []string

	// AllowHeaders lists permitted request headers.
	// Default: Content-Type, Authorization, X-Request-ID.
	AllowHeaders []string

	// ExposeHeaders lists headers the browser may read.
	ExposeHeaders []string

	// AllowCredentials permits cookies and authorization headers.
	AllowCredentials bool

	// MaxAge is how long preflight results may be cached, in seconds.
	// Default: 86400.
	MaxAge int
}

// DefaultCORSConfig returns a permissive configuration suitable for
// development.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		MaxAge:       86400,
	}
}

// CORSHandler wraps an http.Handler with CORS support.
func CORSHandler(config CORSConfig, next http.Handler) http.Handler {
	if len(config.AllowMethods) == 0 {
		config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(config.AllowHeaders) == 0 {
		config.AllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	if config.MaxAge == 0 {
		config.MaxAge = 86400
	}

	allowAllOrigins := len(config.AllowOrigins) == 1 && config.AllowOrigins[0] == "*"
	allowedOrigins := make(map[string]bool)
	for _, origin := range config.AllowOrigins {
		allowedOrigins[origin] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		var allowOrigin string
		switch {
		case allowAllOrigins:
			allowOrigin = "*"
		case origin != "" && allowedOrigins[origin]:
			allowOrigin = origin
		}

		if allowOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			if config.AllowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(config.AllowMethods, ", "))
				w.Header().Set("Access-Control-Allow-Headers", strings.Join(config.AllowHeaders, ", "))
				if config.MaxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if len(config.ExposeHeaders) > 0 {
				w.Header().Set("Access-Control-Expose-Headers", strings.Join(config.ExposeHeaders, ", "))
			}
		}

		next.ServeHTTP(w, r)
	})
}

// WithCORS configures CORS for the HTTP transport.
func WithCORS(config CORSConfig) HTTPOption {
	return func(h *HTTP) {
		h.corsConfig = &config
	}
}

// WithDefaultCORS enables CORS with permissive defaults.
func WithDefaultCORS() HTTPOption {
	config := DefaultCORSConfig()
	return func(h *HTTP) {
		h.corsConfig = &config
	}
}
