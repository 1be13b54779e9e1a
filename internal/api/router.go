// Package api is the reference inventory HTTP API: bottles, mixers, fresh
// items and favorites backed by SQLite, protected by signed API keys.
package api

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultAllowedOrigins are the development front-end origins.
var DefaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
	"http://127.0.0.1:5173",
}

// Options configures NewRouter.
type Options struct {
	// Open disables API key authentication.
	Open bool
	// AllowedOrigins defaults to DefaultAllowedOrigins.
	AllowedOrigins []string
	// Registry receives the HTTP metrics and is served at /metrics. A fresh
	// registry is used when nil.
	Registry *prometheus.Registry
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, secret string, opts Options) http.Handler {
	mux := http.NewServeMux()

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	origins := opts.AllowedOrigins
	if origins == nil {
		origins = DefaultAllowedOrigins
	}

	protect := APIKeyMiddleware(secret, db)
	if opts.Open {
		protect = func(next http.Handler) http.Handler { return next }
	}

	bottles := NewBottlesHandler(db)
	mixers := NewMixersHandler(db)
	fresh := NewFreshHandler(db)
	favorites := &FavoritesHandler{DB: db}

	// Public.
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	// Bottles.
	mux.Handle("GET /bottles", protect(http.HandlerFunc(bottles.List)))
	mux.Handle("POST /bottles", protect(http.HandlerFunc(bottles.Create)))
	mux.Handle("GET /bottles/{id}", protect(http.HandlerFunc(bottles.Get)))
	mux.Handle("PUT /bottles/{id}", protect(http.HandlerFunc(bottles.Update)))
	mux.Handle("DELETE /bottles/{id}", protect(http.HandlerFunc(bottles.Delete)))

	// Mixers.
	mux.Handle("GET /mixers", protect(http.HandlerFunc(mixers.List)))
	mux.Handle("POST /mixers", protect(http.HandlerFunc(mixers.Create)))
	mux.Handle("GET /mixers/{id}", protect(http.HandlerFunc(mixers.Get)))
	mux.Handle("PUT /mixers/{id}", protect(http.HandlerFunc(mixers.Update)))
	mux.Handle("DELETE /mixers/{id}", protect(http.HandlerFunc(mixers.Delete)))

	// Fresh ingredients.
	mux.Handle("GET /fresh", protect(http.HandlerFunc(fresh.List)))
	mux.Handle("POST /fresh", protect(http.HandlerFunc(fresh.Create)))
	mux.Handle("GET /fresh/{id}", protect(http.HandlerFunc(fresh.Get)))
	mux.Handle("PUT /fresh/{id}", protect(http.HandlerFunc(fresh.Update)))
	mux.Handle("DELETE /fresh/{id}", protect(http.HandlerFunc(fresh.Delete)))

	// Favorites.
	mux.Handle("GET /favorites", protect(http.HandlerFunc(favorites.List)))
	mux.Handle("POST /favorites", protect(http.HandlerFunc(favorites.Create)))
	mux.Handle("DELETE /favorites", protect(http.HandlerFunc(favorites.Delete)))

	var h http.Handler = mux
	h = CORSMiddleware(origins)(h)
	h = SecurityHeadersMiddleware(h)
	h = RecoveryMiddleware(h)
	h = LoggingMiddleware(NewMetrics(reg))(h)
	return h
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
