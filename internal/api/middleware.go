package api

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/liquorlocker/internal/auth"
	"github.com/erazemk/liquorlocker/internal/store"
)

// APIKeyHeader carries the API key on every protected request.
const APIKeyHeader = "X-API-Key"

// RequestIDHeader echoes the id assigned to each request.
const RequestIDHeader = "X-Request-ID"

type contextKey string

const (
	requestIDKey  contextKey = "request_id"
	requestLogKey contextKey = "request_log"
)

// requestLog collects attributes that inner handlers add to the request log
// line written by LoggingMiddleware.
type requestLog struct {
	keyID    string
	keyLabel string
}

// APIKeyMiddleware validates the X-API-Key header and rejects revoked keys.
func APIKeyMiddleware(secret string, db *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(APIKeyHeader)
			if key == "" {
				textError(w, http.StatusUnauthorized, "Invalid or missing API key")
				return
			}

			claims, err := auth.ValidateAPIKey(secret, key)
			if err != nil {
				slog.Warn("rejected api key", "remote", r.RemoteAddr, "error", err)
				textError(w, http.StatusUnauthorized, "Invalid or missing API key")
				return
			}

			revoked, err := store.IsKeyRevoked(r.Context(), db, claims.ID)
			if err != nil {
				slog.Error("checking key revocation", "error", err)
				textError(w, http.StatusInternalServerError, "Internal Server Error")
				return
			}
			if revoked {
				slog.Warn("rejected revoked api key", "remote", r.RemoteAddr, "jti", claims.ID)
				textError(w, http.StatusUnauthorized, "API key has been revoked")
				return
			}

			if rl, ok := r.Context().Value(requestLogKey).(*requestLog); ok {
				rl.keyID = claims.ID
				rl.keyLabel = claims.Label
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestID returns the id assigned by LoggingMiddleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// CORSMiddleware allows browser clients from the given origins. Requests
// without an Origin header are passed through.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				if !slices.Contains(allowedOrigins, origin) {
					slog.Warn("blocked request from unauthorized origin", "origin", origin)
					textError(w, http.StatusForbidden, "Unauthorized origin")
					return
				}
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+APIKeyHeader)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeadersMiddleware sets conservative browser security headers.
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// RecoveryMiddleware turns a handler panic into a 500.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				slog.Error("handler panic", "panic", v, "request_id", RequestID(r.Context()))
				textError(w, http.StatusInternalServerError, "Internal Server Error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware assigns a request id, logs each request and records it
// in metrics.
func LoggingMiddleware(metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			rl := &requestLog{}
			ctx := context.WithValue(r.Context(), requestIDKey, id)
			r = r.WithContext(context.WithValue(ctx, requestLogKey, rl))

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			// ServeMux records the matched pattern on the request it was given.
			metrics.Observe(r.Pattern, r.Method, rec.status, elapsed)
			attrs := []any{
				"method", r.Method,
				"path", r.URL.RequestURI(),
				"status", rec.status,
				"duration", elapsed.Round(time.Millisecond),
				"request_id", id,
			}
			if rl.keyID != "" {
				attrs = append(attrs, "key_id", rl.keyID, "key_label", rl.keyLabel)
			}
			slog.Info("request", attrs...)
		})
	}
}
