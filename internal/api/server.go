package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"
)

// NewServer creates an HTTP server with all routes configured. When apiKey is
// non-empty, the query endpoint requires a bearer token.
func NewServer(port string, handler *Handler, apiKey string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handler.Health)
	mux.HandleFunc("GET /api/v1/reports/{account}/latest", handler.GetLatestReport)
	mux.HandleFunc("GET /api/v1/reports/{account}", handler.ListReports)

	query := http.HandlerFunc(handler.GatewayBalances)
	if apiKey != "" {
		mux.Handle("POST /api/v1/gateway_balances", requireAuth(apiKey, query))
	} else {
		mux.Handle("POST /api/v1/gateway_balances", query)
	}

	return &http.Server{
		Addr:         ":" + port,
		Handler:      withRequestID(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}
