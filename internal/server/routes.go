package server

import (
	"log/slog"
	"net/http"
)

// NewRouter creates a new HTTP router with all routes configured.
// It uses Go 1.22+ ServeMux with method-based routing.
func NewRouter(h *Handlers, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	// "GET /{$}" matches only the root path, not every unmatched path.
	mux.HandleFunc("GET /{$}", h.FetchClip)
	mux.HandleFunc("GET /fetch-clip", h.FetchClip)

	// Apply middleware chain
	chain := ChainMiddleware(
		CorrelationMiddleware,
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
	)

	return chain(mux)
}
