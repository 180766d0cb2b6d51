// Package server provides the HTTP trigger surface: a single GET route that
// runs the clip chain and reports the result as plain text.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/maauso/clip-vault/internal/clipsync"
)

// Runner runs the clip chain once.
type Runner interface {
	Run(ctx context.Context, trigger clipsync.Trigger) (*clipsync.Outcome, error)
}

// Handlers contains the HTTP handlers for the trigger surface.
type Handlers struct {
	runner Runner
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(runner Runner, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		runner: runner,
		logger: logger,
	}
}

// FetchClip handles GET / and GET /fetch-clip requests.
func (h *Handlers) FetchClip(w http.ResponseWriter, r *http.Request) {
	out, err := h.runner.Run(r.Context(), clipsync.TriggerHTTP)
	if err != nil {
		h.logger.Error("triggered run failed",
			slog.String("correlation_id", CorrelationID(r.Context())),
			slog.String("error", err.Error()),
		)
		writeText(w, http.StatusInternalServerError, "error: "+err.Error())
		return
	}

	writeText(w, http.StatusOK, summary(out))
}

// summary renders an outcome as a one-line status message.
func summary(out *clipsync.Outcome) string {
	if out == nil || out.Status == clipsync.StatusNoClips {
		return "no clips found"
	}

	parts := make([]string, 0, len(out.Stored))
	for _, s := range out.Stored {
		p := "stored " + s.Key
		if s.Evicted != "" {
			p += ", evicted " + s.Evicted
		}
		parts = append(parts, p)
	}
	return fmt.Sprintf("run %s complete: %s", out.RunID, strings.Join(parts, "; "))
}

// writeText writes a plain-text response.
func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := fmt.Fprintln(w, body); err != nil {
		slog.Error("failed to write response", slog.String("error", err.Error()))
	}
}
