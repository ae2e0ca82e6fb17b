package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/fptthinhgreenwich/qlkhohang/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	store  Pinger
	logger *zap.Logger
	now    func() time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(store Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{store: store, logger: logger, now: time.Now}
}

// RegisterRoutes registers the health routes
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Get("/health/ready", h.Ready)
}

// Health reports that the process is serving requests
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.response("ok"))
}

// Ready reports whether the item store answers a ping
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("Item store is unreachable", zap.Error(err))
		middleware.RespondWithJSON(w, http.StatusServiceUnavailable, h.response("unavailable"))
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, h.response("ok"))
}

func (h *HealthHandler) response(status string) HealthResponse {
	return HealthResponse{
		Status:    status,
		Timestamp: h.now().UTC().Format(time.RFC3339Nano),
	}
}
