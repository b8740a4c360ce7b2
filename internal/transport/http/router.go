package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/umarkabirdananini/portal/internal/export"
	"github.com/umarkabirdananini/portal/internal/handoff"
	"github.com/umarkabirdananini/portal/internal/platform/middleware"
	"github.com/umarkabirdananini/portal/internal/slip"
	"github.com/umarkabirdananini/portal/internal/telemetry"
)

// Handler is the thin HTTP layer over the slip pipeline. It delegates to the
// domain services and keeps transport concerns (decoding, status mapping,
// headers) to itself.
type Handler struct {
	logger  *slog.Logger
	slips   *slip.Service
	exports *export.Service
	beacon  *telemetry.Beacon
	handoff handoff.Store
	settle  time.Duration
}

// NewHandler wires the handler's dependencies.
func NewHandler(
	slips *slip.Service,
	exports *export.Service,
	beacon *telemetry.Beacon,
	handoffStore handoff.Store,
	logger *slog.Logger,
	settleDelay time.Duration,
) *Handler {
	return &Handler{
		logger:  logger,
		slips:   slips,
		exports: exports,
		beacon:  beacon,
		handoff: handoffStore,
		settle:  settleDelay,
	}
}

// NewRouter wires all public endpoints behind the standard middleware chain.
func NewRouter(h *Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/lookup", h.handleLookup)
		r.Post("/slips/print", h.handlePreparePrint)
		r.Post("/slips/export", h.handleExport)
	})
	r.Get("/print/{token}", h.handlePrintView)

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if h.slips.Degraded() {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  status,
		"records": h.slips.Records(),
	})
}
