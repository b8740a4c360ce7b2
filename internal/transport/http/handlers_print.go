package httptransport

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/umarkabirdananini/portal/internal/handoff"
	"github.com/umarkabirdananini/portal/internal/platform/middleware"
	"github.com/umarkabirdananini/portal/internal/telemetry"
	"github.com/umarkabirdananini/portal/pkg/platform/sentinel"
)

//go:embed templates/print.html.tmpl
var printFS embed.FS

var printTmpl = template.Must(template.ParseFS(printFS, "templates/print.html.tmpl"))

type preparePrintRequest struct {
	Reference string `json:"reference"`
}

type preparePrintResponse struct {
	Token    string `json:"token"`
	PrintURL string `json:"printUrl"`
}

// handlePreparePrint stages a print: resolves the reference, stores the
// handoff payload under a fresh token, and fires the usage beacon. The
// beacon is issued before the response and never awaited.
func (h *Handler) handlePreparePrint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req preparePrintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body must be JSON with a reference field")
		return
	}

	sel, err := h.slips.Lookup(ctx, req.Reference)
	switch {
	case errors.Is(err, sentinel.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "records_unavailable",
			"The master list could not be loaded. Please contact support.")
		return
	case errors.Is(err, sentinel.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_selected", "no record matches this reference")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal", "lookup failed")
		return
	}

	h.beacon.Emit(telemetry.ActionGenerated,
		sel.Slip.Reference, sel.Slip.Name, sel.Slip.Serial,
		r.Referer(), r.UserAgent())

	token := uuid.NewString()
	payload := handoff.Payload{
		SlipHTML:  sel.Slip.HTML,
		Reference: sel.Slip.Reference,
		Name:      sel.Slip.Name,
		Serial:    sel.Slip.Serial,
	}
	if err := h.handoff.Save(ctx, token, payload); err != nil {
		h.logger.ErrorContext(ctx, "handoff save failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		writeError(w, http.StatusInternalServerError, "internal", "could not stage print view")
		return
	}

	writeJSON(w, http.StatusOK, preparePrintResponse{
		Token:    token,
		PrintURL: "/print/" + token,
	})
}

// printViewData is interpolated into the print template. SlipHTML is markup
// this service rendered and escaped itself, so it is re-embedded verbatim.
type printViewData struct {
	SlipHTML  template.HTML
	Reference string
	Name      string
	Serial    string
	SettleMs  int64
}

// handlePrintView reproduces the slip for the isolated print context. It
// reads the four staged fields and interpolates them; no lookup, no
// re-render. The settle delay runs before the print affordance fires so the
// beacon transmission can begin.
func (h *Handler) handlePrintView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := chi.URLParam(r, "token")

	payload, err := h.handoff.Load(ctx, token)
	if errors.Is(err, sentinel.ErrNotFound) {
		http.Error(w, "print session not found or expired", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "handoff load failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		http.Error(w, "could not load print view", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = printTmpl.Execute(w, printViewData{
		SlipHTML:  template.HTML(payload.SlipHTML),
		Reference: payload.Reference,
		Name:      payload.Name,
		Serial:    payload.Serial,
		SettleMs:  h.settle.Milliseconds(),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "print view render failed", "error", err.Error())
	}
}
