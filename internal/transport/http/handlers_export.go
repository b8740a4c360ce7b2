package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/umarkabirdananini/portal/internal/export"
	"github.com/umarkabirdananini/portal/internal/platform/middleware"
	"github.com/umarkabirdananini/portal/internal/telemetry"
	"github.com/umarkabirdananini/portal/pkg/platform/sentinel"
)

type exportRequest struct {
	Reference string `json:"reference"`
}

// handleExport produces the multi-page PDF artifact for a reference. The
// usage beacon fires before the capture starts and is never awaited; the
// export proceeds regardless of its outcome. A capture failure is a visible
// error with no partial document.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req exportRequest
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

	h.beacon.Emit(telemetry.ActionPrint,
		sel.Slip.Reference, sel.Slip.Name, sel.Slip.Serial,
		r.Referer(), r.UserAgent())

	artifact, err := h.exports.ExportPDF(ctx, sel.Slip)
	if errors.Is(err, export.ErrCaptureFailed) {
		h.logger.ErrorContext(ctx, "slip capture failed",
			"request_id", middleware.GetRequestID(ctx),
			"reference", sel.Slip.Reference,
			"error", err.Error(),
		)
		writeError(w, http.StatusBadGateway, "capture_failed",
			"The slip could not be captured for export. Please try again or use the print option.")
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "export failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		writeError(w, http.StatusInternalServerError, "internal", "export failed")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.PDF)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact.PDF)
}
