package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/umarkabirdananini/portal/internal/platform/middleware"
	"github.com/umarkabirdananini/portal/pkg/platform/sentinel"
)

type lookupRequest struct {
	Reference string `json:"reference"`
}

type lookupResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	SlipHTML  string `json:"slipHtml,omitempty"`
	Reference string `json:"reference,omitempty"`
	Name      string `json:"name,omitempty"`
	Serial    string `json:"serial,omitempty"`
}

// handleLookup resolves a reference and returns the rendered slip on a
// match. Not-found is an expected outcome and answers 200, not an error
// status; only a dataset that never loaded answers 503.
func (h *Handler) handleLookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req lookupRequest
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
		writeJSON(w, http.StatusOK, lookupResponse{
			Status:  "not_selected",
			Message: "Sorry! Your Reference Number is either wrong or not among the selected.",
		})
		return
	case err != nil:
		h.logger.ErrorContext(ctx, "lookup failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		writeError(w, http.StatusInternalServerError, "internal", "lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, lookupResponse{
		Status:    "selected",
		Message:   "Congratulations! You have been selected.",
		SlipHTML:  sel.Slip.HTML,
		Reference: sel.Slip.Reference,
		Name:      sel.Slip.Name,
		Serial:    sel.Slip.Serial,
	})
}
