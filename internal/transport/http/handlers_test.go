package httptransport

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umarkabirdananini/portal/internal/export"
	"github.com/umarkabirdananini/portal/internal/handoff"
	"github.com/umarkabirdananini/portal/internal/platform/metrics"
	"github.com/umarkabirdananini/portal/internal/records"
	"github.com/umarkabirdananini/portal/internal/slip"
	"github.com/umarkabirdananini/portal/internal/telemetry"
	"github.com/umarkabirdananini/portal/pkg/testutil"
)

var testRecords = []records.Record{
	{Reference: "SRC-2024-001", Name: "Ada Bello", Course: "Computer Science", LGA: "Wamakko", Serial: "001"},
	{Reference: "SRC-2024-002", Name: "Musa Garba", Course: "Biology", LGA: "Bodinga", Serial: "002"},
}

// fakeCapturer satisfies export.Capturer without a browser.
type fakeCapturer struct {
	err error
}

func (f *fakeCapturer) Capture(context.Context, string) (image.Image, error) {
	if f.err != nil {
		return nil, f.err
	}
	img := image.NewRGBA(image.Rect(0, 0, 970, 3000))
	for y := 0; y < 3000; y++ {
		img.Set(0, y, color.RGBA{R: uint8(y % 256), A: 255})
	}
	return img, nil
}

func newTestRouter(t *testing.T, index *records.Index, capturer export.Capturer) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New(prometheus.NewRegistry())

	renderer, err := slip.NewRenderer(
		"https://placeholder.example/passport.png",
		"https://qr.example/create",
		func() time.Time { return time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC) },
	)
	require.NoError(t, err)

	slips := slip.NewService(index, renderer, logger, m)
	exports := export.NewService(capturer, logger, m)
	beacon := telemetry.NewBeacon("", logger, m)
	store := handoff.NewInMemoryStore(time.Minute)

	h := NewHandler(slips, exports, beacon, store, logger, 250*time.Millisecond)
	return NewRouter(h, logger)
}

func TestHandleLookup(t *testing.T) {
	router := newTestRouter(t, records.NewIndex(testRecords), &fakeCapturer{})

	t.Run("selected", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/lookup", lookupRequest{Reference: " src-2024-001 "})
		rr := testutil.DoRequest(router, req)

		require.Equal(t, http.StatusOK, rr.Code)
		resp := testutil.UnmarshalResponse[lookupResponse](t, rr)
		assert.Equal(t, "selected", resp.Status)
		assert.Equal(t, "SRC-2024-001", resp.Reference)
		assert.Equal(t, "Ada Bello", resp.Name)
		assert.Contains(t, resp.SlipHTML, "Ada Bello")
		assert.Contains(t, resp.SlipHTML, "January 5, 2025")
	})

	t.Run("not selected is 200, informational", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/lookup", lookupRequest{Reference: "SRC-2024-999"})
		rr := testutil.DoRequest(router, req)

		require.Equal(t, http.StatusOK, rr.Code)
		resp := testutil.UnmarshalResponse[lookupResponse](t, rr)
		assert.Equal(t, "not_selected", resp.Status)
		assert.Empty(t, resp.SlipHTML)
	})

	t.Run("invalid body is 400", func(t *testing.T) {
		req := testutil.NewRequestWithBody(t, http.MethodPost, "/api/lookup", "{bad-json")
		rr := testutil.DoRequest(router, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := testutil.UnmarshalResponse[errorResponse](t, rr)
		assert.Equal(t, "invalid_request", resp.Error)
	})
}

func TestHandleLookup_Degraded(t *testing.T) {
	router := newTestRouter(t, records.NewDegradedIndex(), &fakeCapturer{})

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/lookup", lookupRequest{Reference: "SRC-2024-001"})
	rr := testutil.DoRequest(router, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	resp := testutil.UnmarshalResponse[errorResponse](t, rr)
	assert.Equal(t, "records_unavailable", resp.Error)
}

func TestPrintFlow(t *testing.T) {
	router := newTestRouter(t, records.NewIndex(testRecords), &fakeCapturer{})

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/slips/print", preparePrintRequest{Reference: "SRC-2024-001"})
	rr := testutil.DoRequest(router, req)

	require.Equal(t, http.StatusOK, rr.Code)
	resp := testutil.UnmarshalResponse[preparePrintResponse](t, rr)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "/print/"+resp.Token, resp.PrintURL)

	t.Run("print view interpolates the staged payload", func(t *testing.T) {
		viewReq := testutil.NewJSONRequest(t, http.MethodGet, resp.PrintURL, nil)
		viewRR := testutil.DoRequest(router, viewReq)

		require.Equal(t, http.StatusOK, viewRR.Code)
		body := string(testutil.ReadBody(t, viewRR))
		assert.Contains(t, body, "Ada Bello")
		assert.Contains(t, body, `data-reference="SRC-2024-001"`)
		// Settle delay before the print affordance fires.
		assert.Contains(t, body, "250")
		assert.Contains(t, body, "window.print()")
	})

	t.Run("unknown token is 404", func(t *testing.T) {
		viewReq := testutil.NewJSONRequest(t, http.MethodGet, "/print/no-such-token", nil)
		viewRR := testutil.DoRequest(router, viewReq)
		assert.Equal(t, http.StatusNotFound, viewRR.Code)
	})

	t.Run("unknown reference is 404", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/slips/print", preparePrintRequest{Reference: "SRC-2024-999"})
		rr := testutil.DoRequest(router, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestHandleExport(t *testing.T) {
	t.Run("returns the PDF attachment", func(t *testing.T) {
		router := newTestRouter(t, records.NewIndex(testRecords), &fakeCapturer{})

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/slips/export", exportRequest{Reference: " src-2024-001 "})
		rr := testutil.DoRequest(router, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Header().Get("Content-Disposition"), "Selection_Slip_SRC-2024-001.pdf")
		body := testutil.ReadBody(t, rr)
		assert.Equal(t, "%PDF", string(body[:4]))
	})

	t.Run("capture failure is a visible error, no partial artifact", func(t *testing.T) {
		router := newTestRouter(t, records.NewIndex(testRecords), &fakeCapturer{err: errors.New("tainted canvas")})

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/slips/export", exportRequest{Reference: "SRC-2024-001"})
		rr := testutil.DoRequest(router, req)

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		resp := testutil.UnmarshalResponse[errorResponse](t, rr)
		assert.Equal(t, "capture_failed", resp.Error)
	})

	t.Run("unknown reference is 404", func(t *testing.T) {
		router := newTestRouter(t, records.NewIndex(testRecords), &fakeCapturer{})

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/slips/export", exportRequest{Reference: "SRC-2024-999"})
		rr := testutil.DoRequest(router, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestHandleHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		router := newTestRouter(t, records.NewIndex(testRecords), &fakeCapturer{})

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		resp := testutil.UnmarshalResponse[map[string]any](t, rr)
		assert.Equal(t, "ok", (*resp)["status"])
		assert.Equal(t, float64(2), (*resp)["records"])
	})

	t.Run("degraded", func(t *testing.T) {
		router := newTestRouter(t, records.NewDegradedIndex(), &fakeCapturer{})

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		resp := testutil.UnmarshalResponse[map[string]any](t, rr)
		assert.Equal(t, "degraded", (*resp)["status"])
	})
}
