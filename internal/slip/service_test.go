package slip

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umarkabirdananini/portal/internal/platform/metrics"
	"github.com/umarkabirdananini/portal/internal/records"
	"github.com/umarkabirdananini/portal/pkg/platform/sentinel"
)

func newTestService(t *testing.T, index *records.Index) (*Service, *metrics.Metrics) {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(index, newTestRenderer(t, nil), logger, m), m
}

func TestServiceLookup(t *testing.T) {
	index := records.NewIndex([]records.Record{
		{Reference: "SRC-2024-001", Name: "Ada Bello", Serial: "001"},
		{Reference: "SRC-2024-002", Name: "Musa Garba", Serial: "002"},
	})
	svc, m := newTestService(t, index)
	ctx := context.Background()

	t.Run("match renders the slip and sets the selection", func(t *testing.T) {
		sel, err := svc.Lookup(ctx, " src-2024-001 ")
		require.NoError(t, err)
		assert.Equal(t, "Ada Bello", sel.Record.Name)
		assert.Contains(t, sel.Slip.HTML, "Ada Bello")
		assert.Same(t, sel, svc.Current())
	})

	t.Run("not found leaves the last selection in place", func(t *testing.T) {
		prev := svc.Current()
		_, err := svc.Lookup(ctx, "SRC-2024-999")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
		assert.Same(t, prev, svc.Current())
	})

	t.Run("new match replaces the whole selection", func(t *testing.T) {
		first := svc.Current()
		sel, err := svc.Lookup(ctx, "SRC-2024-002")
		require.NoError(t, err)
		assert.NotSame(t, first, sel)
		assert.Same(t, sel, svc.Current())
	})

	t.Run("outcomes are counted", func(t *testing.T) {
		assert.Equal(t, float64(2), promtestutil.ToFloat64(m.Lookups.WithLabelValues("selected")))
		assert.Equal(t, float64(1), promtestutil.ToFloat64(m.Lookups.WithLabelValues("not_found")))
	})
}

func TestServiceLookup_Degraded(t *testing.T) {
	svc, m := newTestService(t, records.NewDegradedIndex())

	assert.True(t, svc.Degraded())

	_, err := svc.Lookup(context.Background(), "SRC-2024-001")
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	_, err = svc.Lookup(context.Background(), "SRC-2024-002")
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)

	assert.Equal(t, float64(2), promtestutil.ToFloat64(m.Lookups.WithLabelValues("degraded")))
	assert.Nil(t, svc.Current())
}
