package slip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/umarkabirdananini/portal/internal/platform/metrics"
	"github.com/umarkabirdananini/portal/internal/records"
	"github.com/umarkabirdananini/portal/pkg/platform/sentinel"
)

// Selection pairs a matched record with its rendered slip. A selection is a
// value: the service replaces the whole slot on each successful lookup, never
// updates it in place.
type Selection struct {
	Record records.Record
	Slip   RenderedSlip
}

// Service owns the lookup-and-render flow and the single-slot current
// selection.
type Service struct {
	logger   *slog.Logger
	index    *records.Index
	renderer *Renderer
	metrics  *metrics.Metrics

	warnOnce sync.Once

	mu      sync.Mutex
	current *Selection
}

// NewService wires the lookup service.
func NewService(index *records.Index, renderer *Renderer, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		logger:   logger,
		index:    index,
		renderer: renderer,
		metrics:  m,
	}
}

// Lookup resolves a raw reference, renders the slip on a match, and replaces
// the current selection. Returns sentinel.ErrUnavailable when the record set
// never loaded (logged once per process) and sentinel.ErrNotFound when the
// normalized key matches nothing; not-found is an expected, frequent outcome,
// not a fault.
func (s *Service) Lookup(ctx context.Context, raw string) (*Selection, error) {
	if s.index.Degraded() {
		s.warnOnce.Do(func() {
			s.logger.ErrorContext(ctx, "record set unavailable, all lookups will resolve not-found")
		})
		s.metrics.Lookups.WithLabelValues("degraded").Inc()
		return nil, sentinel.ErrUnavailable
	}

	rec, err := s.index.Find(raw)
	if errors.Is(err, sentinel.ErrNotFound) {
		s.metrics.Lookups.WithLabelValues("not_found").Inc()
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("lookup reference: %w", err)
	}

	rendered, err := s.renderer.Render(rec)
	if err != nil {
		return nil, fmt.Errorf("render slip: %w", err)
	}
	s.metrics.Lookups.WithLabelValues("selected").Inc()
	s.metrics.SlipsRendered.Inc()

	sel := &Selection{Record: rec, Slip: rendered}
	s.mu.Lock()
	s.current = sel
	s.mu.Unlock()
	return sel, nil
}

// Current returns the active selection, or nil before the first successful
// lookup. In-flight exports keep working off the selection they were handed,
// so a replacement here never tears an export in progress.
func (s *Service) Current() *Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Degraded reports whether lookups are running against a dataset that failed
// to load.
func (s *Service) Degraded() bool {
	return s.index.Degraded()
}

// Records reports the size of the loaded record set.
func (s *Service) Records() int {
	return s.index.Len()
}
