package telemetry

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mssola/useragent"

	"github.com/umarkabirdananini/portal/internal/platform/metrics"
)

// Beacon emits best-effort usage events to a remote collector. Emission never
// blocks the caller, never surfaces an error to it, and is never retried.
// The collector URL must be https; a missing or non-encrypted endpoint
// disables remote emission entirely rather than degrading the transport.
type Beacon struct {
	logger   *slog.Logger
	metrics  *metrics.Metrics
	client   *http.Client
	endpoint *url.URL // nil when unconfigured or rejected
	log      EventLog // optional local mirror
	timeout  time.Duration
	now      func() time.Time

	wg sync.WaitGroup
}

// Option configures a Beacon.
type Option func(*Beacon)

// WithHTTPClient overrides the transport client.
func WithHTTPClient(c *http.Client) Option {
	return func(b *Beacon) { b.client = c }
}

// WithEventLog attaches a local append-only mirror of emitted events.
func WithEventLog(l EventLog) Option {
	return func(b *Beacon) { b.log = l }
}

// WithTimeout bounds each emission attempt.
func WithTimeout(d time.Duration) Option {
	return func(b *Beacon) { b.timeout = d }
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(b *Beacon) { b.now = now }
}

// NewBeacon builds a beacon for the given collector endpoint. An empty,
// malformed, or non-https endpoint is rejected up front and logged once;
// the beacon then only mirrors locally.
func NewBeacon(collectorURL string, logger *slog.Logger, m *metrics.Metrics, opts ...Option) *Beacon {
	b := &Beacon{
		logger:  logger,
		metrics: m,
		client:  &http.Client{},
		timeout: 5 * time.Second,
		now:     time.Now,
	}
	if collectorURL != "" {
		u, err := url.Parse(collectorURL)
		switch {
		case err != nil:
			logger.Warn("telemetry collector URL is malformed, remote emission disabled", "error", err)
		case u.Scheme != "https":
			logger.Warn("telemetry collector URL is not https, remote emission disabled", "scheme", u.Scheme)
		default:
			b.endpoint = u
		}
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Emit fires one usage event. It returns immediately; transmission and the
// local mirror run on their own goroutine with their own deadline, and every
// failure on that path is swallowed.
func (b *Beacon) Emit(action, reference, name, serial, pageURL, userAgent string) {
	ev := Event{
		Action:    action,
		Reference: reference,
		Name:      name,
		Serial:    serial,
		PageURL:   pageURL,
		Timestamp: b.now(),
		Browser:   browserFamily(userAgent),
	}

	if b.endpoint == nil && b.log == nil {
		b.metrics.BeaconEvents.WithLabelValues("skipped").Inc()
		return
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()
		b.send(ctx, ev)
		b.mirror(ctx, ev)
	}()
}

// Drain waits for in-flight emissions, for shutdown and tests. New events
// may still be emitted afterwards.
func (b *Beacon) Drain() {
	b.wg.Wait()
}

func (b *Beacon) send(ctx context.Context, ev Event) {
	if b.endpoint == nil {
		b.metrics.BeaconEvents.WithLabelValues("skipped").Inc()
		return
	}

	params := url.Values{
		"action":    {ev.Action},
		"reference": {ev.Reference},
		"name":      {ev.Name},
		"serial":    {ev.Serial},
		"page":      {ev.PageURL},
		"t":         {strconv.FormatInt(ev.Timestamp.UnixMilli(), 10)},
	}
	target := *b.endpoint
	target.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		b.metrics.BeaconEvents.WithLabelValues("failed").Inc()
		return
	}
	resp, err := b.client.Do(req)
	if err != nil {
		b.metrics.BeaconEvents.WithLabelValues("failed").Inc()
		b.logger.Debug("beacon emission failed", "action", ev.Action, "error", err)
		return
	}
	// One-way contract: the response body is never parsed.
	resp.Body.Close()
	b.metrics.BeaconEvents.WithLabelValues("emitted").Inc()
}

func (b *Beacon) mirror(ctx context.Context, ev Event) {
	if b.log == nil {
		return
	}
	if err := b.log.Append(ctx, ev); err != nil {
		b.logger.Debug("telemetry mirror append failed", "action", ev.Action, "error", err)
	}
}

// browserFamily reduces a raw user agent to a short browser label for the
// local audit log.
func browserFamily(raw string) string {
	if raw == "" {
		return ""
	}
	ua := useragent.New(raw)
	name, version := ua.Browser()
	return strings.TrimSpace(name + " " + version)
}
