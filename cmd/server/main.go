package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/umarkabirdananini/portal/internal/export"
	"github.com/umarkabirdananini/portal/internal/handoff"
	"github.com/umarkabirdananini/portal/internal/platform/config"
	"github.com/umarkabirdananini/portal/internal/platform/httpserver"
	"github.com/umarkabirdananini/portal/internal/platform/logger"
	"github.com/umarkabirdananini/portal/internal/platform/metrics"
	platformredis "github.com/umarkabirdananini/portal/internal/platform/redis"
	"github.com/umarkabirdananini/portal/internal/records"
	"github.com/umarkabirdananini/portal/internal/slip"
	"github.com/umarkabirdananini/portal/internal/telemetry"
	httptransport "github.com/umarkabirdananini/portal/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal feature packages.
func main() {
	log := logger.New()

	cfg, err := config.Load(os.Getenv("PORTAL_CONFIG"))
	if err != nil {
		fatal(log, "config load failed", err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	ctx := context.Background()

	// The record set is loaded once and read-only afterwards. A load failure
	// starts the portal degraded (every lookup answers not-found and /healthz
	// reports it) rather than refusing to serve.
	var recs []records.Record
	var loadErr error
	if cfg.Records.PostgresDSN != "" {
		recs, loadErr = records.LoadPostgres(ctx, cfg.Records.PostgresDSN)
	} else {
		recs, loadErr = records.LoadFile(cfg.Records.Path)
	}
	var index *records.Index
	if loadErr != nil {
		log.Error("master list load failed, starting degraded", "error", loadErr)
		index = records.NewDegradedIndex()
	} else {
		index = records.NewIndex(recs)
		log.Info("master list loaded", "records", index.Len())
	}

	renderer, err := slip.NewRenderer(cfg.Slip.PlaceholderPhotoURL, cfg.Slip.QREndpoint, time.Now)
	if err != nil {
		fatal(log, "renderer init failed", err)
	}
	slips := slip.NewService(index, renderer, log, m)

	capturer := export.NewChromeCapturer(cfg.Export.ChromeBin, cfg.Export.CaptureScale, log)
	exports := export.NewService(capturer, log, m)

	beaconOpts := []telemetry.Option{telemetry.WithTimeout(cfg.Telemetry.Timeout)}
	if cfg.Telemetry.LogPath != "" {
		eventLog, err := telemetry.NewSQLiteLog(cfg.Telemetry.LogPath)
		if err != nil {
			// Telemetry is best-effort by contract; run without the mirror.
			log.Warn("telemetry log unavailable", "path", cfg.Telemetry.LogPath, "error", err)
		} else {
			defer eventLog.Close()
			beaconOpts = append(beaconOpts, telemetry.WithEventLog(eventLog))
		}
	}
	beacon := telemetry.NewBeacon(cfg.Telemetry.CollectorURL, log, m, beaconOpts...)

	var handoffStore handoff.Store
	redisClient, err := platformredis.New(ctx, cfg.Handoff.RedisURL)
	if err != nil {
		fatal(log, "redis init failed", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		handoffStore = handoff.NewRedisStore(redisClient.Client, cfg.Handoff.TTL)
	} else {
		handoffStore = handoff.NewInMemoryStore(cfg.Handoff.TTL)
	}

	handler := httptransport.NewHandler(slips, exports, beacon, handoffStore, log, cfg.Export.SettleDelay)
	router := httptransport.NewRouter(handler, log)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting portal", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fatal(log, "server error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	// Let in-flight beacons finish; they carry their own timeout.
	beacon.Drain()
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
