package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures every knob of the portal. Values come from an optional
// YAML file (PORTAL_CONFIG, default config.yaml) with environment variables
// overriding individual fields, so deployments can ship a file and still
// patch single settings.
type Config struct {
	Addr string `yaml:"addr"`

	Records   RecordsConfig   `yaml:"records"`
	Slip      SlipConfig      `yaml:"slip"`
	Export    ExportConfig    `yaml:"export"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Handoff   HandoffConfig   `yaml:"handoff"`
}

// RecordsConfig selects the master-list source. PostgresDSN wins when both
// are set; either way the set is loaded once at startup and kept in memory.
type RecordsConfig struct {
	Path        string `yaml:"path"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

// SlipConfig holds the external references substituted at render time.
type SlipConfig struct {
	PlaceholderPhotoURL string `yaml:"placeholder_photo_url"`
	QREndpoint          string `yaml:"qr_endpoint"`
}

// ExportConfig tunes the capture and print stages.
type ExportConfig struct {
	ChromeBin    string        `yaml:"chrome_bin"`
	CaptureScale float64       `yaml:"capture_scale"`
	SettleDelay  time.Duration `yaml:"settle_delay"`
}

// TelemetryConfig points at the usage-event collector. CollectorURL must be
// https or emission is disabled; LogPath enables the local SQLite mirror when
// non-empty.
type TelemetryConfig struct {
	CollectorURL string        `yaml:"collector_url"`
	LogPath      string        `yaml:"log_path"`
	Timeout      time.Duration `yaml:"timeout"`
}

// HandoffConfig controls the short-lived print handoff storage. RedisURL
// empty means the in-process store.
type HandoffConfig struct {
	RedisURL string        `yaml:"redis_url"`
	TTL      time.Duration `yaml:"ttl"`
}

// Defaults returns the configuration used when nothing is specified.
func Defaults() Config {
	return Config{
		Addr: ":8080",
		Records: RecordsConfig{
			Path: "data/masterlist.json",
		},
		Slip: SlipConfig{
			PlaceholderPhotoURL: "https://via.placeholder.com/240x280.png?text=Passport",
			QREndpoint:          "https://api.qrserver.com/v1/create-qr-code/",
		},
		Export: ExportConfig{
			CaptureScale: 2,
			SettleDelay:  300 * time.Millisecond,
		},
		Telemetry: TelemetryConfig{
			Timeout: 5 * time.Second,
		},
		Handoff: HandoffConfig{
			TTL: 10 * time.Minute,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (when it
// exists), and environment overrides, in that order.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	envOverride(&cfg.Addr, "PORTAL_ADDR")
	envOverride(&cfg.Records.Path, "PORTAL_RECORDS_PATH")
	envOverride(&cfg.Records.PostgresDSN, "PORTAL_RECORDS_POSTGRES_DSN")
	envOverride(&cfg.Slip.PlaceholderPhotoURL, "PORTAL_PLACEHOLDER_PHOTO_URL")
	envOverride(&cfg.Slip.QREndpoint, "PORTAL_QR_ENDPOINT")
	envOverride(&cfg.Export.ChromeBin, "PORTAL_CHROME_BIN")
	envOverrideFloat(&cfg.Export.CaptureScale, "PORTAL_CAPTURE_SCALE")
	envOverrideDuration(&cfg.Export.SettleDelay, "PORTAL_SETTLE_DELAY")
	envOverride(&cfg.Telemetry.CollectorURL, "PORTAL_COLLECTOR_URL")
	envOverride(&cfg.Telemetry.LogPath, "PORTAL_TELEMETRY_LOG_PATH")
	envOverrideDuration(&cfg.Telemetry.Timeout, "PORTAL_TELEMETRY_TIMEOUT")
	envOverride(&cfg.Handoff.RedisURL, "PORTAL_HANDOFF_REDIS_URL")
	envOverrideDuration(&cfg.Handoff.TTL, "PORTAL_HANDOFF_TTL")

	return cfg, nil
}

func envOverride(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func envOverrideFloat(target *float64, key string) {
	if v := os.Getenv(key); v != "" {
		var f float64
		if _, err := fmt.Sscanf(v, "%g", &f); err == nil {
			*target = f
		}
	}
}

func envOverrideDuration(target *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*target = d
		}
	}
}
