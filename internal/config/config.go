// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - All loading functions accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	service "github.com/aadsidhu-design/flexa-sub004/internal/app"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/smoothness"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory spectral window queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of spectral workers. One worker keeps a
	// single session's published scores in order.
	WorkerCount int `koanf:"worker_count"`

	// MaxStoredSessions bounds the finished-summary store.
	MaxStoredSessions int `koanf:"max_stored_sessions"`

	// ArmRadiusMeters is the default calibration radius for sessions started
	// without a measured one. Zero keeps the built-in default.
	ArmRadiusMeters float64 `koanf:"arm_radius_meters"`

	// Detectors carries per-detector tuning. Zero-valued fields fall back to
	// each detector's documented defaults.
	Detectors service.Tunings `koanf:"detectors"`

	// Smoothness carries the analyzer tuning.
	Smoothness Smoothness `koanf:"smoothness"`
}

// Smoothness configures the spectral analyzer. Zero-valued fields keep the
// analyzer defaults.
type Smoothness struct {
	MinSamples         int     `koanf:"min_samples"`
	BlendWeight        float64 `koanf:"blend_weight"`
	SmoothingAlpha     float64 `koanf:"smoothing_alpha"`
	PublishIntervalSec float64 `koanf:"publish_interval_sec"`
	FailureLimit       int     `koanf:"failure_limit"`
}

// Options converts the smoothness config into analyzer options, skipping
// zero values.
func (s Smoothness) Options() []smoothness.Option {
	var opts []smoothness.Option
	if s.MinSamples > 0 {
		opts = append(opts, smoothness.WithMinSamples(s.MinSamples))
	}
	if s.BlendWeight > 0 {
		opts = append(opts, smoothness.WithBlendWeight(s.BlendWeight))
	}
	if s.SmoothingAlpha > 0 {
		opts = append(opts, smoothness.WithSmoothingAlpha(s.SmoothingAlpha))
	}
	if s.PublishIntervalSec > 0 {
		opts = append(opts, smoothness.WithPublishInterval(s.PublishIntervalSec))
	}
	if s.FailureLimit > 0 {
		opts = append(opts, smoothness.WithFailureLimit(s.FailureLimit))
	}
	return opts
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		QueueSize:         4096,
		WorkerCount:       1,
		MaxStoredSessions: 1024,
	}
}
