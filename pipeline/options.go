package pipeline

import (
	"github.com/cwbudde/algo-neurostream/filter"
	"github.com/cwbudde/algo-neurostream/fixed"
)

// Config holds pipeline construction settings. Filter coefficients are
// fixed at construction; only the threshold and enable gate remain
// adjustable afterwards.
type Config struct {
	Threshold fixed.Sample
	B, A      []fixed.Sample
	Enabled   bool
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the built-in bandpass coefficients, a 5.0
// threshold, and an open enable gate.
func DefaultConfig() Config {
	return Config{
		Threshold: 5 * fixed.One,
		B:         filter.DefaultB,
		A:         filter.DefaultA,
		Enabled:   true,
	}
}

// WithThreshold sets the initial detection threshold.
func WithThreshold(t fixed.Sample) Option {
	return func(cfg *Config) {
		cfg.Threshold = t
	}
}

// WithCoefficients sets the filter coefficient sets. Both slices must
// hold order+1 values with a[0] equal to 1.0; validation happens in New.
func WithCoefficients(b, a []fixed.Sample) Option {
	return func(cfg *Config) {
		if len(b) > 0 && len(a) > 0 {
			cfg.B = b
			cfg.A = a
		}
	}
}

// WithEnabled sets the initial state of the enable gate.
func WithEnabled(enabled bool) Option {
	return func(cfg *Config) {
		cfg.Enabled = enabled
	}
}

func applyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
