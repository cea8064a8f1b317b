package engine

import "go.uber.org/zap"

// ============================================================================
// ENGINE OPTIONS: functional options for Resolve() and Execute()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	CategoryFallbacks []string // well-known category field names, tried in order
	ValueFallbacks    []string // well-known value field names, tried in order
	BasePalette       []string
	SampleSize        int // records probed by the classifier; 1 = first record only
	Logger            *zap.Logger
}

// WithCategoryFallbacks sets field names tried for the category axis after the
// caller's hint and before the first categorical field.
// e.g. WithCategoryFallbacks("Vehicle Size")
func WithCategoryFallbacks(names ...string) Option {
	return func(c *config) {
		c.CategoryFallbacks = append([]string(nil), names...)
	}
}

// WithValueFallbacks sets field names tried for the value axis after the
// caller's hint and before the first numeric field.
func WithValueFallbacks(names ...string) Option {
	return func(c *config) {
		c.ValueFallbacks = append([]string(nil), names...)
	}
}

// WithBasePalette replaces the 12-color base palette. Empty input is ignored.
func WithBasePalette(colors ...string) Option {
	return func(c *config) {
		if len(colors) > 0 {
			c.BasePalette = append([]string(nil), colors...)
		}
	}
}

// WithSampleSize classifies fields by majority vote over the first n records
// instead of probing only the first one. This changes classification results
// for mixed-type data; n <= 1 keeps single-record probing.
func WithSampleSize(n int) Option {
	return func(c *config) {
		c.SampleSize = n
	}
}

// WithLogger sets the logger used for shape warnings and pipeline decisions.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		BasePalette: baseColors,
		SampleSize:  1,
		Logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
