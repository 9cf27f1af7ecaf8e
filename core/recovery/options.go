package recovery

import (
	"github.com/leofalp/jsonrescue/providers/observability"
)

// Option configures the pipeline.
type Option func(*config)

type config struct {
	useNumber      bool
	repairFallback bool
	excerptLength  int
	observer       observability.Provider
}

// WithUseNumber decodes JSON numbers as json.Number instead of float64, which
// keeps large integers exact.
func WithUseNumber(enabled bool) Option {
	return func(c *config) {
		c.useNumber = enabled
	}
}

// WithRepairFallback appends [RepairFallback] after the default strategies.
func WithRepairFallback(enabled bool) Option {
	return func(c *config) {
		c.repairFallback = enabled
	}
}

// WithExcerptLength sets how many characters of failing text are attached to
// errors. Values are clamped to 1..ExcerptLength.
func WithExcerptLength(n int) Option {
	return func(c *config) {
		c.excerptLength = min(max(n, 1), ExcerptLength)
	}
}

// WithObserver sets the observability provider used by [Recoverer]. The pure
// functions in this package ignore it.
func WithObserver(observer observability.Provider) Option {
	return func(c *config) {
		c.observer = observer
	}
}

func defaultConfig() *config {
	return &config{excerptLength: ExcerptLength}
}

func applyOptions(opts ...Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

func (c *config) strategies() []Strategy {
	strategies := DefaultStrategies()
	if c.repairFallback {
		strategies = append(strategies, RepairFallback)
	}
	return strategies
}
