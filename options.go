package annidx

import "log/slog"

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	kInit            int
}

// Option configures New/Load construction behavior.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations. Pass nil to
// disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger at the given level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithKInit overrides the default number of entry-point candidates sampled
// by Add and Search (k_init in the entry-point sampler). The default is 100.
func WithKInit(kInit int) Option {
	return func(o *options) {
		if kInit > 0 {
			o.kInit = kInit
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		kInit:            100,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// searchOptions configures a single Search call.
type searchOptions struct {
	efSearch int
	kInit    int
}

// SearchOption configures a single Search call.
type SearchOption func(*searchOptions)

// WithEfSearch overrides the beam width used for this query. Larger values
// trade latency for recall.
func WithEfSearch(ef int) SearchOption {
	return func(o *searchOptions) {
		if ef > 0 {
			o.efSearch = ef
		}
	}
}

// WithSearchKInit overrides the number of entry-point candidates sampled
// for this query only.
func WithSearchKInit(kInit int) SearchOption {
	return func(o *searchOptions) {
		if kInit > 0 {
			o.kInit = kInit
		}
	}
}

// saveOptions configures a single Save call.
type saveOptions struct {
	compress bool
}

// SaveOption configures a single Save call.
type SaveOption func(*saveOptions)

// WithCompression enables lz4 compression of the arena payload on Save.
func WithCompression() SaveOption {
	return func(o *saveOptions) { o.compress = true }
}

func applySaveOptions(optFns []SaveOption) saveOptions {
	var o saveOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
