package keydiff

import "github.com/sirupsen/logrus"

// Options configures a Runner. The zero value is DefaultOptions.
type Options struct {
	diffReporter DiffReporter

	// duplicateKeyFallback, when true, makes a Runner switch to the no-key
	// positional fallback for the whole comparison when a scan of both lists,
	// made before any other work, finds a duplicate or missing key. It
	// defaults to off, so
	// the default diagnostic-and-overwrite behavior is what callers get
	// unless they opt in.
	duplicateKeyFallback bool

	logger *logrus.Logger
}

// DefaultOptions is the zero-value Options: no diff reporter, no
// duplicate-key fallback, logging through logrus.StandardLogger().
var DefaultOptions = Options{}

// Option mutates an Options value; see the With* functions below.
type Option func(*Options)

func (o Options) apply(opts []Option) Options {
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithDiffReporter attaches a DiffReporter that observes every field-level
// change found while building Update patches.
func WithDiffReporter(r DiffReporter) Option {
	return func(o *Options) {
		o.diffReporter = r
	}
}

// WithDuplicateKeyFallback controls whether a detected duplicate or
// missing key makes the Runner fall back to the positional no-key compare
// for the entire comparison, rather than the default overwrite-and-warn
// policy.
func WithDuplicateKeyFallback(enabled bool) Option {
	return func(o *Options) {
		o.duplicateKeyFallback = enabled
	}
}

// WithLogger overrides the logger diagnostics are written to. The default
// is logrus.StandardLogger().
func WithLogger(logger *logrus.Logger) Option {
	return func(o *Options) {
		o.logger = logger
	}
}

func (o *Options) logrusLogger() *logrus.Logger {
	if o.logger != nil {
		return o.logger
	}
	return logrus.StandardLogger()
}
