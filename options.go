package modplan

import (
	"context"
	"errors"
	"log/slog"
)

const defaultMaxConcurrency = 5

// Option configures resolver behavior.
type Option func(*resolverConfig) error

// resolverConfig holds all resolver configuration.
type resolverConfig struct {
	maxConcurrency int
	onProgress     func(ProgressEvent)

	// logger is the structured logger for debug output.
	// If nil, logging is disabled.
	logger *slog.Logger
}

// ProgressEventType identifies a resolution progress event.
type ProgressEventType string

const (
	// ProgressResolveStart fires when resolution of a root begins.
	ProgressResolveStart ProgressEventType = "resolve_start"
	// ProgressModuleResolved fires when a module is appended to the plan.
	ProgressModuleResolved ProgressEventType = "module_resolved"
	// ProgressResolveEnd fires when resolution of a root finishes, successfully or not.
	ProgressResolveEnd ProgressEventType = "resolve_end"
)

// ProgressEvent reports resolution progress to a WithProgress callback.
type ProgressEvent struct {
	Type   ProgressEventType
	Root   string
	Module string
	// Depth is the DFS depth of Module, 0 for the root.
	Depth int
	Err   error
}

// WithLogger sets a structured logger for resolution diagnostics.
// If not set, logging is disabled.
//
// Any slog backend works, for example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil)).With("component", "modplan")
//	modplan.NewResolver(reg, modplan.WithLogger(logger))
func WithLogger(l *slog.Logger) Option {
	return func(c *resolverConfig) error {
		c.logger = l
		return nil
	}
}

// WithConcurrency bounds how many roots ResolveAll resolves at once.
func WithConcurrency(n int) Option {
	return func(c *resolverConfig) error {
		c.maxConcurrency = n
		return nil
	}
}

// WithProgress sets a callback for resolution progress events.
// The callback may be invoked from several goroutines during ResolveAll.
func WithProgress(fn func(ProgressEvent)) Option {
	return func(c *resolverConfig) error {
		c.onProgress = fn
		return nil
	}
}

// validate checks the configuration for logical consistency.
func (c *resolverConfig) validate() error {
	if c.maxConcurrency < 0 {
		return errors.New("concurrency must not be negative")
	}
	return nil
}

// log returns the configured logger, or a no-op logger if none was set.
// A nil config behaves like the defaults.
func (c *resolverConfig) log() *slog.Logger {
	if c != nil && c.logger != nil {
		return c.logger
	}
	return slog.New(discardHandler{})
}

func (c *resolverConfig) progress(ev ProgressEvent) {
	if c != nil && c.onProgress != nil {
		c.onProgress(ev)
	}
}

func (c *resolverConfig) concurrency() int {
	if c == nil || c.maxConcurrency <= 0 {
		return defaultMaxConcurrency
	}
	return c.maxConcurrency
}

// discardHandler is a slog.Handler that drops every record.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// newResolverConfig applies opts over the defaults and validates the result.
func newResolverConfig(opts ...Option) (*resolverConfig, error) {
	c := &resolverConfig{maxConcurrency: defaultMaxConcurrency}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	if c.maxConcurrency == 0 {
		c.maxConcurrency = defaultMaxConcurrency
	}
	return c, nil
}
