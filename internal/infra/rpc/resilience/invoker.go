// Package resilience wraps remote chain calls with classification, retry and
// duration metrics.
//
// A call is retried until it succeeds. Failures with a quick code (network
// faults) wait Config.QuickRetryTimeout before the next attempt, everything
// else waits Config.DefaultRetryTimeout. There is no attempt limit and no
// circuit breaker; the only way out of a failing call is cancelling its
// context.
//
//	inv := resilience.NewInvoker(resilience.DefaultConfig(),
//	    resilience.WithMetrics(sink),
//	    resilience.WithLogger(log),
//	)
//	n, err := resilience.Call(ctx, inv, "getBlockNumber", p.BlockNumber)
package resilience

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Config is the retry policy. It is copied by NewInvoker and never changes afterwards.
type Config struct {
	QuickRetryTimeout   time.Duration
	DefaultRetryTimeout time.Duration

	// QuickRetryCodes overrides DefaultQuickRetryCodes when non-nil.
	QuickRetryCodes []string
}

// DefaultConfig provides the production retry timeouts.
func DefaultConfig() Config {
	return Config{
		QuickRetryTimeout:   5 * time.Second,
		DefaultRetryTimeout: 30 * time.Second,
		QuickRetryCodes:     DefaultQuickRetryCodes,
	}
}

// Operation is a remote call. It is invoked once per attempt.
type Operation[T any] func(ctx context.Context) (T, error)

// Invoker executes operations under the retry policy.
type Invoker struct {
	cfg        Config
	classifier Classifier
	metrics    MetricsSink
	clock      clockwork.Clock
	log        *slog.Logger
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithMetrics sets the duration sink. Defaults to a no-op sink.
func WithMetrics(m MetricsSink) Option {
	return func(inv *Invoker) {
		if m != nil {
			inv.metrics = m
		}
	}
}

// WithClock sets the clock used for retry waits.
func WithClock(c clockwork.Clock) Option {
	return func(inv *Invoker) {
		if c != nil {
			inv.clock = c
		}
	}
}

// WithLogger sets the logger for failed attempts.
func WithLogger(l *slog.Logger) Option {
	return func(inv *Invoker) {
		if l != nil {
			inv.log = l
		}
	}
}

// NewInvoker creates an Invoker with the given policy.
func NewInvoker(cfg Config, opts ...Option) *Invoker {
	codes := cfg.QuickRetryCodes
	if codes == nil {
		codes = DefaultQuickRetryCodes
	}
	cfg.QuickRetryCodes = append([]string(nil), codes...)

	inv := &Invoker{
		cfg:        cfg,
		classifier: NewClassifier(cfg.QuickRetryCodes),
		metrics:    nopSink{},
		clock:      clockwork.NewRealClock(),
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Config returns a copy of the retry policy.
func (inv *Invoker) Config() Config {
	cfg := inv.cfg
	cfg.QuickRetryCodes = append([]string(nil), inv.cfg.QuickRetryCodes...)
	return cfg
}

// Classify returns the retry class of err.
func (inv *Invoker) Classify(err error) RetryClass {
	return inv.classifier.Classify(FailureCode(err))
}

// Delay returns the wait applied before retrying a call of the given class.
func (inv *Invoker) Delay(class RetryClass) time.Duration {
	if class == RetryQuick {
		return inv.cfg.QuickRetryTimeout
	}
	return inv.cfg.DefaultRetryTimeout
}

// Call runs op until it succeeds and records one duration observation under
// name, measured from the first attempt. It returns an error only when ctx is
// done; the observation is not recorded in that case.
func Call[T any](ctx context.Context, inv *Invoker, name string, op Operation[T]) (T, error) {
	stop := inv.metrics.StartTimer()

	var (
		callID string
		stack  string
	)
	for attempt := 1; ; attempt++ {
		result, err := op(ctx)
		if err == nil {
			stop(name)
			return result, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			var zero T
			return zero, ctxErr
		}

		if callID == "" {
			callID = uuid.NewString()
			stack = string(debug.Stack())
		}

		code := FailureCode(err)
		delay := inv.Delay(inv.classifier.Classify(code))
		inv.log.Error("RPC call failed, retrying",
			"function", name,
			"message", failureMessage(err),
			"code", code,
			"attempt", attempt,
			"retry_in", delay,
			"call_id", callID,
			"stack", stack,
		)

		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-inv.clock.After(delay):
		}
	}
}
