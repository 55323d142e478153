package crashreport

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// Config enables crash reporting when DSN is set.
type Config struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
}

// Reporter forwards unexpected failures to Sentry. A zero Reporter is disabled
// and every method is a no-op.
type Reporter struct {
	enabled bool
}

// New initializes the Sentry SDK. An empty DSN returns a disabled reporter.
func New(cfg Config, release string) (*Reporter, error) {
	if cfg.DSN == "" {
		return &Reporter{}, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          release,
		AttachStacktrace: true,
	}); err != nil {
		return &Reporter{}, fmt.Errorf("init sentry: %w", err)
	}
	return &Reporter{enabled: true}, nil
}

// Enabled reports whether events are sent.
func (r *Reporter) Enabled() bool {
	return r != nil && r.enabled
}

// CaptureError sends err tagged with the operator-facing message.
func (r *Reporter) CaptureError(err error, message string) {
	if !r.Enabled() || err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		if message != "" {
			scope.SetTag("log_message", message)
		}
		sentry.CaptureException(err)
	})
}

// CapturePanic records a recovered panic value.
func (r *Reporter) CapturePanic(rec any) {
	if !r.Enabled() || rec == nil {
		return
	}
	sentry.CurrentHub().Recover(rec)
}

// Flush waits for queued events.
func (r *Reporter) Flush(timeout time.Duration) {
	if !r.Enabled() {
		return
	}
	sentry.Flush(timeout)
}
