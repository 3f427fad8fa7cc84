package observability

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/noah-isme/rcc-portal/pkg/config"
)

// InitSentry configures the Sentry client. It is a no-op when no DSN is configured.
// The returned function flushes buffered events and should be deferred by the caller.
func InitSentry(cfg *config.Config) (func(), error) {
	if cfg.Sentry.DSN == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.Sentry.DSN,
		Environment: cfg.Env,
		Release:     cfg.Sentry.Release,
	}); err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// CaptureErr forwards err to Sentry when a client is configured.
func CaptureErr(err error) {
	if err == nil || sentry.CurrentHub().Client() == nil {
		return
	}
	sentry.CaptureException(err)
}
