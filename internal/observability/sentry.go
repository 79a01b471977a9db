package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/tbourn/go-booking-backend/internal/config"
)

const sentryFlushTimeout = 2 * time.Second

// InitSentry configures the global Sentry client. With an empty DSN it does
// nothing and returns a no-op flush. The returned func drains buffered events
// and should run before the process exits.
func InitSentry(cfg config.SentryConfig, release string) (func(), error) {
	if cfg.DSN == "" {
		return func() {}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          release,
		EnableTracing:    cfg.TracesSampleRate > 0,
		TracesSampleRate: cfg.TracesSampleRate,
	})
	if err != nil {
		return func() {}, fmt.Errorf("sentry initialization failed: %w", err)
	}
	return func() { sentry.Flush(sentryFlushTimeout) }, nil
}

// CaptureError reports err with extras attached to a fresh scope. The hub
// bound to ctx wins over the global one.
func CaptureError(ctx context.Context, err error, extras map[string]any) {
	if err == nil {
		return
	}
	hub := sentry.CurrentHub()
	if ctx != nil {
		if h := sentry.GetHubFromContext(ctx); h != nil {
			hub = h
		}
	}
	if hub == nil || hub.Client() == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range extras {
			scope.SetExtra(k, v)
		}
		hub.CaptureException(err)
	})
}
