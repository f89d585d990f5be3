// Package errtrack reports unexpected server failures to Sentry.
package errtrack

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type Reporter interface {
	Capture(ctx context.Context, err error)
	Flush(timeout time.Duration) bool
}

type SentryReporter struct{}

// NewSentryReporter initialises the global Sentry client. An empty dsn yields
// a no-op reporter.
func NewSentryReporter(dsn, environment string) (Reporter, error) {
	if dsn == "" {
		return Nop{}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		AttachStacktrace: true,
		SampleRate:       1.0,
	})
	if err != nil {
		return nil, err
	}
	return &SentryReporter{}, nil
}

func (s *SentryReporter) Capture(ctx context.Context, err error) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		if ctx != nil {
			if id := chimiddleware.GetReqID(ctx); id != "" {
				scope.SetTag("request_id", id)
			}
		}
		sentry.CaptureException(err)
	})
}

func (s *SentryReporter) Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

type Nop struct{}

func (Nop) Capture(context.Context, error) {}

func (Nop) Flush(time.Duration) bool { return true }
