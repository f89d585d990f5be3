// Package ratelimit bounds how often a client may hit the credential
// endpoints.
package ratelimit

import (
	"context"
	"time"
)

// Result describes the outcome of a single Allow call.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// Disabled lets every request through.
type Disabled struct{}

func (Disabled) Allow(context.Context, string) (Result, error) {
	return Result{Allowed: true}, nil
}
