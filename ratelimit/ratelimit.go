// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

// Package ratelimit provides the token-bucket admission gates used to keep
// vigil inside the upstream provider's global quota and to throttle
// individual clients of the AI passthrough.
package ratelimit

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"
)

var (
	ErrInvalidRequests = errors.New("requests must be a positive count")
	ErrInvalidWindow   = errors.New("window must be a positive duration")
)

// Config describes one bucket: at most Requests admissions per Window, with
// bursts up to Requests when the bucket is full.
type Config struct {
	Requests int
	Window   time.Duration
}

func (c Config) validate() error {
	if c.Requests < 1 {
		return ErrInvalidRequests
	}
	if c.Window <= 0 {
		return ErrInvalidWindow
	}
	return nil
}

func (c Config) limit() rate.Limit {
	return rate.Limit(float64(c.Requests) / c.Window.Seconds())
}

// Limiter is a single shared token bucket. The long-run admission rate never
// exceeds Requests/Window; tokens refill continuously.
type Limiter struct {
	bucket *rate.Limiter
}

// New builds a Limiter from the given config.
func New(c Config) (*Limiter, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &Limiter{bucket: rate.NewLimiter(c.limit(), c.Requests)}, nil
}

// Wait blocks the calling goroutine until admission is possible or the
// context is done. Callers are delayed, never rejected.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.bucket.Wait(ctx)
}

// Allow reports whether an admission is available right now, consuming one
// token when it is. It never blocks.
func (l *Limiter) Allow() bool {
	return l.bucket.Allow()
}
