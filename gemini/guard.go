// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/vigilproj/vigil/ratelimit"
	"github.com/vigilproj/vigil/store"
)

// Shared generation quotas. These count every recorded generation across
// all callers, on top of the per-client limiter.
const (
	PerMinuteQuota = 5
	PerDayQuota    = 20
)

// Guard decides whether a generation request may go upstream. It checks
// the per-client limiter first, then the ledger-backed minute and day
// quotas, cheapest check first. Ledger reads that fail deny the request:
// the ledger is the enforcement record, so the guard fails closed.
type Guard struct {
	clients   *ratelimit.Keyed
	store     store.S
	perMinute int64
	perDay    int64
	now       func() time.Time
}

func NewGuard(clients *ratelimit.Keyed, s store.S) *Guard {
	return &Guard{
		clients:   clients,
		store:     s,
		perMinute: PerMinuteQuota,
		perDay:    PerDayQuota,
		now:       time.Now,
	}
}

// Check returns nil when the request may proceed, and a distinct denial
// error otherwise. No quota is consumed here; usage is recorded only after
// a successful upstream call.
func (g *Guard) Check(ctx context.Context, clientKey string) error {
	if !g.clients.Allow(clientKey) {
		return ErrClientLimited
	}

	now := g.now()

	used, err := g.store.CountUsageSince(ctx, now.Add(-time.Minute))
	if err != nil {
		return fmt.Errorf("usage ledger read failed: %w", err)
	}
	if used >= g.perMinute {
		return ErrMinuteQuotaExceeded
	}

	used, err = g.store.CountUsageSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return fmt.Errorf("usage ledger read failed: %w", err)
	}
	if used >= g.perDay {
		return ErrDailyQuotaExceeded
	}
	return nil
}
