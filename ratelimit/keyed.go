// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type keyedEntry struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// Keyed maintains one bucket per key, created lazily on first use. Keys are
// typically client network addresses. Buckets idle for long enough are
// reclaimed by Prune.
type Keyed struct {
	config Config

	mu      sync.Mutex
	entries map[string]*keyedEntry
	now     func() time.Time
}

// NewKeyed builds an empty keyed limiter where every key gets its own bucket
// with the given config.
func NewKeyed(c Config) (*Keyed, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &Keyed{
		config:  c,
		entries: map[string]*keyedEntry{},
		now:     time.Now,
	}, nil
}

// Allow reports whether the given key may proceed right now, consuming one
// token from that key's bucket when it may. Distinct keys never contend for
// tokens.
func (k *Keyed) Allow(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	e, ok := k.entries[key]
	if !ok {
		e = &keyedEntry{bucket: rate.NewLimiter(k.config.limit(), k.config.Requests)}
		k.entries[key] = e
	}
	e.lastSeen = k.now()
	return e.bucket.Allow()
}

// Prune drops buckets that have not been used within idleFor and returns the
// number removed. An idle bucket is full again by definition, so dropping it
// loses no accounting.
func (k *Keyed) Prune(idleFor time.Duration) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	cutoff := k.now().Add(-idleFor)
	removed := 0
	for key, e := range k.entries {
		if e.lastSeen.Before(cutoff) {
			delete(k.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of live buckets.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}
