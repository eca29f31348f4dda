// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"time"

	"github.com/vigilproj/vigil/model"
)

const (
	// TypeLabel labels store metrics with the operation performed.
	TypeLabel = "type"

	PushSnapshotType   = "push_snapshot"
	LatestSnapshotType = "latest_snapshot"
	UpsertProfileType  = "upsert_profile"
	GetProfileType     = "get_profile"
	AppendUsageType    = "append_usage"
	CountUsageType     = "count_usage"
)

const (
	// OutcomeLabel labels store metrics with the query result.
	OutcomeLabel   = "outcome"
	SuccessOutcome = "success"
	FailureOutcome = "failure"
)

// S is the persistence contract for vigil: the snapshot cache, the
// denormalized profile table, and the AI usage ledger all live behind it.
type S interface {
	// PushSnapshot appends one upstream response verbatim. Snapshots are
	// never updated or deleted. A zero CreatedAt is assigned by the store.
	PushSnapshot(ctx context.Context, snapshot model.Snapshot) error

	// LatestSnapshot returns the most recently created snapshot for the
	// (subject, resource) pair, or a SnapshotNotFoundError.
	LatestSnapshot(ctx context.Context, subjectID string, resource model.Resource) (model.Snapshot, error)

	// UpsertProfile inserts or overwrites the single profile row for the
	// snapshot's subject. Last writer wins.
	UpsertProfile(ctx context.Context, profile model.Profile) error

	// GetProfile returns the denormalized profile row for a subject, or a
	// ProfileNotFoundError.
	GetProfile(ctx context.Context, subjectID string) (model.Profile, error)

	// AppendUsage records one accounted AI call. Entries are append-only.
	AppendUsage(ctx context.Context, entry model.UsageEntry) error

	// CountUsageSince counts usage entries created strictly after since.
	CountUsageSince(ctx context.Context, since time.Time) (int64, error)
}
