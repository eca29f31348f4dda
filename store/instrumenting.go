// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vigilproj/vigil/model"
	"github.com/vigilproj/vigil/store/metric"
)

// instrumented decorates an S with query counters and latency observations,
// keeping measurement orthogonal to the storage implementations.
type instrumented struct {
	next     S
	measures metric.Measures
	now      func() time.Time
}

// NewInstrumented wraps the given store with the package metrics.
func NewInstrumented(next S, measures metric.Measures) S {
	return &instrumented{next: next, measures: measures, now: time.Now}
}

func (i *instrumented) observe(op string, begin time.Time, err error) {
	outcome := SuccessOutcome
	if err != nil {
		outcome = FailureOutcome
	}
	i.measures.Queries.With(prometheus.Labels{TypeLabel: op, OutcomeLabel: outcome}).Inc()
	i.measures.QueryDuration.With(prometheus.Labels{TypeLabel: op}).Observe(i.now().Sub(begin).Seconds())
}

func (i *instrumented) PushSnapshot(ctx context.Context, snapshot model.Snapshot) (err error) {
	defer func(begin time.Time) { i.observe(PushSnapshotType, begin, err) }(i.now())
	return i.next.PushSnapshot(ctx, snapshot)
}

func (i *instrumented) LatestSnapshot(ctx context.Context, subjectID string, resource model.Resource) (snapshot model.Snapshot, err error) {
	defer func(begin time.Time) { i.observe(LatestSnapshotType, begin, err) }(i.now())
	return i.next.LatestSnapshot(ctx, subjectID, resource)
}

func (i *instrumented) UpsertProfile(ctx context.Context, profile model.Profile) (err error) {
	defer func(begin time.Time) { i.observe(UpsertProfileType, begin, err) }(i.now())
	return i.next.UpsertProfile(ctx, profile)
}

func (i *instrumented) GetProfile(ctx context.Context, subjectID string) (profile model.Profile, err error) {
	defer func(begin time.Time) { i.observe(GetProfileType, begin, err) }(i.now())
	return i.next.GetProfile(ctx, subjectID)
}

func (i *instrumented) AppendUsage(ctx context.Context, entry model.UsageEntry) (err error) {
	defer func(begin time.Time) { i.observe(AppendUsageType, begin, err) }(i.now())
	return i.next.AppendUsage(ctx, entry)
}

func (i *instrumented) CountUsageSince(ctx context.Context, since time.Time) (count int64, err error) {
	defer func(begin time.Time) { i.observe(CountUsageType, begin, err) }(i.now())
	return i.next.CountUsageSince(ctx, since)
}
