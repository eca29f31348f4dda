// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/vigilproj/vigil/model"
	"github.com/vigilproj/vigil/store"
)

type snapshotKey struct {
	subjectID string
	tag       string
}

// InMem is a mutex-guarded implementation of store.S.
type InMem struct {
	lock      sync.Mutex
	snapshots map[snapshotKey][]model.Snapshot
	profiles  map[string]model.Profile
	usage     []model.UsageEntry
	now       func() time.Time
}

// New creates an empty in-memory store.
func New() *InMem {
	return &InMem{
		snapshots: map[snapshotKey][]model.Snapshot{},
		profiles:  map[string]model.Profile{},
		now:       time.Now,
	}
}

func (i *InMem) PushSnapshot(_ context.Context, snapshot model.Snapshot) error {
	if err := snapshot.Resource.Validate(); err != nil {
		return err
	}
	i.lock.Lock()
	defer i.lock.Unlock()
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = i.now().UTC()
	}
	key := snapshotKey{subjectID: snapshot.SubjectID, tag: snapshot.Resource.Tag()}
	i.snapshots[key] = append(i.snapshots[key], snapshot)
	return nil
}

func (i *InMem) LatestSnapshot(_ context.Context, subjectID string, resource model.Resource) (model.Snapshot, error) {
	i.lock.Lock()
	defer i.lock.Unlock()
	rows := i.snapshots[snapshotKey{subjectID: subjectID, tag: resource.Tag()}]
	if len(rows) == 0 {
		return model.Snapshot{}, store.SnapshotNotFoundError{SubjectID: subjectID, Resource: resource}
	}
	latest := rows[0]
	for _, row := range rows[1:] {
		if !row.CreatedAt.Before(latest.CreatedAt) {
			latest = row
		}
	}
	return latest, nil
}

func (i *InMem) UpsertProfile(_ context.Context, profile model.Profile) error {
	i.lock.Lock()
	defer i.lock.Unlock()
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = i.now().UTC()
	}
	i.profiles[profile.SubjectID] = profile
	return nil
}

func (i *InMem) GetProfile(_ context.Context, subjectID string) (model.Profile, error) {
	i.lock.Lock()
	defer i.lock.Unlock()
	profile, ok := i.profiles[subjectID]
	if !ok {
		return model.Profile{}, store.ProfileNotFoundError{SubjectID: subjectID}
	}
	return profile, nil
}

func (i *InMem) AppendUsage(_ context.Context, entry model.UsageEntry) error {
	i.lock.Lock()
	defer i.lock.Unlock()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = i.now().UTC()
	}
	i.usage = append(i.usage, entry)
	return nil
}

func (i *InMem) CountUsageSince(_ context.Context, since time.Time) (int64, error) {
	i.lock.Lock()
	defer i.lock.Unlock()
	var count int64
	for _, entry := range i.usage {
		if entry.CreatedAt.After(since) {
			count++
		}
	}
	return count, nil
}
