// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package storetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vigilproj/vigil/model"
)

// MockStore is a stretchr mock of store.S.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) PushSnapshot(ctx context.Context, snapshot model.Snapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockStore) LatestSnapshot(ctx context.Context, subjectID string, resource model.Resource) (model.Snapshot, error) {
	args := m.Called(ctx, subjectID, resource)
	return args.Get(0).(model.Snapshot), args.Error(1)
}

func (m *MockStore) UpsertProfile(ctx context.Context, profile model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockStore) GetProfile(ctx context.Context, subjectID string) (model.Profile, error) {
	args := m.Called(ctx, subjectID)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *MockStore) AppendUsage(ctx context.Context, entry model.UsageEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockStore) CountUsageSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}
