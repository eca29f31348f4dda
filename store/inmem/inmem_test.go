// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package inmem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vigilproj/vigil/model"
	"github.com/vigilproj/vigil/store/storetest"
)

func TestConformance(t *testing.T) {
	storetest.StoreTest(t, New())
}

func TestAssignsCreationTime(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	s := New()
	current := time.Date(2025, time.March, 9, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	ctx := context.Background()
	require.NoError(s.PushSnapshot(ctx, model.Snapshot{
		SubjectID: "76561198000000001",
		Resource:  model.PlayerSummary(),
		Payload:   []byte(`{}`),
	}))

	got, err := s.LatestSnapshot(ctx, "76561198000000001", model.PlayerSummary())
	require.NoError(err)
	assert.Equal(current, got.CreatedAt)
}

func TestRejectsInvalidResource(t *testing.T) {
	s := New()
	err := s.PushSnapshot(context.Background(), model.Snapshot{
		SubjectID: "76561198000000001",
		Resource:  model.Resource{Kind: "nope"},
		Payload:   []byte(`{}`),
	})
	assert.ErrorIs(t, err, model.ErrUnknownKind)
}
