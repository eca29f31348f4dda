// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

// Package storetest holds the conformance suite and mocks shared by the
// store implementations and their consumers.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vigilproj/vigil/model"
	"github.com/vigilproj/vigil/store"
)

// StoreTest exercises the full store.S contract against an implementation.
func StoreTest(t *testing.T, s store.S) {
	ctx := context.Background()
	base := time.Date(2025, time.March, 9, 12, 0, 0, 0, time.UTC)

	t.Run("snapshot round trip", func(t *testing.T) {
		assert := assert.New(t)
		require := require.New(t)

		payload := []byte(`{"response":{"players":[{"personaname":"gordon","avatarfull":"http://img/a.jpg"}]}}`)
		require.NoError(s.PushSnapshot(ctx, model.Snapshot{
			SubjectID: "76561198000000001",
			Resource:  model.PlayerSummary(),
			Payload:   payload,
			CreatedAt: base,
		}))

		got, err := s.LatestSnapshot(ctx, "76561198000000001", model.PlayerSummary())
		require.NoError(err)
		// Persisted payloads come back byte-identical.
		assert.Equal(payload, []byte(got.Payload))
		assert.Equal(base, got.CreatedAt)
	})

	t.Run("latest snapshot wins", func(t *testing.T) {
		assert := assert.New(t)
		require := require.New(t)

		require.NoError(s.PushSnapshot(ctx, model.Snapshot{
			SubjectID: "76561198000000002",
			Resource:  model.OwnedGames(),
			Payload:   []byte(`{"game_count":1}`),
			CreatedAt: base,
		}))
		require.NoError(s.PushSnapshot(ctx, model.Snapshot{
			SubjectID: "76561198000000002",
			Resource:  model.OwnedGames(),
			Payload:   []byte(`{"game_count":2}`),
			CreatedAt: base.Add(time.Hour),
		}))

		got, err := s.LatestSnapshot(ctx, "76561198000000002", model.OwnedGames())
		require.NoError(err)
		assert.JSONEq(`{"game_count":2}`, string(got.Payload))
	})

	t.Run("achievements are keyed per game", func(t *testing.T) {
		assert := assert.New(t)
		require := require.New(t)

		require.NoError(s.PushSnapshot(ctx, model.Snapshot{
			SubjectID: "76561198000000003",
			Resource:  model.Achievements("440"),
			Payload:   []byte(`{"appid":440}`),
			CreatedAt: base,
		}))

		_, err := s.LatestSnapshot(ctx, "76561198000000003", model.Achievements("570"))
		assert.ErrorAs(err, &store.SnapshotNotFoundError{})

		got, err := s.LatestSnapshot(ctx, "76561198000000003", model.Achievements("440"))
		require.NoError(err)
		assert.JSONEq(`{"appid":440}`, string(got.Payload))
	})

	t.Run("missing snapshot", func(t *testing.T) {
		_, err := s.LatestSnapshot(ctx, "76561198999999999", model.PlayerSummary())
		assert.ErrorAs(t, err, &store.SnapshotNotFoundError{})
	})

	t.Run("profile upsert overwrites", func(t *testing.T) {
		assert := assert.New(t)
		require := require.New(t)

		require.NoError(s.UpsertProfile(ctx, model.Profile{
			SubjectID:   "76561198000000004",
			DisplayName: "before",
			AvatarURL:   "http://img/before.jpg",
			UpdatedAt:   base,
		}))
		require.NoError(s.UpsertProfile(ctx, model.Profile{
			SubjectID:   "76561198000000004",
			DisplayName: "after",
			AvatarURL:   "http://img/after.jpg",
			UpdatedAt:   base.Add(time.Minute),
		}))

		got, err := s.GetProfile(ctx, "76561198000000004")
		require.NoError(err)
		assert.Equal("after", got.DisplayName)
		assert.Equal("http://img/after.jpg", got.AvatarURL)
		assert.Equal(base.Add(time.Minute), got.UpdatedAt)
	})

	t.Run("missing profile", func(t *testing.T) {
		_, err := s.GetProfile(ctx, "76561198999999999")
		assert.ErrorAs(t, err, &store.ProfileNotFoundError{})
	})

	t.Run("usage windows", func(t *testing.T) {
		assert := assert.New(t)
		require := require.New(t)

		for _, age := range []time.Duration{30 * time.Second, 5 * time.Minute, 23 * time.Hour, 25 * time.Hour} {
			require.NoError(s.AppendUsage(ctx, model.UsageEntry{CreatedAt: base.Add(-age)}))
		}

		lastMinute, err := s.CountUsageSince(ctx, base.Add(-time.Minute))
		require.NoError(err)
		assert.Equal(int64(1), lastMinute)

		lastDay, err := s.CountUsageSince(ctx, base.Add(-24*time.Hour))
		require.NoError(err)
		assert.Equal(int64(3), lastDay)
	})
}
