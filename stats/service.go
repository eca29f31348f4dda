// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

// Package stats serves player documents from the snapshot cache, falling
// back to the upstream fetcher on a miss. A cached row is served whenever
// its payload still parses; age is never checked.
package stats

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/vigilproj/vigil/model"
	"github.com/vigilproj/vigil/store"
	"go.uber.org/zap"
)

// Fetcher is the upstream source of player documents.
type Fetcher interface {
	PlayerSummary(ctx context.Context, steamID string) (json.RawMessage, error)
	OwnedGames(ctx context.Context, steamID string) (json.RawMessage, error)
	PlayerAchievements(ctx context.Context, steamID, appID string) (json.RawMessage, error)
}

// PlayerData is the combined document for one player. Parts are fetched
// independently; a missing part carries a note under Errors instead of
// failing the whole response.
type PlayerData struct {
	PlayerSummary json.RawMessage   `json:"player_summary,omitempty"`
	OwnedGames    json.RawMessage   `json:"owned_games,omitempty"`
	Errors        map[string]string `json:"errors,omitempty"`
}

// Service orchestrates cache reads, upstream fetches, and snapshot writes.
type Service struct {
	store  store.S
	client Fetcher
	logger *zap.Logger
}

func NewService(s store.S, client Fetcher, logger *zap.Logger) *Service {
	return &Service{
		store:  s,
		client: client,
		logger: logger,
	}
}

// PlayerData fetches the summary and owned-games parts independently. The
// response is an error only when both parts failed; the summary failure
// wins as the reported cause.
func (s *Service) PlayerData(ctx context.Context, subjectID string) (*PlayerData, error) {
	summary, summaryErr := s.resource(ctx, subjectID, model.PlayerSummary())
	games, gamesErr := s.resource(ctx, subjectID, model.OwnedGames())

	if summaryErr != nil && gamesErr != nil {
		return nil, summaryErr
	}

	data := &PlayerData{
		PlayerSummary: summary,
		OwnedGames:    games,
	}
	if summaryErr != nil {
		data.Errors = map[string]string{"player_summary": summaryErr.Error()}
	} else if gamesErr != nil {
		data.Errors = map[string]string{"owned_games": gamesErr.Error()}
	}
	return data, nil
}

// Achievements serves the achievements document for one player and one
// game.
func (s *Service) Achievements(ctx context.Context, subjectID, appID string) (json.RawMessage, error) {
	resource := model.Achievements(appID)
	if err := resource.Validate(); err != nil {
		return nil, &BadRequestErr{Message: err.Error()}
	}
	return s.resource(ctx, subjectID, resource)
}

// Profile returns the denormalized profile row maintained as a side effect
// of summary fetches. It never goes upstream.
func (s *Service) Profile(ctx context.Context, subjectID string) (model.Profile, error) {
	return s.store.GetProfile(ctx, subjectID)
}

// resource serves one document: latest snapshot if its payload parses,
// upstream otherwise. Store failures degrade to misses on read and to log
// lines on write; the caller still gets the freshly fetched payload.
func (s *Service) resource(ctx context.Context, subjectID string, resource model.Resource) (json.RawMessage, error) {
	snapshot, err := s.store.LatestSnapshot(ctx, subjectID, resource)
	if err == nil {
		if json.Valid(snapshot.Payload) {
			return snapshot.Payload, nil
		}
		s.logger.Warn("cached snapshot payload does not parse, refetching",
			zap.String("subjectId", subjectID), zap.String("resource", resource.Tag()))
	} else if !isNotFound(err) {
		s.logger.Warn("snapshot read failed, treating as cache miss",
			zap.String("subjectId", subjectID), zap.String("resource", resource.Tag()), zap.Error(err))
	}

	payload, err := s.fetch(ctx, subjectID, resource)
	if err != nil {
		return nil, err
	}

	pushErr := s.store.PushSnapshot(ctx, model.Snapshot{
		SubjectID: subjectID,
		Resource:  resource,
		Payload:   payload,
	})
	if pushErr != nil {
		s.logger.Error("failed to cache snapshot",
			zap.String("subjectId", subjectID), zap.String("resource", resource.Tag()), zap.Error(pushErr))
	}

	if resource.Kind == model.KindPlayerSummary {
		s.upsertProfile(ctx, subjectID, payload)
	}
	return payload, nil
}

func (s *Service) fetch(ctx context.Context, subjectID string, resource model.Resource) (json.RawMessage, error) {
	switch resource.Kind {
	case model.KindPlayerSummary:
		return s.client.PlayerSummary(ctx, subjectID)
	case model.KindOwnedGames:
		return s.client.OwnedGames(ctx, subjectID)
	case model.KindAchievements:
		return s.client.PlayerAchievements(ctx, subjectID, resource.AppID)
	default:
		return nil, model.ErrUnknownKind
	}
}

// upsertProfile extracts the display name and avatar from a summary
// payload. Extraction is best effort: a payload without those fields is
// skipped silently, and a failed write is only logged.
func (s *Service) upsertProfile(ctx context.Context, subjectID string, payload json.RawMessage) {
	var doc struct {
		Response struct {
			Players []struct {
				PersonaName string `json:"personaname"`
				AvatarFull  string `json:"avatarfull"`
			} `json:"players"`
		} `json:"response"`
	}
	if err := json.Unmarshal(payload, &doc); err != nil || len(doc.Response.Players) == 0 {
		return
	}

	player := doc.Response.Players[0]
	if player.PersonaName == "" && player.AvatarFull == "" {
		return
	}

	err := s.store.UpsertProfile(ctx, model.Profile{
		SubjectID:   subjectID,
		DisplayName: player.PersonaName,
		AvatarURL:   player.AvatarFull,
	})
	if err != nil {
		s.logger.Error("failed to upsert profile",
			zap.String("subjectId", subjectID), zap.Error(err))
	}
}

func isNotFound(err error) bool {
	var snapshotNotFound store.SnapshotNotFoundError
	return errors.As(err, &snapshotNotFound)
}
