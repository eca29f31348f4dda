// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind enumerates the upstream resource shapes vigil caches.
type Kind string

const (
	// KindPlayerSummary is the provider's player profile summary.
	KindPlayerSummary Kind = "player_summary"

	// KindOwnedGames is the provider's owned-games list.
	KindOwnedGames Kind = "owned_games"

	// KindAchievements is the per-game achievements list. A Resource of
	// this kind must carry the game's AppID.
	KindAchievements Kind = "achievements"
)

const achievementsTagPrefix = "achievements:"

var (
	ErrUnknownKind   = errors.New("unknown resource kind")
	ErrMissingAppID  = errors.New("achievements resource requires an app ID")
	ErrUnwantedAppID = errors.New("app ID is only valid for achievements resources")
)

// Resource identifies which upstream document a Snapshot holds.
type Resource struct {
	Kind Kind

	// AppID is the game identifier. Set if and only if Kind is
	// KindAchievements.
	AppID string
}

// PlayerSummary returns the profile summary resource.
func PlayerSummary() Resource {
	return Resource{Kind: KindPlayerSummary}
}

// OwnedGames returns the owned-games resource.
func OwnedGames() Resource {
	return Resource{Kind: KindOwnedGames}
}

// Achievements returns the achievements resource for the given game.
func Achievements(appID string) Resource {
	return Resource{Kind: KindAchievements, AppID: appID}
}

// Validate checks that the resource is one of the closed set of kinds and
// that the AppID field agrees with the kind.
func (r Resource) Validate() error {
	switch r.Kind {
	case KindPlayerSummary, KindOwnedGames:
		if r.AppID != "" {
			return ErrUnwantedAppID
		}
		return nil
	case KindAchievements:
		if r.AppID == "" {
			return ErrMissingAppID
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, r.Kind)
	}
}

// Tag renders the storage discriminator for this resource. Achievements
// tags embed the game identifier.
func (r Resource) Tag() string {
	if r.Kind == KindAchievements {
		return achievementsTagPrefix + r.AppID
	}
	return string(r.Kind)
}

// ParseTag is the inverse of Tag.
func ParseTag(tag string) (Resource, error) {
	if appID, ok := strings.CutPrefix(tag, achievementsTagPrefix); ok {
		r := Achievements(appID)
		return r, r.Validate()
	}
	r := Resource{Kind: Kind(tag)}
	return r, r.Validate()
}

// Snapshot is one persisted upstream response. Snapshots are immutable and
// append-only; readers always want the most recent CreatedAt for a given
// (SubjectID, Resource) pair.
type Snapshot struct {
	// SubjectID is the opaque identifier of the user the data belongs to.
	SubjectID string `json:"subjectId"`

	Resource Resource `json:"resource"`

	// Payload is the upstream document exactly as received.
	Payload json.RawMessage `json:"payload"`

	CreatedAt time.Time `json:"createdAt"`
}

// Profile is the denormalized latest-known identity for a subject. At most
// one row exists per SubjectID and every field reflects the most recent
// successful player-summary fetch.
type Profile struct {
	SubjectID   string    `json:"subjectId"`
	DisplayName string    `json:"displayName,omitempty"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// UsageEntry records one accounted call to the AI endpoint. Rolling-window
// quota counts are derived by filtering on CreatedAt at read time.
type UsageEntry struct {
	CreatedAt time.Time `json:"createdAt"`

	// CostUnits is a best-effort cost estimate. Zero is allowed.
	CostUnits int64 `json:"costUnits"`
}
