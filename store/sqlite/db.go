// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

// Package sqlite persists vigil's snapshots, profiles, and usage ledger in a
// local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/vigilproj/vigil/model"
	"github.com/vigilproj/vigil/store"
	"github.com/xmidt-org/httpaux/erraux"

	_ "modernc.org/sqlite"
)

// Config holds the sqlite store settings.
type Config struct {
	// Path is the database file location.
	Path string
}

var ErrPathEmpty = errors.New("sqlite database path is required")

var errDefaultSqliteFailure = erraux.Error{
	Err:  errors.New("sqlite operation failed"),
	Code: http.StatusInternalServerError,
}

// Schema evolution is handled out of band; the store only guarantees the
// tables it reads and writes exist.
const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	subject_id   TEXT    NOT NULL,
	resource_tag TEXT    NOT NULL,
	payload      BLOB    NOT NULL,
	created_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_lookup
	ON snapshots (subject_id, resource_tag, created_at);

CREATE TABLE IF NOT EXISTS profiles (
	subject_id   TEXT PRIMARY KEY,
	display_name TEXT,
	avatar_url   TEXT,
	updated_at   INTEGER
);

CREATE TABLE IF NOT EXISTS usage_log (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at INTEGER NOT NULL,
	cost_units INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_usage_created ON usage_log (created_at);
`

// Store is the sqlite-backed implementation of store.S.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the database file, applies connection pragmas, and ensures the
// vigil tables exist.
func Open(config Config) (*Store, error) {
	if strings.TrimSpace(config.Path) == "" {
		return nil, ErrPathEmpty
	}
	dsn := filepath.Clean(config.Path) +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func sanitize(err error) error {
	return store.SanitizedError{Err: err, ErrHTTP: errDefaultSqliteFailure}
}

func (s *Store) PushSnapshot(ctx context.Context, snapshot model.Snapshot) error {
	if err := snapshot.Resource.Validate(); err != nil {
		return err
	}
	createdAt := snapshot.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (subject_id, resource_tag, payload, created_at) VALUES (?, ?, ?, ?)`,
		snapshot.SubjectID, snapshot.Resource.Tag(), []byte(snapshot.Payload), toMillis(createdAt))
	if err != nil {
		return sanitize(err)
	}
	return nil
}

func (s *Store) LatestSnapshot(ctx context.Context, subjectID string, resource model.Resource) (model.Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT payload, created_at FROM snapshots
		 WHERE subject_id = ? AND resource_tag = ?
		 ORDER BY created_at DESC, id DESC LIMIT 1`,
		subjectID, resource.Tag())

	var (
		payload   []byte
		createdAt int64
	)
	err := row.Scan(&payload, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Snapshot{}, store.SnapshotNotFoundError{SubjectID: subjectID, Resource: resource}
	}
	if err != nil {
		return model.Snapshot{}, sanitize(err)
	}
	return model.Snapshot{
		SubjectID: subjectID,
		Resource:  resource,
		Payload:   payload,
		CreatedAt: fromMillis(createdAt),
	}, nil
}

func (s *Store) UpsertProfile(ctx context.Context, profile model.Profile) error {
	updatedAt := profile.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (subject_id, display_name, avatar_url, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(subject_id) DO UPDATE SET
			display_name = excluded.display_name,
			avatar_url   = excluded.avatar_url,
			updated_at   = excluded.updated_at`,
		profile.SubjectID, profile.DisplayName, profile.AvatarURL, toMillis(updatedAt))
	if err != nil {
		return sanitize(err)
	}
	return nil
}

func (s *Store) GetProfile(ctx context.Context, subjectID string) (model.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT display_name, avatar_url, updated_at FROM profiles WHERE subject_id = ?`,
		subjectID)

	var (
		displayName sql.NullString
		avatarURL   sql.NullString
		updatedAt   sql.NullInt64
	)
	err := row.Scan(&displayName, &avatarURL, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Profile{}, store.ProfileNotFoundError{SubjectID: subjectID}
	}
	if err != nil {
		return model.Profile{}, sanitize(err)
	}
	profile := model.Profile{
		SubjectID:   subjectID,
		DisplayName: displayName.String,
		AvatarURL:   avatarURL.String,
	}
	if updatedAt.Valid {
		profile.UpdatedAt = fromMillis(updatedAt.Int64)
	}
	return profile, nil
}

func (s *Store) AppendUsage(ctx context.Context, entry model.UsageEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO usage_log (created_at, cost_units) VALUES (?, ?)`,
		toMillis(createdAt), entry.CostUnits)
	if err != nil {
		return sanitize(err)
	}
	return nil
}

func (s *Store) CountUsageSince(ctx context.Context, since time.Time) (int64, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM usage_log WHERE created_at > ?`, toMillis(since))
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, sanitize(err)
	}
	return count, nil
}
