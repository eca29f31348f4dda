// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"fmt"
	"net/http"

	"github.com/vigilproj/vigil/model"
	"github.com/xmidt-org/httpaux/erraux"
)

// SnapshotNotFoundError means no snapshot exists yet for the requested
// (subject, resource) pair. Callers treat it as a cache miss.
type SnapshotNotFoundError struct {
	SubjectID string
	Resource  model.Resource
}

func (e SnapshotNotFoundError) Error() string {
	return fmt.Sprintf("no snapshot for subject %s resource %s", e.SubjectID, e.Resource.Tag())
}

func (e SnapshotNotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// ProfileNotFoundError means no profile row exists for the subject.
type ProfileNotFoundError struct {
	SubjectID string
}

func (e ProfileNotFoundError) Error() string {
	return fmt.Sprintf("no profile for subject %s", e.SubjectID)
}

func (e ProfileNotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// SanitizedError keeps the raw storage failure for logs while exposing only
// a short generic message and status code to HTTP callers.
type SanitizedError struct {
	Err     error
	ErrHTTP erraux.Error
}

func (s SanitizedError) Error() string {
	return s.ErrHTTP.Error()
}

func (s SanitizedError) Unwrap() error {
	return s.Err
}

func (s SanitizedError) StatusCode() int {
	return s.ErrHTTP.StatusCode()
}
