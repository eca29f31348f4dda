// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vigilproj/vigil/store/storetest"
)

func TestConformance(t *testing.T) {
	s, err := Open(Config{Path: filepath.Join(t.TempDir(), "vigil.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	storetest.StoreTest(t, s)
}

func TestOpenRequiresPath(t *testing.T) {
	assert := assert.New(t)
	s, err := Open(Config{})
	assert.ErrorIs(err, ErrPathEmpty)
	assert.Nil(s)
}

func TestOpenIsIdempotent(t *testing.T) {
	require := require.New(t)
	path := filepath.Join(t.TempDir(), "vigil.db")

	s, err := Open(Config{Path: path})
	require.NoError(err)
	require.NoError(s.Close())

	// Reopening an existing database must not fail on the bootstrap DDL.
	s, err = Open(Config{Path: path})
	require.NoError(err)
	require.NoError(s.Close())
}
