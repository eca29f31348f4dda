// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package stats

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vigilproj/vigil/model"
	"github.com/vigilproj/vigil/steam"
	"github.com/vigilproj/vigil/store"
	"github.com/xmidt-org/httpaux/erraux"
)

func TestDecodePlayerDataRequest(t *testing.T) {
	assert := assert.New(t)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/steam/user/76561197960435530", nil)
	r = mux.SetURLVars(r, map[string]string{idVarKey: "76561197960435530"})

	decoded, err := decodePlayerDataRequest(context.Background(), r)
	assert.NoError(err)
	assert.Equal(&playerDataRequest{SubjectID: "76561197960435530"}, decoded)

	r = httptest.NewRequest(http.MethodGet, "/api/v1/steam/user/", nil)
	_, err = decodePlayerDataRequest(context.Background(), r)
	assert.Equal(&BadRequestErr{Message: idVarMissingMsg}, err)
}

func TestDecodeAchievementsRequest(t *testing.T) {
	assert := assert.New(t)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/steam/user/76561197960435530/achievements/440", nil)
	r = mux.SetURLVars(r, map[string]string{idVarKey: "76561197960435530", appIDVarKey: "440"})

	decoded, err := decodeAchievementsRequest(context.Background(), r)
	assert.NoError(err)
	assert.Equal(&achievementsRequest{SubjectID: "76561197960435530", AppID: "440"}, decoded)

	r = httptest.NewRequest(http.MethodGet, "/api/v1/steam/user/76561197960435530/achievements/", nil)
	r = mux.SetURLVars(r, map[string]string{idVarKey: "76561197960435530"})
	_, err = decodeAchievementsRequest(context.Background(), r)
	assert.Equal(&BadRequestErr{Message: appIDVarMissingMsg}, err)
}

func TestStatusCodeOf(t *testing.T) {
	type testCase struct {
		Description  string
		Err          error
		ExpectedCode int
	}

	tcs := []testCase{
		{
			Description:  "Bad request",
			Err:          &BadRequestErr{Message: "nope"},
			ExpectedCode: http.StatusBadRequest,
		},
		{
			Description:  "Snapshot not found",
			Err:          store.SnapshotNotFoundError{SubjectID: "x", Resource: model.OwnedGames()},
			ExpectedCode: http.StatusNotFound,
		},
		{
			Description:  "Profile not found",
			Err:          store.ProfileNotFoundError{SubjectID: "x"},
			ExpectedCode: http.StatusNotFound,
		},
		{
			Description:  "Sanitized storage failure",
			Err:          store.SanitizedError{Err: assert.AnError, ErrHTTP: erraux.Error{Code: http.StatusInternalServerError}},
			ExpectedCode: http.StatusInternalServerError,
		},
		{
			Description:  "Upstream throttled",
			Err:          steam.ErrThrottled,
			ExpectedCode: http.StatusBadGateway,
		},
		{
			Description:  "Upstream transport",
			Err:          steam.ErrDoRequestFailure,
			ExpectedCode: http.StatusBadGateway,
		},
		{
			Description:  "Upstream parse",
			Err:          steam.ErrBadPayload,
			ExpectedCode: http.StatusBadGateway,
		},
		{
			Description:  "Upstream non success",
			Err:          steam.ErrNonSuccessResponse,
			ExpectedCode: http.StatusBadGateway,
		},
		{
			Description:  "Missing upstream key",
			Err:          steam.ErrMissingAPIKey,
			ExpectedCode: http.StatusInternalServerError,
		},
		{
			Description:  "Missing app id",
			Err:          model.ErrMissingAppID,
			ExpectedCode: http.StatusBadRequest,
		},
		{
			Description:  "Unknown",
			Err:          assert.AnError,
			ExpectedCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.Description, func(t *testing.T) {
			assert.Equal(t, tc.ExpectedCode, statusCodeOf(tc.Err))
		})
	}
}

func TestEncodeError(t *testing.T) {
	assert := assert.New(t)

	recorder := httptest.NewRecorder()
	encodeError(context.Background(), steam.ErrThrottled, recorder)

	assert.Equal(http.StatusBadGateway, recorder.Code)
	assert.Equal(steam.ErrThrottled.Error(), recorder.Header().Get(ErrorHeaderKey))
	assert.JSONEq(`{"error":"`+steam.ErrThrottled.Error()+`"}`, recorder.Body.String())
}

func TestEncodeJSONResponse(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	recorder := httptest.NewRecorder()
	require.NoError(encodeJSONResponse(context.Background(), recorder, &PlayerData{
		Errors: map[string]string{"owned_games": "steam is throttling requests"},
	}))

	assert.Equal("application/json", recorder.Header().Get("Content-Type"))
	assert.JSONEq(`{"errors":{"owned_games":"steam is throttling requests"}}`, recorder.Body.String())
}
