// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package steam

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type waitFunc func(context.Context) error

func (w waitFunc) Wait(ctx context.Context) error {
	return w(ctx)
}

func openLimiter() Limiter {
	return waitFunc(func(context.Context) error { return nil })
}

func newTestClient(t *testing.T, config Config, limiter Limiter) (*Client, *[]time.Duration) {
	t.Helper()
	client, err := New(config, limiter, nil)
	require.NoError(t, err)

	slept := new([]time.Duration)
	client.sleep = func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
	return client, slept
}

func TestValidateConfig(t *testing.T) {
	type testCase struct {
		Description     string
		Input           Config
		ExpectErr       bool
		ExpectedAddress string
	}

	tcs := []testCase{
		{
			Description:     "All default values",
			Input:           Config{},
			ExpectedAddress: defaultAddress,
		},
		{
			Description:     "Address defined",
			Input:           Config{Address: "http://legit-steam-hostname.io"},
			ExpectedAddress: "http://legit-steam-hostname.io",
		},
		{
			Description: "Address not a URL",
			Input:       Config{Address: "not a url at all"},
			ExpectErr:   true,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.Description, func(t *testing.T) {
			assert := assert.New(t)
			err := validateConfig(&tc.Input)
			if tc.ExpectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.ExpectedAddress, tc.Input.Address)
			assert.Equal(http.DefaultClient, tc.Input.HTTPClient)
			assert.NotNil(tc.Input.Logger)
		})
	}
}

func TestNewRequiresLimiter(t *testing.T) {
	_, err := New(Config{}, nil, nil)
	assert.ErrorIs(t, err, ErrNilLimiter)
}

func TestMissingAPIKey(t *testing.T) {
	assert := assert.New(t)

	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		atomic.AddInt64(&hits, 1)
		rw.Write([]byte(`{}`))
	}))
	defer server.Close()

	var acquired int64
	limiter := waitFunc(func(context.Context) error {
		atomic.AddInt64(&acquired, 1)
		return nil
	})

	client, _ := newTestClient(t, Config{Address: server.URL, HTTPClient: server.Client()}, limiter)

	_, err := client.PlayerSummary(context.Background(), "76561197960435530")
	assert.ErrorIs(err, ErrMissingAPIKey)
	assert.Zero(atomic.LoadInt64(&hits), "no request should reach the network")
	assert.Zero(atomic.LoadInt64(&acquired), "no limiter budget should be spent")
}

func TestFetchSuccess(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	payload := `{"response":{"players":[{"personaname":"gabe"}]}}`
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		assert.Equal(playerSummaryPath, r.URL.Path)
		assert.Equal("secret", r.URL.Query().Get("key"))
		assert.Equal("76561197960435530", r.URL.Query().Get("steamids"))
		rw.Write([]byte(payload))
	}))
	defer server.Close()

	client, slept := newTestClient(t,
		Config{Address: server.URL, APIKey: "secret", HTTPClient: server.Client()}, openLimiter())

	data, err := client.PlayerSummary(context.Background(), "76561197960435530")
	require.NoError(err)
	assert.Equal(payload, string(data))
	assert.Empty(*slept)
}

func TestOwnedGamesQuery(t *testing.T) {
	assert := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		assert.Equal(ownedGamesPath, r.URL.Path)
		assert.Equal("76561197960435530", r.URL.Query().Get("steamid"))
		assert.Equal("1", r.URL.Query().Get("include_appinfo"))
		assert.Equal("1", r.URL.Query().Get("include_played_free_games"))
		rw.Write([]byte(`{"response":{"game_count":0}}`))
	}))
	defer server.Close()

	client, _ := newTestClient(t,
		Config{Address: server.URL, APIKey: "secret", HTTPClient: server.Client()}, openLimiter())

	_, err := client.OwnedGames(context.Background(), "76561197960435530")
	assert.NoError(err)
}

func TestPlayerAchievementsQuery(t *testing.T) {
	assert := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		assert.Equal(achievementsPath, r.URL.Path)
		assert.Equal("76561197960435530", r.URL.Query().Get("steamid"))
		assert.Equal("440", r.URL.Query().Get("appid"))
		rw.Write([]byte(`{"playerstats":{}}`))
	}))
	defer server.Close()

	client, _ := newTestClient(t,
		Config{Address: server.URL, APIKey: "secret", HTTPClient: server.Client()}, openLimiter())

	_, err := client.PlayerAchievements(context.Background(), "76561197960435530", "440")
	assert.NoError(err)
}

func TestRetriesAfterThrottling(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt64(&hits, 1) <= 3 {
			rw.WriteHeader(http.StatusTooManyRequests)
			return
		}
		rw.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	var acquired int64
	limiter := waitFunc(func(context.Context) error {
		atomic.AddInt64(&acquired, 1)
		return nil
	})

	client, slept := newTestClient(t,
		Config{Address: server.URL, APIKey: "secret", HTTPClient: server.Client()}, limiter)

	data, err := client.PlayerSummary(context.Background(), "76561197960435530")
	require.NoError(err)
	assert.JSONEq(`{"ok":true}`, string(data))

	assert.EqualValues(4, atomic.LoadInt64(&hits))
	assert.EqualValues(1, atomic.LoadInt64(&acquired), "retries must not re-acquire the limiter")
	assert.Equal([]time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, *slept)
}

func TestGivesUpAfterMaxRetries(t *testing.T) {
	assert := assert.New(t)

	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		atomic.AddInt64(&hits, 1)
		rw.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, slept := newTestClient(t,
		Config{Address: server.URL, APIKey: "secret", HTTPClient: server.Client()}, openLimiter())

	_, err := client.PlayerSummary(context.Background(), "76561197960435530")
	assert.ErrorIs(err, ErrThrottled)
	assert.EqualValues(4, atomic.LoadInt64(&hits), "initial attempt plus three retries")
	assert.Equal([]time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, *slept)
}

func TestTransportFailure(t *testing.T) {
	assert := assert.New(t)

	client, slept := newTestClient(t,
		Config{Address: "http://should-definitely-fail.net", APIKey: "secret"}, openLimiter())
	client.client = &http.Client{Timeout: 50 * time.Millisecond}

	_, err := client.PlayerSummary(context.Background(), "76561197960435530")
	assert.ErrorIs(err, ErrDoRequestFailure)
	assert.Empty(*slept, "transport errors are not retried")
}

func TestNonSuccessStatus(t *testing.T) {
	assert := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client, _ := newTestClient(t,
		Config{Address: server.URL, APIKey: "secret", HTTPClient: server.Client()}, openLimiter())

	_, err := client.PlayerSummary(context.Background(), "76561197960435530")
	assert.ErrorIs(err, ErrNonSuccessResponse)
}

func TestBadPayload(t *testing.T) {
	assert := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client, _ := newTestClient(t,
		Config{Address: server.URL, APIKey: "secret", HTTPClient: server.Client()}, openLimiter())

	_, err := client.PlayerSummary(context.Background(), "76561197960435530")
	assert.ErrorIs(err, ErrBadPayload)
}

func TestLimiterWaitFailure(t *testing.T) {
	assert := assert.New(t)

	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		atomic.AddInt64(&hits, 1)
		rw.Write([]byte(`{}`))
	}))
	defer server.Close()

	limiter := waitFunc(func(ctx context.Context) error { return context.Canceled })

	client, _ := newTestClient(t,
		Config{Address: server.URL, APIKey: "secret", HTTPClient: server.Client()}, limiter)

	_, err := client.PlayerSummary(context.Background(), "76561197960435530")
	assert.ErrorIs(err, context.Canceled)
	assert.Zero(atomic.LoadInt64(&hits))
}
