// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

// Package steam is the outbound client for the Steam Web API. Every request
// passes through the shared upstream limiter before it reaches the network,
// and provider-side throttling is absorbed with a bounded exponential
// backoff.
package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

var (
	ErrNilLimiter = errors.New("upstream limiter is required")

	// ErrMissingAPIKey is a configuration failure: the operator never
	// supplied a key. It is detected lazily so the process still serves
	// cached data and images.
	ErrMissingAPIKey = errors.New("steam api key is not configured")

	// ErrThrottled means Steam kept answering 429 after all retries.
	ErrThrottled = errors.New("steam is throttling requests")

	// ErrBadPayload means the response body was not valid JSON.
	ErrBadPayload = errors.New("steam response is not valid JSON")

	ErrNonSuccessResponse = errors.New("steam responded with a non-success status code")
)

var (
	errInvalidConfig = errors.New("invalid steam config")

	ErrNewRequestFailure  = errors.New("failed creating an HTTP request")
	ErrDoRequestFailure   = errors.New("http client failed while sending request")
	ErrReadingBodyFailure = errors.New("failed while reading http response body")
)

const (
	errWrappedFmt    = "%w: %s"
	errStatusCodeFmt = "%w: received status %v"
)

const (
	defaultAddress = "http://api.steampowered.com"

	playerSummaryPath = "/ISteamUser/GetPlayerSummaries/v0002/"
	ownedGamesPath    = "/IPlayerService/GetOwnedGames/v0001/"
	achievementsPath  = "/ISteamUserStats/GetPlayerAchievements/v0001/"
)

const (
	maxRetries     = 3
	initialBackoff = time.Second
)

// Limiter is the blocking admission gate acquired before every outbound
// call. Callers are delayed, never rejected.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Config contains the settings for the Steam client.
type Config struct {
	// Address is the API base URL. (Optional) Defaults to the public
	// Steam Web API host.
	Address string `validate:"omitempty,url"`

	// APIKey authenticates vigil against Steam. Its absence is reported
	// per request rather than failing startup.
	APIKey string

	// HTTPClient refers to the client that will be used to send requests.
	// (Optional) Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Logger to be used by the client.
	// (Optional) Defaults to the sallust default logger.
	Logger *zap.Logger
}

// Client fetches player documents from Steam.
type Client struct {
	client    *http.Client
	address   string
	apiKey    string
	logger    *zap.Logger
	getLogger func(context.Context) *zap.Logger
	limiter   Limiter
	requests  *prometheus.CounterVec

	// sleep is swapped out in tests so backoff is deterministic.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Client gated by the given limiter. The counter vec may be
// nil when metrics are not wired (tests).
func New(config Config, limiter Limiter, requests *prometheus.CounterVec) (*Client, error) {
	if err := validateConfig(&config); err != nil {
		return nil, err
	}
	if limiter == nil {
		return nil, ErrNilLimiter
	}
	return &Client{
		client:    config.HTTPClient,
		address:   config.Address,
		apiKey:    config.APIKey,
		logger:    config.Logger,
		getLogger: sallust.Get,
		limiter:   limiter,
		requests:  requests,
		sleep:     ctxSleep,
	}, nil
}

// PlayerSummary fetches the profile summary document for a player.
func (c *Client) PlayerSummary(ctx context.Context, steamID string) (json.RawMessage, error) {
	return c.fetch(ctx, playerSummaryPath, url.Values{"steamids": []string{steamID}})
}

// OwnedGames fetches the owned-games document for a player, including app
// info and played free games as the original service did.
func (c *Client) OwnedGames(ctx context.Context, steamID string) (json.RawMessage, error) {
	return c.fetch(ctx, ownedGamesPath, url.Values{
		"steamid":                   []string{steamID},
		"include_appinfo":           []string{"1"},
		"include_played_free_games": []string{"1"},
	})
}

// PlayerAchievements fetches the achievements document for one player and
// one game.
func (c *Client) PlayerAchievements(ctx context.Context, steamID, appID string) (json.RawMessage, error) {
	return c.fetch(ctx, achievementsPath, url.Values{
		"steamid": []string{steamID},
		"appid":   []string{appID},
	})
}

// fetch acquires the global limiter once, then sends the request, retrying
// only on provider throttling: sleep 1s, 2s, 4s and re-issue the identical
// request without re-acquiring the limiter. All fetched operations are
// read-only so retries are safe.
func (c *Client) fetch(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	query.Set("key", c.apiKey)
	requestURL := c.address + path + "?" + query.Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	backoff := initialBackoff
	retries := 0
	for {
		resp, err := c.send(ctx, requestURL)
		if err != nil {
			c.count(transportOutcome)
			return nil, err
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()

			if retries >= maxRetries {
				c.count(throttledOutcome)
				return nil, ErrThrottled
			}
			c.loggerFor(ctx).Warn("throttled by steam, backing off",
				zap.String("path", path), zap.Duration("backoff", backoff), zap.Int("retry", retries+1))
			if err := c.sleep(ctx, backoff); err != nil {
				return nil, err
			}
			retries++
			backoff *= 2
			continue
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			c.count(transportOutcome)
			return nil, fmt.Errorf(errWrappedFmt, ErrReadingBodyFailure, err.Error())
		}

		if resp.StatusCode != http.StatusOK {
			c.count(failureOutcome)
			return nil, fmt.Errorf(errStatusCodeFmt, ErrNonSuccessResponse, resp.StatusCode)
		}

		if !json.Valid(body) {
			c.count(parseOutcome)
			return nil, ErrBadPayload
		}

		c.count(successOutcome)
		return json.RawMessage(body), nil
	}
}

func (c *Client) send(ctx context.Context, requestURL string) (*http.Response, error) {
	r, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf(errWrappedFmt, ErrNewRequestFailure, err.Error())
	}
	resp, err := c.client.Do(r)
	if err != nil {
		return nil, fmt.Errorf(errWrappedFmt, ErrDoRequestFailure, err.Error())
	}
	return resp, nil
}

func (c *Client) loggerFor(ctx context.Context) *zap.Logger {
	l := c.getLogger(ctx)
	if l == nil {
		l = c.logger
	}
	return l
}

func (c *Client) count(outcome string) {
	if c.requests == nil {
		return
	}
	c.requests.With(prometheus.Labels{OutcomeLabel: outcome}).Inc()
}

func ctxSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func validateConfig(config *Config) error {
	if err := validator.New().Struct(config); err != nil {
		return fmt.Errorf(errWrappedFmt, errInvalidConfig, err.Error())
	}
	if config.Address == "" {
		config.Address = defaultAddress
	}
	if config.HTTPClient == nil {
		config.HTTPClient = http.DefaultClient
	}
	if config.Logger == nil {
		config.Logger = sallust.Default()
	}
	return nil
}
