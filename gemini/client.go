// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

// Package gemini proxies text generation requests to the Gemini API behind
// a per-client limiter and a persistent usage ledger.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

var (
	// ErrBadPayload means the provider response was not valid JSON.
	ErrBadPayload = errors.New("gemini response is not valid JSON")

	ErrNonSuccessResponse = errors.New("gemini responded with a non-success status code")

	errInvalidConfig      = errors.New("invalid gemini config")
	errNewRequestFailure  = errors.New("failed creating an HTTP request")
	errDoRequestFailure   = errors.New("http client failed while sending request")
	errReadingBodyFailure = errors.New("failed while reading http response body")
)

const (
	errWrappedFmt    = "%w: %s"
	errStatusCodeFmt = "%w: received status %v"
)

const (
	defaultAddress = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.5-flash-preview-05-20"
)

// Config contains the settings for the Gemini client.
type Config struct {
	// Address is the provider base URL. (Optional)
	Address string `validate:"omitempty,url"`

	// APIKey authenticates vigil against the provider. Its absence is
	// reported per request rather than failing startup.
	APIKey string

	// Model is the generation model name. (Optional)
	Model string

	// HTTPClient refers to the client that will be used to send requests.
	// (Optional) Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Logger to be used by the client.
	// (Optional) Defaults to the sallust default logger.
	Logger *zap.Logger
}

// Client sends generation requests upstream and hands the provider
// document back verbatim.
type Client struct {
	client  *http.Client
	address string
	apiKey  string
	model   string
	logger  *zap.Logger
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// NewClient validates the config and builds a Client.
func NewClient(config Config) (*Client, error) {
	if err := validateConfig(&config); err != nil {
		return nil, err
	}
	return &Client{
		client:  config.HTTPClient,
		address: config.Address,
		apiKey:  config.APIKey,
		model:   config.Model,
		logger:  config.Logger,
	}, nil
}

// Ready reports whether the client holds an API key. Generation is refused
// up front when it does not.
func (c *Client) Ready() bool {
	return c.apiKey != ""
}

// Generate submits the prompt and returns the provider response document
// untouched.
func (c *Client) Generate(ctx context.Context, prompt string) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf(errWrappedFmt, errNewRequestFailure, err.Error())
	}

	requestURL := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.address, c.model, c.apiKey)
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf(errWrappedFmt, errNewRequestFailure, err.Error())
	}
	r.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(r)
	if err != nil {
		return nil, fmt.Errorf(errWrappedFmt, errDoRequestFailure, err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf(errWrappedFmt, errReadingBodyFailure, err.Error())
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(errStatusCodeFmt, ErrNonSuccessResponse, resp.StatusCode)
	}
	if !json.Valid(respBody) {
		return nil, ErrBadPayload
	}
	return json.RawMessage(respBody), nil
}

func validateConfig(config *Config) error {
	if err := validator.New().Struct(config); err != nil {
		return fmt.Errorf(errWrappedFmt, errInvalidConfig, err.Error())
	}
	if config.Address == "" {
		config.Address = defaultAddress
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.HTTPClient == nil {
		config.HTTPClient = http.DefaultClient
	}
	if config.Logger == nil {
		config.Logger = sallust.Default()
	}
	return nil
}
