// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package gemini

import "net/http"

// DeniedError is returned by the guard when a generation request is
// refused. Denials are final for the request; callers wait, they do not
// retry through the guard.
type DeniedError struct {
	Message string
}

func (de *DeniedError) Error() string {
	return de.Message
}

func (de *DeniedError) StatusCode() int {
	return http.StatusTooManyRequests
}

var (
	// ErrClientLimited means this caller is sending faster than the
	// per-client allowance.
	ErrClientLimited = &DeniedError{Message: "too many requests from this client, slow down"}

	// ErrMinuteQuotaExceeded means the shared per-minute generation
	// budget is spent.
	ErrMinuteQuotaExceeded = &DeniedError{Message: "generation limit reached, try again in a minute"}

	// ErrDailyQuotaExceeded means the shared daily generation budget is
	// spent.
	ErrDailyQuotaExceeded = &DeniedError{Message: "daily generation limit reached, try again tomorrow"}
)

// ConfigError reports a deployment problem, not a caller mistake. The
// payload is stable so operators can alert on it.
type ConfigError struct {
	Message string
}

func (ce *ConfigError) Error() string {
	return ce.Message
}

func (ce *ConfigError) StatusCode() int {
	return http.StatusInternalServerError
}

// ErrMissingAPIKey is returned for every generation attempt until an API
// key is configured.
var ErrMissingAPIKey = &ConfigError{Message: "generation service is not configured"}
