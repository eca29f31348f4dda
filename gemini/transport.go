// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"

	kithttp "github.com/go-kit/kit/transport/http"
)

const ErrorHeaderKey = "X-Vigil-Error"

// ErrCasting indicates there was a middleware wiring mistake with the go-kit style
// encoders.
var ErrCasting = errors.New("casting error due to middleware wiring mistake")

type generateRequestCommand struct {
	ClientKey string
	Prompt    string
}

type generateBody struct {
	Prompt string `json:"prompt"`
}

// NewGenerateHandler builds the HTTP handler for POST generate requests.
func NewGenerateHandler(s *Service) http.Handler {
	return kithttp.NewServer(
		newGenerateEndpoint(s),
		decodeGenerateRequest,
		encodeGenerateResponse,
		kithttp.ServerErrorEncoder(encodeError),
	)
}

func decodeGenerateRequest(_ context.Context, r *http.Request) (interface{}, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, &BadRequestErr{Message: "failed to read body"}
	}

	var body generateBody
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, &BadRequestErr{Message: "failed to unmarshal json"}
	}
	if body.Prompt == "" {
		return nil, &BadRequestErr{Message: "prompt field must be set"}
	}

	return &generateRequestCommand{
		ClientKey: clientKey(r),
		Prompt:    body.Prompt,
	}, nil
}

// clientKey identifies the caller for the per-client limiter. The remote
// IP is the key; the port changes per connection and must not split one
// caller across buckets.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func encodeGenerateResponse(_ context.Context, rw http.ResponseWriter, response interface{}) error {
	doc, ok := response.(json.RawMessage)
	if !ok {
		return ErrCasting
	}
	rw.Header().Add("Content-Type", "application/json")
	rw.Write(doc)
	return nil
}

func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set(ErrorHeaderKey, err.Error())
	w.Header().Add("Content-Type", "application/json")
	code := http.StatusInternalServerError
	if sc, ok := err.(kithttp.StatusCoder); ok {
		code = sc.StatusCode()
	}
	w.WriteHeader(code)
	body, marshalErr := json.Marshal(map[string]string{"error": err.Error()})
	if marshalErr != nil {
		return
	}
	w.Write(body)
}

// BadRequestErr is a request validation failure.
type BadRequestErr struct {
	Message string
}

func (bre BadRequestErr) Error() string {
	return bre.Message
}

func (bre BadRequestErr) StatusCode() int {
	return http.StatusBadRequest
}
