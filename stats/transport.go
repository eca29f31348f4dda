// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package stats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/vigilproj/vigil/model"
	"github.com/vigilproj/vigil/steam"
)

// request URL path keys
const (
	idVarKey    = "id"
	appIDVarKey = "appid"
)

const (
	idVarMissingMsg    = "{id} URL path parameter missing"
	appIDVarMissingMsg = "{appid} URL path parameter missing"
)

const ErrorHeaderKey = "X-Vigil-Error"

// ErrCasting indicates there was a middleware wiring mistake with the go-kit style
// encoders.
var ErrCasting = errors.New("casting error due to middleware wiring mistake")

type playerDataRequest struct {
	SubjectID string
}

type achievementsRequest struct {
	SubjectID string
	AppID     string
}

type profileRequest struct {
	SubjectID string
}

// NewPlayerDataHandler builds the handler for the combined player document.
func NewPlayerDataHandler(s *Service) http.Handler {
	return kithttp.NewServer(
		newPlayerDataEndpoint(s),
		decodePlayerDataRequest,
		encodeJSONResponse,
		kithttp.ServerErrorEncoder(encodeError),
	)
}

// NewAchievementsHandler builds the handler for per-game achievements.
func NewAchievementsHandler(s *Service) http.Handler {
	return kithttp.NewServer(
		newAchievementsEndpoint(s),
		decodeAchievementsRequest,
		encodeJSONResponse,
		kithttp.ServerErrorEncoder(encodeError),
	)
}

// NewProfileHandler builds the handler for the cached profile row.
func NewProfileHandler(s *Service) http.Handler {
	return kithttp.NewServer(
		newProfileEndpoint(s),
		decodeProfileRequest,
		encodeJSONResponse,
		kithttp.ServerErrorEncoder(encodeError),
	)
}

func decodePlayerDataRequest(_ context.Context, r *http.Request) (interface{}, error) {
	id, ok := mux.Vars(r)[idVarKey]
	if !ok {
		return nil, &BadRequestErr{Message: idVarMissingMsg}
	}
	return &playerDataRequest{SubjectID: id}, nil
}

func decodeAchievementsRequest(_ context.Context, r *http.Request) (interface{}, error) {
	vars := mux.Vars(r)
	id, ok := vars[idVarKey]
	if !ok {
		return nil, &BadRequestErr{Message: idVarMissingMsg}
	}
	appID, ok := vars[appIDVarKey]
	if !ok {
		return nil, &BadRequestErr{Message: appIDVarMissingMsg}
	}
	return &achievementsRequest{SubjectID: id, AppID: appID}, nil
}

func decodeProfileRequest(_ context.Context, r *http.Request) (interface{}, error) {
	id, ok := mux.Vars(r)[idVarKey]
	if !ok {
		return nil, &BadRequestErr{Message: idVarMissingMsg}
	}
	return &profileRequest{SubjectID: id}, nil
}

func encodeJSONResponse(_ context.Context, rw http.ResponseWriter, response interface{}) error {
	data, err := json.Marshal(response)
	if err != nil {
		return err
	}
	rw.Header().Add("Content-Type", "application/json")
	rw.Write(data)
	return nil
}

func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set(ErrorHeaderKey, err.Error())
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(statusCodeOf(err))
	body, marshalErr := json.Marshal(map[string]string{"error": err.Error()})
	if marshalErr != nil {
		return
	}
	w.Write(body)
}

// statusCodeOf maps service errors onto response codes. Upstream failures
// of every kind surface as bad gateway; anything unrecognized is an
// internal error.
func statusCodeOf(err error) int {
	if sc, ok := err.(kithttp.StatusCoder); ok {
		return sc.StatusCode()
	}
	switch {
	case errors.Is(err, steam.ErrThrottled),
		errors.Is(err, steam.ErrNonSuccessResponse),
		errors.Is(err, steam.ErrBadPayload),
		errors.Is(err, steam.ErrDoRequestFailure),
		errors.Is(err, steam.ErrReadingBodyFailure):
		return http.StatusBadGateway
	case errors.Is(err, steam.ErrMissingAPIKey):
		return http.StatusInternalServerError
	case errors.Is(err, model.ErrMissingAppID), errors.Is(err, model.ErrUnwantedAppID):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
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
