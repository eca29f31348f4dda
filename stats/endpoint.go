// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package stats

import (
	"context"

	"github.com/go-kit/kit/endpoint"
)

func newPlayerDataEndpoint(s *Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		r, ok := request.(*playerDataRequest)
		if !ok {
			return nil, ErrCasting
		}
		return s.PlayerData(ctx, r.SubjectID)
	}
}

func newAchievementsEndpoint(s *Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		r, ok := request.(*achievementsRequest)
		if !ok {
			return nil, ErrCasting
		}
		return s.Achievements(ctx, r.SubjectID, r.AppID)
	}
}

func newProfileEndpoint(s *Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		r, ok := request.(*profileRequest)
		if !ok {
			return nil, ErrCasting
		}
		return s.Profile(ctx, r.SubjectID)
	}
}
