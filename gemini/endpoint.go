// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package gemini

import (
	"context"

	"github.com/go-kit/kit/endpoint"
)

func newGenerateEndpoint(s *Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		r, ok := request.(*generateRequestCommand)
		if !ok {
			return nil, ErrCasting
		}
		return s.Generate(ctx, r.ClientKey, r.Prompt)
	}
}
