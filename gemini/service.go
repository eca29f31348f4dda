// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package gemini

import (
	"context"
	"encoding/json"
	"time"

	"github.com/vigilproj/vigil/model"
	"github.com/vigilproj/vigil/store"
	"go.uber.org/zap"
)

// Service runs the full guarded generation flow: admission, upstream call,
// usage accounting.
type Service struct {
	guard  *Guard
	client *Client
	store  store.S
	logger *zap.Logger
	now    func() time.Time
}

func NewService(guard *Guard, client *Client, s store.S, logger *zap.Logger) *Service {
	return &Service{
		guard:  guard,
		client: client,
		store:  s,
		logger: logger,
		now:    time.Now,
	}
}

// Generate checks admission for the calling client, forwards the prompt
// upstream, and records exactly one ledger entry on success. A failed
// append is logged but does not withhold the response; the tokens are
// already spent.
func (s *Service) Generate(ctx context.Context, clientKey, prompt string) (json.RawMessage, error) {
	if !s.client.Ready() {
		return nil, ErrMissingAPIKey
	}

	if err := s.guard.Check(ctx, clientKey); err != nil {
		return nil, err
	}

	doc, err := s.client.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	entry := model.UsageEntry{CreatedAt: s.now().UTC()}
	if err := s.store.AppendUsage(ctx, entry); err != nil {
		s.logger.Error("failed to record generation usage", zap.Error(err))
	}
	return doc, nil
}
