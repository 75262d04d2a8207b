package mcp

import (
	"context"

	"github.com/custodia-labs/sitechat-cli/internal/core/domain"
	"github.com/custodia-labs/sitechat-cli/internal/core/ports/driving"
)

// Ensure the mock satisfies the interface.
var _ driving.AskService = (*mockAskService)(nil)

type mockAskService struct {
	result   *domain.RetrievalResult
	chunks   []domain.RetrievedChunk
	askErr   error
	lastOpts domain.AskOptions
	lastK    int
}

func (m *mockAskService) Ask(_ context.Context, _ string, opts domain.AskOptions) (*domain.RetrievalResult, error) {
	m.lastOpts = opts
	if m.askErr != nil {
		return nil, m.askErr
	}
	return m.result, nil
}

func (m *mockAskService) Retrieve(_ context.Context, _ string, topK int) ([]domain.RetrievedChunk, error) {
	m.lastK = topK
	if m.askErr != nil {
		return nil, m.askErr
	}
	return m.chunks, nil
}
