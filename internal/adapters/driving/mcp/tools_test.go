package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sitechat-cli/internal/core/domain"
)

func sampleResult() *domain.RetrievalResult {
	return &domain.RetrievalResult{
		Answer: "The answer.",
		Sources: []domain.RetrievedChunk{
			{
				Chunk: domain.Chunk{
					DataLink: "https://example.com/a",
					ChunkID:  "https://example.com/a_chunk_0",
					Content:  "alpha",
				},
				Similarity: 0.9,
			},
		},
	}
}

func TestHandleAsk(t *testing.T) {
	svc := &mockAskService{result: sampleResult()}
	server, err := NewServer(&Ports{Ask: svc})
	require.NoError(t, err)

	_, out, err := server.handleAsk(context.Background(), nil, AskInput{Question: "q", TopK: 5})
	require.NoError(t, err)

	assert.Equal(t, "The answer.", out.Answer)
	require.Len(t, out.Sources, 1)
	assert.Equal(t, "https://example.com/a", out.Sources[0].DataLink)
	assert.InDelta(t, 0.9, out.Sources[0].Similarity, 1e-9)
	assert.Equal(t, 5, svc.lastOpts.TopK)
}

func TestHandleAsk_Error(t *testing.T) {
	svc := &mockAskService{askErr: errors.New("index missing")}
	server, err := NewServer(&Ports{Ask: svc})
	require.NoError(t, err)

	_, _, err = server.handleAsk(context.Background(), nil, AskInput{Question: "q"})
	assert.Error(t, err)
}

func TestHandleRetrieve(t *testing.T) {
	svc := &mockAskService{chunks: sampleResult().Sources}
	server, err := NewServer(&Ports{Ask: svc})
	require.NoError(t, err)

	_, out, err := server.handleRetrieve(context.Background(), nil, RetrieveInput{Query: "q", TopK: 2})
	require.NoError(t, err)

	assert.Equal(t, 1, out.Count)
	require.Len(t, out.Chunks, 1)
	assert.Equal(t, "alpha", out.Chunks[0].Content)
	assert.Equal(t, 2, svc.lastK)
}
