package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sitechat-cli/internal/core/domain"
)

type stubAsk struct {
	result *domain.RetrievalResult
	err    error
}

func (s *stubAsk) Ask(_ context.Context, _ string, _ domain.AskOptions) (*domain.RetrievalResult, error) {
	return s.result, s.err
}

func (s *stubAsk) Retrieve(_ context.Context, _ string, _ int) ([]domain.RetrievedChunk, error) {
	if s.result == nil {
		return nil, s.err
	}
	return s.result.Sources, s.err
}

func newReadyModel(t *testing.T, ask *stubAsk) *Model {
	t.Helper()
	m, err := NewModel(ask, "https://example.com", domain.AskOptions{}, nil)
	require.NoError(t, err)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func TestNewModel_RequiresAskService(t *testing.T) {
	_, err := NewModel(nil, "https://example.com", domain.AskOptions{}, nil)
	assert.Error(t, err)
}

func TestModel_SubmitAndAnswer(t *testing.T) {
	m := newReadyModel(t, &stubAsk{})

	m.input.SetValue("what is this site?")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.Waiting())
	require.Len(t, m.Turns(), 1)
	assert.Equal(t, "what is this site?", m.Turns()[0].question)

	m.Update(answerReceived{
		question: "what is this site?",
		result: &domain.RetrievalResult{
			Answer: "A demo site.",
			Sources: []domain.RetrievedChunk{
				{Chunk: domain.Chunk{DataLink: "https://example.com/a"}, Similarity: 0.8},
			},
		},
	})

	assert.False(t, m.Waiting())
	assert.Equal(t, "A demo site.", m.Turns()[0].answer)
	assert.Len(t, m.Turns()[0].sources, 1)
	assert.Contains(t, m.View(), "Ask a question")
}

func TestModel_EmptyInputIgnored(t *testing.T) {
	m := newReadyModel(t, &stubAsk{})

	m.input.SetValue("   ")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, m.Turns())
	assert.False(t, m.Waiting())
}

func TestModel_GenerationFailureShowsSources(t *testing.T) {
	m := newReadyModel(t, &stubAsk{})

	m.turns = append(m.turns, turn{question: "q"})
	m.waiting = true

	m.Update(answerReceived{
		question: "q",
		result: &domain.RetrievalResult{
			Sources: []domain.RetrievedChunk{
				{Chunk: domain.Chunk{DataLink: "https://example.com/b"}, Similarity: 0.5},
			},
		},
		err: errors.New("chat completion: upstream 500"),
	})

	require.Len(t, m.Turns(), 1)
	assert.Error(t, m.Turns()[0].err)
	assert.Len(t, m.Turns()[0].sources, 1)
	assert.Contains(t, m.transcript(), "example.com/b")
}

func TestModel_DatasetChangeMarksStale(t *testing.T) {
	m := newReadyModel(t, &stubAsk{})

	assert.False(t, m.Stale())
	m.Update(datasetChanged{})
	assert.True(t, m.Stale())
	assert.Contains(t, m.transcript(), "Dataset changed")
}
