package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/sitechat-cli/internal/core/domain"
	"github.com/custodia-labs/sitechat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/sitechat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/sitechat-cli/internal/logger"
)

// Ensure Orchestrator implements the interface.
var _ driving.AskService = (*Orchestrator)(nil)

// systemPrompt instructs the model to stay grounded in the retrieved context.
const systemPrompt = `You are a helpful assistant answering questions about a website.
Answer using only the provided context. If the context does not contain
the answer, say that you don't know.`

// Orchestrator turns a question into a ranked set of chunks and a grounded
// answer: embed, search, assemble prompt, generate.
type Orchestrator struct {
	index    driven.VectorIndex
	embedder driven.EmbeddingService
	llm      driven.LLMService
}

// NewOrchestrator creates the retrieval orchestrator. The llm may be nil,
// in which case Ask degrades to retrieval only and reports generation as
// unavailable.
func NewOrchestrator(index driven.VectorIndex, embedder driven.EmbeddingService, llm driven.LLMService) *Orchestrator {
	return &Orchestrator{
		index:    index,
		embedder: embedder,
		llm:      llm,
	}
}

// Retrieve embeds the query and returns the topK most similar chunks.
func (o *Orchestrator) Retrieve(ctx context.Context, query string, topK int) ([]domain.RetrievedChunk, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty query: %w", domain.ErrInvalidInput)
	}
	if o.index == nil {
		return nil, domain.ErrIndexUnavailable
	}
	if o.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if got, want := o.embedder.ModelName(), o.index.Model(); got != want {
		return nil, fmt.Errorf("query model %q, index built with %q: %w",
			got, want, domain.ErrModelMismatch)
	}
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	vec, err := o.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := o.index.Search(ctx, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	logger.Debug("retrieved %d/%d chunks for %q", len(hits), topK, query)
	return hits, nil
}

// Ask answers a question grounded in the retrieved chunks.
//
// When the chat-completion call fails, the returned result still carries the
// retrieved sources and the error wraps domain.ErrGenerationFailed, so
// callers can show what was retrieved.
func (o *Orchestrator) Ask(ctx context.Context, question string, opts domain.AskOptions) (*domain.RetrievalResult, error) {
	logger.Section("Ask")

	hits, err := o.Retrieve(ctx, question, opts.TopK)
	if err != nil {
		return nil, err
	}

	result := &domain.RetrievalResult{Sources: hits}

	if o.llm == nil {
		return result, fmt.Errorf("cannot generate answer: %w", domain.ErrLLMUnavailable)
	}

	temperature := opts.Temperature
	if temperature == 0 {
		temperature = domain.DefaultTemperature
	}

	messages := []driven.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildPrompt(hits, question)},
	}

	answer, err := o.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   opts.MaxTokens,
		Temperature: temperature,
	})
	if err != nil {
		logger.Warn("generation failed, sources preserved: %v", err)
		return result, fmt.Errorf("chat completion: %v: %w", err, domain.ErrGenerationFailed)
	}

	result.Answer = strings.TrimSpace(answer)
	return result, nil
}

// buildPrompt concatenates the retrieved chunks (similarity-descending) as
// grounding context, followed by the question.
func buildPrompt(hits []domain.RetrievedChunk, question string) string {
	var b strings.Builder
	b.WriteString("Context:\n\n")
	for i, hit := range hits {
		fmt.Fprintf(&b, "[%d] (%s)\n%s\n\n", i+1, hit.Chunk.DataLink, hit.Chunk.Content)
	}
	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}
