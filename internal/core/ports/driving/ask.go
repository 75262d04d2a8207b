package driving

import (
	"context"

	"github.com/custodia-labs/sitechat-cli/internal/core/domain"
)

// AskService answers natural-language questions grounded in retrieved chunks.
type AskService interface {
	// Ask embeds the question, retrieves the nearest chunks and generates
	// a grounded answer. When generation fails, the returned result still
	// carries the retrieved sources and the error wraps
	// domain.ErrGenerationFailed.
	Ask(ctx context.Context, question string, opts domain.AskOptions) (*domain.RetrievalResult, error)

	// Retrieve performs only the similarity search step.
	Retrieve(ctx context.Context, query string, topK int) ([]domain.RetrievedChunk, error)
}
