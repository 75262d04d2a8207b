package chunker

import (
	"errors"
	"testing"

	"github.com/custodia-labs/sitechat-cli/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p, err := New()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ChunkSize() != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, p.ChunkSize())
		}
		if p.Overlap() != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, p.Overlap())
		}
	})

	t.Run("custom bounds", func(t *testing.T) {
		p, err := New(WithChunkSize(500), WithOverlap(100))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ChunkSize() != 500 || p.Overlap() != 100 {
			t.Errorf("unexpected bounds: %d/%d", p.ChunkSize(), p.Overlap())
		}
	})

	t.Run("overlap not smaller than size fails fast", func(t *testing.T) {
		_, err := New(WithChunkSize(100), WithOverlap(100))
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("negative overlap fails fast", func(t *testing.T) {
		_, err := New(WithChunkSize(100), WithOverlap(-1))
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("zero chunk size fails fast", func(t *testing.T) {
		_, err := New(WithChunkSize(0))
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestProcessor_Process_EmptyContent(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if chunks := p.Process("https://x/a", ""); len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty content, got %d", len(chunks))
	}
}

func TestProcessor_Process_SmallContent(t *testing.T) {
	p, err := New(WithChunkSize(100), WithOverlap(20))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chunks := p.Process("https://x/a", "This is a small piece of content.")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk for small content, got %d", len(chunks))
	}
	if chunks[0].ChunkID != "https://x/a_chunk_0" {
		t.Errorf("unexpected chunk id: %s", chunks[0].ChunkID)
	}
	if chunks[0].Content != "This is a small piece of content." {
		t.Errorf("small content must survive unchanged, got %q", chunks[0].Content)
	}
}

func TestProcessor_Process_SpecExample(t *testing.T) {
	// maxSize=15, overlap=3 over "Hello world. This is page A."
	p, err := New(WithChunkSize(15), WithOverlap(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chunks := p.Process("https://x/a", "Hello world. This is page A.")
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if n := len([]rune(c.Content)); n > 15 {
			t.Errorf("chunk %d exceeds bound: %d runes", i, n)
		}
		want := domain.NewChunkID("https://x/a", i)
		if c.ChunkID != want {
			t.Errorf("chunk %d id = %s, want %s", i, c.ChunkID, want)
		}
		if c.Position != i {
			t.Errorf("chunk %d position = %d", i, c.Position)
		}
	}
}

func TestProcessor_Process_UniqueIDs(t *testing.T) {
	p, err := New(WithChunkSize(20), WithOverlap(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := make(map[string]bool)
	for _, link := range []string{"https://x/a", "https://x/b"} {
		for _, c := range p.Process(link, "Some repeated content. Some repeated content.") {
			if seen[c.ChunkID] {
				t.Errorf("duplicate chunk id: %s", c.ChunkID)
			}
			seen[c.ChunkID] = true
		}
	}
}
