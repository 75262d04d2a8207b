package chunker

import (
	"strings"
	"testing"
)

func TestSplit_ShortInputSingleChunk(t *testing.T) {
	pieces := split("short text", 100, 10)
	if len(pieces) != 1 {
		t.Fatalf("expected 1 piece, got %d", len(pieces))
	}
	if pieces[0] != "short text" {
		t.Errorf("short input must be returned unchanged, got %q", pieces[0])
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	if pieces := split("", 100, 10); pieces != nil {
		t.Errorf("expected no pieces for empty input, got %v", pieces)
	}
}

func TestSplit_SizeBound(t *testing.T) {
	text := "Hello world. This is page A."
	pieces := split(text, 15, 3)

	if len(pieces) < 2 {
		t.Fatalf("expected at least 2 pieces, got %d", len(pieces))
	}
	for i, piece := range pieces {
		if n := len([]rune(piece)); n > 15 {
			t.Errorf("piece %d exceeds bound: %d runes (%q)", i, n, piece)
		}
	}
}

func TestSplit_CoverageWithOverlapRemoved(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 20)
	overlap := 10
	pieces := split(text, 80, overlap)

	var b strings.Builder
	for i, piece := range pieces {
		runes := []rune(piece)
		if i > 0 {
			// Drop the stitched prefix copied from the previous piece.
			k := overlap
			if k > len(runes) {
				k = len(runes)
			}
			runes = runes[k:]
		}
		b.WriteString(string(runes))
	}

	if b.String() != text {
		t.Error("concatenation with overlaps removed must reconstruct the input")
	}
}

func TestSplit_PrefersParagraphBoundary(t *testing.T) {
	text := "First paragraph here.\n\nSecond paragraph here."
	pieces := split(text, 30, 0)

	if len(pieces) != 2 {
		t.Fatalf("expected 2 pieces, got %d: %v", len(pieces), pieces)
	}
	if pieces[0] != "First paragraph here.\n\n" {
		t.Errorf("expected split at paragraph break, got %q", pieces[0])
	}
}

func TestSplit_FallsBackToHardCut(t *testing.T) {
	text := strings.Repeat("x", 50) // no boundaries at all
	pieces := split(text, 10, 2)

	for i, piece := range pieces {
		if n := len([]rune(piece)); n > 10 {
			t.Errorf("piece %d exceeds bound: %d runes", i, n)
		}
	}
	if len(pieces) < 5 {
		t.Errorf("expected at least 5 pieces, got %d", len(pieces))
	}
}

func TestSplit_OverlapPrefix(t *testing.T) {
	text := "aaaa bbbb cccc dddd eeee"
	pieces := split(text, 10, 4)

	for i := 1; i < len(pieces); i++ {
		prev := []rune(pieces[i-1])
		tail := string(prev[len(prev)-4:])
		if !strings.HasPrefix(pieces[i], tail) {
			t.Errorf("piece %d should start with tail of piece %d: %q vs %q",
				i, i-1, pieces[i], tail)
		}
	}
}

func TestSplit_MultibyteRunes(t *testing.T) {
	text := strings.Repeat("héllo wörld ", 10)
	pieces := split(text, 20, 5)

	for i, piece := range pieces {
		if n := len([]rune(piece)); n > 20 {
			t.Errorf("piece %d exceeds rune bound: %d", i, n)
		}
	}
}
