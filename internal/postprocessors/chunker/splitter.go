package chunker

import "strings"

// boundaries are tried coarsest first: paragraph break, sentence end,
// word break, then raw characters as the last resort.
var boundaries = []string{"\n\n", ". ", " "}

// split segments text into pieces of at most maxSize characters, preferring
// semantic boundaries, and stitches overlap characters of trailing context
// from each piece into the start of the next.
//
// Sizes are measured in runes. An input of at most maxSize is returned as a
// single piece with no overlap applied.
func split(text string, maxSize, overlap int) []string {
	if text == "" {
		return nil
	}
	if runeLen(text) <= maxSize {
		return []string{text}
	}

	// Base pieces target maxSize-overlap so stitched pieces stay within
	// the bound.
	pieces := splitAt(text, boundaries, maxSize-overlap)
	return stitch(pieces, overlap)
}

// splitAt recursively splits text on the given boundary list so that every
// returned piece is at most budget runes. Separators stay attached to the
// preceding piece, so concatenating the pieces reconstructs the input.
func splitAt(text string, seps []string, budget int) []string {
	if runeLen(text) <= budget {
		return []string{text}
	}
	if len(seps) == 0 {
		return hardCut(text, budget)
	}

	parts := strings.SplitAfter(text, seps[0])
	if len(parts) == 1 {
		// Boundary absent; try the next finer one.
		return splitAt(text, seps[1:], budget)
	}

	var out []string
	var cur strings.Builder
	curLen := 0

	flush := func() {
		if curLen > 0 {
			out = append(out, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, part := range parts {
		n := runeLen(part)
		if n > budget {
			flush()
			out = append(out, splitAt(part, seps[1:], budget)...)
			continue
		}
		if curLen > 0 && curLen+n > budget {
			flush()
		}
		cur.WriteString(part)
		curLen += n
	}
	flush()

	return out
}

// hardCut slices text into budget-sized rune windows.
func hardCut(text string, budget int) []string {
	runes := []rune(text)
	if budget < 1 {
		budget = 1
	}
	out := make([]string, 0, (len(runes)+budget-1)/budget)
	for start := 0; start < len(runes); start += budget {
		end := start + budget
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}

// stitch copies the trailing overlap runes of each piece into the start of
// the next, preserving local context across split points.
func stitch(pieces []string, overlap int) []string {
	if overlap <= 0 || len(pieces) < 2 {
		return pieces
	}
	out := make([]string, len(pieces))
	out[0] = pieces[0]
	for i := 1; i < len(pieces); i++ {
		prev := []rune(pieces[i-1])
		k := overlap
		if k > len(prev) {
			k = len(prev)
		}
		out[i] = string(prev[len(prev)-k:]) + pieces[i]
	}
	return out
}

func runeLen(s string) int {
	return len([]rune(s))
}
