// ABOUTME: Recursive text splitter producing overlapping fragments
// ABOUTME: Descends from paragraph to character separators until pieces fit
package chunker

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/harper/askdoc/internal/models"
)

// ErrOverlapTooLarge is returned when the configured overlap is not strictly
// smaller than the chunk size.
var ErrOverlapTooLarge = errors.New("chunk overlap must be smaller than chunk size")

// separators is the split priority, coarse to fine. The empty string is the
// last resort and splits at character level.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter splits text into fragments of at most ChunkSize characters, with
// up to ChunkOverlap characters of shared context between neighbours.
// Identical input and configuration always yield an identical result.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
}

// New creates a Splitter. Overlap must be strictly smaller than size.
func New(chunkSize, chunkOverlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, errors.New("chunk size must be positive")
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	if chunkOverlap >= chunkSize {
		return nil, ErrOverlapTooLarge
	}
	return &Splitter{chunkSize: chunkSize, chunkOverlap: chunkOverlap}, nil
}

// Split breaks text into ordered fragments. Separators stay attached to the
// piece they terminate, so concatenating the fragments with each fragment's
// Overlap prefix dropped reconstructs the input exactly.
func (s *Splitter) Split(text string) ([]models.Fragment, error) {
	if text == "" {
		return nil, nil
	}

	atoms := s.atomize(text, separators)

	var fragments []models.Fragment
	cur := ""
	carried := 0
	for _, atom := range atoms {
		if cur != "" && runeLen(cur)+runeLen(atom) > s.chunkSize {
			fragments = append(fragments, models.Fragment{
				Index:        len(fragments),
				Content:      cur,
				Overlap:      carried,
				ChunkSize:    s.chunkSize,
				ChunkOverlap: s.chunkOverlap,
			})
			carry := s.carryover(cur, atom)
			carried = runeLen(carry)
			cur = carry
		}
		cur += atom
	}
	if cur != "" {
		fragments = append(fragments, models.Fragment{
			Index:        len(fragments),
			Content:      cur,
			Overlap:      carried,
			ChunkSize:    s.chunkSize,
			ChunkOverlap: s.chunkOverlap,
		})
	}
	return fragments, nil
}

// atomize recursively splits text until every piece fits within chunkSize,
// trying the coarsest separator first and descending only into pieces that
// are still too large.
func (s *Splitter) atomize(text string, seps []string) []string {
	if runeLen(text) <= s.chunkSize {
		return []string{text}
	}

	sep := seps[0]
	rest := seps[1:]
	if sep == "" {
		return splitRunes(text, s.chunkSize)
	}

	parts := splitKeep(text, sep)
	if len(parts) == 1 {
		// Separator absent; fall through to the next-finer one.
		return s.atomize(text, rest)
	}

	var out []string
	for _, p := range parts {
		if runeLen(p) <= s.chunkSize {
			out = append(out, p)
		} else {
			out = append(out, s.atomize(p, rest)...)
		}
	}
	return out
}

// carryover picks the suffix of the previous fragment reused as leading
// context for the next one. It is bounded by the overlap budget, by the room
// left next to the upcoming atom, and never duplicates a whole fragment.
// A paragraph break at the boundary suppresses the overlap entirely.
func (s *Splitter) carryover(prev, next string) string {
	if strings.HasSuffix(prev, "\n\n") {
		return ""
	}
	n := s.chunkOverlap
	if room := s.chunkSize - runeLen(next); n > room {
		n = room
	}
	r := []rune(prev)
	if n >= len(r) {
		n = len(r) - 1
	}
	if n <= 0 {
		return ""
	}
	return string(r[len(r)-n:])
}

// splitKeep splits text on sep, keeping the separator attached to the piece
// it terminates.
func splitKeep(text, sep string) []string {
	raw := strings.Split(text, sep)
	parts := make([]string, 0, len(raw))
	for i, p := range raw {
		if i < len(raw)-1 {
			p += sep
		}
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// splitRunes cuts text into consecutive runs of at most n runes.
func splitRunes(text string, n int) []string {
	r := []rune(text)
	var out []string
	for len(r) > n {
		out = append(out, string(r[:n]))
		r = r[n:]
	}
	if len(r) > 0 {
		out = append(out, string(r))
	}
	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
