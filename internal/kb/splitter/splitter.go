package splitter

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/akolanti/GoKB/internal/domain/kbModel"
)

// DefaultSeparators ordered from "best" to "worst" for semantic meaning.
// Sentence punctuation covers both CJK and Latin; "" is the hard-cut
// fallback and must stay last.
var DefaultSeparators = []string{"\n\n", "\n", "。", "！", "？", ".", "!", "?", " ", ""}

type Splitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

func New(chunkSize int, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 2
	}
	return &Splitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		separators:   DefaultSeparators,
	}
}

// Split chunks every unit independently. Chunk metadata inherits the
// unit's source metadata plus the chunk sequence within that unit, so
// overlap never crosses a unit boundary.
func (s *Splitter) Split(units []kbModel.TextUnit) []kbModel.Chunk {
	var chunks []kbModel.Chunk
	for _, unit := range units {
		for i, text := range s.SplitText(unit.Content) {
			meta := make(map[string]string, len(unit.SourceMetadata)+1)
			for k, v := range unit.SourceMetadata {
				meta[k] = v
			}
			meta["chunk"] = strconv.Itoa(i)
			chunks = append(chunks, kbModel.Chunk{Content: text, Metadata: meta})
		}
	}
	return chunks
}

// SplitText runs the recursive separator search and then reassembles the
// resulting pieces into chunks of at most chunkSize characters with
// chunkOverlap characters carried between consecutive chunks.
func (s *Splitter) SplitText(text string) []string {
	if text == "" {
		return nil
	}
	if len(text) <= s.chunkSize {
		return []string{text}
	}
	return s.assemble(s.decompose(text, s.separators))
}

// decompose splits text on the highest-priority separator it contains and
// recurses into the next separator only for pieces still over chunkSize.
// Separators stay attached to the preceding piece so no input character is
// ever dropped.
func (s *Splitter) decompose(text string, separators []string) []string {
	if len(text) <= s.chunkSize {
		return []string{text}
	}
	for i, sep := range separators {
		if sep == "" {
			return s.hardCut(text)
		}
		pieces := splitKeep(text, sep)
		if len(pieces) < 2 {
			continue
		}
		var out []string
		for _, p := range pieces {
			out = append(out, s.decompose(p, separators[i+1:])...)
		}
		return out
	}
	return s.hardCut(text)
}

// assemble merges pieces back into chunks. When a chunk is emitted, its
// trailing chunkOverlap characters seed the next chunk - unless the carry
// plus the next piece would not fit, in which case the carry is dropped
// rather than emitting an overlap-only chunk.
func (s *Splitter) assemble(pieces []string) []string {
	var chunks []string
	var cur strings.Builder
	appended := 0

	for _, p := range pieces {
		if appended > 0 && cur.Len()+len(p) > s.chunkSize {
			chunk := cur.String()
			chunks = append(chunks, chunk)
			cur.Reset()
			appended = 0
			if carry := s.overlapTail(chunk); carry != "" && len(carry)+len(p) <= s.chunkSize {
				cur.WriteString(carry)
			}
		}
		cur.WriteString(p)
		appended++
	}
	if appended > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}

// overlapTail returns the trailing chunkOverlap characters of a chunk,
// aligned forward to a rune boundary. A chunk no longer than the overlap
// carries nothing - re-emitting it whole would just duplicate the chunk.
func (s *Splitter) overlapTail(chunk string) string {
	if s.chunkOverlap == 0 || len(chunk) <= s.chunkOverlap {
		return ""
	}
	cut := len(chunk) - s.chunkOverlap
	for cut < len(chunk) && !utf8.RuneStart(chunk[cut]) {
		cut++
	}
	return chunk[cut:]
}

// hardCut is the terminal fallback: contiguous rune-safe slices of
// chunkSize-chunkOverlap characters. Keeping pieces a carry smaller than
// chunkSize means assemble can always prepend the overlap without
// overflowing, so even hard-cut chunks share boundary content.
func (s *Splitter) hardCut(text string) []string {
	step := s.chunkSize - s.chunkOverlap
	if step <= 0 {
		step = s.chunkSize
	}

	var out []string
	start := 0
	for start < len(text) {
		end := start + step
		if end >= len(text) {
			out = append(out, text[start:])
			break
		}
		for end > start && !utf8.RuneStart(text[end]) {
			end--
		}
		if end == start {
			end = start + step
			for end < len(text) && !utf8.RuneStart(text[end]) {
				end++
			}
		}
		out = append(out, text[start:end])
		start = end
	}
	return out
}

// splitKeep splits on sep keeping the separator attached to the piece
// before it, dropping empty pieces.
func splitKeep(text string, sep string) []string {
	parts := strings.SplitAfter(text, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
