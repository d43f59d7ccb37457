package knowledge

import "strings"

const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

var separators = []string{"\n\n", "\n", " "}

// Splitter cuts text into rune windows of at most ChunkSize, preferring to end
// a window on a paragraph, line or word boundary, with Overlap runes carried
// into the next window.
type Splitter struct {
	ChunkSize int
	Overlap   int
}

func NewSplitter() Splitter {
	return Splitter{ChunkSize: DefaultChunkSize, Overlap: DefaultChunkOverlap}
}

func (s Splitter) Split(text string) []string {
	size, overlap := s.normalized()
	runes := []rune(text)
	n := len(runes)

	chunks := make([]string, 0, n/size+1)
	for start := 0; start < n; {
		end := start + size
		if end >= n {
			end = n
		} else {
			end = cutPoint(runes, start, end)
		}

		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end >= n {
			break
		}

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

func (s Splitter) normalized() (int, int) {
	size := s.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	overlap := s.Overlap
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	return size, overlap
}

// cutPoint returns the end of the window [start, end), moved back to just after
// the last separator in its second half when one exists.
func cutPoint(runes []rune, start, end int) int {
	minEnd := start + (end-start)/2
	window := string(runes[minEnd:end])
	for _, sep := range separators {
		idx := strings.LastIndex(window, sep)
		if idx < 0 {
			continue
		}
		offset := len([]rune(window[:idx])) + len([]rune(sep))
		if cut := minEnd + offset; cut > start {
			return cut
		}
	}
	return end
}
