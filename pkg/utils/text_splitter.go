package utils

import (
	"strings"
	"unicode"
)

// SplitText cuts text into chunks of at most chunkSize runes, each starting
// where the previous one ended minus overlap runes. Cuts land on whitespace
// when there is some in the second half of the window, so words stay whole;
// a run of text with no whitespace is cut hard. Chunks are trimmed and blank
// chunks are dropped.
func SplitText(text string, chunkSize int, overlap int) []string {
	runes := []rune(text)
	if chunkSize <= 0 || len(runes) <= chunkSize {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []string{strings.TrimSpace(text)}
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	var chunks []string
	total := len(runes)
	start := 0
	for start < total {
		end := start + chunkSize
		if end >= total {
			end = total
		} else if cut := lastSpace(runes, start+chunkSize/2, end); cut > 0 {
			end = cut
		}

		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == total {
			break
		}

		next := end - overlap
		if next <= start {
			next = end
		} else if w := nextWordStart(runes, next, end); w > 0 {
			next = w
		}
		start = next
	}
	return chunks
}

// lastSpace returns the index just past the last whitespace rune in
// runes[from:to], or 0 when there is none.
func lastSpace(runes []rune, from, to int) int {
	for i := to - 1; i >= from; i-- {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}
	return 0
}

// nextWordStart moves an overlap start forward to the beginning of a word so
// the overlap does not open mid-word.
func nextWordStart(runes []rune, from, to int) int {
	if from == 0 || unicode.IsSpace(runes[from-1]) {
		return from
	}
	for i := from; i < to; i++ {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}
	return 0
}
