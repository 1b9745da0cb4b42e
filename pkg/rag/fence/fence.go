// Package fence parses the loosely structured text returned by the model:
// fenced payload blocks and inline image markers.
package fence

import (
	"fmt"
	"strings"

	"notecraft-be/pkg/rag"
)

const marker = "```"

var (
	ErrNoOpenFence   = fmt.Errorf("%w: no opening fence", rag.ErrMalformedOutput)
	ErrNoCloseFence  = fmt.Errorf("%w: no closing fence", rag.ErrMalformedOutput)
	ErrNoTaggedFence = fmt.Errorf("%w: no fence with a matching tag", rag.ErrMalformedOutput)
)

type scanState int

const (
	outsideFence scanState = iota
	insideFence
)

// Extract returns the trimmed body of the first fence whose language tag
// matches one of tags (case-insensitive). With no tags any fence matches and
// an empty tag matches an untagged fence. Fences with another tag are skipped
// whole; when every fence was skipped the error is ErrNoTaggedFence.
func Extract(text string, tags ...string) (string, error) {
	state := outsideFence
	pos := 0
	bodyStart := 0
	skipping := false
	skipped := 0

	for {
		idx := strings.Index(text[pos:], marker)
		switch state {
		case outsideFence:
			if idx < 0 {
				if skipped > 0 {
					return "", ErrNoTaggedFence
				}
				return "", ErrNoOpenFence
			}
			open := pos + idx + len(marker)
			tagLen, ok := matchTag(text[open:], tags)
			skipping = !ok
			bodyStart = open + tagLen
			pos = bodyStart
			state = insideFence

		case insideFence:
			if idx < 0 {
				if skipping {
					return "", ErrNoTaggedFence
				}
				return "", ErrNoCloseFence
			}
			end := pos + idx
			if !skipping {
				return strings.TrimSpace(text[bodyStart:end]), nil
			}
			skipped++
			pos = end + len(marker)
			state = outsideFence
		}
	}
}

// matchTag reports whether rest starts with one of tags and how many bytes
// the tag occupies. The tag is the leading word, so "```jsonc" does not match
// "json" while an inline "```json{...}```" does.
func matchTag(rest string, tags []string) (int, bool) {
	if len(tags) == 0 {
		return len(leadingWord(rest)), true
	}
	word := leadingWord(rest)
	for _, tag := range tags {
		if strings.EqualFold(word, tag) {
			return len(word), true
		}
	}
	return 0, false
}

func leadingWord(s string) string {
	i := 0
	for i < len(s) && isWordByte(s, i) {
		i++
	}
	return s[:i]
}

func isWordByte(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	c := s[i]
	return c == '_' || c == '-' || c == '+' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
