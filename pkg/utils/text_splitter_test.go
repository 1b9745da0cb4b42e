package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextShortInput(t *testing.T) {
	assert.Equal(t, []string{"hello world"}, SplitText("  hello world\n", 100, 10))
	assert.Nil(t, SplitText("   ", 100, 10))
	assert.Nil(t, SplitText("", 100, 10))
}

func TestSplitTextBreaksAtWhitespace(t *testing.T) {
	text := strings.Repeat("photosynthesis ", 20)

	chunks := SplitText(text, 50, 0)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 50)
		for _, w := range strings.Fields(c) {
			assert.Equal(t, "photosynthesis", w, "word cut in chunk %q", c)
		}
	}
}

func TestSplitTextOverlapStartsOnWord(t *testing.T) {
	text := "alpha beta gamma delta epsilon zeta eta theta iota kappa lambda mu"

	chunks := SplitText(text, 24, 8)
	require.Greater(t, len(chunks), 1)
	for i := 1; i < len(chunks); i++ {
		first := strings.Fields(chunks[i])[0]
		assert.Contains(t, strings.Fields(text), first)
		prevWords := strings.Fields(chunks[i-1])
		assert.Equal(t, prevWords[len(prevWords)-1], first, "chunk %d should repeat the last word of chunk %d", i, i-1)
	}
}

func TestSplitTextHardCutWithoutWhitespace(t *testing.T) {
	text := strings.Repeat("x", 25)

	assert.Equal(t, []string{strings.Repeat("x", 10), strings.Repeat("x", 10), strings.Repeat("x", 5)}, SplitText(text, 10, 0))
}

func TestSplitTextCountsRunes(t *testing.T) {
	text := strings.Repeat("é", 12)

	chunks := SplitText(text, 5, 0)
	require.Len(t, chunks, 3)
	assert.Equal(t, strings.Repeat("é", 5), chunks[0])
	assert.Equal(t, strings.Repeat("é", 2), chunks[2])
}

func TestSplitTextOversizedOverlapIgnored(t *testing.T) {
	chunks := SplitText(strings.Repeat("ab ", 10), 6, 6)
	assert.Equal(t, []string{"ab ab", "ab ab", "ab ab", "ab ab", "ab ab"}, chunks)
}
