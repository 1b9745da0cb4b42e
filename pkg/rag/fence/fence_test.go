package fence

import (
	"testing"

	"notecraft-be/pkg/rag"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		tags    []string
		want    string
		wantErr error
	}{
		{
			name: "json block with prose around it",
			text: "Sure! Here you go:\n```json\n{\"namespace\": \"biology\"}\n```\nHope it helps.",
			tags: []string{"json"},
			want: "{\"namespace\": \"biology\"}",
		},
		{
			name: "inline block without newline",
			text: "```json{\"a\":1}```",
			tags: []string{"json"},
			want: "{\"a\":1}",
		},
		{
			name: "tag is case insensitive",
			text: "```Markdown\n# Title\n```",
			tags: []string{"markdown"},
			want: "# Title",
		},
		{
			name: "foreign fence is skipped",
			text: "```python\nprint(1)\n```\n```markdown\n# Notes\n```",
			tags: []string{"markdown", "md"},
			want: "# Notes",
		},
		{
			name:    "longer tag does not match",
			text:    "```jsonc\n{}\n```",
			tags:    []string{"json"},
			wantErr: ErrNoTaggedFence,
		},
		{
			name: "any fence when no tag requested",
			text: "```\nplain\n```",
			want: "plain",
		},
		{
			name: "empty tag matches untagged fence",
			text: "```json-ish\nx\n```\n```\n{\"a\":1}\n```",
			tags: []string{""},
			want: "{\"a\":1}",
		},
		{
			name:    "untagged fence is not a json fence",
			text:    "```\n{\"a\":1}\n```",
			tags:    []string{"json"},
			wantErr: ErrNoTaggedFence,
		},
		{
			name:    "unterminated foreign fence",
			text:    "```python\nprint(1)",
			tags:    []string{"json"},
			wantErr: ErrNoTaggedFence,
		},
		{
			name:    "no fence at all",
			text:    "just some text",
			tags:    []string{"json"},
			wantErr: ErrNoOpenFence,
		},
		{
			name:    "truncated output",
			text:    "```markdown\n# Notes\nthe model stopped here",
			tags:    []string{"markdown"},
			wantErr: ErrNoCloseFence,
		},
		{
			name: "empty body",
			text: "```json```",
			tags: []string{"json"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.text, tt.tags...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.True(t, rag.IsMalformed(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitRaw(t *testing.T) {
	assert.Equal(t, []string{"A", "image:(cat)", "B"}, SplitRaw("A&&&image:(cat)&&&B"))
	assert.Equal(t, []string{"no markers here"}, SplitRaw("no markers here"))
}

func TestSplitMarkers(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Piece
	}{
		{
			name: "no delimiters passes through",
			text: "# Title\n\nSome  text\n",
			want: []Piece{{Text: "# Title\n\nSome  text\n"}},
		},
		{
			name: "single marker",
			text: "A&&&image:(cat)&&&B",
			want: []Piece{{Text: "A"}, {Image: true, Text: "cat"}, {Text: "B"}},
		},
		{
			name: "description without parentheses",
			text: "&&&image: diagram of the human eye &&&",
			want: []Piece{{Image: true, Text: "diagram of the human eye"}},
		},
		{
			name: "stray delimiter keeps text",
			text: "a &&& b",
			want: []Piece{{Text: "a "}, {Text: " b"}},
		},
		{
			name: "unterminated marker",
			text: "intro&&&image:(leaf cross section)",
			want: []Piece{{Text: "intro"}, {Image: true, Text: "leaf cross section"}},
		},
		{
			name: "whitespace before image prefix",
			text: "A&&& image:(x) &&&B",
			want: []Piece{{Text: "A"}, {Image: true, Text: "x"}, {Text: "B"}},
		},
		{
			name: "empty description is dropped",
			text: "A&&&image:&&&B&&&image:()&&&C",
			want: []Piece{{Text: "A"}, {Text: "B"}, {Text: "C"}},
		},
		{
			name: "stray delimiter does not shift later markers",
			text: "x &&& y&&&image:(a)&&&z",
			want: []Piece{{Text: "x "}, {Text: " y"}, {Image: true, Text: "a"}, {Text: "z"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitMarkers(tt.text))
		})
	}
}
