package synthesis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"notecraft-be/internal/pkg/logger"
	"notecraft-be/pkg/llm"
	"notecraft-be/pkg/rag"
	"notecraft-be/pkg/rag/namespace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.Generate(ctx, history[len(history)-1].Content, options...)
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

type fakeImages struct {
	queries []string
}

func (f *fakeImages) Search(ctx context.Context, description string) string {
	f.queries = append(f.queries, description)
	return fmt.Sprintf("https://img.test/%d.png", len(f.queries))
}

func newSynth(f *fakeLLM, img *fakeImages) *Synthesizer {
	return NewSynthesizer(f, img, time.Second, logger.NewNopLogger())
}

var topics = &rag.TopicSet{Namespace: namespace.Biology, Topics: []string{"light reactions", "Calvin cycle"}}

func TestAssemblePassThrough(t *testing.T) {
	img := &fakeImages{}
	s := newSynth(&fakeLLM{}, img)

	body := "# Title\n\nSome text with\n  indentation and ``` ticks."
	doc := s.Assemble(context.Background(), body)

	assert.Equal(t, body, doc.Content())
	assert.Empty(t, doc.Images())
	assert.Empty(t, img.queries)
}

func TestAssembleImageMarker(t *testing.T) {
	img := &fakeImages{}
	s := newSynth(&fakeLLM{}, img)

	doc := s.Assemble(context.Background(), "A&&&image:(cat)&&&B")

	assert.Equal(t, "A![cat](https://img.test/1.png)B", doc.Content())
	assert.Equal(t, []string{"cat"}, img.queries)
	require.Len(t, doc.Segments, 3)
	assert.Equal(t, rag.SegmentText, doc.Segments[0].Kind)
	assert.Equal(t, rag.SegmentImage, doc.Segments[1].Kind)
	assert.Equal(t, rag.SegmentText, doc.Segments[2].Kind)
}

func TestAssembleMalformedMarkers(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		queries []string
	}{
		{
			name:    "empty description is dropped",
			body:    "A&&&image:&&&B",
			want:    "AB",
			queries: nil,
		},
		{
			name:    "empty parentheses are dropped",
			body:    "A&&&image:( )&&&B",
			want:    "AB",
			queries: nil,
		},
		{
			name:    "space before prefix is still a marker",
			body:    "A&&& image:(x) &&&B",
			want:    "A![x](https://img.test/1.png)B",
			queries: []string{"x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := &fakeImages{}
			s := newSynth(&fakeLLM{}, img)

			doc := s.Assemble(context.Background(), tt.body)
			assert.Equal(t, tt.want, doc.Content())
			assert.NotContains(t, doc.Content(), "image:")
			assert.Equal(t, tt.queries, img.queries)
		})
	}
}

func TestSynthesize(t *testing.T) {
	reply := "Here are your notes:\n```markdown\n# Photosynthesis\n## Light reactions\nText.\n&&&image:(diagram of a chloroplast)&&&\nMore.\n&&&image:(Calvin cycle chart)&&&\n```\nHope this helps."
	f := &fakeLLM{reply: reply}
	img := &fakeImages{}
	s := newSynth(f, img)

	bundle := rag.ContextBundle{Message: rag.MessageFetched, Documents: []string{"RuBisCO fixes carbon."}, Source: rag.SourceExternalFetch}
	doc, err := s.Synthesize(context.Background(), topics, bundle)
	require.NoError(t, err)

	content := doc.Content()
	assert.True(t, strings.HasPrefix(content, "# Photosynthesis"))
	assert.Contains(t, content, "![diagram of a chloroplast](https://img.test/1.png)")
	assert.Contains(t, content, "![Calvin cycle chart](https://img.test/2.png)")
	assert.NotContains(t, content, "&&&")
	assert.Len(t, doc.Images(), 2)

	require.Len(t, f.prompts, 1)
	assert.Contains(t, f.prompts[0], "- Calvin cycle")
	assert.Contains(t, f.prompts[0], "RuBisCO fixes carbon.")
}

func TestSynthesizeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{"no fence", "# Notes without any fence", nil},
		{"wrong fence", "```json\n{}\n```", nil},
		{"unterminated", "```markdown\n# cut off", nil},
		{"empty reply", "", fmt.Errorf("openrouter: %w", llm.ErrEmptyResponse)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := &fakeImages{}
			s := newSynth(&fakeLLM{reply: tt.reply, err: tt.err}, img)

			doc, err := s.Synthesize(context.Background(), topics, rag.EmptyContext())
			assert.Nil(t, doc)
			assert.True(t, rag.IsMalformed(err), "got %v", err)
			assert.Empty(t, img.queries)
		})
	}
}

func TestSynthesizeTransportError(t *testing.T) {
	s := newSynth(&fakeLLM{err: &llm.TransportError{Provider: "ollama", Err: errors.New("refused")}}, &fakeImages{})

	_, err := s.Synthesize(context.Background(), topics, rag.EmptyContext())
	assert.True(t, llm.IsTransport(err))
	assert.False(t, rag.IsMalformed(err))
}

func TestModifyText(t *testing.T) {
	f := &fakeLLM{reply: "```text\nCells split in two.\n```"}
	s := newSynth(f, &fakeImages{})

	out, err := s.ModifyText(context.Background(), "Cells undergo mitosis.", "simplify")
	require.NoError(t, err)
	assert.Equal(t, "Cells split in two.", out)
	assert.Contains(t, f.prompts[0], "Cells undergo mitosis.")

	f.reply = "no fence here"
	_, err = s.ModifyText(context.Background(), "x", "y")
	assert.True(t, rag.IsMalformed(err))
}
