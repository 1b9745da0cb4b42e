package classifier

import (
	"context"
	"errors"
	"fmt"
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

func newClassifier(t *testing.T, f *fakeLLM) *Classifier {
	t.Helper()
	c, err := NewClassifier(f, time.Second, logger.NewNopLogger())
	require.NoError(t, err)
	return c
}

func TestClassifyWellFormed(t *testing.T) {
	f := &fakeLLM{reply: "Sure!\n```json\n{\"namespace\": \"biology\", \"topics\": [\"light reactions\", \"Calvin cycle\"]}\n```\nDone."}
	c := newClassifier(t, f)

	ts, err := c.Classify(context.Background(), "Photosynthesis")
	require.NoError(t, err)
	assert.Equal(t, namespace.Biology, ts.Namespace)
	assert.Equal(t, []string{"light reactions", "Calvin cycle"}, ts.Topics)

	require.Len(t, f.prompts, 1)
	assert.Contains(t, f.prompts[0], "Photosynthesis")
	assert.Contains(t, f.prompts[0], "namespace_list")
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no fence", `{"namespace": "biology", "topics": ["a"]}`},
		{"unterminated fence", "```json\n{\"namespace\": \"biology\", \"topics\": [\"a\"]}"},
		{"invalid json", "```json\n{namespace: biology}\n```"},
		{"missing topics", "```json\n{\"namespace\": \"biology\"}\n```"},
		{"missing namespace", "```json\n{\"topics\": [\"a\"]}\n```"},
		{"empty topics", "```json\n{\"namespace\": \"biology\", \"topics\": []}\n```"},
		{"topics not strings", "```json\n{\"namespace\": \"biology\", \"topics\": [1, 2]}\n```"},
		{"unknown namespace", "```json\n{\"namespace\": \"astrology\", \"topics\": [\"a\"]}\n```"},
		{"only blank topics", "```json\n{\"namespace\": \"biology\", \"topics\": [\" \", \"-\"]}\n```"},
	}

	c := newClassifier(t, &fakeLLM{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := c.Parse(tt.raw)
			assert.Nil(t, ts)
			assert.True(t, rag.IsMalformed(err), "got %v", err)
		})
	}
}

func TestParseCleansTopics(t *testing.T) {
	c := newClassifier(t, &fakeLLM{})

	topics := make([]string, 0, 20)
	topics = append(topics, `"1. Cell wall"`, `"- cell wall"`, `"• Osmosis"`)
	for i := 0; i < 17; i++ {
		topics = append(topics, fmt.Sprintf(`"topic %d"`, i))
	}
	raw := "```json\n{\"namespace\": \"Biology\", \"topics\": ["
	for i, tp := range topics {
		if i > 0 {
			raw += ","
		}
		raw += tp
	}
	raw += "]}\n```"

	ts, err := c.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, namespace.Biology, ts.Namespace)
	assert.Len(t, ts.Topics, 15)
	assert.Equal(t, "Cell wall", ts.Topics[0])
	assert.Equal(t, "Osmosis", ts.Topics[1])
}

func TestParseKeepsDecimalLedTopics(t *testing.T) {
	c := newClassifier(t, &fakeLLM{})
	raw := "```json\n{\"namespace\": \"physics\", \"topics\": [\"2.5D materials\", \"1.5 degree warming target\", \"3) Optics\", \"4.\\tLenses\"]}\n```"

	ts, err := c.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"2.5D materials", "1.5 degree warming target", "Optics", "Lenses"}, ts.Topics)
}

func TestParseAcceptsUntaggedFence(t *testing.T) {
	c := newClassifier(t, &fakeLLM{})

	ts, err := c.Parse("```\n{\"namespace\": \"chemistry\", \"topics\": [\"Buffers\"]}\n```")
	require.NoError(t, err)
	assert.Equal(t, namespace.Chemistry, ts.Namespace)
	assert.Equal(t, []string{"Buffers"}, ts.Topics)
}

func TestParsePrefersJSONFence(t *testing.T) {
	c := newClassifier(t, &fakeLLM{})
	raw := "```\nnot json\n```\n```json\n{\"namespace\": \"history\", \"topics\": [\"Rome\"]}\n```"

	ts, err := c.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, namespace.History, ts.Namespace)
}

func TestParseSkipsForeignFence(t *testing.T) {
	c := newClassifier(t, &fakeLLM{})
	raw := "```python\nprint('x')\n```\n```json\n{\"namespace\": \"history\", \"topics\": [\"Rome\"]}\n```"

	ts, err := c.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, namespace.History, ts.Namespace)
}

func TestClassifyTransportError(t *testing.T) {
	transport := &llm.TransportError{Provider: "ollama", Err: errors.New("connection refused")}
	c := newClassifier(t, &fakeLLM{err: transport})

	_, err := c.Classify(context.Background(), "q")
	require.Error(t, err)
	assert.True(t, llm.IsTransport(err))
	assert.False(t, rag.IsMalformed(err))
}

func TestClassifyEmptyReplyIsMalformed(t *testing.T) {
	c := newClassifier(t, &fakeLLM{err: fmt.Errorf("ollama: %w", llm.ErrEmptyResponse)})

	_, err := c.Classify(context.Background(), "q")
	assert.True(t, rag.IsMalformed(err))
}
