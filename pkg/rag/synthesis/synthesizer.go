// Package synthesis turns a TopicSet and its retrieved context into an
// illustrated NoteDocument.
package synthesis

import (
	"context"
	"errors"
	"time"

	"notecraft-be/internal/pkg/logger"
	"notecraft-be/pkg/llm"
	"notecraft-be/pkg/rag"
	"notecraft-be/pkg/rag/fence"
	"notecraft-be/pkg/rag/prompt"
)

// ImageResolver maps an image description to a URL and never fails.
type ImageResolver interface {
	Search(ctx context.Context, description string) string
}

type Synthesizer struct {
	llm     llm.LLMProvider
	images  ImageResolver
	timeout time.Duration
	logger  logger.ILogger
}

func NewSynthesizer(provider llm.LLMProvider, images ImageResolver, timeout time.Duration, log logger.ILogger) *Synthesizer {
	return &Synthesizer{
		llm:     provider,
		images:  images,
		timeout: timeout,
		logger:  log,
	}
}

// Synthesize generates the notes, then resolves every image marker in order.
// A reply without a ```markdown block fails with rag.ErrMalformedOutput.
func (s *Synthesizer) Synthesize(ctx context.Context, topics *rag.TopicSet, bundle rag.ContextBundle) (*rag.NoteDocument, error) {
	var topicList []string
	if topics != nil {
		topicList = topics.Topics
	}

	raw, err := s.generate(ctx, prompt.NewNotesBuilder(topicList, bundle.Documents).Build())
	if err != nil {
		return nil, err
	}

	body, err := fence.Extract(raw, "markdown", "md")
	if err != nil {
		s.logger.Warn("Synthesizer", "Notes reply has no markdown block", map[string]interface{}{"length": len(raw)})
		return nil, err
	}

	return s.Assemble(ctx, body), nil
}

// Assemble splits body on image markers and resolves each one. Text is kept
// verbatim.
func (s *Synthesizer) Assemble(ctx context.Context, body string) *rag.NoteDocument {
	pieces := fence.SplitMarkers(body)
	doc := &rag.NoteDocument{Segments: make([]rag.Segment, 0, len(pieces))}

	for _, p := range pieces {
		if !p.Image {
			doc.Segments = append(doc.Segments, rag.Segment{Kind: rag.SegmentText, Text: p.Text})
			continue
		}
		doc.Segments = append(doc.Segments, rag.Segment{
			Kind:        rag.SegmentImage,
			Description: p.Text,
			URL:         s.images.Search(ctx, p.Text),
		})
	}
	return doc
}

// ModifyText reworks a single excerpt. No retrieval is involved.
func (s *Synthesizer) ModifyText(ctx context.Context, excerpt, instruction string) (string, error) {
	raw, err := s.generate(ctx, prompt.ModifyText(excerpt, instruction))
	if err != nil {
		return "", err
	}
	return fence.Extract(raw, "text", "markdown", "md")
}

func (s *Synthesizer) generate(ctx context.Context, p string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.llm.Generate(ctx, p, llm.WithTemperature(0.7))
	if err != nil {
		if errors.Is(err, llm.ErrEmptyResponse) {
			return "", rag.Malformed("synthesizer got an empty reply")
		}
		return "", err
	}
	return raw, nil
}
