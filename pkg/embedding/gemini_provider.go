package embedding

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiProvider embeds through the Gemini API using the genai SDK, which
// accepts a whole batch in one call.
type GeminiProvider struct {
	client     *genai.Client
	model      string
	dimensions int32
}

var geminiTaskTypes = map[TaskType]string{
	TaskQuery:   "RETRIEVAL_QUERY",
	TaskPassage: "RETRIEVAL_DOCUMENT",
}

func NewGeminiProvider(ctx context.Context, apiKey, model string, dimensions int) (EmbeddingProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = "gemini-embedding-001"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiProvider{
		client:     client,
		model:      model,
		dimensions: int32(dimensions),
	}, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, texts []string, taskType TaskType) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	config := &genai.EmbedContentConfig{
		TaskType: geminiTaskTypes[taskType],
	}
	if p.dimensions > 0 {
		dims := p.dimensions
		config.OutputDimensionality = &dims
	}

	result, err := p.client.Models.EmbedContent(ctx, p.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini embed failed: %w", err)
	}
	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini returned %d embeddings for %d inputs", len(result.Embeddings), len(texts))
	}

	// Truncated gemini-embedding-001 vectors are not unit length.
	vectors := make([][]float32, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		vectors[i] = normalizeVector(emb.Values)
	}
	return vectors, nil
}
