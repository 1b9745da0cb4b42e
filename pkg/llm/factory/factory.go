package factory

import (
	"fmt"
	"time"

	"notecraft-be/pkg/llm"
	"notecraft-be/pkg/llm/ollama"
	"notecraft-be/pkg/llm/openrouter"
)

const huggingFaceRouterURL = "https://router.huggingface.co/v1"

// Settings carries what any of the supported providers may need.
type Settings struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
}

func NewLLMProvider(s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case "ollama":
		baseURL := s.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, s.Model, s.Timeout), nil
	case "openrouter":
		return openrouter.NewProvider("openrouter", s.APIKey, s.BaseURL, s.Model, s.Timeout), nil
	case "huggingface":
		baseURL := s.BaseURL
		if baseURL == "" {
			baseURL = huggingFaceRouterURL
		}
		return openrouter.NewProvider("huggingface", s.APIKey, baseURL, s.Model, s.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
