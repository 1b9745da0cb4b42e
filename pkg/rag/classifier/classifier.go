// Package classifier turns a free-text query into a TopicSet by asking the
// generation model for a fenced JSON payload.
package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"notecraft-be/internal/pkg/logger"
	"notecraft-be/pkg/llm"
	"notecraft-be/pkg/rag"
	"notecraft-be/pkg/rag/fence"
	"notecraft-be/pkg/rag/namespace"
	"notecraft-be/pkg/rag/prompt"

	"github.com/kaptinlin/jsonschema"
)

const payloadSchema = `{
  "type": "object",
  "required": ["namespace", "topics"],
  "properties": {
    "namespace": {"type": "string", "minLength": 1},
    "topics": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "string"}
    }
  }
}`

// leading "1. ", "2) ", "-", "*" or "•" left by models that ignore the no-bullets
// rule. A number only counts as list numbering when whitespace follows it, so
// "2.5D materials" survives.
var bulletPrefix = regexp.MustCompile(`^\s*(?:[-*•]+\s*|\d+[.)](?:\s+|$))`)

type payload struct {
	Namespace string   `json:"namespace"`
	Topics    []string `json:"topics"`
}

type Classifier struct {
	llm     llm.LLMProvider
	schema  *jsonschema.Schema
	timeout time.Duration
	logger  logger.ILogger
}

func NewClassifier(provider llm.LLMProvider, timeout time.Duration, log logger.ILogger) (*Classifier, error) {
	schema, err := jsonschema.NewCompiler().Compile([]byte(payloadSchema))
	if err != nil {
		return nil, fmt.Errorf("compile classifier schema: %w", err)
	}
	return &Classifier{
		llm:     provider,
		schema:  schema,
		timeout: timeout,
		logger:  log,
	}, nil
}

// Classify sends the query with the classification instruction and parses
// the reply. Unusable replies fail with rag.ErrMalformedOutput, transport
// failures are returned as the provider reported them. Nothing is retried.
func (c *Classifier) Classify(ctx context.Context, query string) (*rag.TopicSet, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	raw, err := c.llm.Generate(ctx, query+prompt.ClassificationInstruction(), llm.WithTemperature(0.2))
	if err != nil {
		if errors.Is(err, llm.ErrEmptyResponse) {
			return nil, rag.Malformed("classifier got an empty reply")
		}
		return nil, err
	}

	topicSet, err := c.Parse(raw)
	if err != nil {
		c.logger.Warn("Classifier", "Unusable classification output", map[string]interface{}{
			"error":  err.Error(),
			"length": len(raw),
		})
		return nil, err
	}

	c.logger.Debug("Classifier", "Query classified", map[string]interface{}{
		"namespace": topicSet.Namespace,
		"topics":    len(topicSet.Topics),
	})
	return topicSet, nil
}

// Parse extracts the TopicSet from raw model output.
func (c *Classifier) Parse(raw string) (*rag.TopicSet, error) {
	body, err := fence.Extract(raw, "json")
	if errors.Is(err, fence.ErrNoTaggedFence) {
		// an untagged ``` block is accepted when no ```json block exists
		body, err = fence.Extract(raw, "")
	}
	if err != nil {
		return nil, err
	}

	data := []byte(body)
	if !json.Valid(data) {
		return nil, rag.Malformed("classification payload is not valid JSON")
	}
	if result := c.schema.ValidateJSON(data); !result.IsValid() {
		return nil, rag.Malformed("classification payload rejected: %v", result.Errors)
	}

	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, rag.Malformed("decode classification payload: %v", err)
	}

	ns, err := namespace.Parse(p.Namespace)
	if err != nil {
		return nil, rag.Malformed("%v", err)
	}

	topics := cleanTopics(p.Topics)
	if len(topics) == 0 {
		return nil, rag.Malformed("classification payload has no usable topics")
	}

	return &rag.TopicSet{Namespace: ns, Topics: topics}, nil
}

func cleanTopics(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.TrimSpace(bulletPrefix.ReplaceAllString(t, ""))
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
		if len(out) == prompt.MaxTopics {
			break
		}
	}
	return out
}
