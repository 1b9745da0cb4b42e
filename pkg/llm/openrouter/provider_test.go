package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"notecraft-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.InDelta(t, 0.2, req.Temperature, 1e-9)
		if assert.Len(t, req.Messages, 1) {
			assert.Equal(t, "user", req.Messages[0].Role)
		}

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hello"}}]}`))
	}))
	defer srv.Close()

	p := NewProvider("openrouter", "key", srv.URL+"/", "test-model", time.Second)

	out, err := p.Generate(context.Background(), "hi", llm.WithTemperature(0.2))

	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestProvider_StatusErrorIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewProvider("openrouter", "", srv.URL, "m", time.Second)

	_, err := p.Generate(context.Background(), "hi")

	require.Error(t, err)
	assert.True(t, llm.IsTransport(err))
}

func TestProvider_EmptyChoicesIsNotTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	p := NewProvider("huggingface", "", srv.URL, "m", time.Second)

	_, err := p.Generate(context.Background(), "hi")

	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrEmptyResponse))
	assert.False(t, llm.IsTransport(err))
}
