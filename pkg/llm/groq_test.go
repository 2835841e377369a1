package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/resilience"
)

func TestGroq_Complete(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "hello back"}},
			},
		})
	}))
	defer srv.Close()

	c := NewGroq("test-key", WithGroqBaseURL(srv.URL), WithGroqModel("test-model"))
	got, err := c.Complete(context.Background(), Request{
		System:      "be terse",
		Prompt:      "say hello",
		Temperature: 0.3,
		MaxTokens:   100,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello back", got)

	assert.Equal(t, "test-model", captured.Model)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Role)
}

func TestGroq_TransientStatusMarked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewGroq("k", WithGroqBaseURL(srv.URL))
	_, err := c.Complete(context.Background(), Request{Prompt: "x"})
	require.Error(t, err)
	assert.True(t, resilience.IsTransient(err))
}

func TestGroq_ClientErrorNotTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewGroq("bad-key", WithGroqBaseURL(srv.URL))
	_, err := c.Complete(context.Background(), Request{Prompt: "x"})
	require.Error(t, err)
	assert.False(t, resilience.IsTransient(err))
}

func TestGroq_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewGroq("k", WithGroqBaseURL(srv.URL))
	_, err := c.Complete(context.Background(), Request{Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
