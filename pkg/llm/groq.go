package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/resilience"
)

const (
	defaultGroqBaseURL = "https://api.groq.com/openai/v1"
	defaultGroqModel   = "llama-3.3-70b-versatile"
)

// GroqOption configures the Groq client.
type GroqOption func(*groqClient)

// WithGroqBaseURL overrides the default API base URL.
func WithGroqBaseURL(url string) GroqOption {
	return func(c *groqClient) {
		c.baseURL = url
	}
}

// WithGroqModel overrides the default model.
func WithGroqModel(model string) GroqOption {
	return func(c *groqClient) {
		c.model = model
	}
}

// WithGroqHTTPClient overrides the default http.Client.
func WithGroqHTTPClient(hc *http.Client) GroqOption {
	return func(c *groqClient) {
		c.http = hc
	}
}

type groqClient struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

// NewGroq creates an OpenAI-compatible chat-completion client.
func NewGroq(apiKey string, opts ...GroqOption) Client {
	c := &groqClient{
		apiKey:  apiKey,
		baseURL: defaultGroqBaseURL,
		model:   defaultGroqModel,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *groqClient) Complete(ctx context.Context, req Request) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", eris.Wrap(err, "groq: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", eris.Wrap(err, "groq: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", eris.Wrap(err, "groq: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "groq: read response")
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("groq: unexpected status %d: %s", resp.StatusCode, string(respBody))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return "", resilience.NewTransientError(err, resp.StatusCode)
		}
		return "", err
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", eris.Wrap(err, "groq: unmarshal response")
	}
	if len(result.Choices) == 0 {
		return "", eris.New("groq: response has no choices")
	}

	return result.Choices[0].Message.Content, nil
}
