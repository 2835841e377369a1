package llm

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
)

const defaultAnthropicModel = "claude-haiku-4-5-20251001"

// AnthropicOption configures the Anthropic client.
type AnthropicOption func(*anthropicClient)

// WithAnthropicModel overrides the default model.
func WithAnthropicModel(model string) AnthropicOption {
	return func(c *anthropicClient) {
		c.model = model
	}
}

type anthropicClient struct {
	client sdk.Client
	model  string
}

// NewAnthropic creates a chat-completion client backed by the official SDK.
func NewAnthropic(apiKey string, opts ...AnthropicOption) Client {
	c := &anthropicClient{
		client: sdk.NewClient(option.WithAPIKey(apiKey)),
		model:  defaultAnthropicModel,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *anthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	params := sdk.MessageNewParams{
		Model:       sdk.Model(c.model),
		MaxTokens:   maxTokens,
		Messages:    []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(req.Prompt))},
		Temperature: sdk.Float(req.Temperature),
	}
	if req.System != "" {
		params.System = []sdk.TextBlockParam{{Text: req.System}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", eris.Wrap(err, "anthropic: create message")
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", eris.New("anthropic: response has no text content")
	}

	return sb.String(), nil
}
