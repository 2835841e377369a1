package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/pkg/llm"
)

// fakeLLM returns canned responses and records requests.
type fakeLLM struct {
	response string
	err      error
	requests []llm.Request
}

func (f *fakeLLM) Complete(_ context.Context, req llm.Request) (string, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestDiscover_FencedCodeBlock(t *testing.T) {
	fake := &fakeLLM{response: "Here are the companies:\n```json\n[{\"name\":\"Acme\",\"website\":\"acme.com\",\"description\":\"Solar installs\",\"industry\":\"solar\",\"estimated_size\":\"small\"}]\n```"}
	svc := New(fake)

	companies, err := svc.Discover(context.Background(), "solar installers", "Winnipeg, Manitoba", 10)
	require.NoError(t, err)
	require.Len(t, companies, 1)

	assert.Equal(t, "Acme", companies[0].Name)
	assert.Equal(t, "https://acme.com", companies[0].Website)
	assert.Equal(t, "Winnipeg, Manitoba", companies[0].Region)
}

func TestDiscover_BareArray(t *testing.T) {
	fake := &fakeLLM{response: `[{"name":"Beta Corp","website":"https://beta.io"}]`}
	svc := New(fake)

	companies, err := svc.Discover(context.Background(), "SaaS", "Toronto", 5)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "https://beta.io", companies[0].Website)
	// Missing industry falls back to the searched company type.
	assert.Equal(t, "SaaS", companies[0].Industry)
}

func TestDiscover_NoArrayIsParseError(t *testing.T) {
	fake := &fakeLLM{response: "I could not find any companies matching those criteria."}
	svc := New(fake)

	_, err := svc.Discover(context.Background(), "x", "y", 5)
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	// Parse failures are not retried: exactly one completion call.
	assert.Len(t, fake.requests, 1)
}

func TestDiscover_InvalidJSONIsParseError(t *testing.T) {
	fake := &fakeLLM{response: "```json\n[{\"name\": broken}]\n```"}
	svc := New(fake)

	_, err := svc.Discover(context.Background(), "x", "y", 5)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
}

func TestDiscover_MalformedRecordSkipped(t *testing.T) {
	fake := &fakeLLM{response: `[{"name":"Good","website":"good.com"}, "not an object"]`}
	svc := New(fake)

	companies, err := svc.Discover(context.Background(), "x", "y", 5)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "Good", companies[0].Name)
}

func TestDiscover_CountCappedAt50(t *testing.T) {
	fake := &fakeLLM{response: `[]`}
	svc := New(fake)

	_, err := svc.Discover(context.Background(), "x", "y", 200)
	require.NoError(t, err)
	require.Len(t, fake.requests, 1)
	assert.Contains(t, fake.requests[0].Prompt, "Find 50 REAL companies")
}

func TestDiscover_LowTemperature(t *testing.T) {
	fake := &fakeLLM{response: `[]`}
	svc := New(fake)

	_, err := svc.Discover(context.Background(), "x", "y", 5)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, fake.requests[0].Temperature, 0.001)
	assert.Equal(t, 4000, fake.requests[0].MaxTokens)
}
