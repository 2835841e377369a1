// Package discovery finds candidate companies by prompting an AI completion
// model and parsing the JSON array it returns.
package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/resilience"
	"github.com/sells-group/leadgen-cli/pkg/llm"
)

// maxCount caps how many companies a single discovery request may ask for.
const maxCount = 50

// Service discovers companies via the configured completion provider.
type Service struct {
	llm   llm.Client
	retry resilience.Policy
}

// New creates a discovery service.
func New(client llm.Client) *Service {
	return &Service{
		llm:   client,
		retry: resilience.Policy{MaxRetries: 3, BaseDelay: 2 * time.Second}.Logged("llm", "discover"),
	}
}

// Discover returns up to count companies of the given type in the region.
// The completion call is retried on transient failures; a parse failure is
// not retried and surfaces to the caller as a *ParseError.
func (s *Service) Discover(ctx context.Context, companyType, region string, count int) ([]model.DiscoveredCompany, error) {
	if count > maxCount {
		count = maxCount
	}
	if count <= 0 {
		count = 10
	}

	zap.L().Info("discovering companies",
		zap.String("company_type", companyType),
		zap.String("region", region),
		zap.Int("count", count),
	)

	prompt := buildPrompt(companyType, region, count)

	response, err := resilience.DoVal(ctx, s.retry, func(ctx context.Context) (string, error) {
		return s.llm.Complete(ctx, llm.Request{
			System:      "You are a business research assistant that finds real companies. Always respond with valid JSON only.",
			Prompt:      prompt,
			Temperature: 0.3,
			MaxTokens:   4000,
		})
	})
	if err != nil {
		return nil, err
	}

	companies, err := parseCompanies(response, companyType, region)
	if err != nil {
		return nil, err
	}

	zap.L().Info("discovery complete", zap.Int("found", len(companies)))
	return companies, nil
}

func buildPrompt(companyType, region string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a business research assistant. Find %d REAL companies that are %s located in or serving %s.\n\n", count, companyType, region)
	b.WriteString("IMPORTANT: Only provide REAL companies that actually exist. Do not make up fictional companies.\n\n")
	b.WriteString("For each company, provide:\n")
	b.WriteString("1. Company name (official registered name)\n")
	b.WriteString("2. Website URL (must be real and accessible)\n")
	b.WriteString("3. Brief description (1-2 sentences about what they do)\n")
	b.WriteString("4. Specific industry/niche\n")
	b.WriteString("5. Estimated company size (small/medium/large or employee count if known)\n\n")
	b.WriteString("Return your response as a JSON array with this exact structure:\n")
	b.WriteString("```json\n[\n    {\n        \"name\": \"Company Name\",\n        \"website\": \"https://www.example.com\",\n        \"description\": \"Brief description of the company\",\n        \"industry\": \"Specific industry\",\n        \"estimated_size\": \"small/medium/large\"\n    }\n]\n```\n\n")
	fmt.Fprintf(&b, "Focus on companies that are currently active, have a web presence, and operate in or serve %s.\n", region)
	fmt.Fprintf(&b, "If you cannot find %d real companies, return as many as you can find with accurate information.\n\n", count)
	b.WriteString("Return ONLY the JSON array, no additional text or explanation.")
	return b.String()
}
