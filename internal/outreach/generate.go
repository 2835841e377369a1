package outreach

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

// generateAIEmail asks the model for a personalized subject and body. Any
// failure returns empty strings; the caller falls back to the template.
func (s *Service) generateAIEmail(ctx context.Context, company model.EnrichedCompany, companyType string) (subject, body string) {
	if s.llm == nil || company.Contact == nil {
		return "", ""
	}
	contact := company.Contact

	prompt := fmt.Sprintf(`Write a short, professional cold outreach email to %s (%s) at %s.

Company info:
- Industry: %s
- Region: %s
- Description: %s
- Company type searched: %s

Requirements:
- Address them by first name
- Reference something specific about their company or industry
- Keep it under 100 words (body only, exclude greeting and sign-off)
- Be professional but conversational
- End with a clear call to action (suggest a brief call)
- Do NOT include a subject line in the body

Respond in this exact format:
SUBJECT: <email subject line>
BODY: <full email body including greeting and sign-off from %s>`,
		contact.Name, contact.Position, company.CompanyName,
		company.Industry, company.Region, company.Description, companyType,
		s.senderName)

	retry := resilience.Policy{MaxRetries: 2, BaseDelay: 2 * time.Second}.Logged("llm", "generate_email")
	resp, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (string, error) {
		return s.llm.Complete(ctx, llm.Request{
			System:      "You write concise, personalized business outreach emails. No fluff.",
			Prompt:      prompt,
			Temperature: 0.7,
			MaxTokens:   400,
		})
	})
	if err != nil {
		zap.L().Warn("email generation failed",
			zap.String("company", company.CompanyName),
			zap.Error(err),
		)
		return "", ""
	}

	return parseGeneratedEmail(resp, s.senderName, company.CompanyName)
}

// parseGeneratedEmail splits a SUBJECT:/BODY: response. A response missing
// the markers is treated as body-only with a default subject.
func parseGeneratedEmail(content, senderName, companyName string) (subject, body string) {
	if strings.Contains(content, "SUBJECT:") && strings.Contains(content, "BODY:") {
		parts := strings.SplitN(content, "BODY:", 2)
		subject = strings.TrimSpace(strings.Replace(parts[0], "SUBJECT:", "", 1))
		body = strings.TrimSpace(parts[1])
		return subject, body
	}
	return fmt.Sprintf("Quick Introduction - %s + %s", senderName, companyName), strings.TrimSpace(content)
}
