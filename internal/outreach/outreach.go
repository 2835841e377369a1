// Package outreach renders and sends the introduction email for each lead.
// Bodies come from a placeholder template or, optionally, a model-generated
// draft that falls back to the template on any failure.
package outreach

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/llm"
)

// Service sends outreach emails for enriched companies.
type Service struct {
	sender     Sender
	llm        llm.Client
	senderName string

	template        string
	subjectTemplate string
	useAI           bool

	// Delay applied after each successful send; failed sends do not pace.
	sendDelay time.Duration
}

// Option configures the service.
type Option func(*Service)

// WithTemplates overrides the default body and subject templates. Empty
// strings keep the defaults.
func WithTemplates(body, subject string) Option {
	return func(s *Service) {
		if body != "" {
			s.template = body
		}
		if subject != "" {
			s.subjectTemplate = subject
		}
	}
}

// WithAI enables model-generated emails using the given client.
func WithAI(client llm.Client) Option {
	return func(s *Service) {
		s.llm = client
		s.useAI = client != nil
	}
}

// WithSendDelay overrides the pause between successful sends.
func WithSendDelay(d time.Duration) Option {
	return func(s *Service) {
		s.sendDelay = d
	}
}

// New creates an outreach service. senderName is used in the From header and
// as the template sign-off.
func New(sender Sender, senderName string, opts ...Option) *Service {
	s := &Service{
		sender:          sender,
		senderName:      senderName,
		template:        DefaultTemplate,
		subjectTemplate: DefaultSubject,
		sendDelay:       2 * time.Second,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Render produces the subject and body for a company without sending
// anything. Used by previews and by SendEmail itself.
func (s *Service) Render(ctx context.Context, company model.EnrichedCompany, companyType string, extra map[string]string) (subject, body string) {
	if s.useAI {
		subject, body = s.generateAIEmail(ctx, company, companyType)
		if subject != "" && body != "" {
			zap.L().Info("using generated email", zap.String("company", company.CompanyName))
			return subject, body
		}
		zap.L().Info("generation unavailable, falling back to template",
			zap.String("company", company.CompanyName))
	}

	vars := templateVariables(company, companyType, s.senderName, extra)
	return renderTemplate(s.subjectTemplate, vars), renderTemplate(s.template, vars)
}

// SendEmail sends one introduction email. A company without a contact email
// yields a failed result, never an error.
func (s *Service) SendEmail(ctx context.Context, company model.EnrichedCompany, companyType string, extra map[string]string) model.EmailResult {
	if !company.HasContact() {
		return model.EmailResult{
			Success:      false,
			CompanyName:  company.CompanyName,
			ErrorMessage: "No contact email available",
		}
	}
	recipient := company.Contact.Email

	subject, body := s.Render(ctx, company, companyType, extra)

	zap.L().Info("sending email",
		zap.String("recipient", recipient),
		zap.String("company", company.CompanyName),
	)
	if err := s.sender.Send(recipient, subject, body); err != nil {
		zap.L().Error("email send failed",
			zap.String("recipient", recipient),
			zap.Error(err),
		)
		return model.EmailResult{
			Success:      false,
			Recipient:    recipient,
			CompanyName:  company.CompanyName,
			ErrorMessage: err.Error(),
		}
	}

	return model.EmailResult{
		Success:     true,
		Recipient:   recipient,
		CompanyName: company.CompanyName,
	}
}

// SendBatch sends to every company in order, one result per company. Sends
// are paced only after successes; a failed send moves on immediately.
func (s *Service) SendBatch(ctx context.Context, companies []model.EnrichedCompany, companyType string, extra map[string]string) []model.EmailResult {
	results := make([]model.EmailResult, 0, len(companies))

	for i, company := range companies {
		zap.L().Info("processing email",
			zap.Int("index", i+1),
			zap.Int("total", len(companies)),
			zap.String("company", company.CompanyName),
		)

		result := s.SendEmail(ctx, company, companyType, extra)
		results = append(results, result)

		if result.Success && i < len(companies)-1 {
			select {
			case <-time.After(s.sendDelay):
			case <-ctx.Done():
				return results
			}
		}
	}

	successful := 0
	for _, r := range results {
		if r.Success {
			successful++
		}
	}
	zap.L().Info("email campaign complete",
		zap.Int("sent", successful),
		zap.Int("total", len(companies)),
	)
	return results
}
