package enrich

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/resilience"
	"github.com/sells-group/leadgen-cli/pkg/hunter"
)

// HunterEnricher resolves contacts through the Hunter.io API. The free
// email-count precheck gates every paid domain search: no credits are spent
// on domains with zero indexed emails.
type HunterEnricher struct {
	client hunter.Client
	retry  resilience.Policy
	pacer  *rate.Limiter
}

// NewHunterEnricher creates the structured-lookup strategy.
func NewHunterEnricher(client hunter.Client) *HunterEnricher {
	return &HunterEnricher{
		client: client,
		retry:  resilience.Policy{MaxRetries: 2, BaseDelay: time.Second}.Logged("hunter", "lookup"),
		// Minimum 0.5s spacing between remote calls to stay under
		// provider throttling.
		pacer: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	}
}

// SkipBatch probes the account's remaining credits. A zero or negative
// balance abandons the batch before any paid call.
func (h *HunterEnricher) SkipBatch(ctx context.Context) bool {
	acct, err := h.client.GetAccount(ctx)
	if err != nil {
		zap.L().Warn("hunter account check failed, proceeding anyway", zap.Error(err))
		return false
	}
	if acct.Remaining() <= 0 {
		zap.L().Error("no hunter credits remaining, skipping enrichment batch",
			zap.Int("available", acct.SearchesAvailable),
		)
		return true
	}
	zap.L().Info("hunter credits remaining",
		zap.Int("remaining", acct.Remaining()),
		zap.Int("available", acct.SearchesAvailable),
	)
	return false
}

// Enrich looks up the company's domain and selects the best decision-maker
// contact from the search results.
func (h *HunterEnricher) Enrich(ctx context.Context, company model.DiscoveredCompany) (model.EnrichedCompany, error) {
	enriched := model.Enriched(company)

	domain := extractDomain(company.Website)
	if domain == "" {
		zap.L().Warn("no valid domain for company", zap.String("company", company.Name))
		return enriched, nil
	}

	log := zap.L().With(zap.String("company", company.Name), zap.String("domain", domain))

	count, err := resilience.DoVal(ctx, h.retry, func(ctx context.Context) (int, error) {
		return h.client.EmailCount(ctx, domain)
	})
	if err != nil {
		return enriched, err
	}
	if err := h.pacer.Wait(ctx); err != nil {
		return enriched, err
	}

	if count == 0 {
		log.Info("no emails indexed for domain, skipping paid search")
		return enriched, nil
	}

	log.Info("running domain search", zap.Int("email_count", count))
	emails, err := resilience.DoVal(ctx, h.retry, func(ctx context.Context) ([]hunter.EmailRecord, error) {
		return h.client.DomainSearch(ctx, domain)
	})
	if err != nil {
		return enriched, err
	}
	if err := h.pacer.Wait(ctx); err != nil {
		return enriched, err
	}

	if contact := pickBestContact(emails); contact != nil {
		log.Info("contact found",
			zap.String("name", contact.Name),
			zap.String("position", contact.Position),
			zap.String("email", contact.Email),
		)
		enriched.Contact = contact
	}

	return enriched, nil
}
