// Package enrich resolves a best contact for each discovered company.
// Two strategies share one contract: a structured contacts-API lookup
// (Hunter) and a scrape-and-infer fallback that costs no API credits.
package enrich

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Mode selects the enrichment strategy for a batch.
type Mode string

const (
	ModeHunter Mode = "hunter"
	ModeScrape Mode = "scrape"
)

// Enricher resolves at most one contact for a company. Absence of a contact
// is a valid result, not an error.
type Enricher interface {
	Enrich(ctx context.Context, company model.DiscoveredCompany) (model.EnrichedCompany, error)
}

// BatchPrecheck is implemented by enrichers that can cheaply determine,
// before any per-company work, that the whole batch should be skipped.
type BatchPrecheck interface {
	// SkipBatch returns true when the batch must be abandoned (e.g. no
	// API credits remaining). No paid calls may have been made.
	SkipBatch(ctx context.Context) bool
}

// EnrichAll enriches companies sequentially, preserving input order. A
// failure on one company yields a contactless result for that company; the
// batch never aborts.
func EnrichAll(ctx context.Context, e Enricher, companies []model.DiscoveredCompany) []model.EnrichedCompany {
	if p, ok := e.(BatchPrecheck); ok && p.SkipBatch(ctx) {
		out := make([]model.EnrichedCompany, len(companies))
		for i, c := range companies {
			out[i] = model.Enriched(c)
		}
		return out
	}

	enriched := make([]model.EnrichedCompany, 0, len(companies))
	for i, company := range companies {
		zap.L().Info("enriching company",
			zap.Int("index", i+1),
			zap.Int("total", len(companies)),
			zap.String("company", company.Name),
		)

		result, err := e.Enrich(ctx, company)
		if err != nil {
			zap.L().Error("enrichment failed, continuing without contact",
				zap.String("company", company.Name),
				zap.Error(err),
			)
			result = model.Enriched(company)
		}
		enriched = append(enriched, result)
	}

	withContacts := 0
	for _, c := range enriched {
		if c.HasContact() {
			withContacts++
		}
	}
	zap.L().Info("enrichment complete",
		zap.Int("with_contacts", withContacts),
		zap.Int("total", len(companies)),
	)

	return enriched
}

// extractDomain reduces a website URL to its bare domain: no scheme, no
// leading www, no path, lowercased.
func extractDomain(website string) string {
	if website == "" {
		return ""
	}
	if !strings.HasPrefix(website, "http://") && !strings.HasPrefix(website, "https://") {
		website = "https://" + website
	}

	parsed, err := url.Parse(website)
	if err != nil {
		// Crude fallback for URLs net/url rejects.
		s := strings.TrimPrefix(strings.TrimPrefix(website, "https://"), "http://")
		s = strings.TrimPrefix(s, "www.")
		return strings.ToLower(strings.SplitN(s, "/", 2)[0])
	}

	domain := parsed.Host
	if domain == "" {
		domain = parsed.Path
	}
	domain = strings.TrimPrefix(domain, "www.")
	return strings.Trim(strings.ToLower(domain), "/")
}
