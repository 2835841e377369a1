package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
)

type scriptedEnricher struct {
	failOn map[string]bool
}

func (s *scriptedEnricher) Enrich(ctx context.Context, c model.DiscoveredCompany) (model.EnrichedCompany, error) {
	if s.failOn[c.Name] {
		return model.EnrichedCompany{}, errors.New("lookup failed")
	}
	enriched := model.Enriched(c)
	enriched.Contact = &model.Contact{Name: "Pat", Email: "pat@" + c.Name + ".com"}
	return enriched, nil
}

func TestEnrichAllPreservesOrderAndSurvivesFailures(t *testing.T) {
	companies := []model.DiscoveredCompany{
		{Name: "alpha"}, {Name: "beta"}, {Name: "gamma"},
	}
	e := &scriptedEnricher{failOn: map[string]bool{"beta": true}}

	enriched := EnrichAll(context.Background(), e, companies)

	require.Len(t, enriched, 3)
	assert.Equal(t, "alpha", enriched[0].CompanyName)
	assert.Equal(t, "beta", enriched[1].CompanyName)
	assert.Equal(t, "gamma", enriched[2].CompanyName)

	assert.True(t, enriched[0].HasContact())
	assert.False(t, enriched[1].HasContact(), "a failed lookup yields a contactless company, not a dropped one")
	assert.True(t, enriched[2].HasContact())
}

func TestEnrichAllEmptyInput(t *testing.T) {
	enriched := EnrichAll(context.Background(), &scriptedEnricher{}, nil)
	assert.Empty(t, enriched)
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://www.acme.com", "acme.com"},
		{"http://acme.com/about/team", "acme.com"},
		{"acme.com", "acme.com"},
		{"www.Acme.COM/contact", "acme.com"},
		{"https://sub.acme.co.uk", "sub.acme.co.uk"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := extractDomain(tt.in); got != tt.want {
			t.Errorf("extractDomain(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
