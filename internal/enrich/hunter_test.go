package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/hunter"
)

type fakeHunter struct {
	count        int
	countErr     error
	records      []hunter.EmailRecord
	searchErr    error
	account      hunter.Account
	accountErr   error
	countCalls   int
	searchCalls  int
	accountCalls int
}

func (f *fakeHunter) EmailCount(ctx context.Context, domain string) (int, error) {
	f.countCalls++
	return f.count, f.countErr
}

func (f *fakeHunter) DomainSearch(ctx context.Context, domain string) ([]hunter.EmailRecord, error) {
	f.searchCalls++
	return f.records, f.searchErr
}

func (f *fakeHunter) GetAccount(ctx context.Context) (*hunter.Account, error) {
	f.accountCalls++
	if f.accountErr != nil {
		return nil, f.accountErr
	}
	return &f.account, nil
}

func newTestHunterEnricher(f *fakeHunter) *HunterEnricher {
	h := NewHunterEnricher(f)
	h.pacer = rate.NewLimiter(rate.Inf, 1)
	return h
}

func TestHunterEnrichFindsContact(t *testing.T) {
	f := &fakeHunter{
		count: 5,
		records: []hunter.EmailRecord{
			{Value: "eng@acme.com", FirstName: "Eve", Position: "Engineer", Confidence: 90},
			{Value: "owner@acme.com", FirstName: "Olive", LastName: "Owner", Position: "Owner", Confidence: 70},
		},
	}
	h := newTestHunterEnricher(f)

	enriched, err := h.Enrich(context.Background(), model.DiscoveredCompany{
		Name:    "Acme",
		Website: "https://www.acme.com/about",
	})
	require.NoError(t, err)
	require.True(t, enriched.HasContact())
	assert.Equal(t, "owner@acme.com", enriched.Contact.Email)
	assert.Equal(t, "Olive Owner", enriched.Contact.Name)
}

func TestHunterEnrichZeroCountSkipsPaidSearch(t *testing.T) {
	f := &fakeHunter{count: 0}
	h := newTestHunterEnricher(f)

	enriched, err := h.Enrich(context.Background(), model.DiscoveredCompany{
		Name:    "Ghost Co",
		Website: "ghost.example.org",
	})
	require.NoError(t, err)
	assert.False(t, enriched.HasContact())
	assert.Equal(t, 1, f.countCalls)
	assert.Zero(t, f.searchCalls, "paid domain search must not run when the free count is zero")
}

func TestHunterEnrichNoDomain(t *testing.T) {
	f := &fakeHunter{count: 5}
	h := newTestHunterEnricher(f)

	enriched, err := h.Enrich(context.Background(), model.DiscoveredCompany{Name: "No Site"})
	require.NoError(t, err)
	assert.False(t, enriched.HasContact())
	assert.Zero(t, f.countCalls)
}

func TestHunterSkipBatchNoCredits(t *testing.T) {
	f := &fakeHunter{account: hunter.Account{SearchesUsed: 50, SearchesAvailable: 50}}
	h := newTestHunterEnricher(f)

	assert.True(t, h.SkipBatch(context.Background()))
}

func TestHunterSkipBatchAccountErrorProceeds(t *testing.T) {
	f := &fakeHunter{accountErr: assert.AnError}
	h := newTestHunterEnricher(f)

	assert.False(t, h.SkipBatch(context.Background()))
}

func TestEnrichAllSkipsBatchWithoutPaidCalls(t *testing.T) {
	f := &fakeHunter{
		count:   5,
		account: hunter.Account{SearchesUsed: 100, SearchesAvailable: 100},
	}
	h := newTestHunterEnricher(f)

	companies := []model.DiscoveredCompany{{Name: "A"}, {Name: "B"}}
	enriched := EnrichAll(context.Background(), h, companies)

	require.Len(t, enriched, 2)
	for _, e := range enriched {
		assert.False(t, e.HasContact())
	}
	assert.Equal(t, 1, f.accountCalls)
	assert.Zero(t, f.countCalls)
	assert.Zero(t, f.searchCalls)
}
