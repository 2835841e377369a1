package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
)

type fakeDiscovery struct {
	companies []model.DiscoveredCompany
	err       error
	calls     int
}

func (f *fakeDiscovery) Discover(ctx context.Context, companyType, region string, count int) ([]model.DiscoveredCompany, error) {
	f.calls++
	return f.companies, f.err
}

type fakeEnricher struct {
	contactFor map[string]string
}

func (f *fakeEnricher) Enrich(ctx context.Context, c model.DiscoveredCompany) (model.EnrichedCompany, error) {
	enriched := model.Enriched(c)
	if email, ok := f.contactFor[c.Name]; ok {
		enriched.Contact = &model.Contact{Name: "Pat Lee", Email: email, Position: "Owner"}
	}
	return enriched, nil
}

type fakeCRM struct {
	boardID    string
	createErr  error
	itemIDs    map[string]string
	marked     []string
	boardsMade []string
}

func (f *fakeCRM) BoardID() string { return f.boardID }

func (f *fakeCRM) CreateBoard(ctx context.Context, name string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.boardID = "board-new"
	f.boardsMade = append(f.boardsMade, name)
	return f.boardID, nil
}

func (f *fakeCRM) CreateLeadsBatch(ctx context.Context, companies []model.EnrichedCompany) (map[string]string, error) {
	if f.itemIDs == nil {
		f.itemIDs = map[string]string{}
		for i, c := range companies {
			f.itemIDs[c.CompanyName] = "item-" + string(rune('a'+i))
		}
	}
	return f.itemIDs, nil
}

func (f *fakeCRM) MarkEmailSent(ctx context.Context, itemID string) error {
	f.marked = append(f.marked, itemID)
	return nil
}

type fakeMailer struct {
	failFor map[string]string
	sentTo  []string
}

func (f *fakeMailer) SendBatch(ctx context.Context, companies []model.EnrichedCompany, companyType string, extra map[string]string) []model.EmailResult {
	var results []model.EmailResult
	for _, c := range companies {
		if msg, ok := f.failFor[c.CompanyName]; ok {
			results = append(results, model.EmailResult{
				Success: false, Recipient: c.Contact.Email, CompanyName: c.CompanyName, ErrorMessage: msg,
			})
			continue
		}
		f.sentTo = append(f.sentTo, c.Contact.Email)
		results = append(results, model.EmailResult{
			Success: true, Recipient: c.Contact.Email, CompanyName: c.CompanyName,
		})
	}
	return results
}

func newRunStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func discovered(names ...string) []model.DiscoveredCompany {
	var out []model.DiscoveredCompany
	for _, n := range names {
		out = append(out, model.DiscoveredCompany{Name: n, Website: "https://example.test", Region: "Austin, TX"})
	}
	return out
}

func TestRunFullPipeline(t *testing.T) {
	disc := &fakeDiscovery{companies: discovered("Alpha", "Beta", "Gamma")}
	enr := &fakeEnricher{contactFor: map[string]string{"Alpha": "a@alpha.com", "Gamma": "g@gamma.com"}}
	crm := &fakeCRM{boardID: "board-1"}
	mail := &fakeMailer{}
	st := newRunStore(t)

	p := New(disc, enr, crm, mail, st)
	report, err := p.Run(context.Background(), model.Job{CompanyType: "saas", Region: "Austin, TX", Count: 3}, Options{SendEmails: true})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Discovered)
	assert.Equal(t, 2, report.WithContacts)
	assert.Equal(t, 3, report.LeadsCreated)
	assert.Equal(t, 2, report.EmailsSent)
	assert.ElementsMatch(t, []string{"a@alpha.com", "g@gamma.com"}, mail.sentTo)
	assert.Len(t, crm.marked, 2, "each successful email checks off its CRM item")

	runs, err := st.ListRuns(context.Background(), store.RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusComplete, runs[0].Status)
	require.NotNil(t, runs[0].Report)
	assert.Equal(t, 3, runs[0].Report.Discovered)
}

func TestRunDiscoveryFailureAborts(t *testing.T) {
	disc := &fakeDiscovery{err: errors.New("model offline")}
	st := newRunStore(t)

	p := New(disc, &fakeEnricher{}, &fakeCRM{boardID: "b"}, &fakeMailer{}, st)
	_, err := p.Run(context.Background(), model.Job{CompanyType: "saas", Region: "Austin, TX"}, Options{})
	require.Error(t, err)

	runs, err := st.ListRuns(context.Background(), store.RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusFailed, runs[0].Status)
}

func TestRunCreatesBoardWhenMissing(t *testing.T) {
	disc := &fakeDiscovery{companies: discovered("Alpha")}
	crm := &fakeCRM{}

	p := New(disc, &fakeEnricher{}, crm, &fakeMailer{}, nil)
	_, err := p.Run(context.Background(), model.Job{CompanyType: "saas", Region: "Austin, TX"}, Options{BoardName: "Q3 Leads"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Q3 Leads"}, crm.boardsMade)
}

func TestRunBoardCreationFailureDegrades(t *testing.T) {
	disc := &fakeDiscovery{companies: discovered("Alpha")}
	crm := &fakeCRM{createErr: errors.New("quota exceeded")}

	p := New(disc, &fakeEnricher{}, crm, &fakeMailer{}, nil)
	report, err := p.Run(context.Background(), model.Job{CompanyType: "saas", Region: "Austin, TX"}, Options{})
	require.NoError(t, err, "CRM failure degrades, the run still completes")
	assert.Zero(t, report.LeadsCreated)
	assert.NotEmpty(t, report.Errors)
}

func TestRunFailedEmailNotMarked(t *testing.T) {
	disc := &fakeDiscovery{companies: discovered("Alpha", "Beta")}
	enr := &fakeEnricher{contactFor: map[string]string{"Alpha": "a@alpha.com", "Beta": "b@beta.com"}}
	crm := &fakeCRM{boardID: "board-1"}
	mail := &fakeMailer{failFor: map[string]string{"Beta": "mailbox full"}}

	p := New(disc, enr, crm, mail, nil)
	report, err := p.Run(context.Background(), model.Job{CompanyType: "saas", Region: "Austin, TX"}, Options{SendEmails: true})
	require.NoError(t, err)

	assert.Equal(t, 1, report.EmailsSent)
	assert.Len(t, crm.marked, 1)
	assert.NotEmpty(t, report.Errors)
}

func TestRunBatchSkipsInvalidAndSurvivesFailures(t *testing.T) {
	disc := &fakeDiscovery{companies: discovered("Alpha")}
	crm := &fakeCRM{boardID: "board-1"}

	p := New(disc, &fakeEnricher{}, crm, &fakeMailer{}, nil)
	jobs := []model.Job{
		{CompanyType: "saas", Region: "Austin, TX"},
		{CompanyType: "", Region: "Nowhere"},
		{CompanyType: "hvac", Region: "Dallas, TX"},
	}
	reports := p.RunBatch(context.Background(), jobs, Options{})

	assert.Len(t, reports, 2)
	assert.Equal(t, 2, disc.calls, "the invalid job never reaches discovery")
}

func TestLoadJobsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`[{"company_type":"solar installers","region":"Winnipeg, Manitoba","count":10}]`,
	), 0o644))

	jobs, err := LoadJobs(path)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "solar installers", jobs[0].CompanyType)
	assert.Equal(t, 10, jobs[0].Count)
}

func TestLoadJobsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"- company_type: SaaS startups\n  region: Toronto, Ontario\n  count: 5\n",
	), 0o644))

	jobs, err := LoadJobs(path)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "SaaS startups", jobs[0].CompanyType)
	assert.Equal(t, 5, jobs[0].Count)
}

func TestLoadJobsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o644))

	_, err := LoadJobs(path)
	require.Error(t, err)
}
