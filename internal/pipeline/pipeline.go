// Package pipeline orchestrates the four stages of a lead-generation run:
// discovery, enrichment, CRM sync, and outreach. Stage boundaries are
// persisted to the run store so interrupted runs are inspectable.
package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/enrich"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
)

// Discoverer produces candidate companies for a search.
type Discoverer interface {
	Discover(ctx context.Context, companyType, region string, count int) ([]model.DiscoveredCompany, error)
}

// CRM is the lead-sync surface the pipeline needs.
type CRM interface {
	BoardID() string
	CreateBoard(ctx context.Context, name string) (string, error)
	CreateLeadsBatch(ctx context.Context, companies []model.EnrichedCompany) (map[string]string, error)
	MarkEmailSent(ctx context.Context, itemID string) error
}

// Mailer sends the outreach batch.
type Mailer interface {
	SendBatch(ctx context.Context, companies []model.EnrichedCompany, companyType string, extra map[string]string) []model.EmailResult
}

// Options control the optional stages of a run.
type Options struct {
	SendEmails bool
	BoardName  string
}

// Pipeline wires the stages together.
type Pipeline struct {
	discovery Discoverer
	enricher  enrich.Enricher
	crm       CRM
	mailer    Mailer
	runs      store.Store
}

// New creates a pipeline. runs may be nil when persistence is not wanted
// (e.g. one-off preview invocations).
func New(discovery Discoverer, enricher enrich.Enricher, crm CRM, mailer Mailer, runs store.Store) *Pipeline {
	return &Pipeline{
		discovery: discovery,
		enricher:  enricher,
		crm:       crm,
		mailer:    mailer,
		runs:      runs,
	}
}

// Run executes the full pipeline for one job. Discovery failure aborts the
// run; every later stage degrades instead of aborting, so a report is always
// produced for a job that found companies.
func (p *Pipeline) Run(ctx context.Context, job model.Job, opts Options) (*model.RunReport, error) {
	run := p.createRun(ctx, job)

	zap.L().Info("pipeline started",
		zap.String("company_type", job.CompanyType),
		zap.String("region", job.Region),
		zap.Int("count", job.Count),
	)

	report := &model.RunReport{}

	p.setStatus(ctx, run, model.RunStatusDiscovering)
	companies, err := p.discovery.Discover(ctx, job.CompanyType, job.Region, job.Count)
	if err != nil {
		p.setStatus(ctx, run, model.RunStatusFailed)
		return nil, eris.Wrap(err, "pipeline: discovery")
	}
	report.Discovered = len(companies)

	p.setStatus(ctx, run, model.RunStatusEnriching)
	enriched := enrich.EnrichAll(ctx, p.enricher, companies)
	report.Companies = enriched
	for _, c := range enriched {
		if c.HasContact() {
			report.WithContacts++
		}
	}

	p.setStatus(ctx, run, model.RunStatusSyncingCRM)
	itemIDs := p.syncLeads(ctx, enriched, opts.BoardName, report)
	report.LeadsCreated = len(itemIDs)

	if opts.SendEmails {
		p.setStatus(ctx, run, model.RunStatusEmailing)
		report.EmailsSent = p.sendOutreach(ctx, enriched, job.CompanyType, itemIDs, report)
	}

	p.saveReport(ctx, run, report)
	p.setStatus(ctx, run, model.RunStatusComplete)

	zap.L().Info("pipeline complete",
		zap.Int("discovered", report.Discovered),
		zap.Int("with_contacts", report.WithContacts),
		zap.Int("leads_created", report.LeadsCreated),
		zap.Int("emails_sent", report.EmailsSent),
	)
	return report, nil
}

// syncLeads ensures a board exists and pushes the batch. CRM failures are
// recorded in the report but never abort the run.
func (p *Pipeline) syncLeads(ctx context.Context, enriched []model.EnrichedCompany, boardName string, report *model.RunReport) map[string]string {
	if p.crm.BoardID() == "" {
		if boardName == "" {
			boardName = "AI Lead Generation"
		}
		zap.L().Info("no board configured, creating one", zap.String("name", boardName))
		if _, err := p.crm.CreateBoard(ctx, boardName); err != nil {
			zap.L().Error("board creation failed, skipping CRM sync", zap.Error(err))
			report.Errors = append(report.Errors, "crm: "+err.Error())
			return nil
		}
	}

	itemIDs, err := p.crm.CreateLeadsBatch(ctx, enriched)
	if err != nil {
		zap.L().Error("lead sync failed", zap.Error(err))
		report.Errors = append(report.Errors, "crm: "+err.Error())
		return nil
	}
	return itemIDs
}

// sendOutreach emails every company with a contact and checks off the CRM
// item for each successful send.
func (p *Pipeline) sendOutreach(ctx context.Context, enriched []model.EnrichedCompany, companyType string, itemIDs map[string]string, report *model.RunReport) int {
	var emailable []model.EnrichedCompany
	for _, c := range enriched {
		if c.HasContact() {
			emailable = append(emailable, c)
		}
	}
	if len(emailable) == 0 {
		zap.L().Info("no contacts with email addresses, skipping outreach")
		return 0
	}

	results := p.mailer.SendBatch(ctx, emailable, companyType, nil)

	sent := 0
	for _, r := range results {
		if !r.Success {
			if r.ErrorMessage != "" {
				report.Errors = append(report.Errors, "email "+r.CompanyName+": "+r.ErrorMessage)
			}
			continue
		}
		sent++
		if itemID, ok := itemIDs[r.CompanyName]; ok {
			if err := p.crm.MarkEmailSent(ctx, itemID); err != nil {
				zap.L().Warn("could not mark email sent",
					zap.String("company", r.CompanyName),
					zap.Error(err),
				)
			}
		}
	}
	return sent
}

// store helpers, all nil-safe

func (p *Pipeline) createRun(ctx context.Context, job model.Job) *model.Run {
	if p.runs == nil {
		return nil
	}
	run, err := p.runs.CreateRun(ctx, job)
	if err != nil {
		zap.L().Warn("could not persist run", zap.Error(err))
		return nil
	}
	return run
}

func (p *Pipeline) setStatus(ctx context.Context, run *model.Run, status model.RunStatus) {
	if run == nil {
		return
	}
	if err := p.runs.UpdateRunStatus(ctx, run.ID, status); err != nil {
		zap.L().Warn("could not update run status",
			zap.String("run_id", run.ID),
			zap.String("status", string(status)),
			zap.Error(err),
		)
	}
}

func (p *Pipeline) saveReport(ctx context.Context, run *model.Run, report *model.RunReport) {
	if run == nil {
		return
	}
	if err := p.runs.UpdateRunReport(ctx, run.ID, report); err != nil {
		zap.L().Warn("could not persist run report",
			zap.String("run_id", run.ID),
			zap.Error(err),
		)
	}
}
