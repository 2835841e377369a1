package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/crm"
	"github.com/sells-group/leadgen-cli/internal/discovery"
	"github.com/sells-group/leadgen-cli/internal/enrich"
	"github.com/sells-group/leadgen-cli/internal/outreach"
	"github.com/sells-group/leadgen-cli/internal/pipeline"
	"github.com/sells-group/leadgen-cli/internal/store"
	"github.com/sells-group/leadgen-cli/pkg/hunter"
	"github.com/sells-group/leadgen-cli/pkg/llm"
	"github.com/sells-group/leadgen-cli/pkg/monday"
)

// pipelineEnv bundles the wired services a command needs.
type pipelineEnv struct {
	Pipeline *pipeline.Pipeline
	CRM      *crm.Service
	Outreach *outreach.Service
	Store    store.Store
}

func (e *pipelineEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initStore opens the run-history backend named by config.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "sqlite", "":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// newLLMClient builds the configured chat-completion client.
func newLLMClient() (llm.Client, error) {
	switch cfg.LLM.Provider {
	case "anthropic":
		return llm.NewAnthropic(cfg.LLM.APIKey, llm.WithAnthropicModel(cfg.LLM.Model)), nil
	case "groq", "":
		return llm.NewGroq(cfg.LLM.APIKey,
			llm.WithGroqBaseURL(cfg.LLM.BaseURL),
			llm.WithGroqModel(cfg.LLM.Model),
		), nil
	default:
		return nil, eris.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

// newEnricher builds the enrichment strategy for mode.
func newEnricher(mode string, llmClient llm.Client) (enrich.Enricher, error) {
	switch enrich.Mode(mode) {
	case enrich.ModeScrape:
		return enrich.NewScrapeEnricher(llmClient), nil
	case enrich.ModeHunter, "":
		hc := hunter.NewClient(cfg.Hunter.APIKey, hunter.WithBaseURL(cfg.Hunter.BaseURL))
		return enrich.NewHunterEnricher(hc), nil
	default:
		return nil, eris.Errorf("unknown enrichment mode %q", mode)
	}
}

// initPipeline wires every service behind a Pipeline. mode selects the
// enrichment strategy; aiEmails switches outreach to generated drafts.
func initPipeline(ctx context.Context, mode string, aiEmails bool) (*pipelineEnv, error) {
	llmClient, err := newLLMClient()
	if err != nil {
		return nil, err
	}

	enricher, err := newEnricher(mode, llmClient)
	if err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	mondayClient := monday.NewClient(cfg.Monday.APIKey, monday.WithAPIURL(cfg.Monday.APIURL))
	crmSvc := crm.New(mondayClient, cfg.Monday.BoardID)

	sender := outreach.NewSMTPSender(outreach.SMTPConfig{
		Host:       cfg.SMTP.Host,
		Port:       cfg.SMTP.Port,
		Address:    cfg.SMTP.Address,
		Password:   cfg.SMTP.Password,
		SenderName: cfg.SMTP.SenderName,
	})
	opts := []outreach.Option{}
	if aiEmails {
		opts = append(opts, outreach.WithAI(llmClient))
	}
	mailer := outreach.New(sender, cfg.SMTP.SenderName, opts...)

	disc := discovery.New(llmClient)

	return &pipelineEnv{
		Pipeline: pipeline.New(disc, enricher, crmSvc, mailer, st),
		CRM:      crmSvc,
		Outreach: mailer,
		Store:    st,
	}, nil
}
