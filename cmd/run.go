package main

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/export"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/pipeline"
)

var (
	runCompanyType string
	runRegion      string
	runCount       int
	runSendEmails  bool
	runAIEmails    bool
	runPreview     bool
	runMode        string
	runExportPath  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the lead generation pipeline for one search",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if runRegion == "" {
			runRegion = cfg.Pipeline.DefaultRegion
		}
		if runCount == 0 {
			runCount = cfg.Pipeline.DefaultCount
		}
		if runMode == "" {
			runMode = cfg.Pipeline.EnrichmentMode
		}
		if err := cfg.Validate(runMode, runSendEmails); err != nil {
			return err
		}

		env, err := initPipeline(ctx, runMode, runAIEmails)
		if err != nil {
			return err
		}
		defer env.Close()

		job := model.Job{CompanyType: runCompanyType, Region: runRegion, Count: runCount}
		report, err := env.Pipeline.Run(ctx, job, pipeline.Options{
			SendEmails: runSendEmails && !runPreview,
			BoardName:  cfg.Pipeline.BoardName,
		})
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		if runPreview {
			previewEmails(ctx, env, report.Companies, runCompanyType)
		}

		if runExportPath != "" {
			if err := export.Write(runExportPath, report.Companies); err != nil {
				return eris.Wrap(err, "export")
			}
			zap.L().Info("exported leads", zap.String("path", runExportPath))
		}

		printReport(report)
		return nil
	},
}

// previewEmails prints the first three rendered emails without sending.
func previewEmails(ctx context.Context, env *pipelineEnv, companies []model.EnrichedCompany, companyType string) {
	previewed := 0
	for _, c := range companies {
		if !c.HasContact() {
			continue
		}
		subject, body := env.Outreach.Render(ctx, c, companyType, nil)
		fmt.Printf("\nTo: %s\nSubject: %s\n---\n%s\n", c.Contact.Email, subject, body)
		previewed++
		if previewed == 3 {
			break
		}
	}
	if previewed == 0 {
		fmt.Println("\nNo contacts with email addresses to preview.")
	}
}

func printReport(report *model.RunReport) {
	fmt.Printf("\nDiscovered:    %d\n", report.Discovered)
	fmt.Printf("With contacts: %d\n", report.WithContacts)
	fmt.Printf("Leads created: %d\n", report.LeadsCreated)
	fmt.Printf("Emails sent:   %d\n", report.EmailsSent)
	for _, e := range report.Errors {
		fmt.Printf("  error: %s\n", e)
	}
}

func init() {
	runCmd.Flags().StringVarP(&runCompanyType, "company-type", "t", "", "type of companies to find (required)")
	runCmd.Flags().StringVarP(&runRegion, "region", "r", "", "geographic region (default from config)")
	runCmd.Flags().IntVarP(&runCount, "count", "c", 0, "number of companies to find (default from config, max 50)")
	runCmd.Flags().BoolVar(&runSendEmails, "send-emails", false, "send introduction emails to discovered contacts")
	runCmd.Flags().BoolVar(&runAIEmails, "ai-emails", false, "generate personalized email content per lead")
	runCmd.Flags().BoolVar(&runPreview, "preview-emails", false, "preview emails without sending")
	runCmd.Flags().StringVar(&runMode, "enrichment-mode", "", `enrichment mode: "hunter" or "scrape" (default from config)`)
	runCmd.Flags().StringVar(&runExportPath, "export", "", "export leads to a .csv, .json, or .xlsx file")
	_ = runCmd.MarkFlagRequired("company-type")
	rootCmd.AddCommand(runCmd)
}
