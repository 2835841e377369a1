package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/pipeline"
)

var (
	batchFile       string
	batchSendEmails bool
	batchAIEmails   bool
	batchMode       string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run the pipeline for multiple searches from a batch file",
	Long:  "Reads a JSON or YAML array of jobs ({company_type, region, count}) and runs the pipeline for each. Invalid jobs are skipped; a failed job does not stop the batch.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if batchMode == "" {
			batchMode = cfg.Pipeline.EnrichmentMode
		}
		if err := cfg.Validate(batchMode, batchSendEmails); err != nil {
			return err
		}

		jobs, err := pipeline.LoadJobs(batchFile)
		if err != nil {
			return err
		}

		env, err := initPipeline(ctx, batchMode, batchAIEmails)
		if err != nil {
			return err
		}
		defer env.Close()

		reports := env.Pipeline.RunBatch(ctx, jobs, pipeline.Options{
			SendEmails: batchSendEmails,
			BoardName:  cfg.Pipeline.BoardName,
		})

		fmt.Printf("\nBatch complete: %d/%d jobs succeeded\n", len(reports), len(jobs))
		for _, r := range reports {
			printReport(r)
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "path to a JSON or YAML batch file (required)")
	batchCmd.Flags().BoolVar(&batchSendEmails, "send-emails", false, "send introduction emails to discovered contacts")
	batchCmd.Flags().BoolVar(&batchAIEmails, "ai-emails", false, "generate personalized email content per lead")
	batchCmd.Flags().StringVar(&batchMode, "enrichment-mode", "", `enrichment mode: "hunter" or "scrape" (default from config)`)
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}
