package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
)

var (
	runsStatus string
	runsLimit  int
	runsJSON   bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List past pipeline runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return err
		}

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Status: model.RunStatus(runsStatus),
			Limit:  runsLimit,
		})
		if err != nil {
			return err
		}

		if runsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(runs)
		}

		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}
		for _, r := range runs {
			line := fmt.Sprintf("%s  %-12s  %s in %s",
				r.CreatedAt.Format("2006-01-02 15:04"), r.Status, r.Job.CompanyType, r.Job.Region)
			if r.Report != nil {
				line += fmt.Sprintf("  (leads %d, emails %d)", r.Report.LeadsCreated, r.Report.EmailsSent)
			}
			fmt.Println(line)
		}
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run with its full report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return err
		}

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	},
}

func init() {
	runsCmd.Flags().StringVar(&runsStatus, "status", "", "filter by run status")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum runs to list")
	runsCmd.Flags().BoolVar(&runsJSON, "json", false, "print as JSON")
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}
