package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Export a past run's leads to CSV, JSON, or XLSX",
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
		if run.Report == nil || len(run.Report.Companies) == 0 {
			return eris.Errorf("run %s has no leads to export", run.ID)
		}

		if err := export.Write(exportOut, run.Report.Companies); err != nil {
			return err
		}
		fmt.Printf("Exported %d leads to %s\n", len(run.Report.Companies), exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "leads.csv", "output file (.csv, .json, or .xlsx)")
	rootCmd.AddCommand(exportCmd)
}
