package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/crm"
	"github.com/sells-group/leadgen-cli/pkg/monday"
)

var boardName string

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Create a Monday.com board with the standard lead columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Monday.APIKey == "" {
			return eris.New("monday.api_key is required")
		}

		client := monday.NewClient(cfg.Monday.APIKey, monday.WithAPIURL(cfg.Monday.APIURL))
		svc := crm.New(client, "")

		boardID, err := svc.CreateBoard(cmd.Context(), boardName)
		if err != nil {
			return err
		}

		fmt.Printf("Board created: %s\n", boardID)
		fmt.Printf("Set LEADGEN_MONDAY_BOARD_ID=%s to use it.\n", boardID)
		return nil
	},
}

func init() {
	boardCmd.Flags().StringVar(&boardName, "name", "AI Lead Generation", "name for the new board")
	rootCmd.AddCommand(boardCmd)
}
