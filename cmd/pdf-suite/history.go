// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-suite/internal/tui"
	"github.com/pdiddy/pdf-suite/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent conversions",
	Long: `History lists the most recent finished conversions kept in client
storage, newest first.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	recs, err := a.Store.History(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("no conversions yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	for _, r := range recs {
		status := tui.Green.Render(string(r.Status))
		detail := r.FileName
		if r.Status == types.HistoryFailed {
			status = tui.Red.Render(string(r.Status))
			detail = r.Message
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			r.CreatedAt.Local().Format(time.DateTime), r.ToolID, status, detail)
	}
	return w.Flush()
}

func init() {
	historyCmd.Flags().Int("limit", 20, "number of records to show")

	rootCmd.AddCommand(historyCmd)
}
