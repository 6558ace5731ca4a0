// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-suite/internal/catalog"
	"github.com/pdiddy/pdf-suite/internal/tui"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the available tools by tab",
	Long: `Tools prints the tool catalog: each tab with its tools in display
order, their operation, and the file types they accept. The PDF Converter
accepts PDFs plus every type a to-pdf tool accepts.`,
	RunE: runTools,
}

func runTools(cmd *cobra.Command, args []string) error {
	tab, _ := cmd.Flags().GetString("tab")
	idsOnly, _ := cmd.Flags().GetBool("ids")

	cat, err := catalog.Default()
	if err != nil {
		return err
	}

	tabs := cat.Tabs()
	if tab != "" {
		if len(cat.Tab(tab)) == 0 {
			return fmt.Errorf("unknown tab %q (want one of %s)", tab, strings.Join(tabs, ", "))
		}
		tabs = []string{tab}
	}

	if idsOnly {
		for _, t := range tabs {
			for _, tool := range cat.Tab(t) {
				fmt.Println(tool.ID)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	for i, t := range tabs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, tui.Bold.Render(cat.Title(t)))
		for _, tool := range cat.Tab(t) {
			accepts := strings.Join(cat.AcceptedTypes(tool), ", ")
			if tool.Generic {
				accepts = fmt.Sprintf("%d types (PDF and everything convertible to PDF)", len(cat.AcceptedTypes(tool)))
			}
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", tool.ID, tool.Name, tool.Operation, tui.Dim(accepts))
		}
	}
	return w.Flush()
}

func init() {
	toolsCmd.Flags().String("tab", "", "only list one tab: "+strings.Join([]string{catalog.TabFromPDF, catalog.TabToPDF, catalog.TabOther}, ", "))
	toolsCmd.Flags().Bool("ids", false, "print tool ids only")

	rootCmd.AddCommand(toolsCmd)
}
