// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-suite/internal/app"
	"github.com/pdiddy/pdf-suite/internal/catalog"
	"github.com/pdiddy/pdf-suite/internal/convert"
	"github.com/pdiddy/pdf-suite/internal/tui"
	"github.com/pdiddy/pdf-suite/internal/upload"
)

var convertCmd = &cobra.Command{
	Use:   "convert FILE",
	Short: "Convert, compress or OCR one file with a tool",
	Long: `Convert validates FILE against the tool's accepted types and the 10 MiB
limit, sends it to the backend and saves the result into the output directory.

With --tool pdf-converter the tool is chosen from the file type. A PDF asks for
the destination format (word, jpg, excel, png, epub, pptx) unless --format is
given; on a non-interactive terminal the default is word.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

// singleFileTool rejects tools that need the merge command.
func singleFileTool(c *catalog.Catalog, id string) error {
	if tool, ok := c.Lookup(id); ok && tool.Multi {
		return fmt.Errorf("%s takes several files, use pdf-suite merge", id)
	}
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	toolID, _ := cmd.Flags().GetString("tool")
	format, _ := cmd.Flags().GetString("format")

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := singleFileTool(a.Catalog, toolID); err != nil {
		return err
	}

	file, err := candidate(a, args[0])
	if err != nil {
		return err
	}

	flow := a.NewFlow()
	if err := flow.SelectTool(toolID); err != nil {
		return err
	}
	tool := flow.Tool()

	out, err := withSpinner("Uploading "+file.Name, func() (convert.Outcome, error) {
		return flow.SubmitFile(cmd.Context(), file)
	})
	if err != nil {
		return report(a, err)
	}

	if flow.State() == convert.AwaitingFormatChoice {
		if format == "" {
			format, err = pickFormat(a)
			if err != nil {
				return err
			}
		}
		out, err = withSpinner("Converting to "+format, func() (convert.Outcome, error) {
			return flow.ChooseFormat(cmd.Context(), format)
		})
		if err != nil {
			return report(a, err)
		}
	}

	return printSuccess(flow, tool.Name, out)
}

func pickFormat(a *app.App) (string, error) {
	if !interactive() {
		return catalog.DefaultFormat, nil
	}
	choice, ok, err := tui.Pick("Convert PDF to", a.Catalog.Formats(), catalog.DefaultFormat)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("no format chosen")
	}
	return choice, nil
}

func printSuccess(flow *convert.Flow, label string, out convert.Outcome) error {
	s, ok := out.(convert.Success)
	if !ok {
		return fmt.Errorf("unexpected outcome %T", out)
	}
	fmt.Println(tui.Success(fmt.Sprintf("%s: %s", label, s.FileName)))
	saved, err := flow.Saved()
	switch {
	case err != nil:
		fmt.Fprintln(os.Stderr, tui.Errorf("download failed: %v", err))
		fmt.Println("  " + s.FileURL)
		return errReported
	case saved != "":
		fmt.Println("  saved to " + saved)
	default:
		fmt.Println("  " + s.FileURL)
	}
	return nil
}

// candidate turns a path into an upload candidate typed by its extension.
func candidate(a *app.App, path string) (*upload.Candidate, error) {
	return upload.FromPath(path, a.Catalog.TypeForFile(path))
}

var mergeCmd = &cobra.Command{
	Use:   "merge FILE...",
	Short: "Merge up to 15 PDFs into one",
	Long: `Merge combines PDFs in the order given. Non-PDF and oversized files are
skipped, and at most 15 files are kept.

Reorder before sending with --move FROM:TO (zero-based, applied in order after
any --remove INDEX).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMerge,
}

func runMerge(cmd *cobra.Command, args []string) error {
	moves, _ := cmd.Flags().GetStringSlice("move")
	removes, _ := cmd.Flags().GetIntSlice("remove")

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	files := make([]*upload.Candidate, 0, len(args))
	for _, p := range args {
		f, err := candidate(a, p)
		if err != nil {
			return err
		}
		files = append(files, f)
	}

	set := a.NewMergeSet()
	added, notice := set.Add(files...)
	if notice != "" {
		fmt.Fprintln(os.Stderr, tui.Dim(notice))
	}
	if skipped := len(files) - added; skipped > 0 && notice == "" {
		fmt.Fprintf(os.Stderr, "%s\n", tui.Dim(fmt.Sprintf("skipped %d non-PDF or oversized file(s)", skipped)))
	}

	if err := applyRemovals(set, removes); err != nil {
		return err
	}
	for _, m := range moves {
		from, to, err := parseMove(m)
		if err != nil {
			return err
		}
		if err := set.Move(from, to); err != nil {
			return err
		}
	}

	for i, it := range set.Items() {
		fmt.Fprintf(os.Stderr, "%s %s\n", tui.Dim(fmt.Sprintf("%2d.", i+1)), it.File.Name)
	}

	flow := a.NewFlow()
	out, err := withSpinner(fmt.Sprintf("Merging %d files", set.Len()), func() (convert.Outcome, error) {
		return flow.SubmitMerge(cmd.Context(), set)
	})
	if err != nil {
		return report(a, err)
	}
	return printSuccess(flow, "Merge PDF", out)
}

// applyRemovals drops the items at the given indexes of the original order.
func applyRemovals(set *convert.MergeSet, indexes []int) error {
	items := set.Items()
	for _, i := range indexes {
		if i < 0 || i >= len(items) {
			return fmt.Errorf("remove %d: index out of range [0,%d)", i, len(items))
		}
		set.Remove(items[i].ID)
	}
	return nil
}

func parseMove(s string) (from, to int, err error) {
	a, b, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("move %q: want FROM:TO", s)
	}
	if from, err = strconv.Atoi(a); err != nil {
		return 0, 0, fmt.Errorf("move %q: %w", s, err)
	}
	if to, err = strconv.Atoi(b); err != nil {
		return 0, 0, fmt.Errorf("move %q: %w", s, err)
	}
	return from, to, nil
}

func init() {
	convertCmd.Flags().String("tool", "", "tool id (see pdf-suite tools)")
	convertCmd.Flags().String("format", "", "destination format for a PDF given to pdf-converter")
	_ = convertCmd.MarkFlagRequired("tool")

	mergeCmd.Flags().StringSlice("move", nil, "reorder: FROM:TO, repeatable")
	mergeCmd.Flags().IntSlice("remove", nil, "drop the file at INDEX, repeatable")

	rootCmd.AddCommand(convertCmd, mergeCmd)
}
