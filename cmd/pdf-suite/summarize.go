// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-suite/internal/tui"
	"github.com/pdiddy/pdf-suite/pkg/types"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize FILE",
	Short: "Summarize a PDF and ask questions about it",
	Long: `Summarize uploads a PDF, prints its summary, and then answers questions
on the same thread. Questions come from --ask (repeatable); without --ask on an
interactive terminal a chat screen opens. --save writes the transcript as YAML.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func runSummarize(cmd *cobra.Command, args []string) error {
	questions, _ := cmd.Flags().GetStringArray("ask")
	savePath, _ := cmd.Flags().GetString("save")
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	picked, err := candidate(a, args[0])
	if err != nil {
		return err
	}
	a.Files.Set(picked)

	file, ok := a.Files.Get()
	if !ok {
		return report(a, types.ErrNoFileSelected)
	}
	chat := a.NewChat()
	_, err = withSpinner("Reading "+file.Name, func() (struct{}, error) {
		return struct{}{}, chat.Initialize(ctx, file)
	})
	for _, e := range chat.Transcript() {
		fmt.Println(e.Text)
	}
	if err != nil {
		// a failed request already printed its fallback entry
		if len(chat.Transcript()) == 0 {
			return report(a, err)
		}
		return errReported
	}

	switch {
	case len(questions) > 0:
		for _, q := range questions {
			answer, err := withSpinner("Thinking", func() (string, error) {
				return chat.Ask(ctx, q)
			})
			fmt.Println()
			fmt.Println(tui.Prompt("you") + q)
			fmt.Println(answer)
			if err != nil {
				a.Log.Debug().Err(err).Msg("ask failed")
			}
		}
	case interactive():
		if err := tui.RunChat(ctx, chat, file.Name, chat.SaveTranscript); err != nil {
			return err
		}
	}

	if savePath != "" {
		if err := chat.SaveTranscript(savePath); err != nil {
			return err
		}
		fmt.Println(tui.Success("transcript saved to " + savePath))
	}
	return nil
}

func init() {
	summarizeCmd.Flags().StringArray("ask", nil, "question to ask after the summary, repeatable")
	summarizeCmd.Flags().String("save", "", "write the transcript to this YAML file")

	rootCmd.AddCommand(summarizeCmd)
}
