// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"github.com/pdiddy/pdf-suite/internal/app"
	"github.com/pdiddy/pdf-suite/internal/auth"
	"github.com/pdiddy/pdf-suite/internal/logging"
	"github.com/pdiddy/pdf-suite/internal/tui"
	"github.com/pdiddy/pdf-suite/pkg/types"
)

// errReported marks an error that has already been shown to the user.
var errReported = errors.New("reported")

func interactive() bool {
	return logging.IsTerminal(os.Stdin) && logging.IsTerminal(os.Stdout)
}

func progressWriter() io.Writer {
	if logging.IsTerminal(os.Stderr) {
		return os.Stderr
	}
	return nil
}

// withSpinner runs fn behind the loading indicator when stderr is a
// terminal.
func withSpinner[T any](message string, fn func() (T, error)) (T, error) {
	if !logging.IsTerminal(os.Stderr) {
		return fn()
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	s.Writer = os.Stderr
	s.Start()
	defer s.Stop()
	return fn()
}

// report prints err the way its kind asks for: validation errors inline,
// request errors in a panel. It returns errReported so main stays quiet.
func report(a *app.App, err error) error {
	if err == nil {
		return nil
	}
	var fe *auth.FormError
	if errors.As(err, &fe) {
		for field, msg := range fe.Fields {
			fmt.Fprintf(os.Stderr, "%s %s\n", tui.Red.Render("✗ "+field+":"), msg)
		}
		return errReported
	}

	var te *types.Error
	if !errors.As(err, &te) {
		return err
	}
	msg := te.Message
	if te.Kind.Inline() {
		if local := a.Messages.ForError(te.Kind); local != "" {
			fmt.Fprintln(os.Stderr, tui.Red.Render("✗ "+local))
			if msg != "" {
				fmt.Fprintln(os.Stderr, tui.Dim("  "+msg))
			}
			return errReported
		}
	}
	if msg == "" {
		msg = a.Messages.ForError(te.Kind)
	}
	if msg == "" {
		msg = te.Error()
	}
	fmt.Fprintln(os.Stderr, tui.Panel(msg, true))
	return errReported
}
