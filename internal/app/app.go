// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package app wires the components into one application state object that
// commands receive by reference.
package app

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/pdiddy/pdf-suite/internal/auth"
	"github.com/pdiddy/pdf-suite/internal/backend"
	"github.com/pdiddy/pdf-suite/internal/catalog"
	"github.com/pdiddy/pdf-suite/internal/convert"
	"github.com/pdiddy/pdf-suite/internal/download"
	"github.com/pdiddy/pdf-suite/internal/logging"
	"github.com/pdiddy/pdf-suite/internal/messages"
	"github.com/pdiddy/pdf-suite/internal/session"
	"github.com/pdiddy/pdf-suite/internal/storage"
	"github.com/pdiddy/pdf-suite/internal/summarize"
	"github.com/pdiddy/pdf-suite/pkg/types"
)

// App is the shared state of one process.
type App struct {
	Config     types.ClientConfig
	Log        zerolog.Logger
	Catalog    *catalog.Catalog
	Messages   *messages.Bundle
	Store      *storage.Store
	Backend    *backend.Client
	Downloader *download.Downloader
	Auth       *auth.Session
	Files      *session.FileContext
}

// New builds the application from cfg. progress, if non-nil, receives
// download progress bars.
func New(cfg types.ClientConfig, log zerolog.Logger, progress io.Writer) (*App, error) {
	cat, err := catalog.Default()
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	msg, err := messages.Load(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("loading messages: %w", err)
	}
	store, err := storage.Open(cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("opening client storage: %w", err)
	}

	client := backend.New(cfg, logging.Component(log, "backend"))
	dl := download.New(client.HTTP, cfg.OutputDir, logging.Component(log, "download"))
	dl.UserAgent = cfg.UserAgent
	dl.BaseURL = cfg.APIURL
	dl.Progress = progress

	return &App{
		Config:     cfg,
		Log:        log,
		Catalog:    cat,
		Messages:   msg,
		Store:      store,
		Backend:    client,
		Downloader: dl,
		Auth:       auth.NewSession(client, store, msg, logging.Component(log, "auth")),
		Files:      &session.FileContext{},
	}, nil
}

// NewFlow returns a conversion flow that downloads into the output
// directory and records history.
func (a *App) NewFlow() *convert.Flow {
	return convert.NewFlow(convert.Deps{
		API:        a.Backend,
		Catalog:    a.Catalog,
		Messages:   a.Messages,
		Downloader: a.Downloader,
		Recorder:   a.Store,
		Log:        logging.Component(a.Log, "convert"),
	})
}

// NewMergeSet returns an empty merge selection.
func (a *App) NewMergeSet() *convert.MergeSet {
	return convert.NewMergeSet(a.Messages)
}

// NewChat returns a summarization chat.
func (a *App) NewChat() *summarize.Chat {
	return summarize.NewChat(a.Backend, a.Messages, logging.Component(a.Log, "summarize"))
}

// StartOver forgets the session file. It is the only place that clears it.
func (a *App) StartOver() {
	a.Files.Clear()
}

// Close releases the client storage.
func (a *App) Close() error {
	return a.Store.Close()
}
