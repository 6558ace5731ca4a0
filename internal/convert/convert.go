// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert drives a single conversion from tool selection to a
// downloaded result. A Flow owns its state; callers move it forward with
// SelectTool, SubmitFile, ChooseFormat or SubmitMerge and read it back with
// State and Outcome.
package convert

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/pdf-suite/internal/catalog"
	"github.com/pdiddy/pdf-suite/internal/messages"
	"github.com/pdiddy/pdf-suite/internal/upload"
	"github.com/pdiddy/pdf-suite/pkg/types"
)

var (
	// ErrBusy is returned when a submission is made while one is in flight.
	ErrBusy = errors.New("a request is already in progress")
	// ErrWrongState is returned when an operation does not apply to the
	// current state.
	ErrWrongState = errors.New("operation not valid in current state")
)

// API is the subset of the backend client a Flow needs.
type API interface {
	Convert(ctx context.Context, toolID string, file *upload.Candidate) (types.ConversionResult, error)
	Merge(ctx context.Context, files []*upload.Candidate) (types.ConversionResult, error)
}

// Downloader fetches a finished result. It returns the local path written.
type Downloader interface {
	Fetch(ctx context.Context, url, name string) (string, error)
}

// Recorder stores finished conversions.
type Recorder interface {
	Record(ctx context.Context, rec types.HistoryRecord) error
}

// Deps are the collaborators of a Flow. Downloader and Recorder are optional.
type Deps struct {
	API        API
	Catalog    *catalog.Catalog
	Messages   *messages.Bundle
	Downloader Downloader
	Recorder   Recorder
	Log        zerolog.Logger
}

// Flow is one conversion request. It is safe for concurrent use.
type Flow struct {
	deps Deps

	mu       sync.Mutex
	state    State
	tool     types.Tool
	pending  *upload.Candidate
	outcome  Outcome
	saved    string
	saveErr  error
	fileName string
}

// NewFlow returns an idle flow.
func NewFlow(deps Deps) *Flow {
	return &Flow{deps: deps, state: Idle}
}

// State returns the current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Outcome returns the last outcome, or nil before any submission.
func (f *Flow) Outcome() Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outcome
}

// Tool returns the selected tool.
func (f *Flow) Tool() types.Tool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tool
}

// Saved returns the path of the last download and its error, if any.
func (f *Flow) Saved() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved, f.saveErr
}

func (f *Flow) setState(s State) {
	if f.state != s {
		f.deps.Log.Debug().Stringer("from", f.state).Stringer("to", s).Msg("state")
	}
	f.state = s
}

// SelectTool chooses the tool for the next file. An unknown id or a
// multi-file tool leaves the state unchanged.
func (f *Flow) SelectTool(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == Submitting {
		return ErrBusy
	}
	tool, ok := f.deps.Catalog.Lookup(id)
	if !ok {
		return fmt.Errorf("unknown tool %q", id)
	}
	if tool.Multi {
		return fmt.Errorf("tool %q takes several files, use SubmitMerge: %w", id, ErrWrongState)
	}
	f.tool = tool
	f.pending = nil
	f.outcome = nil
	f.setState(AwaitingFile)
	return nil
}

// SubmitFile validates file against the selected tool and either submits
// it, asks for a destination format, or rejects it. Validation errors keep
// the flow in AwaitingFile. When the generic converter cannot handle the
// type the flow returns to Idle with ErrUnsupportedFile and nothing is sent.
//
// A nil Outcome with a nil error means the flow is waiting in
// AwaitingFormatChoice.
func (f *Flow) SubmitFile(ctx context.Context, file *upload.Candidate) (Outcome, error) {
	f.mu.Lock()
	switch f.state {
	case Submitting:
		f.mu.Unlock()
		return nil, ErrBusy
	case AwaitingFile:
	default:
		state := f.state
		f.mu.Unlock()
		return nil, fmt.Errorf("submitting file in state %s: %w", state, ErrWrongState)
	}

	tool := f.tool
	valid, err := upload.Validate(file, f.deps.Catalog.AcceptedTypes(tool))
	if err != nil {
		f.mu.Unlock()
		return nil, err
	}

	if !tool.Generic {
		return f.submitLocked(ctx, tool, func(ctx context.Context) (types.ConversionResult, error) {
			return f.deps.API.Convert(ctx, tool.ID, valid)
		}, valid.Name)
	}

	f.setState(ResolvingTool)
	if valid.Type == types.PDFMimeType {
		f.pending = valid
		f.setState(AwaitingFormatChoice)
		f.mu.Unlock()
		return nil, nil
	}
	target, ok := f.deps.Catalog.ResolveToPDF(valid.Type)
	if !ok {
		f.setState(Idle)
		f.mu.Unlock()
		return nil, types.NewError(types.KindUnsupportedFile, f.deps.Messages.Get(messages.ConvertUnsupported), nil)
	}
	f.deps.Log.Debug().Str("type", valid.Type).Str("tool", target.ID).Msg("resolved generic upload")
	return f.submitLocked(ctx, target, func(ctx context.Context) (types.ConversionResult, error) {
		return f.deps.API.Convert(ctx, target.ID, valid)
	}, valid.Name)
}

// ChooseFormat completes a generic PDF upload by picking the destination
// format. An unknown format leaves the flow waiting.
func (f *Flow) ChooseFormat(ctx context.Context, format string) (Outcome, error) {
	f.mu.Lock()
	switch f.state {
	case Submitting:
		f.mu.Unlock()
		return nil, ErrBusy
	case AwaitingFormatChoice:
	default:
		state := f.state
		f.mu.Unlock()
		return nil, fmt.Errorf("choosing format in state %s: %w", state, ErrWrongState)
	}

	id, ok := f.deps.Catalog.FormatToolID(format)
	if !ok {
		f.mu.Unlock()
		return nil, fmt.Errorf("unknown format %q", format)
	}
	target, ok := f.deps.Catalog.Lookup(id)
	if !ok {
		target = types.Tool{ID: id, Name: id, Operation: types.OpConvert}
	}
	file := f.pending
	f.pending = nil
	return f.submitLocked(ctx, target, func(ctx context.Context) (types.ConversionResult, error) {
		return f.deps.API.Convert(ctx, id, file)
	}, file.Name)
}

// SubmitMerge posts the files of set, in order, to the merge endpoint. The
// flow does not need a selected tool.
func (f *Flow) SubmitMerge(ctx context.Context, set *MergeSet) (Outcome, error) {
	f.mu.Lock()
	switch f.state {
	case Submitting:
		f.mu.Unlock()
		return nil, ErrBusy
	case Idle, AwaitingFile, Succeeded, Failed:
	default:
		state := f.state
		f.mu.Unlock()
		return nil, fmt.Errorf("merging in state %s: %w", state, ErrWrongState)
	}
	if !set.Ready() {
		f.mu.Unlock()
		return nil, types.NewError(types.KindNoFileSelected, f.deps.Messages.Get(messages.MergeNotEnough), nil)
	}
	files := set.Files()
	f.pending = nil
	tool, ok := f.deps.Catalog.Lookup("merge-pdf")
	if !ok {
		tool = types.Tool{ID: "merge-pdf", Name: "Merge PDF", Operation: types.OpMerge}
	}
	f.tool = tool
	return f.submitLocked(ctx, tool, func(ctx context.Context) (types.ConversionResult, error) {
		return f.deps.API.Merge(ctx, files)
	}, files[0].Name)
}

// submitLocked is entered with f.mu held and releases it for the request.
func (f *Flow) submitLocked(ctx context.Context, tool types.Tool, send func(context.Context) (types.ConversionResult, error), fileName string) (Outcome, error) {
	f.tool = tool
	f.fileName = fileName
	f.outcome = Pending{}
	f.saved, f.saveErr = "", nil
	f.setState(Submitting)
	f.mu.Unlock()

	log := f.deps.Log.With().Str("tool", tool.ID).Logger()
	log.Debug().Str("file", fileName).Msg("submitting")
	res, err := send(ctx)

	f.mu.Lock()
	var out Outcome
	if err != nil {
		fail := f.failure(tool, err)
		log.Warn().Err(err).Str("kind", string(fail.Kind)).Msg("conversion failed")
		out = fail
		f.setState(Failed)
	} else {
		out = Success{FileURL: res.FileURL, FileName: res.FileName}
		f.setState(Succeeded)
	}
	f.outcome = out
	f.mu.Unlock()

	f.record(ctx, tool, fileName, out)

	if s, ok := out.(Success); ok {
		f.download(ctx, s)
		return out, nil
	}
	return out, out.(Failure).Err()
}

// failure maps an error to the user-facing Failure. The server message wins;
// otherwise the operation's localized fallback is used.
func (f *Flow) failure(tool types.Tool, err error) Failure {
	kind := types.KindTransportError
	msg := ""
	var te *types.Error
	if errors.As(err, &te) {
		kind = te.Kind
		msg = te.Message
	}
	if msg == "" {
		msg = f.deps.Messages.Failure(tool.Operation)
	}
	return Failure{Kind: kind, Message: msg}
}

func (f *Flow) record(ctx context.Context, tool types.Tool, fileName string, out Outcome) {
	if f.deps.Recorder == nil {
		return
	}
	rec := types.HistoryRecord{ToolID: tool.ID, FileName: fileName, CreatedAt: time.Now().UTC()}
	switch o := out.(type) {
	case Success:
		rec.Status = types.HistorySucceeded
		rec.FileURL = o.FileURL
		rec.FileName = o.FileName
	case Failure:
		rec.Status = types.HistoryFailed
		rec.Message = o.Message
	}
	if err := f.deps.Recorder.Record(ctx, rec); err != nil {
		f.deps.Log.Warn().Err(err).Msg("recording history")
	}
}

func (f *Flow) download(ctx context.Context, s Success) {
	if f.deps.Downloader == nil {
		return
	}
	path, err := f.deps.Downloader.Fetch(ctx, s.FileURL, s.FileName)
	if err != nil {
		f.deps.Log.Warn().Err(err).Str("url", s.FileURL).Msg("download failed")
	}
	f.mu.Lock()
	f.saved, f.saveErr = path, err
	f.mu.Unlock()
}

// Download fetches the successful result again.
func (f *Flow) Download(ctx context.Context) (string, error) {
	f.mu.Lock()
	s, ok := f.outcome.(Success)
	state := f.state
	f.mu.Unlock()
	if state != Succeeded || !ok {
		return "", fmt.Errorf("downloading in state %s: %w", state, ErrWrongState)
	}
	if f.deps.Downloader == nil {
		return "", errors.New("no downloader configured")
	}
	f.download(ctx, s)
	return f.Saved()
}

// Dismiss returns a finished flow to Idle. It is a no-op in other states.
func (f *Flow) Dismiss() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == Succeeded || f.state == Failed {
		f.outcome = nil
		f.pending = nil
		f.setState(Idle)
	}
}
