// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf-suite/internal/backend"
	"github.com/pdiddy/pdf-suite/internal/catalog"
	"github.com/pdiddy/pdf-suite/internal/messages"
	"github.com/pdiddy/pdf-suite/internal/upload"
	"github.com/pdiddy/pdf-suite/pkg/types"
)

// fakeAPI records calls and returns canned results. When gate is set,
// calls block until it is closed.
type fakeAPI struct {
	mu      sync.Mutex
	calls   []string
	merged  [][]string
	result  types.ConversionResult
	err     error
	gate    chan struct{}
	entered chan struct{}
}

func (a *fakeAPI) wait() {
	if a.entered != nil {
		a.entered <- struct{}{}
	}
	if a.gate != nil {
		<-a.gate
	}
}

func (a *fakeAPI) Convert(_ context.Context, toolID string, _ *upload.Candidate) (types.ConversionResult, error) {
	a.mu.Lock()
	a.calls = append(a.calls, toolID)
	a.mu.Unlock()
	a.wait()
	return a.result, a.err
}

func (a *fakeAPI) Merge(_ context.Context, files []*upload.Candidate) (types.ConversionResult, error) {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	a.mu.Lock()
	a.calls = append(a.calls, "merge")
	a.merged = append(a.merged, names)
	a.mu.Unlock()
	a.wait()
	return a.result, a.err
}

func (a *fakeAPI) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}

type fakeDownloader struct {
	mu   sync.Mutex
	urls []string
	err  error
}

func (d *fakeDownloader) Fetch(_ context.Context, url, name string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.urls = append(d.urls, url)
	return "/out/" + name, d.err
}

type fakeRecorder struct {
	recs []types.HistoryRecord
}

func (r *fakeRecorder) Record(_ context.Context, rec types.HistoryRecord) error {
	r.recs = append(r.recs, rec)
	return nil
}

func testDeps(t *testing.T, api API) (Deps, *fakeDownloader, *fakeRecorder) {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	msg, err := messages.Load(types.LocaleEN)
	require.NoError(t, err)
	dl := &fakeDownloader{}
	rec := &fakeRecorder{}
	return Deps{API: api, Catalog: cat, Messages: msg, Downloader: dl, Recorder: rec, Log: zerolog.Nop()}, dl, rec
}

func pdf(name string, size int) *upload.Candidate {
	return upload.FromBytes(name, types.PDFMimeType, make([]byte, size))
}

func TestSubmitFilePNGThroughBackend(t *testing.T) {
	var paths []string
	var mu sync.Mutex
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"result":  map[string]string{"fileUrl": "u", "fileName": "f.pdf"},
		})
	}))
	defer ts.Close()

	client := backend.New(types.ClientConfig{APIURL: ts.URL + "/api"}, zerolog.Nop())
	deps, dl, _ := testDeps(t, client)
	flow := NewFlow(deps)

	require.NoError(t, flow.SelectTool("png-to-pdf"))
	out, err := flow.SubmitFile(context.Background(),
		upload.FromBytes("scan.png", "image/png", make([]byte, 2<<20)))
	require.NoError(t, err)

	assert.Equal(t, Success{FileURL: "u", FileName: "f.pdf"}, out)
	assert.Equal(t, Succeeded, flow.State())
	assert.Equal(t, []string{"/api/converter/convert/png-to-pdf"}, paths)
	assert.Equal(t, []string{"u"}, dl.urls, "download triggered exactly once")

	saved, saveErr := flow.Saved()
	assert.NoError(t, saveErr)
	assert.Equal(t, "/out/f.pdf", saved)
}

func TestSubmitFileValidation(t *testing.T) {
	tests := []struct {
		name     string
		tool     string
		file     *upload.Candidate
		wantKind error
	}{
		{"no file", "png-to-pdf", nil, types.ErrNoFileSelected},
		{"wrong type", "png-to-pdf", upload.FromBytes("a.pdf", types.PDFMimeType, nil), types.ErrInvalidType},
		{"too large", "compress-pdf", pdf("big.pdf", 10<<20+1), types.ErrTooLarge},
		{"generic rejects unknown type", "pdf-converter", upload.FromBytes("a.zip", "application/zip", nil), types.ErrInvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			deps, _, _ := testDeps(t, api)
			flow := NewFlow(deps)
			require.NoError(t, flow.SelectTool(tt.tool))

			out, err := flow.SubmitFile(context.Background(), tt.file)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, tt.wantKind)
			assert.Equal(t, AwaitingFile, flow.State())
			assert.Zero(t, api.callCount(), "no request on validation failure")
		})
	}
}

func TestSubmitFileSizeBoundary(t *testing.T) {
	api := &fakeAPI{result: types.ConversionResult{FileURL: "u", FileName: "small.pdf"}}
	deps, _, _ := testDeps(t, api)
	flow := NewFlow(deps)
	require.NoError(t, flow.SelectTool("compress-pdf"))

	_, err := flow.SubmitFile(context.Background(), pdf("exact.pdf", 10<<20))
	require.NoError(t, err)
	assert.Equal(t, []string{"compress-pdf"}, api.calls)
}

func TestGenericConverterResolvesToPDFTool(t *testing.T) {
	api := &fakeAPI{result: types.ConversionResult{FileURL: "u", FileName: "doc.pdf"}}
	deps, _, _ := testDeps(t, api)
	flow := NewFlow(deps)
	require.NoError(t, flow.SelectTool("pdf-converter"))

	docx := "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	_, err := flow.SubmitFile(context.Background(), upload.FromBytes("doc.docx", docx, []byte("x")))
	require.NoError(t, err)

	want, ok := deps.Catalog.ResolveToPDF(docx)
	require.True(t, ok)
	assert.Equal(t, []string{want.ID}, api.calls)
	assert.Equal(t, want.ID, flow.Tool().ID)
}

func TestGenericConverterPDFAsksForFormat(t *testing.T) {
	api := &fakeAPI{result: types.ConversionResult{FileURL: "u", FileName: "doc.xlsx"}}
	deps, _, _ := testDeps(t, api)
	flow := NewFlow(deps)
	require.NoError(t, flow.SelectTool("pdf-converter"))

	out, err := flow.SubmitFile(context.Background(), pdf("doc.pdf", 10))
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Equal(t, AwaitingFormatChoice, flow.State())
	assert.Zero(t, api.callCount())

	_, err = flow.ChooseFormat(context.Background(), "mp3")
	require.Error(t, err)
	assert.Equal(t, AwaitingFormatChoice, flow.State())

	out, err = flow.ChooseFormat(context.Background(), "excel")
	require.NoError(t, err)
	assert.IsType(t, Success{}, out)
	assert.Equal(t, []string{"pdf-to-excel"}, api.calls)
}

func TestFailureMessages(t *testing.T) {
	msg, err := messages.Load(types.LocaleEN)
	require.NoError(t, err)

	tests := []struct {
		name     string
		tool     string
		err      error
		wantKind types.ErrorKind
		wantMsg  string
	}{
		{"server message wins", "compress-pdf",
			types.NewError(types.KindRequestFailed, "quota exceeded", nil),
			types.KindRequestFailed, "quota exceeded"},
		{"compress fallback", "compress-pdf",
			types.NewError(types.KindRequestFailed, "", errors.New("HTTP 500")),
			types.KindRequestFailed, msg.Get(messages.CompressFailed)},
		{"ocr fallback", "ocr-pdf",
			types.NewError(types.KindTransportError, "", errors.New("connection reset")),
			types.KindTransportError, msg.Get(messages.OCRFailed)},
		{"convert fallback", "pdf-to-word",
			types.NewError(types.KindRequestFailed, "", nil),
			types.KindRequestFailed, msg.Get(messages.ConvertFailed)},
		{"untyped error is transport", "pdf-to-word",
			errors.New("boom"),
			types.KindTransportError, msg.Get(messages.ConvertFailed)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{err: tt.err}
			deps, dl, rec := testDeps(t, api)
			flow := NewFlow(deps)
			require.NoError(t, flow.SelectTool(tt.tool))

			out, err := flow.SubmitFile(context.Background(), pdf("a.pdf", 10))
			require.Error(t, err)
			assert.Equal(t, Failure{Kind: tt.wantKind, Message: tt.wantMsg}, out)
			assert.Equal(t, Failed, flow.State())
			assert.Empty(t, dl.urls)

			require.Len(t, rec.recs, 1)
			assert.Equal(t, types.HistoryFailed, rec.recs[0].Status)
			assert.Equal(t, tt.wantMsg, rec.recs[0].Message)

			flow.Dismiss()
			assert.Equal(t, Idle, flow.State())
			assert.Nil(t, flow.Outcome())
		})
	}
}

func TestSecondSubmissionIsBusy(t *testing.T) {
	api := &fakeAPI{
		result:  types.ConversionResult{FileURL: "u", FileName: "f.pdf"},
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	deps, _, _ := testDeps(t, api)
	flow := NewFlow(deps)
	require.NoError(t, flow.SelectTool("compress-pdf"))

	done := make(chan error, 1)
	go func() {
		_, err := flow.SubmitFile(context.Background(), pdf("a.pdf", 10))
		done <- err
	}()
	<-api.entered

	assert.Equal(t, Submitting, flow.State())
	assert.Equal(t, Pending{}, flow.Outcome())
	_, err := flow.SubmitFile(context.Background(), pdf("b.pdf", 10))
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, flow.SelectTool("ocr-pdf"), ErrBusy)

	close(api.gate)
	require.NoError(t, <-done)
	assert.Equal(t, 1, api.callCount())
}

func TestDownloadAgain(t *testing.T) {
	api := &fakeAPI{result: types.ConversionResult{FileURL: "http://x/f.pdf", FileName: "f.pdf"}}
	deps, dl, rec := testDeps(t, api)
	flow := NewFlow(deps)

	_, err := flow.Download(context.Background())
	assert.ErrorIs(t, err, ErrWrongState)

	require.NoError(t, flow.SelectTool("compress-pdf"))
	_, err = flow.SubmitFile(context.Background(), pdf("a.pdf", 10))
	require.NoError(t, err)

	path, err := flow.Download(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/out/f.pdf", path)
	assert.Len(t, dl.urls, 2)

	require.Len(t, rec.recs, 1)
	assert.Equal(t, types.HistorySucceeded, rec.recs[0].Status)
	assert.Equal(t, "http://x/f.pdf", rec.recs[0].FileURL)
}

func TestSelectUnknownTool(t *testing.T) {
	deps, _, _ := testDeps(t, &fakeAPI{})
	flow := NewFlow(deps)
	assert.Error(t, flow.SelectTool("pdf-to-mp3"))
	assert.Equal(t, Idle, flow.State())

	_, err := flow.SubmitFile(context.Background(), pdf("a.pdf", 1))
	assert.ErrorIs(t, err, ErrWrongState)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "awaiting_format_choice", AwaitingFormatChoice.String())
	assert.True(t, strings.HasPrefix(State(42).String(), "unknown"))
}
