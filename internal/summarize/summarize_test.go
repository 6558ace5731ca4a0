// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf-suite/internal/messages"
	"github.com/pdiddy/pdf-suite/internal/upload"
	"github.com/pdiddy/pdf-suite/pkg/types"
)

type fakeAPI struct {
	thread  string
	summary string
	initErr error
	answer  string
	askErr  error

	asked   []string
	locales []types.Locale
	gate    chan struct{}
	entered chan struct{}
}

func (a *fakeAPI) Initialize(_ context.Context, _ *upload.Candidate, locale types.Locale) (string, string, error) {
	a.locales = append(a.locales, locale)
	return a.thread, a.summary, a.initErr
}

func (a *fakeAPI) Ask(_ context.Context, threadID, question string, _ types.Locale) (string, error) {
	a.asked = append(a.asked, threadID+":"+question)
	if a.entered != nil {
		a.entered <- struct{}{}
	}
	if a.gate != nil {
		<-a.gate
	}
	return a.answer, a.askErr
}

func newChat(t *testing.T, api API, locale types.Locale) (*Chat, *messages.Bundle) {
	t.Helper()
	msg, err := messages.Load(locale)
	require.NoError(t, err)
	return NewChat(api, msg, zerolog.Nop()), msg
}

func cv() *upload.Candidate {
	return upload.FromBytes("cv.pdf", types.PDFMimeType, []byte("%PDF"))
}

func TestStripCitations(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Plain text.", "Plain text."},
		{"Python and Go【4:0†source】.", "Python and Go."},
		{"A【12†cv.pdf】 and B【3:14†notes】", "A and B"},
		{"Keeps 【unrelated】 brackets", "Keeps 【unrelated】 brackets"},
		{"  padded【1:2†x】  ", "padded"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripCitations(tt.in), tt.in)
	}
}

func TestInitialize(t *testing.T) {
	api := &fakeAPI{thread: "th_1", summary: "Skills: Go【4:0†source】"}
	chat, _ := newChat(t, api, types.LocaleFR)

	require.NoError(t, chat.Initialize(context.Background(), cv()))
	assert.Equal(t, "th_1", chat.Thread())
	assert.True(t, chat.Ready())
	assert.Equal(t, []Entry{{Role: RoleAssistant, Text: "Skills: Go"}}, chat.Transcript())
	assert.Equal(t, []types.Locale{types.LocaleFR}, api.locales)

	assert.ErrorIs(t, chat.Initialize(context.Background(), cv()), ErrInitialized)
	assert.Len(t, api.locales, 1)
}

func TestInitializeFailure(t *testing.T) {
	api := &fakeAPI{initErr: types.NewError(types.KindTransportError, "", errors.New("refused"))}
	chat, msg := newChat(t, api, types.LocaleEN)

	err := chat.Initialize(context.Background(), cv())
	assert.ErrorIs(t, err, types.ErrTransportError)
	assert.Empty(t, chat.Thread())
	assert.Equal(t, []Entry{{Role: RoleAssistant, Text: msg.Get(messages.SummarizeInitFailed)}}, chat.Transcript())

	_, err = chat.Ask(context.Background(), "hello?")
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Len(t, chat.Transcript(), 1, "transcript unchanged")
	assert.Empty(t, api.asked)
}

func TestInitializeRejectsNonPDF(t *testing.T) {
	chat, _ := newChat(t, &fakeAPI{}, types.LocaleEN)
	err := chat.Initialize(context.Background(), upload.FromBytes("a.png", "image/png", nil))
	assert.ErrorIs(t, err, types.ErrInvalidType)
	assert.Empty(t, chat.Transcript())
}

func TestAskBeforeInitialize(t *testing.T) {
	api := &fakeAPI{}
	chat, _ := newChat(t, api, types.LocaleEN)

	_, err := chat.Ask(context.Background(), "What skills?")
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Empty(t, chat.Transcript())
	assert.Empty(t, api.asked)
}

func TestAskAppendsTwoEntries(t *testing.T) {
	api := &fakeAPI{thread: "th_1", summary: "S", answer: "Go and Python【1:0†cv】"}
	chat, msg := newChat(t, api, types.LocaleEN)
	require.NoError(t, chat.Initialize(context.Background(), cv()))

	answer, err := chat.Ask(context.Background(), "  What skills?  ")
	require.NoError(t, err)
	assert.Equal(t, "Go and Python", answer)
	assert.Equal(t, []string{"th_1:What skills?"}, api.asked)

	api.askErr = types.NewError(types.KindRequestFailed, "", nil)
	_, err = chat.Ask(context.Background(), "And hobbies?")
	assert.ErrorIs(t, err, types.ErrRequestFailed)

	assert.Equal(t, []Entry{
		{Role: RoleAssistant, Text: "S"},
		{Role: RoleUser, Text: "What skills?"},
		{Role: RoleAssistant, Text: "Go and Python"},
		{Role: RoleUser, Text: "And hobbies?"},
		{Role: RoleAssistant, Text: msg.Get(messages.SummarizeAskFailed)},
	}, chat.Transcript())

	_, err = chat.Ask(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
	assert.Len(t, chat.Transcript(), 5)
}

func TestAskWhileBusy(t *testing.T) {
	api := &fakeAPI{
		thread:  "th_1",
		answer:  "A",
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	chat, _ := newChat(t, api, types.LocaleEN)
	require.NoError(t, chat.Initialize(context.Background(), cv()))

	done := make(chan error, 1)
	go func() {
		_, err := chat.Ask(context.Background(), "first")
		done <- err
	}()
	<-api.entered

	assert.True(t, chat.Busy())
	assert.False(t, chat.Ready())
	_, err := chat.Ask(context.Background(), "second")
	assert.ErrorIs(t, err, ErrBusy)

	close(api.gate)
	require.NoError(t, <-done)
	assert.Len(t, chat.Transcript(), 3)
	assert.Len(t, api.asked, 1)
}

func TestSaveTranscript(t *testing.T) {
	api := &fakeAPI{thread: "th_9", summary: "Summary", answer: "Yes"}
	chat, _ := newChat(t, api, types.LocaleEN)
	require.NoError(t, chat.Initialize(context.Background(), cv()))
	_, err := chat.Ask(context.Background(), "Is it long?")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "chat.yaml")
	require.NoError(t, chat.SaveTranscript(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got savedTranscript
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, "cv.pdf", got.File)
	assert.Equal(t, "th_9", got.Thread)
	assert.Equal(t, "en", got.Locale)
	assert.Equal(t, chat.Transcript(), got.Entries)
}
