// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize runs the document chat: one upload that yields a
// summary and a thread, then questions answered on that thread.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf-suite/internal/messages"
	"github.com/pdiddy/pdf-suite/internal/upload"
	"github.com/pdiddy/pdf-suite/pkg/types"
)

var (
	// ErrNotReady is returned by Ask before a thread exists.
	ErrNotReady = errors.New("chat has no thread yet")
	// ErrBusy is returned while a request is outstanding.
	ErrBusy = errors.New("a request is already in progress")
	// ErrInitialized is returned by a second Initialize.
	ErrInitialized = errors.New("chat already initialized")
	// ErrEmptyQuestion is returned for a blank question.
	ErrEmptyQuestion = errors.New("question is empty")
)

// citation matches source markers such as 【4:0†source】.
var citation = regexp.MustCompile(`【\d+(:\d+)?†[^】]*】`)

// StripCitations removes citation markers from text.
func StripCitations(text string) string {
	return strings.TrimSpace(citation.ReplaceAllString(text, ""))
}

// Role identifies who wrote an Entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Entry is one line of the transcript.
type Entry struct {
	Role Role   `yaml:"role"`
	Text string `yaml:"text"`
}

// API is the subset of the backend client a Chat needs.
type API interface {
	Initialize(ctx context.Context, file *upload.Candidate, locale types.Locale) (threadID, summary string, err error)
	Ask(ctx context.Context, threadID, question string, locale types.Locale) (string, error)
}

// Chat is one summarization thread. It is safe for concurrent use; at most
// one request is outstanding at a time.
type Chat struct {
	api API
	msg *messages.Bundle
	log zerolog.Logger

	mu         sync.Mutex
	started    bool
	busy       bool
	thread     string
	fileName   string
	transcript []Entry
}

// NewChat returns an empty chat answering in msg's locale.
func NewChat(api API, msg *messages.Bundle, log zerolog.Logger) *Chat {
	return &Chat{api: api, msg: msg, log: log}
}

// Initialize uploads file and seeds the transcript with its summary. On
// failure the transcript gets the localized fallback and no thread is
// kept. Only the first call is honored.
func (c *Chat) Initialize(ctx context.Context, file *upload.Candidate) error {
	valid, err := upload.Validate(file, upload.PDFOnly)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.started {
		c.mu.Unlock()
		return ErrInitialized
	}
	c.started = true
	c.busy = true
	c.fileName = valid.Name
	c.mu.Unlock()

	thread, summary, err := c.api.Initialize(ctx, valid, c.msg.Locale())

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	if err != nil {
		c.log.Warn().Err(err).Str("file", valid.Name).Msg("initialize failed")
		c.transcript = append(c.transcript, Entry{Role: RoleAssistant, Text: c.msg.Get(messages.SummarizeInitFailed)})
		return err
	}
	c.thread = thread
	c.transcript = append(c.transcript, Entry{Role: RoleAssistant, Text: StripCitations(summary)})
	c.log.Debug().Str("thread", thread).Msg("thread started")
	return nil
}

// Ask appends question and then exactly one assistant entry: the cleaned
// answer, or the localized fallback when the request fails.
func (c *Chat) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}

	c.mu.Lock()
	if c.thread == "" {
		c.mu.Unlock()
		return "", ErrNotReady
	}
	if c.busy {
		c.mu.Unlock()
		return "", ErrBusy
	}
	c.busy = true
	thread := c.thread
	c.transcript = append(c.transcript, Entry{Role: RoleUser, Text: question})
	c.mu.Unlock()

	answer, err := c.api.Ask(ctx, thread, question, c.msg.Locale())

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	if err != nil {
		c.log.Warn().Err(err).Str("thread", thread).Msg("ask failed")
		fallback := c.msg.Get(messages.SummarizeAskFailed)
		c.transcript = append(c.transcript, Entry{Role: RoleAssistant, Text: fallback})
		return fallback, err
	}
	answer = StripCitations(answer)
	c.transcript = append(c.transcript, Entry{Role: RoleAssistant, Text: answer})
	return answer, nil
}

// Thread returns the thread id, or "" before a successful Initialize.
func (c *Chat) Thread() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.thread
}

// Ready reports whether questions can be asked now.
func (c *Chat) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.thread != "" && !c.busy
}

// Busy reports whether a request is outstanding.
func (c *Chat) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Transcript returns a copy of the entries in order.
func (c *Chat) Transcript() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Entry(nil), c.transcript...)
}

// savedTranscript is the on-disk form written by SaveTranscript.
type savedTranscript struct {
	File    string  `yaml:"file"`
	Thread  string  `yaml:"thread,omitempty"`
	Locale  string  `yaml:"locale"`
	Entries []Entry `yaml:"entries"`
}

// SaveTranscript writes the transcript to path as YAML.
func (c *Chat) SaveTranscript(path string) error {
	c.mu.Lock()
	doc := savedTranscript{
		File:    c.fileName,
		Thread:  c.thread,
		Locale:  string(c.msg.Locale()),
		Entries: append([]Entry(nil), c.transcript...),
	}
	c.mu.Unlock()

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding transcript: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing transcript %s: %w", path, err)
	}
	return nil
}
