// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/pdf-suite/internal/summarize"
)

// Conversation is the chat state the screen renders and sends to.
type Conversation interface {
	Ask(ctx context.Context, question string) (string, error)
	Transcript() []summarize.Entry
}

type answerMsg struct {
	err error
}

type savedMsg struct {
	path string
	err  error
}

// ChatModel is the document chat screen. Enter sends the input; the input
// is ignored while an answer is outstanding.
type ChatModel struct {
	ctx       context.Context
	conv      Conversation
	save      func(path string) error
	title     string
	viewport  viewport.Model
	textInput textinput.Model
	spinner   spinner.Model
	pending   string
	notice    string
	isLoading bool
	ready     bool
	width     int
	height    int
}

// NewChatModel returns a chat screen over conv. save, if non-nil, backs the
// /save command.
func NewChatModel(ctx context.Context, conv Conversation, title string, save func(string) error) ChatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask a question about the document, /save <file> or /quit"
	ti.Focus()
	ti.CharLimit = 1000
	ti.Width = 80

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ClrBrand)

	return ChatModel{
		ctx:       ctx,
		conv:      conv,
		save:      save,
		title:     title,
		textInput: ti,
		spinner:   s,
	}
}

func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var tiCmd, vpCmd, spCmd tea.Cmd

	m.textInput, tiCmd = m.textInput.Update(msg)
	m.spinner, spCmd = m.spinner.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.isLoading {
				return m, nil
			}
			input := strings.TrimSpace(m.textInput.Value())
			if input == "" {
				return m, nil
			}
			m.textInput.SetValue("")
			m.notice = ""

			switch {
			case input == "/quit":
				return m, tea.Quit
			case strings.HasPrefix(input, "/save"):
				path := strings.TrimSpace(strings.TrimPrefix(input, "/save"))
				return m, m.saveCmd(path)
			}

			m.pending = input
			m.isLoading = true
			m.refresh()
			return m, tea.Batch(m.askCmd(input), m.spinner.Tick)
		}

	case tea.WindowSizeMsg:
		m.applyWindowSize(msg.Width, msg.Height)

	case answerMsg:
		m.isLoading = false
		m.pending = ""
		m.notice = ""
		if msg.err != nil && !isFallback(msg.err) {
			m.notice = Errorf("%v", msg.err)
		}
		m.refresh()
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.notice = Errorf("%v", msg.err)
		} else {
			m.notice = Success("saved " + msg.path)
		}
		return m, nil
	}

	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

// isFallback reports whether err already produced a transcript entry.
func isFallback(err error) bool {
	return !errors.Is(err, summarize.ErrBusy) && !errors.Is(err, summarize.ErrNotReady) &&
		!errors.Is(err, summarize.ErrEmptyQuestion)
}

func (m ChatModel) askCmd(q string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.conv.Ask(m.ctx, q)
		return answerMsg{err: err}
	}
}

func (m ChatModel) saveCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if m.save == nil {
			return savedMsg{err: errors.New("saving is not available")}
		}
		if path == "" {
			return savedMsg{err: errors.New("usage: /save <file>")}
		}
		return savedMsg{path: path, err: m.save(path)}
	}
}

// Lines returns the rendered transcript, including a question still
// waiting for its answer.
func (m ChatModel) Lines() []string {
	var lines []string
	for _, e := range m.conv.Transcript() {
		lines = append(lines, renderEntry(e))
	}
	if m.pending != "" && !lastIsUser(m.conv.Transcript(), m.pending) {
		lines = append(lines, renderEntry(summarize.Entry{Role: summarize.RoleUser, Text: m.pending}))
	}
	return lines
}

func lastIsUser(entries []summarize.Entry, text string) bool {
	if len(entries) == 0 {
		return false
	}
	last := entries[len(entries)-1]
	return last.Role == summarize.RoleUser && last.Text == text
}

func renderEntry(e summarize.Entry) string {
	if e.Role == summarize.RoleUser {
		return Prompt("you") + e.Text
	}
	return Cyan.Render("assistant") + "\n" + e.Text
}

func (m *ChatModel) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.Lines(), "\n\n"))
	m.viewport.GotoBottom()
}

func (m ChatModel) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	var b strings.Builder
	b.WriteString(Brand.Render(m.title))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.isLoading {
		b.WriteString(m.spinner.View() + " ")
	} else {
		b.WriteString(Prompt("ask"))
	}
	b.WriteString(m.textInput.View())
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(m.notice)
	} else {
		b.WriteString(Dim("enter send · /save <file> · esc quit"))
	}
	return b.String()
}

func (m *ChatModel) applyWindowSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	m.width = width
	m.height = height

	vpWidth := maxInt(width-2, 1)
	m.textInput.Width = maxInt(width-16, 1)
	vpHeight := maxInt(height-3, 1) // title + input row + status row

	if !m.ready {
		m.viewport = viewport.New(vpWidth, vpHeight)
		m.ready = true
		m.refresh()
		return
	}
	m.viewport.Width = vpWidth
	m.viewport.Height = vpHeight
}

// RunChat runs the chat screen until the user quits.
func RunChat(ctx context.Context, conv Conversation, title string, save func(string) error) error {
	_, err := tea.NewProgram(NewChatModel(ctx, conv, title, save), tea.WithAltScreen()).Run()
	return err
}
