// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// PickerModel lets the user choose one option, such as the destination
// format for a PDF given to the generic converter.
type PickerModel struct {
	title   string
	options []string
	cursor  int
	chosen  string
	quitted bool
}

// NewPicker returns a picker with the cursor on initial, or on the first
// option when initial is not listed.
func NewPicker(title string, options []string, initial string) PickerModel {
	m := PickerModel{title: title, options: append([]string(nil), options...)}
	for i, o := range options {
		if o == initial {
			m.cursor = i
		}
	}
	return m
}

// Chosen returns the selected option after the model quits.
func (m PickerModel) Chosen() string { return m.chosen }

// Quitted reports whether the user backed out without choosing.
func (m PickerModel) Quitted() bool { return m.quitted }

func (m PickerModel) Init() tea.Cmd { return nil }

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(m.options) == 0 {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		m.cursor--
		if m.cursor < 0 {
			m.cursor = len(m.options) - 1
		}
	case "down", "j", "tab":
		m.cursor++
		if m.cursor >= len(m.options) {
			m.cursor = 0
		}
	case "enter":
		m.chosen = m.options[m.cursor]
		return m, tea.Quit
	case "q", "esc", "ctrl+c":
		m.quitted = true
		return m, tea.Quit
	}
	return m, nil
}

func (m PickerModel) View() string {
	var b strings.Builder
	b.WriteString(Bold.Render(m.title))
	b.WriteString("\n\n")
	for i, o := range m.options {
		if i == m.cursor {
			b.WriteString(Selected.Render("› " + o))
		} else {
			b.WriteString(Muted.Render("  " + o))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(Dim("arrows navigate · enter select · q/esc cancel"))
	return PanelBox.Render(b.String())
}

// Pick runs a picker on the terminal and returns the chosen option. ok is
// false when the user cancelled.
func Pick(title string, options []string, initial string) (choice string, ok bool, err error) {
	final, err := tea.NewProgram(NewPicker(title, options, initial)).Run()
	if err != nil {
		return "", false, err
	}
	m := final.(PickerModel)
	return m.Chosen(), !m.Quitted() && m.Chosen() != "", nil
}
