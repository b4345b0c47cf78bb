// Copyright 2025 Naren Yellavula
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/cybrota/avlmem/avl"
	"github.com/cybrota/avlmem/engine"
)

// maxInspectEntries caps how many matches are put in the list.
const maxInspectEntries = 500

// entryItem is one key-value pair in the entries list.
type entryItem struct {
	key   string
	value []byte
}

func (i entryItem) FilterValue() string { return i.key }
func (i entryItem) Title() string       { return i.key }
func (i entryItem) Description() string {
	v := string(i.value)
	if len(v) > 60 {
		v = v[:57] + "..."
	}
	return v
}

// InspectModel is the Bubble Tea state of the inspector.
type InspectModel struct {
	ready  bool
	width  int
	height int

	prefixInput textinput.Model
	entriesList list.Model
	detail      viewport.Model

	eng        *engine.Engine
	styles     *Styles
	renderer   *glamour.TermRenderer
	focusIndex int // 0 prefix input, 1 entries list
	lastPrefix string
	total      int
	status     string
}

func NewInspectModel(eng *engine.Engine) InspectModel {
	ti := textinput.New()
	ti.Placeholder = "Type a key prefix..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	entries := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	entries.SetShowTitle(false)
	entries.SetShowHelp(false)
	entries.SetFilteringEnabled(false)

	detail := viewport.New(0, 0)
	detail.SetContent("Select an entry to see its value...")

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(72),
	)

	m := InspectModel{
		prefixInput: ti,
		entriesList: entries,
		detail:      detail,
		eng:         eng,
		styles:      NewStyles(detectedMode),
		renderer:    renderer,
	}
	m.updateEntries("")
	return m
}

func (m InspectModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.toggleFocus()
			return m, nil
		case "ctrl+y":
			if item, ok := m.entriesList.SelectedItem().(entryItem); ok {
				if err := clipboard.WriteAll(string(item.value)); err != nil {
					m.status = fmt.Sprintf("copy failed: %v", err)
				} else {
					m.status = fmt.Sprintf("copied value of %s", item.key)
				}
			}
			return m, nil
		case "ctrl+f":
			if err := m.eng.Flush(); err != nil {
				m.status = fmt.Sprintf("flush failed: %v", err)
			} else {
				m.status = "memtable flushed"
			}
			m.updateDetail()
			return m, nil
		}

		if m.focusIndex == 0 {
			m.prefixInput, cmd = m.prefixInput.Update(msg)
			if p := m.prefixInput.Value(); p != m.lastPrefix {
				m.updateEntries(p)
			}
			return m, cmd
		}

		m.entriesList, cmd = m.entriesList.Update(msg)
		m.updateDetail()
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.ready = true
	}

	return m, nil
}

func (m *InspectModel) toggleFocus() {
	if m.focusIndex == 0 {
		m.focusIndex = 1
		m.prefixInput.Blur()
	} else {
		m.focusIndex = 0
		m.prefixInput.Focus()
	}
}

func (m *InspectModel) updateEntries(prefix string) {
	m.lastPrefix = prefix

	var entries []avl.Entry[string, []byte]
	if prefix == "" {
		entries = m.eng.Scan("", "")
	} else {
		entries = m.eng.ScanPrefix(prefix)
	}
	m.total = len(entries)
	if len(entries) > maxInspectEntries {
		entries = entries[:maxInspectEntries]
	}

	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = entryItem{key: e.Key, value: e.Value}
	}
	m.entriesList.SetItems(items)
	m.entriesList.Select(0)
	m.updateDetail()
}

// detailMarkdown describes the selected entry followed by engine stats.
func (m *InspectModel) detailMarkdown() string {
	var b strings.Builder
	if item, ok := m.entriesList.SelectedItem().(entryItem); ok {
		fmt.Fprintf(&b, "# %s\n\n", item.key)
		fmt.Fprintf(&b, "```\n%s\n```\n\n", item.value)
	} else {
		b.WriteString("# No match\n\n")
	}
	b.WriteString(statsMarkdown(m.eng.Stats()))
	return b.String()
}

func (m *InspectModel) updateDetail() {
	content := m.detailMarkdown()
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(content); err == nil {
			m.detail.SetContent(rendered)
			return
		}
	}
	m.detail.SetContent(content)
}

func (m *InspectModel) updateLayout() {
	inputHeight := 3
	listHeight := m.height - inputHeight - 6
	leftWidth := (m.width / 2) - 1
	rightWidth := m.width - leftWidth - 3

	m.prefixInput.Width = leftWidth - 4
	m.entriesList.SetSize(leftWidth-2, listHeight-2)
	m.detail.Width = rightWidth - 2
	m.detail.Height = inputHeight + listHeight
}

func (m InspectModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.width < 20 || m.height < 10 {
		return "Terminal too small. Please resize your terminal."
	}

	inputHeight := 3
	listHeight := m.height - inputHeight - 6
	leftWidth := (m.width / 2) - 1
	rightWidth := m.width - leftWidth - 3

	inputStyle, listStyle := m.styles.BorderFocused, m.styles.BorderBlurred
	if m.focusIndex == 1 {
		inputStyle, listStyle = listStyle, inputStyle
	}

	inputBox := inputStyle.
		Width(leftWidth).
		Height(inputHeight).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(
			lipgloss.Left,
			m.styles.Title.Render(" 🔍 Key prefix\n"),
			m.prefixInput.View(),
		))

	listTitle := fmt.Sprintf(" 📋 Entries (%d) ", m.total)
	if m.total > maxInspectEntries {
		listTitle = fmt.Sprintf(" 📋 Entries (first %d of %d) ", maxInspectEntries, m.total)
	}
	listBox := listStyle.
		Width(leftWidth).
		Height(listHeight).
		Render(lipgloss.JoinVertical(
			lipgloss.Left,
			m.styles.Title.Render(listTitle),
			m.entriesList.View(),
		))

	detailBox := m.styles.BorderBlurred.
		Width(rightWidth).
		Height(listHeight + inputHeight + 2).
		Render(lipgloss.JoinVertical(
			lipgloss.Left,
			m.styles.Title.Render(" 📖 Value "),
			m.detail.View(),
		))

	main := lipgloss.JoinHorizontal(
		lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, inputBox, listBox),
		detailBox,
	)

	footer := m.styles.Muted.Render("tab: switch focus • ctrl+y: copy value • ctrl+f: flush • esc: quit")
	if m.status != "" {
		footer = lipgloss.JoinVertical(lipgloss.Left, m.styles.Key.Render(m.status), footer)
	}
	return lipgloss.JoinVertical(lipgloss.Left, main, footer)
}

func runInspector(eng *engine.Engine) error {
	program := tea.NewProgram(
		NewInspectModel(eng),
		tea.WithAltScreen(),
		tea.WithOutput(os.Stderr),
	)
	_, err := program.Run()
	return err
}
