// Copyright ubjflow contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/ubjflow/ubjflow/dom"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	typeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	footerStyle = lipgloss.NewStyle().Faint(true)
)

// model is a read-only scrollable view over one already-decoded
// document; there is no re-parsing on keystroke and no editing, per the
// viewer's scope.
type model struct {
	source   string
	viewport viewport.Model
	ready    bool
	lines    []string
}

func newModel(source string, root *dom.Node) *model {
	var lines []string
	dom.Walk(root, func(depth int, key string, n *dom.Node) {
		indent := strings.Repeat("  ", depth)
		if key != "" {
			lines = append(lines, indent+keyStyle.Render(key)+": "+typeStyle.Render(n.Label()))
		} else {
			lines = append(lines, indent+typeStyle.Render(n.Label()))
		}
	})
	return &model{source: source, lines: lines}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := lipgloss.Height(m.headerView())
		footerHeight := lipgloss.Height(m.footerView())
		vpHeight := msg.Height - headerHeight - footerHeight
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.viewport.SetContent(strings.Join(m.lines, "\n"))
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return fmt.Sprintf("%s\n%s\n%s", m.headerView(), m.viewport.View(), m.footerView())
}

func (m *model) headerView() string {
	return headerStyle.Render(fmt.Sprintf("ubjfview: %s (%d nodes)", m.source, len(m.lines)))
}

func (m *model) footerView() string {
	return footerStyle.Render("↑/↓ or j/k to scroll · q to quit")
}
