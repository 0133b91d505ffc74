package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ftskit/ftsengine/internal/ftserrors"
	"github.com/ftskit/ftsengine/pkg/ftsengine"
)

var (
	replHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("154"))
	replDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	replErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	replScoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("106"))
)

type replModel struct {
	engine  *ftsengine.Engine
	limit   int
	input   textinput.Model
	results []ftsengine.SearchHit
	status  string
	err     string
}

func newReplModel(engine *ftsengine.Engine, limit int) replModel {
	ti := textinput.New()
	ti.Placeholder = "search query"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60

	return replModel{engine: engine, limit: limit, input: ti}
}

func (m replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			query := m.input.Value()
			m.input.SetValue("")
			if query == "" {
				return m, nil
			}
			return m.runQuery(query)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m replModel) runQuery(query string) (tea.Model, tea.Cmd) {
	hits, err := m.engine.SearchDetailed(context.Background(), query, ftsengine.SearchOptions{Limit: m.limit})
	if err != nil {
		m.err = ftserrors.FormatForCLI(err)
		m.results = nil
		m.status = ""
		return m, nil
	}
	m.err = ""
	m.results = hits
	m.status = fmt.Sprintf("%q: %d result(s)", query, len(hits))
	return m, nil
}

func (m replModel) View() string {
	var b string
	b += replHeaderStyle.Render("ftsengine") + replDimStyle.Render(" (type a query, Enter to search, Esc to quit)") + "\n\n"
	b += m.input.View() + "\n\n"

	if m.err != "" {
		return b + replErrorStyle.Render(m.err) + "\n"
	}
	if m.status != "" {
		b += replDimStyle.Render(m.status) + "\n"
	}
	for i, h := range m.results {
		b += fmt.Sprintf("%d. %s %s\n", i+1, h.DocID, replScoreStyle.Render(fmt.Sprintf("(%.3f)", h.Score)))
	}
	return b
}
