package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/importviz/pkg/module"
	"github.com/matzehuels/importviz/pkg/visualizer"
)

var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	tableHeader     = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	tableBorder     = lipgloss.NewStyle().Foreground(colorDim)
	tableCurrent    = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	tableLocal      = lipgloss.NewStyle().Foreground(colorWhite)
	tableExternal   = lipgloss.NewStyle().Foreground(colorGray)
	defaultListRows = 15
)

// =============================================================================
// Result table
// =============================================================================

// resultRows builds one table row per search result. cursor marks the
// highlighted row; pass -1 for none.
func resultRows(ds *module.Dataset, results []visualizer.SearchResult, from, to, cursor int) [][]string {
	rows := make([][]string, 0, to-from)
	for i := from; i < to; i++ {
		r := results[i]
		mark := "  "
		if i == cursor {
			mark = "▸ "
		}
		kind := "external"
		if m, ok := ds.Module(r.Path); ok && m.IsLocal {
			kind = "local"
		}
		rows = append(rows, []string{
			mark,
			strconv.Itoa(i),
			r.Path,
			kind,
			strconv.Itoa(ds.ImportCount(r.Path)),
			strconv.Itoa(ds.ImporterCount(r.Path)),
		})
	}
	return rows
}

// resultTable renders rows with the shared search table style. current is
// the row index (relative to rows) to emphasize, or -1.
func resultTable(rows [][]string, current int) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorder).
		Headers("", "#", "Module", "Kind", "Imports", "Importers").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeader
			}
			if row == current {
				return tableCurrent
			}
			if row < len(rows) && rows[row][3] == "local" {
				return tableLocal
			}
			return tableExternal
		}).
		Render()
}

// =============================================================================
// ResultListModel - Interactive search result selection
// =============================================================================

// ResultListModel is the bubbletea model for picking one search result.
type ResultListModel struct {
	Dataset  *module.Dataset
	Query    string
	Results  []visualizer.SearchResult
	Cursor   int
	Selected int // -1 until a result is picked
	Height   int
	Offset   int
}

// NewResultListModel creates a picker over results.
func NewResultListModel(ds *module.Dataset, query string, results []visualizer.SearchResult) ResultListModel {
	return ResultListModel{
		Dataset:  ds,
		Query:    query,
		Results:  results,
		Selected: -1,
		Height:   defaultListRows,
	}
}

func (m ResultListModel) Init() tea.Cmd {
	return nil
}

func (m ResultListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Results)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Results) == 0 {
				return m, nil
			}
			m.Selected = m.Cursor
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ResultListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Modules matching %q", m.Query)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Results) {
		end = len(m.Results)
	}
	rows := resultRows(m.Dataset, m.Results, m.Offset, end, m.Cursor)
	b.WriteString(resultTable(rows, m.Cursor-m.Offset))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Results))))

	return b.String()
}
