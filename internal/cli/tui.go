package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/cellblend/pkg/color"
	"github.com/matzehuels/cellblend/pkg/diagram"
	"github.com/matzehuels/cellblend/pkg/interact"
	"github.com/matzehuels/cellblend/pkg/partition"
)

// Board styles
var (
	boardHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	boardStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	boardEventStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	boardErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

const (
	minBoardCols = 8
	minBoardRows = 4
	// Rows reserved for the title, status and help lines.
	boardChrome = 5
)

// BoardModel is the bubbletea model for the play command. Each terminal
// cell is two characters wide and shows the color of the diagram cell that
// owns its center.
type BoardModel struct {
	ctx    context.Context
	store  *diagram.Store
	ctrl   *interact.Controller
	points int

	Cols, Rows int
	CursorCol  int
	CursorRow  int

	// Clicks counts the clicks that were applied.
	Clicks int

	state diagram.State
	grid  partition.Grid
	event string
	err   error
}

// NewBoardModel creates a board of cols x rows terminal cells over store.
// points is the number of points drawn on regenerate.
func NewBoardModel(ctx context.Context, store *diagram.Store, ctrl *interact.Controller, points, cols, rows int) BoardModel {
	m := BoardModel{
		ctx:    ctx,
		store:  store,
		ctrl:   ctrl,
		points: points,
		Cols:   max(cols, minBoardCols),
		Rows:   max(rows, minBoardRows),
	}
	m.CursorCol, m.CursorRow = m.Cols/2, m.Rows/2
	m.refresh()
	return m
}

func (m *BoardModel) refresh() {
	m.state = m.store.Snapshot()
	m.grid = partition.Raster(partition.New(m.state.Points), m.state.Bounds, m.Cols, m.Rows)
}

// State returns the snapshot the board currently shows.
func (m BoardModel) State() diagram.State { return m.state }

func (m BoardModel) Init() tea.Cmd {
	return nil
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.CursorRow = max(m.CursorRow-1, 0)
		case "down", "j":
			m.CursorRow = min(m.CursorRow+1, m.Rows-1)
		case "left", "h":
			m.CursorCol = max(m.CursorCol-1, 0)
		case "right", "l":
			m.CursorCol = min(m.CursorCol+1, m.Cols-1)
		case "enter", " ":
			m.click()
		case "r":
			m.err = nil
			if _, err := m.store.Regenerate(m.points); err != nil {
				m.err = err
			} else {
				m.event = fmt.Sprintf("regenerated %d cells", m.points)
			}
			m.refresh()
		case "c":
			m.err = nil
			m.store.ResetColors()
			m.event = "colors reset"
			m.refresh()
		}
	case tea.WindowSizeMsg:
		m.Cols = max(msg.Width/2, minBoardCols)
		m.Rows = max(msg.Height-boardChrome, minBoardRows)
		m.CursorCol = min(m.CursorCol, m.Cols-1)
		m.CursorRow = min(m.CursorRow, m.Rows-1)
		m.refresh()
	}
	return m, nil
}

// click clicks the diagram cell under the cursor.
func (m *BoardModel) click() {
	b := m.state.Bounds
	x := (float64(m.CursorCol) + 0.5) * b.Width / float64(m.Cols)
	y := (float64(m.CursorRow) + 0.5) * b.Height / float64(m.Rows)

	out, err := m.ctrl.ClickAt(m.ctx, x, y)
	m.err = err
	if err == nil {
		m.Clicks++
		m.event = describeOutcome(out)
	}
	m.refresh()
}

func describeOutcome(out interact.Outcome) string {
	switch {
	case out.Converged:
		return fmt.Sprintf("cells %d and %d converged", out.Removed[0], out.Removed[1])
	case len(out.Blends) == 0:
		return fmt.Sprintf("cell %d has no neighbors to blend", out.Clicked)
	default:
		return fmt.Sprintf("cell %d blended %d neighbors", out.Clicked, len(out.Blends))
	}
}

func (m BoardModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("cellblend"))
	b.WriteString("  ")
	b.WriteString(boardStatusStyle.Render(fmt.Sprintf("%d cells · version %d", m.state.Len(), m.state.Version)))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(boardErrorStyle.Render(m.err.Error()))
	case m.state.Len() < 2:
		b.WriteString(StyleSuccess.Render("board cleared, press r for a new one"))
	default:
		b.WriteString(boardEventStyle.Render(m.event))
	}
	b.WriteString("\n\n")

	for row := 0; row < m.Rows; row++ {
		b.WriteString(m.renderRow(row))
		b.WriteString("\n")
	}

	b.WriteString(boardHelpStyle.Render("←↑↓→ move  ⏎ click  r regenerate  c reset colors  q quit"))
	return b.String()
}

func (m BoardModel) renderRow(row int) string {
	var b strings.Builder
	for col := 0; col < m.Cols; col++ {
		bg := color.Hex("#FFFFFF")
		if p, ok := m.state.At(m.grid.At(col, row)); ok {
			bg = p.Color
		}
		style := lipgloss.NewStyle().Background(lipgloss.Color(string(bg)))
		text := "  "
		if col == m.CursorCol && row == m.CursorRow {
			style = style.Foreground(lipgloss.Color(string(color.Contrast(bg)))).Bold(true)
			text = "[]"
		}
		b.WriteString(style.Render(text))
	}
	return b.String()
}
