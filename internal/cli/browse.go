package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/parttree/pkg/tree"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listCycleStyle    = lipgloss.NewStyle().Foreground(colorYellow)
)

// browseCommand opens an interactive browser over a part hierarchy.
func (c *CLI) browseCommand() *cobra.Command {
	var flags sourceFlags

	cmd := &cobra.Command{
		Use:   "browse [part]",
		Short: "Walk a part hierarchy interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, args, &flags)

			root, err := c.load(cmd, &flags, opts)
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewTreeBrowserModel(root),
				tea.WithContext(cmd.Context()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err = p.Run()
			return err
		},
	}

	addSourceFlags(cmd, &flags)
	return cmd
}

// =============================================================================
// TreeBrowserModel - Interactive hierarchy navigation
// =============================================================================

// TreeBrowserModel is the bubbletea model for browsing BOM lines level by level.
type TreeBrowserModel struct {
	// Path holds the parts from the root down to the one being listed.
	Path   []*tree.Node
	Cursor int
	Height int
	Offset int

	// cursors remembers the selection of each level left by descending.
	cursors []int
}

// NewTreeBrowserModel creates a browser positioned at root.
func NewTreeBrowserModel(root *tree.Node) TreeBrowserModel {
	return TreeBrowserModel{
		Path:   []*tree.Node{root},
		Height: 15,
	}
}

// Current returns the part whose BOM lines are listed.
func (m TreeBrowserModel) Current() *tree.Node {
	return m.Path[len(m.Path)-1]
}

func (m TreeBrowserModel) lines() []tree.Edge {
	return m.Current().Children
}

func (m TreeBrowserModel) Init() tea.Cmd {
	return nil
}

func (m TreeBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.lines())-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", "right", "l":
			m = m.descend()
		case "backspace", "left", "h":
			m = m.ascend()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

// descend opens the selected line when its part has BOM lines of its own.
// Cycle markers and missing parts stay closed.
func (m TreeBrowserModel) descend() TreeBrowserModel {
	lines := m.lines()
	if m.Cursor >= len(lines) {
		return m
	}
	e := lines[m.Cursor]
	if !e.Valid() || e.Child.Cycle || len(e.Child.Children) == 0 {
		return m
	}
	m.Path = append(append([]*tree.Node(nil), m.Path...), e.Child)
	m.cursors = append(append([]int(nil), m.cursors...), m.Cursor)
	m.Cursor, m.Offset = 0, 0
	return m
}

func (m TreeBrowserModel) ascend() TreeBrowserModel {
	if len(m.Path) <= 1 {
		return m
	}
	m.Path = m.Path[:len(m.Path)-1]
	m.Cursor = m.cursors[len(m.cursors)-1]
	m.cursors = m.cursors[:len(m.cursors)-1]
	m.Offset = max(0, m.Cursor-m.Height+1)
	return m
}

// Breadcrumb joins the names along the current path.
func (m TreeBrowserModel) Breadcrumb() string {
	names := make([]string, len(m.Path))
	for i, n := range m.Path {
		names[i] = n.DisplayName()
	}
	return strings.Join(names, " › ")
}

func (m TreeBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Breadcrumb()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  ⌫ back  q quit"))
	b.WriteString("\n\n")

	lines := m.lines()
	if len(lines) == 0 {
		b.WriteString(listDimStyle.Render("  no BOM lines"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(lines))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		rows = append(rows, lineRow(lines[i], i == m.Cursor))
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Qty", "Part", "IPN", "Ref", "Lines").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(lines) {
				return lipgloss.NewStyle()
			}
			e := lines[idx]
			switch {
			case !e.Valid():
				return listDimStyle
			case e.Child.Cycle:
				return listCycleStyle
			case idx == m.Cursor:
				return listSelectedStyle
			case col == 1 || col == 5:
				return listDimStyle
			default:
				return listNormalStyle
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(lines))))

	return b.String()
}

func lineRow(e tree.Edge, current bool) []string {
	cursor := "  "
	if current {
		cursor = "▸ "
	}
	qty, ok := tree.FormatQuantity(e.Quantity)
	if !ok {
		qty = "—"
	}
	if e.Child == nil {
		return []string{cursor, qty, tree.MissingName, "—", e.Reference, "—"}
	}
	name := e.Child.DisplayName()
	if e.Child.Cycle {
		name = "↻ " + name
	}
	code := e.Child.Code
	if code == "" {
		code = "—"
	}
	count := "—"
	if n := len(e.Child.Children); n > 0 && !e.Child.Cycle {
		count = fmt.Sprintf("%d", n)
	}
	return []string{cursor, qty, name, code, e.Reference, count}
}
