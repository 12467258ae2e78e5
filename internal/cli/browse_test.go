package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/parttree/pkg/tree"
)

func browseFixture() *tree.Node {
	arm := &tree.Node{ID: "2", Name: "Arm", Assembly: true}
	arm.Children = []tree.Edge{
		{Quantity: tree.Qty(4), Child: &tree.Node{ID: "3", Name: "Screw", Code: "S-3"}},
		{Quantity: tree.Qty(1), Child: &tree.Node{ID: "1", Name: "Robot", Cycle: true}},
	}
	return &tree.Node{ID: "1", Name: "Robot", Assembly: true, Children: []tree.Edge{
		{Quantity: tree.Qty(2), Reference: "A1", Child: arm},
		{Child: &tree.Node{Name: tree.MissingName}},
	}}
}

func press(m TreeBrowserModel, keys ...tea.KeyMsg) TreeBrowserModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(TreeBrowserModel)
	}
	return m
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyBack  = tea.KeyMsg{Type: tea.KeyBackspace}
)

func TestTreeBrowserNavigation(t *testing.T) {
	m := NewTreeBrowserModel(browseFixture())

	m = press(m, keyEnter)
	if got := m.Current().Name; got != "Arm" {
		t.Fatalf("after enter current = %q, want Arm", got)
	}
	if got := m.Breadcrumb(); got != "Robot › Arm" {
		t.Errorf("Breadcrumb() = %q", got)
	}

	// Leaves and cycle markers stay closed.
	m = press(m, keyEnter, keyDown, keyEnter)
	if got := m.Current().Name; got != "Arm" {
		t.Errorf("descended into %q", got)
	}
	if m.Cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.Cursor)
	}

	m = press(m, keyBack)
	if got := m.Current().Name; got != "Robot" || m.Cursor != 0 {
		t.Errorf("after back current = %q cursor = %d", got, m.Cursor)
	}
	m = press(m, keyBack)
	if len(m.Path) != 1 {
		t.Errorf("back at the root changed the path: %d", len(m.Path))
	}
}

func TestTreeBrowserCursorBounds(t *testing.T) {
	m := NewTreeBrowserModel(browseFixture())
	m = press(m, keyUp)
	if m.Cursor != 0 {
		t.Errorf("cursor moved above the first line: %d", m.Cursor)
	}
	m = press(m, keyDown, keyDown, keyDown)
	if m.Cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.Cursor)
	}
	// The missing line cannot be opened.
	m = press(m, keyEnter)
	if len(m.Path) != 1 {
		t.Error("opened a line without a part")
	}
}

func TestTreeBrowserQuit(t *testing.T) {
	m := NewTreeBrowserModel(browseFixture())
	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		if _, cmd := m.Update(k); cmd == nil {
			t.Errorf("%s did not quit", k)
		}
	}
}

func TestTreeBrowserView(t *testing.T) {
	m := NewTreeBrowserModel(browseFixture())
	view := m.View()
	for _, want := range []string{"Robot", "Arm", "A1", tree.MissingName, "[1/2]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}

	m = press(m, keyEnter)
	view = m.View()
	if !strings.Contains(view, "↻ Robot") || !strings.Contains(view, "S-3") {
		t.Errorf("child view:\n%s", view)
	}

	leaf := NewTreeBrowserModel(&tree.Node{ID: "9", Name: "Bolt"})
	if !strings.Contains(leaf.View(), "no BOM lines") {
		t.Errorf("leaf view:\n%s", leaf.View())
	}
}

func TestLineRow(t *testing.T) {
	row := lineRow(tree.Edge{Quantity: tree.Qty(0.5), Reference: "R", Child: &tree.Node{ID: "1", Name: "Glue"}}, true)
	want := []string{"▸ ", "0.5", "Glue", "—", "R", "—"}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, row[i], want[i])
		}
	}
}
