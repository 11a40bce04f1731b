package app

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func TestFooterHeightForWidthPrefersTwoRowsWhenFit(t *testing.T) {
	m := &Model{}

	if got := m.footerHeightForWidth(240); got != FooterMinRows {
		t.Fatalf("expected %d footer rows at wide width, got %d", FooterMinRows, got)
	}
}

func TestFooterHeightForWidthExpandsToThreeRowsWhenNeeded(t *testing.T) {
	m := newTestModel(t, t.TempDir())
	m.status = "Refreshed after external filesystem changes under a very long directory name"
	m.gitSummary = "git feature/some-long-branch-name ↑12 ↓3 dirty"

	if got := m.footerHeightForWidth(72); got != FooterMaxRows {
		t.Fatalf("expected %d footer rows at narrow width, got %d", FooterMaxRows, got)
	}
}

func TestBuildStatusRowsTruncatesWithEllipsisWhenOverCapacity(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "a.txt"), "a")
	m := newTestModel(t, root)
	runSearch(t, m, "a.txt")
	m.gitSummary = "git main no-upstream clean"
	m.status = strings.Repeat("status ", 30)

	rows, fit := m.buildStatusRows(28, FooterMaxRows)
	if fit {
		t.Fatal("expected rows to overflow and require truncation")
	}
	if len(rows) != FooterMaxRows {
		t.Fatalf("expected %d rows, got %d", FooterMaxRows, len(rows))
	}
	if !strings.Contains(rows[len(rows)-1], "…") {
		t.Fatalf("expected ellipsis in final row, got %q", rows[len(rows)-1])
	}
	for i, row := range rows {
		if w := lipgloss.Width(row); w > 28 {
			t.Fatalf("row %d exceeds width: %d", i, w)
		}
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	if got := truncateWithEllipsis("abcdef", 10); got != "abcdef" {
		t.Fatalf("expected untouched value, got %q", got)
	}
	if got := truncateWithEllipsis("abcdef", 4); got != "abc…" {
		t.Fatalf("expected abc…, got %q", got)
	}
	if got := truncateWithEllipsis("abcdef", 1); got != "…" {
		t.Fatalf("expected lone ellipsis, got %q", got)
	}
	if got := truncateWithEllipsis("abcdef", 0); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestStatusHelpSegmentsByMode(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "a.txt"), "a")

	t.Run("browse", func(t *testing.T) {
		m := newTestModel(t, root)
		joined := strings.Join(m.statusHelpSegments(), " | ")
		for _, want := range []string{"search", "new file", "quit"} {
			if !strings.Contains(joined, want) {
				t.Fatalf("expected browse help to include %q, got %q", want, joined)
			}
		}
	})

	t.Run("confirm", func(t *testing.T) {
		m := newTestModel(t, root)
		press(m, "d")
		joined := strings.Join(m.statusHelpSegments(), " | ")
		if !strings.Contains(joined, "enter/y confirm") {
			t.Fatalf("expected confirm help, got %q", joined)
		}
	})

	t.Run("input", func(t *testing.T) {
		m := newTestModel(t, root)
		press(m, "n")
		joined := strings.Join(m.statusHelpSegments(), " | ")
		if !strings.Contains(joined, "esc cancel") {
			t.Fatalf("expected input help, got %q", joined)
		}
	})
}

func TestStatusContextShowsFilterAndGit(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "a.txt"), "a")
	mustWriteFile(t, filepath.Join(root, "b.txt"), "b")
	m := newTestModel(t, root)
	m.gitSummary = "git main no-upstream clean"

	if got := strings.Join(m.statusContextSegments(), ","); got != "git main no-upstream clean" {
		t.Fatalf("unexpected context %q", got)
	}
	runSearch(t, m, "a.txt")
	if got := m.statusContextSegments(); len(got) != 2 || got[0] != "filtered" {
		t.Fatalf("expected filtered marker first, got %v", got)
	}
}

func TestCalculateLayoutReservesFooterRowsAndStaysNonNegative(t *testing.T) {
	m := &Model{
		width:  70,
		height: 2,
	}
	layout := m.calculateLayout()
	if layout.ContentHeight < 0 || layout.TreeRows < 0 || layout.ViewportHeight < 0 {
		t.Fatalf("expected non-negative layout, got %+v", layout)
	}

	m.width = 240
	m.height = 24
	layout = m.calculateLayout()
	expected := 24 - FooterMinRows
	if layout.ContentHeight != expected {
		t.Fatalf("expected content height %d, got %d", expected, layout.ContentHeight)
	}
	if layout.LeftWidth != DefaultTreeWidth {
		t.Fatalf("expected tree width capped at %d, got %d", DefaultTreeWidth, layout.LeftWidth)
	}
	if layout.LeftWidth+layout.RightWidth != m.width {
		t.Fatalf("expected panes to fill the width, got %+v", layout)
	}

	m.width = 60
	if got := m.calculateLayout().LeftWidth; got != 20 {
		t.Fatalf("expected a third of a narrow terminal, got %d", got)
	}
}

func TestViewPadsToTerminalSizeWithAdaptiveFooter(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "a.txt"), "hello")
	mustWriteFile(t, filepath.Join(root, "docs", "b.md"), "# b")
	m := newTestModel(t, root)

	for _, size := range [][2]int{{90, 20}, {120, 30}, {50, 12}} {
		m.Update(tea.WindowSizeMsg{Width: size[0], Height: size[1]})
		out := m.View()
		lines := strings.Split(out, "\n")
		if len(lines) != m.height {
			t.Fatalf("%dx%d: expected %d lines, got %d", size[0], size[1], m.height, len(lines))
		}
		for i, line := range lines {
			if w := lipgloss.Width(line); w != m.width {
				t.Fatalf("%dx%d: line %d width mismatch: expected %d, got %d", size[0], size[1], i+1, m.width, w)
			}
		}
	}
}

func TestViewBeforeFirstResize(t *testing.T) {
	m := &Model{}
	if got := m.View(); got != "Loading..." {
		t.Fatalf("expected loading placeholder, got %q", got)
	}
}

func TestViewLeavesViewportSizeToLayout(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "a.txt"), strings.Repeat("line\n", 80))
	m := newTestModel(t, root)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	layout := m.calculateLayout()
	if m.viewport.Width != layout.ViewportWidth || m.viewport.Height != layout.ViewportHeight {
		t.Fatalf("expected viewport %dx%d after resize, got %dx%d",
			layout.ViewportWidth, layout.ViewportHeight, m.viewport.Width, m.viewport.Height)
	}

	m.viewport.Height = 3
	m.View()
	if m.viewport.Height != 3 || m.viewport.Width != layout.ViewportWidth {
		t.Fatalf("expected View to leave the viewport size alone, got %dx%d", m.viewport.Width, m.viewport.Height)
	}
}
