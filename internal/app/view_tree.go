package app

import (
	"strings"

	"github.com/treykane/cli-files/internal/filetree"
	"github.com/treykane/cli-files/internal/vcs"
)

const (
	filterBanner = "Some results may be filtered out ('\\' to reset)"
	noMatches    = "no matches ('\\' to reset)"
	emptyDir     = "(empty directory)"
)

// renderTree draws the tree pane: a title, the filter banner when a search
// is active, then the visible rows from treeOffset on.
func (m *Model) renderTree(width, height int) string {
	innerWidth := max(0, width-paneStyle.GetHorizontalFrameSize())
	innerHeight := max(0, height-paneStyle.GetVerticalFrameSize())

	tree := m.tree.Tree()
	lines := []string{truncate(titleStyle.Render(m.root), innerWidth)}
	if tree.Filtered() {
		lines = append(lines, truncate(bannerStyle.Render(filterBanner), innerWidth))
	}

	rows := m.tree.Nav().Visible(tree)
	if len(rows) == 0 {
		hint := emptyDir
		if tree.Filtered() {
			hint = noMatches
		}
		lines = append(lines, mutedStyle.Render(truncate(hint, innerWidth)))
	}

	visible := max(0, innerHeight-len(lines))
	selected := m.tree.Nav().Selected()
	start := clamp(m.treeOffset, 0, max(0, len(rows)-1))
	end := min(len(rows), start+visible)
	for _, row := range rows[start:end] {
		line := m.formatTreeRow(row)
		if row.Path.Equal(selected) {
			line = selectedStyle.Render(truncate(m.plainTreeRow(row), innerWidth))
		}
		lines = append(lines, truncate(line, innerWidth))
	}

	content := padBlock(strings.Join(lines, "\n"), innerWidth, innerHeight)
	return paneStyle.Width(width - paneStyle.GetHorizontalBorderSize()).Render(content)
}

// formatTreeRow renders one row with its VCS colour.
func (m *Model) formatTreeRow(row filetree.Row) string {
	prefix, name := m.treeRowParts(row)
	hint := m.gitOverlay.Hint(row.Node.Path)
	if style, ok := hintStyles[hint]; ok {
		name = style.Render(name)
	} else if row.Node.Dir {
		name = dirStyle.Render(name)
	}
	return prefix + name
}

// plainTreeRow is the uncoloured form used under the selection highlight.
func (m *Model) plainTreeRow(row filetree.Row) string {
	prefix, name := m.treeRowParts(row)
	return prefix + name
}

func (m *Model) treeRowParts(row filetree.Row) (string, string) {
	indent := strings.Repeat("  ", row.Depth)
	if !row.Node.Dir {
		return indent + "  ", row.Node.Name
	}
	marker := "▸ "
	if m.tree.Nav().IsExpanded(m.tree.Tree(), row.Path) {
		marker = "▾ "
	}
	return indent + marker, row.Node.Name + "/"
}

// hintLabel is the one-letter marker shown in the preview header.
func hintLabel(h vcs.Hint) string {
	switch h {
	case vcs.HintUntracked:
		return "?"
	case vcs.HintWorktree:
		return "M"
	case vcs.HintIndex:
		return "+"
	}
	return ""
}
