package app

import tea "github.com/charmbracelet/bubbletea"

// handleWindowResize recomputes the layout and re-renders the preview at the
// new width.
func (m *Model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.applyLayout(m.calculateLayout())
	m.adjustTreeOffset()
	return m, m.refreshPreview()
}

// adjustTreeOffset scrolls the tree so the selection stays on screen.
func (m *Model) adjustTreeOffset() {
	visible := m.calculateLayout().TreeRows
	if visible <= 0 {
		m.treeOffset = 0
		return
	}
	cursor := m.tree.Nav().Index(m.tree.Tree())
	if cursor < 0 {
		m.treeOffset = 0
		return
	}
	if cursor < m.treeOffset {
		m.treeOffset = cursor
	}
	if cursor >= m.treeOffset+visible {
		m.treeOffset = cursor - visible + 1
	}
	rows := len(m.tree.Nav().Visible(m.tree.Tree()))
	m.treeOffset = clamp(m.treeOffset, 0, max(0, rows-visible))
}
