package app

// copySelectedPathToClipboard copies the absolute path of the selected entry
// to the system clipboard.
func (m *Model) copySelectedPathToClipboard() {
	node := m.tree.Selected()
	if node == nil {
		m.status = "Nothing selected"
		return
	}
	if err := m.writeClipboard(node.Path); err != nil {
		m.setStatusError("Clipboard copy failed", err)
		return
	}
	m.status = "Copied " + node.Path
}
