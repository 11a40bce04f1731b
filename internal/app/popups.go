package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/cli-files/internal/fileops"
	"github.com/treykane/cli-files/internal/queue"
)

// openInput shows the input line for op. The tree stops receiving events
// until the line closes.
func (m *Model) openInput(op queue.InputOperation) tea.Cmd {
	if op == nil {
		return nil
	}
	m.openOverlay(overlayInput)
	m.inputOp = op
	m.tree.Focus(false)
	m.input.SetValue("")
	m.input.Prompt = inputPrompt(op)
	m.input.Placeholder = inputPlaceholder(op)
	m.applyLayout(m.calculateLayout())
	m.status = ""
	return m.input.Focus()
}

// handleInputKey edits the input line. Enter submits, esc cancels.
func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		cmd := m.closeInput()
		m.status = "Cancelled"
		return m, cmd
	case "enter":
		return m.submitInput()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// closeInput dismisses the input line and replays a refresh that arrived
// while it was open.
func (m *Model) closeInput() tea.Cmd {
	m.closeOverlay()
	if !m.refreshPending {
		return nil
	}
	m.refreshPending = false
	if err := m.rescan(); err != nil {
		m.setStatusError("Refresh failed", err, "root", m.root)
		return nil
	}
	m.queuePreviewOfSelection()
	return tea.Batch(m.drainQueue(), m.afterTreeChange())
}

// submitInput runs the operation the line was opened for.
func (m *Model) submitInput() (tea.Model, tea.Cmd) {
	op := m.inputOp
	value := m.input.Value()
	closeCmd := m.closeInput()

	switch op := op.(type) {
	case queue.Command:
		return m, tea.Batch(closeCmd, m.runCommand(value, op.To))
	case queue.NewFile:
		return m, tea.Batch(closeCmd, m.createEntry(op.At, value, false))
	case queue.NewDir:
		return m, tea.Batch(closeCmd, m.createEntry(op.At, value, true))
	case queue.SearchFiles:
		return m, tea.Batch(closeCmd, m.startSearch(value))
	}
	return m, closeCmd
}

// createEntry makes a file or directory named name inside dir, then selects it.
func (m *Model) createEntry(dir, name string, isDir bool) tea.Cmd {
	kind := "file"
	if isDir {
		kind = "directory"
	}
	path, err := fileops.JoinName(dir, name)
	if err != nil {
		m.status = fmt.Sprintf("Invalid %s name", kind)
		return nil
	}
	if isDir {
		err = m.ops.CreateDir(path)
	} else {
		err = m.ops.CreateFile(path)
	}
	if err != nil {
		if isOutsideRoot(err) {
			m.status = fmt.Sprintf("Cannot create %s outside %s", kind, m.root)
			return nil
		}
		m.setStatusError(fmt.Sprintf("Create %s failed", kind), err, "path", path)
		return nil
	}

	if err := m.tree.Reveal(path); err != nil {
		m.setStatusError("Refresh failed", err, "root", m.root)
		return nil
	}
	m.status = fmt.Sprintf("Created %s %s", kind, m.displayRelative(path))
	return tea.Batch(m.drainQueue(), m.afterTreeChange())
}

func inputPrompt(op queue.InputOperation) string {
	switch op.(type) {
	case queue.Command:
		return "$ "
	case queue.SearchFiles:
		return "/ "
	default:
		return "> "
	}
}

func inputPlaceholder(op queue.InputOperation) string {
	switch op.(type) {
	case queue.Command:
		return "command"
	case queue.NewFile:
		return "file name"
	case queue.NewDir:
		return "directory name"
	case queue.SearchFiles:
		return "fuzzy search"
	}
	return ""
}

// inputTitle describes the open input line.
func (m *Model) inputTitle() string {
	switch op := m.inputOp.(type) {
	case queue.Command:
		return "Run on " + m.displayRelative(op.To)
	case queue.NewFile:
		return "New file in " + m.displayRelative(op.At)
	case queue.NewDir:
		return "New directory in " + m.displayRelative(op.At)
	case queue.SearchFiles:
		return "Search " + m.displayRelative(m.root)
	}
	return strings.TrimSpace(m.input.Prompt)
}
