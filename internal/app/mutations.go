package app

import (
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// execFinishedMsg reports that an external process handed the terminal back.
type execFinishedMsg struct {
	kind string // "editor" or "command"
	path string
	err  error
}

// editorCommand resolves the editor: config, $VISUAL, $EDITOR, then vi.
// The value may carry arguments, e.g. "code -w".
func (m *Model) editorCommand() []string {
	for _, candidate := range []string{m.cfg.Editor, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if fields := strings.Fields(candidate); len(fields) > 0 {
			return fields
		}
	}
	return []string{"vi"}
}

// openInEditor suspends the UI and edits path.
func (m *Model) openInEditor(path string) tea.Cmd {
	argv := append(m.editorCommand(), path)
	c := exec.Command(argv[0], argv[1:]...)
	c.Dir = m.root
	m.status = "Editing " + m.displayRelative(path)
	appLog.Debug("open editor", "editor", argv[0], "path", path)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return execFinishedMsg{kind: "editor", path: path, err: err}
	})
}

// runCommand runs line through the configured shell with path appended as
// its final argument.
func (m *Model) runCommand(line, path string) tea.Cmd {
	line = strings.TrimSpace(line)
	if line == "" {
		m.status = "No command given"
		return nil
	}
	shell := m.cfg.Shell
	if strings.TrimSpace(shell) == "" {
		shell = "/bin/sh"
	}
	c := exec.Command(shell, "-c", line+" "+shellQuote(path))
	c.Dir = m.root
	m.status = "Ran: " + line
	appLog.Info("run command", "command", line, "path", path)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return execFinishedMsg{kind: "command", path: path, err: err}
	})
}

// handleExecFinished rescans after an external process, which may have
// changed anything under the root.
func (m *Model) handleExecFinished(msg execFinishedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		status := "Command failed"
		if msg.kind == "editor" {
			status = "Editor failed"
		}
		m.setStatusError(status, msg.err, "path", msg.path)
	} else if msg.kind == "editor" {
		m.status = "Closed " + m.displayRelative(msg.path)
	}

	if err := m.rescan(); err != nil {
		m.setStatusError("Refresh failed", err, "root", m.root)
		return m, nil
	}
	m.queuePreviewOfSelection()
	return m, tea.Batch(m.drainQueue(), m.afterTreeChange())
}
