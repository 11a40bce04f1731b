package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/cli-files/internal/queue"
)

// overlayMode is the popup drawn over the panes.
type overlayMode int

const (
	overlayNone overlayMode = iota
	// overlayConfirm shows the armed gate's question.
	overlayConfirm
	// overlayInput shows the input line.
	overlayInput
)

// openOverlay activates one overlay and ensures any previous overlay state is cleaned up.
func (m *Model) openOverlay(mode overlayMode) {
	if m.overlay == mode {
		return
	}
	m.closeOverlay()
	m.overlay = mode
}

// closeOverlay dismisses the active overlay and hands focus back to the tree.
func (m *Model) closeOverlay() {
	if m.overlay == overlayInput {
		m.input.Blur()
		m.input.SetValue("")
		m.inputOp = nil
	}
	m.overlay = overlayNone
	m.tree.Focus(true)
}

func (m *Model) isOverlay(mode overlayMode) bool {
	return m.overlay == mode
}

// drainQueue turns the tree's queued intents into UI state and commands.
// Only the last preview request of a batch is rendered.
func (m *Model) drainQueue() tea.Cmd {
	var (
		cmds    []tea.Cmd
		preview string
		toggled bool
	)
	for _, ev := range m.queue.Drain() {
		switch ev := ev.(type) {
		case queue.PreviewFile:
			preview = ev.Path
		case queue.TogglePreviewMode:
			toggled = true
			m.togglePreviewMode()
		case queue.OpenFile:
			cmds = append(cmds, m.openInEditor(ev.Path))
		case queue.OpenInput:
			cmds = append(cmds, m.openInput(ev.Op))
		case queue.OpenPopup:
			if m.gate.Arm(ev.Op) {
				m.openOverlay(overlayConfirm)
				m.status = ""
			}
		default:
			appLog.Warn("ignore unknown intent", "intent", ev)
		}
	}

	switch {
	case preview != "":
		cmds = append(cmds, m.setPreview(preview))
	case toggled:
		cmds = append(cmds, m.refreshPreview())
	case m.tree.Selected() == nil:
		m.clearPreview()
	}
	return tea.Batch(cmds...)
}
