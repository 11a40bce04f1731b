package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var overlayRenderers = map[overlayMode]func(*Model, int, int) string{
	overlayConfirm: (*Model).renderConfirmPopup,
	overlayInput:   (*Model).renderInputPopup,
}

func (m *Model) renderActiveOverlay(width, height int) string {
	if render, ok := overlayRenderers[m.overlay]; ok {
		return render(m, width, height)
	}
	return ""
}

// renderConfirmPopup asks the armed gate's question.
func (m *Model) renderConfirmPopup(width, height int) string {
	op := m.gate.Pending()
	if op == nil {
		return ""
	}
	popupWidth := min(PopupMaxWidth, max(20, width-4))
	inner := max(0, popupWidth-popupStyle.GetHorizontalFrameSize())
	lines := []string{
		dangerStyle.Render(truncate(op.Describe(), inner)),
		"",
		mutedStyle.Render(truncate(m.gateHint, inner)),
	}
	return placePopup(popupStyle.BorderForeground(lipgloss.Color("203")), popupWidth, width, height, strings.Join(lines, "\n"))
}

// renderInputPopup shows the input line.
func (m *Model) renderInputPopup(width, height int) string {
	popupWidth := min(PopupMaxWidth, max(20, width-4))
	inner := max(0, popupWidth-popupStyle.GetHorizontalFrameSize())
	lines := []string{
		titleStyle.Render(truncate(m.inputTitle(), inner)),
		"",
		m.input.View(),
		"",
		mutedStyle.Render(truncate("enter submit · esc cancel", inner)),
	}
	return placePopup(popupStyle, popupWidth, width, height, strings.Join(lines, "\n"))
}

func placePopup(style lipgloss.Style, popupWidth, width, height int, content string) string {
	box := style.Width(popupWidth - style.GetHorizontalBorderSize()).Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
