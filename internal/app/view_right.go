package app

import (
	"fmt"
	"strings"
)

// renderRight draws the preview pane: a header naming the previewed path and
// the scrollable viewport below it.
func (m *Model) renderRight(width, height int) string {
	innerWidth := max(0, width-previewPane.GetHorizontalFrameSize())
	innerHeight := max(0, height-previewPane.GetVerticalFrameSize())
	contentHeight := max(0, innerHeight-1)

	var content string
	switch {
	case m.showHelp:
		content = m.help.View(helpKeyMap{keys: m.keys})
	case m.previewPath == "":
		content = mutedStyle.Render("Nothing selected")
	default:
		content = m.viewport.View()
	}

	header := previewHeader.Width(innerWidth).Render(" " + truncate(m.previewHeaderLabel(), max(0, innerWidth-1)))
	body := padBlock(content, innerWidth, contentHeight)
	return previewPane.Width(width - previewPane.GetHorizontalBorderSize()).Render(header + "\n" + body)
}

func (m *Model) previewHeaderLabel() string {
	if m.showHelp {
		return "Keys (? to close)"
	}
	if m.previewPath == "" {
		return "Preview"
	}
	parts := []string{m.displayRelative(m.previewPath)}
	if label := hintLabel(m.gitOverlay.Hint(m.previewPath)); label != "" {
		parts = append(parts, "["+label+"]")
	}
	parts = append(parts, fmt.Sprintf("(%s)", m.cfg.PreviewMode))
	if m.viewport.TotalLineCount() > m.viewport.Height && m.viewport.Height > 0 {
		parts = append(parts, fmt.Sprintf("%d%%", int(m.viewport.ScrollPercent()*100)))
	}
	return strings.Join(parts, " ")
}
