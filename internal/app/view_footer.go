package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func (m *Model) renderStatus(width, rows int) string {
	statusRows, _ := m.buildStatusRows(width, rows)
	for len(statusRows) < rows {
		statusRows = append(statusRows, "")
	}

	rendered := make([]string, 0, len(statusRows))
	for _, line := range statusRows {
		line = " " + truncate(line, max(0, width-1))
		rendered = append(rendered, statusStyle.Width(width).Render(line))
	}
	return strings.Join(rendered, "\n")
}

// buildStatusRows packs help, context and status segments into at most
// rowLimit rows. The bool reports whether everything fit untruncated.
func (m *Model) buildStatusRows(width, rowLimit int) ([]string, bool) {
	if width <= 0 || rowLimit <= 0 {
		return nil, true
	}

	help := m.statusHelpSegments()
	context := m.statusContextSegments()
	status := m.statusMessageSegment()

	segments := make([]string, 0, len(help)+len(context)+2)
	segments = append(segments, help...)
	segments = append(segments, context...)
	if status != "" {
		segments = append(segments, status)
	}

	rows := make([]string, 1, rowLimit)
	rowIndex := 0
	fit := true
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		segment := seg
		if lipgloss.Width(segment) > width {
			segment = truncateWithEllipsis(segment, width)
		}

		candidate := segment
		if rows[rowIndex] != "" {
			candidate = rows[rowIndex] + " | " + segment
		}
		if lipgloss.Width(candidate) <= width {
			rows[rowIndex] = candidate
			continue
		}
		if rowIndex+1 < rowLimit {
			rowIndex++
			rows = append(rows, segment)
			continue
		}

		fit = false
		if rows[rowIndex] == "" {
			rows[rowIndex] = truncateWithEllipsis(segment, width)
		} else {
			rows[rowIndex] = truncateWithEllipsis(rows[rowIndex]+" | "+segment, width)
		}
		break
	}
	return rows, fit
}

func truncateWithEllipsis(value string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(value) <= width {
		return value
	}
	if width == 1 {
		return "…"
	}
	return ansi.Truncate(value, width-1, "") + "…"
}

// statusHelpSegments lists key hints for the current mode.
func (m *Model) statusHelpSegments() []string {
	switch m.overlay {
	case overlayConfirm:
		return []string{m.gateHint}
	case overlayInput:
		return []string{"enter submit", "esc cancel"}
	}
	return []string{m.help.ShortHelpView(helpKeyMap{keys: m.keys}.ShortHelp())}
}

func (m *Model) statusContextSegments() []string {
	parts := make([]string, 0, 2)
	if m.tree != nil && m.tree.Tree().Filtered() {
		parts = append(parts, "filtered")
	}
	if git := m.gitFooterSummary(); git != "" {
		parts = append(parts, git)
	}
	return parts
}

func (m *Model) statusMessageSegment() string {
	return strings.TrimSpace(m.status)
}
