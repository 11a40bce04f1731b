package app

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/treykane/cli-files/internal/vcs"
)

var (
	paneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	popupStyle    = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Padding(0, 1)
	previewPane   = paneStyle.Copy().BorderForeground(lipgloss.Color("62"))
	previewHeader = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	titleStyle    = lipgloss.NewStyle().Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	bannerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dirStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("111"))
	dangerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

// hintStyles colours tree names by their VCS status.
var hintStyles = map[vcs.Hint]lipgloss.Style{
	vcs.HintUntracked: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	vcs.HintWorktree:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	vcs.HintIndex:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
}
