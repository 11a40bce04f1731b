// layout.go centralizes the terminal layout calculations for the two-pane UI.
//
// The UI is a horizontal split: a tree pane on the left and a flexible
// preview pane on the right. The bottom footer reserves two or three rows
// depending on terminal width and footer content density. One row of the
// preview pane goes to the header bar naming the previewed path.
package app

import "github.com/charmbracelet/lipgloss"

// LayoutDimensions holds all calculated layout dimensions for the UI.
type LayoutDimensions struct {
	LeftWidth      int // width allocated to the tree pane (including border/padding)
	RightWidth     int // width allocated to the preview pane
	ContentHeight  int // terminal height minus footer
	TreeRows       int // rows available for tree entries
	ViewportWidth  int // usable width inside the preview pane
	ViewportHeight int // usable height inside the preview pane, below its header
}

// calculateLayout computes all UI dimensions based on terminal size.
//
// The tree pane width is the smaller of DefaultTreeWidth and
// terminal_width / TreeWidthDivider. The tree loses one row to its title and
// one more when the filter banner is showing.
func (m *Model) calculateLayout() LayoutDimensions {
	leftWidth := min(DefaultTreeWidth, m.width/TreeWidthDivider)
	rightWidth := max(0, m.width-leftWidth)
	contentHeight := max(0, m.height-m.footerHeightForWidth(m.width))

	treeChrome := 1
	if m.tree != nil && m.tree.Tree().Filtered() {
		treeChrome++
	}

	return LayoutDimensions{
		LeftWidth:      leftWidth,
		RightWidth:     rightWidth,
		ContentHeight:  contentHeight,
		TreeRows:       max(0, contentHeight-paneStyle.GetVerticalFrameSize()-treeChrome),
		ViewportWidth:  max(0, rightWidth-previewPane.GetHorizontalFrameSize()),
		ViewportHeight: max(0, contentHeight-previewPane.GetVerticalFrameSize()-1),
	}
}

// footerHeightForWidth returns how many rows should be reserved for the footer.
// It prefers FooterMinRows and expands to FooterMaxRows when the footer
// segments cannot fit without dropping content.
func (m *Model) footerHeightForWidth(width int) int {
	_, fit := m.buildStatusRows(width, FooterMinRows)
	if fit {
		return FooterMinRows
	}
	return FooterMaxRows
}

// applyLayout updates the viewport widget dimensions to match the calculated
// layout.
func (m *Model) applyLayout(layout LayoutDimensions) {
	m.viewport.Width = layout.ViewportWidth
	m.viewport.Height = layout.ViewportHeight
	m.input.Width = max(10, min(PopupMaxWidth, m.width-8)-popupStyle.GetHorizontalFrameSize()-lipgloss.Width(m.input.Prompt)-1)
	m.help.Width = m.width
}
