package app

import "time"

// Layout constants define the default dimensions and spacing for the UI
const (
	// DefaultTreeWidth is the widest the tree pane gets.
	DefaultTreeWidth = 40

	// TreeWidthDivider determines tree width as terminal_width / this value
	// when terminal is narrow
	TreeWidthDivider = 3

	// PopupMaxWidth caps the width of the confirmation and input popups.
	PopupMaxWidth = 72

	// FooterMinRows is the default number of rows reserved for the bottom
	// status/help area.
	FooterMinRows = 2
	// FooterMaxRows is the expanded footer height used when content does not
	// fit within FooterMinRows.
	FooterMaxRows = 3
)

// Input limits define maximum sizes for user input
const (
	// InputCharLimit is the maximum number of characters allowed in the input line
	InputCharLimit = 256
)

// Rendering constants control render timing and optimization
const (
	// RenderDebounce is the delay between a selection change and the preview
	// render it triggers.
	RenderDebounce = 120 * time.Millisecond

	// RenderWidthBucket is the granularity for width-based render caching
	RenderWidthBucket = 20

	// binarySniffBytes is how much of a file is inspected for NUL bytes.
	binarySniffBytes = 8000
)

// Background work timeouts
const (
	// GitSnapshotTimeout bounds one `git status` invocation.
	GitSnapshotTimeout = 5 * time.Second

	// SearchTimeout bounds one fuzzy search walk.
	SearchTimeout = 10 * time.Second
)
