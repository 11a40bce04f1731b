package app

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/cli-files/internal/search"
)

// searchResultMsg carries fuzzy matches back to Update.
type searchResultMsg struct {
	seq   int
	query string
	paths []string
	err   error
}

// startSearch filters the tree to fuzzy matches of query. An empty query
// clears the filter.
func (m *Model) startSearch(query string) tea.Cmd {
	query = strings.TrimSpace(query)
	if query == "" {
		if err := m.tree.Refresh(); err != nil {
			m.setStatusError("Refresh failed", err, "root", m.root)
			return nil
		}
		m.status = "Filter cleared"
		m.queuePreviewOfSelection()
		return tea.Batch(m.drainQueue(), m.afterTreeChange())
	}

	m.searchSeq++
	seq := m.searchSeq
	root := m.root
	opts := search.Options{ShowHidden: m.tree.Tree().ShowHidden()}
	m.status = "Searching " + query + "..."
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), SearchTimeout)
		defer cancel()
		paths, err := search.Find(ctx, root, query, opts)
		return searchResultMsg{seq: seq, query: query, paths: paths, err: err}
	}
}

// handleSearchResult applies the newest search as a tree filter. An empty
// result leaves an empty tree with the reset hint.
func (m *Model) handleSearchResult(msg searchResultMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.searchSeq {
		return m, nil
	}
	if msg.err != nil {
		m.setStatusError("Search failed", msg.err, "query", msg.query)
		return m, nil
	}
	if err := m.tree.OnlyInclude(msg.paths); err != nil {
		m.setStatusError("Refresh failed", err, "root", m.root)
		return m, nil
	}
	switch len(msg.paths) {
	case 0:
		m.status = fmt.Sprintf("No matches for %q", msg.query)
	case 1:
		m.status = fmt.Sprintf("1 match for %q", msg.query)
	default:
		m.status = fmt.Sprintf("%d matches for %q", len(msg.paths), msg.query)
	}
	m.treeOffset = 0
	return m, tea.Batch(m.drainQueue(), m.afterTreeChange())
}
