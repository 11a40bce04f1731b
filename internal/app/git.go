package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/cli-files/internal/vcs"
)

// gitStatusMsg carries a finished VCS snapshot back to Update.
type gitStatusMsg struct {
	seq  int
	snap vcs.Snapshot
	err  error
}

// refreshGitCmd takes a new snapshot in the background. Results from older
// requests are dropped.
func (m *Model) refreshGitCmd() tea.Cmd {
	if m.vcs == nil {
		return nil
	}
	m.gitSeq++
	seq := m.gitSeq
	provider := m.vcs
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), GitSnapshotTimeout)
		defer cancel()
		snap, err := provider.Snapshot(ctx)
		return gitStatusMsg{seq: seq, snap: snap, err: err}
	}
}

// handleGitStatus installs the snapshot. Outside a repository every entry
// renders as clean and the footer drops the git segment.
func (m *Model) handleGitStatus(msg gitStatusMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.gitSeq {
		return m, nil
	}
	if msg.err != nil {
		m.gitOverlay = vcs.Overlay{}
		m.gitSummary = ""
		if !errors.Is(msg.err, vcs.ErrUnavailable) {
			appLog.Warn("git status", "root", m.root, "error", msg.err)
		}
		return m, nil
	}
	m.gitOverlay = vcs.NewOverlay(msg.snap)
	m.gitSummary = msg.snap.Summary()
	return m, nil
}

// gitFooterSummary is the footer's git segment, empty outside a repository.
func (m *Model) gitFooterSummary() string {
	return m.gitSummary
}
