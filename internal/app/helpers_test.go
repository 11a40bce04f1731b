package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/cli-files/internal/config"
	"github.com/treykane/cli-files/internal/fileops"
	"github.com/treykane/cli-files/internal/vcs"
)

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

// fakeVCS returns a fixed snapshot.
type fakeVCS struct {
	snap vcs.Snapshot
	err  error
}

func (f fakeVCS) Snapshot(context.Context) (vcs.Snapshot, error) {
	return f.snap, f.err
}

// failingExecutor wraps Local and fails deletes.
type failingExecutor struct {
	*fileops.Local
	deleteErr error
}

func (f failingExecutor) Delete(string) error { return f.deleteErr }

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Watch = false
	cfg.KeymapFile = ""
	cfg.GlamourStyle = "notty"
	return cfg
}

// newTestModel builds a sized model over root with git and config saving
// stubbed out.
func newTestModel(t *testing.T, root string, tweak ...func(*Options)) *Model {
	t.Helper()
	opts := Options{
		Root:           root,
		Config:         testConfig(),
		VCS:            fakeVCS{err: vcs.ErrUnavailable},
		LoadConfig:     func() (config.Config, error) { return config.Default(), nil },
		SaveConfig:     func(config.Config) error { return nil },
		WriteClipboard: func(string) error { return nil },
	}
	for _, fn := range tweak {
		fn(&opts)
	}
	m, err := New(opts)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	m.queue.Drain()
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return m
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "pgup":
		return tea.KeyMsg{Type: tea.KeyPgUp}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// press sends keys in order and returns the last command.
func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, key := range keys {
		_, cmd = m.Update(keyMsg(key))
	}
	return cmd
}

// typeText sends text one rune at a time.
func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func selectedName(m *Model) string {
	if node := m.tree.Selected(); node != nil {
		return node.Name
	}
	return ""
}

func visibleNames(m *Model) []string {
	rows := m.tree.Nav().Visible(m.tree.Tree())
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Node.Name)
	}
	return names
}

func lineBlock(count int) string {
	lines := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		lines = append(lines, "line")
	}
	return strings.Join(lines, "\n")
}

func captureLogOutput(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	prev := appLog
	appLog = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	defer func() { appLog = prev }()
	fn()
	return buf.String()
}
