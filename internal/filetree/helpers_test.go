package filetree

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/treykane/cli-files/internal/queue"
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

// tempFiles creates the given slash-separated relative files under a fresh
// temp dir and returns the dir.
func tempFiles(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		mustWriteFile(t, filepath.Join(root, filepath.FromSlash(f)), "")
	}
	return root
}

func mustLoad(t *testing.T, root string, opts BuildOptions) *Tree {
	t.Helper()
	tree, err := Load(root, opts)
	if err != nil {
		t.Fatalf("load %s: %v", root, err)
	}
	return tree
}

func newTestFileTree(t *testing.T, root string) (*FileTree, *queue.Queue) {
	t.Helper()
	q := queue.New()
	ft, err := New(root, BuildOptions{}, q, DefaultKeyMap())
	if err != nil {
		t.Fatalf("new file tree: %v", err)
	}
	return ft, q
}

func press(t *testing.T, ft *FileTree, keys ...string) {
	t.Helper()
	for _, k := range keys {
		if _, err := ft.HandleEvent(KeyEvent{Key: k}); err != nil {
			t.Fatalf("handle %q: %v", k, err)
		}
	}
}

func captureLogOutput(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	prev := treeLog
	treeLog = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	defer func() { treeLog = prev }()
	fn()
	return buf.String()
}

func rowNames(rows []Row) []string {
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Node.Name)
	}
	return names
}
