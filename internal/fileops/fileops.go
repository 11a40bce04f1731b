// Package fileops performs the filesystem mutations requested from the tree:
// delete, create file and create directory.
package fileops

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/treykane/cli-files/internal/logging"
)

var (
	// ErrOutsideRoot is returned for paths that escape the browsed root.
	ErrOutsideRoot = errors.New("path is outside the browsed directory")
	// ErrRoot is returned when an operation targets the root itself.
	ErrRoot = errors.New("refusing to modify the browsed directory itself")
)

var log = logging.New("fileops")

// Executor mutates the filesystem on behalf of the tree.
type Executor interface {
	Delete(path string) error
	CreateFile(path string) error
	CreateDir(path string) error
}

// Local executes operations on the local disk, confined to Root.
type Local struct {
	Root string
}

func NewLocal(root string) *Local {
	return &Local{Root: filepath.Clean(root)}
}

// Delete removes a file, or a directory and everything under it.
func (l *Local) Delete(path string) error {
	path, err := l.confine(path)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(path); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	log.Info("deleted", "path", path)
	return nil
}

// CreateFile creates an empty file, creating missing parent directories.
// It fails if the path already exists.
func (l *Local) CreateFile(path string) error {
	path, err := l.confine(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	log.Info("created file", "path", path)
	return nil
}

// CreateDir creates a directory and any missing parents. It fails if the
// path already exists.
func (l *Local) CreateDir(path string) error {
	path, err := l.confine(path)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(path); err == nil {
		return fmt.Errorf("create dir %s: %w", path, os.ErrExist)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", path, err)
	}
	log.Info("created dir", "path", path)
	return nil
}

func (l *Local) confine(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("path is required")
	}
	root := filepath.Clean(l.Root)
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	path = filepath.Clean(path)
	if path == root {
		return "", ErrRoot
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return path, nil
}

// JoinName joins a user-typed name onto dir. Names may contain separators to
// create nested entries; they may not be absolute.
func JoinName(dir, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("name is required")
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, name)
	}
	return filepath.Join(dir, name), nil
}
