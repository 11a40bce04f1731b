package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/treykane/cli-files/internal/logging"
)

const (
	configDirName  = ".cli-files"
	configFileName = "config.json"
	keymapFileName = "keymap.json"
)

// Preview modes understood by the preview pane.
const (
	PreviewRendered = "rendered"
	PreviewRaw      = "raw"
)

const (
	// DefaultWatchDebounceMillis coalesces bursts of filesystem events into
	// one refresh.
	DefaultWatchDebounceMillis = 250
	// DefaultMaxPreviewBytes caps how much of a file the preview pane reads.
	DefaultMaxPreviewBytes = 256 * 1024
)

var ErrNotConfigured = errors.New("cli-files is not configured")

var log = logging.New("config")

// Config stores user-defined cli-files settings.
type Config struct {
	// RootDir is the directory browsed when no path argument is given.
	RootDir string `json:"root_dir,omitempty"`
	// ShowHidden includes dot-files in the tree.
	ShowHidden bool `json:"show_hidden"`
	// Watch enables the filesystem watcher.
	Watch               bool   `json:"watch"`
	WatchDebounceMillis int    `json:"watch_debounce_ms,omitempty"`
	PreviewMode         string `json:"preview_mode,omitempty"`
	MaxPreviewBytes     int64  `json:"max_preview_bytes,omitempty"`
	GlamourStyle        string `json:"glamour_style,omitempty"`
	// Editor opens files; falls back to $VISUAL, $EDITOR, then vi.
	Editor string `json:"editor,omitempty"`
	// Shell runs commands entered on the command input line.
	Shell       string            `json:"shell,omitempty"`
	Keybindings map[string]string `json:"keybindings,omitempty"`
	KeymapFile  string            `json:"keymap_file,omitempty"`
}

// Default returns the settings used when no config file exists.
func Default() Config {
	cfg := Config{
		Watch:               true,
		WatchDebounceMillis: DefaultWatchDebounceMillis,
		PreviewMode:         PreviewRendered,
		MaxPreviewBytes:     DefaultMaxPreviewBytes,
		GlamourStyle:        "dark",
		Shell:               "/bin/sh",
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.KeymapFile = filepath.Join(home, configDirName, keymapFileName)
	}
	return cfg
}

// ConfigPath returns the configuration file path.
func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// Exists reports whether the config file exists.
func Exists() (bool, error) {
	path, err := ConfigPath()
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat config path: %w", err)
}

// Load reads the saved configuration. Fields missing from the file keep
// their Default values. A missing file yields Default() and ErrNotConfigured.
func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, ErrNotConfigured
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}

	if strings.TrimSpace(cfg.RootDir) != "" {
		rootDir, err := NormalizeDir(cfg.RootDir)
		if err != nil {
			return Default(), fmt.Errorf("invalid root_dir: %w", err)
		}
		cfg.RootDir = rootDir
	}
	if strings.TrimSpace(cfg.KeymapFile) != "" {
		keymap, err := NormalizeDir(cfg.KeymapFile)
		if err != nil {
			return Default(), fmt.Errorf("invalid keymap_file: %w", err)
		}
		cfg.KeymapFile = keymap
	}
	cfg.PreviewMode = NormalizePreviewMode(cfg.PreviewMode)
	if cfg.WatchDebounceMillis <= 0 {
		cfg.WatchDebounceMillis = DefaultWatchDebounceMillis
	}
	if cfg.MaxPreviewBytes <= 0 {
		cfg.MaxPreviewBytes = DefaultMaxPreviewBytes
	}

	return cfg, nil
}

// Save writes configuration to disk.
func Save(cfg Config) error {
	if strings.TrimSpace(cfg.RootDir) != "" {
		rootDir, err := NormalizeDir(cfg.RootDir)
		if err != nil {
			return fmt.Errorf("invalid root_dir: %w", err)
		}
		cfg.RootDir = rootDir
	}
	cfg.PreviewMode = NormalizePreviewMode(cfg.PreviewMode)

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	log.Info("saved config", "path", path)
	return nil
}

// NormalizePreviewMode maps unknown values to PreviewRendered.
func NormalizePreviewMode(mode string) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case PreviewRaw:
		return PreviewRaw
	default:
		return PreviewRendered
	}
}

// NormalizeDir expands and normalizes a directory path.
func NormalizeDir(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is required")
	}

	expanded, err := expandHome(trimmed)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", err
	}

	return filepath.Clean(abs), nil
}

func expandHome(path string) (string, error) {
	if path == "~" {
		return os.UserHomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
	}
	return path, nil
}
