package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadReturnsErrNotConfiguredWhenMissing(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load()
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if !cfg.Watch || cfg.PreviewMode != PreviewRendered {
		t.Fatalf("expected defaults alongside ErrNotConfigured, got %+v", cfg)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Default()
	cfg.RootDir = "~/projects"
	cfg.PreviewMode = PreviewRaw
	cfg.ShowHidden = true
	cfg.Keybindings = map[string]string{"tree.cursor.down": "ctrl+j"}
	if err := Save(cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}

	exists, err := Exists()
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	expected := filepath.Join(home, "projects")
	if loaded.RootDir != expected {
		t.Fatalf("expected root dir %q, got %q", expected, loaded.RootDir)
	}
	if loaded.PreviewMode != PreviewRaw {
		t.Fatalf("expected preview mode %q, got %q", PreviewRaw, loaded.PreviewMode)
	}
	if !loaded.ShowHidden {
		t.Fatal("expected show_hidden to round-trip")
	}
	if got := loaded.Keybindings["tree.cursor.down"]; got != "ctrl+j" {
		t.Fatalf("expected keybinding override, got %q", got)
	}

	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat config path: %v", err)
	}
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, configDirName, configFileName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(`{"show_hidden": true, "preview_mode": "weird"}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.ShowHidden {
		t.Fatal("expected show_hidden from file")
	}
	if !cfg.Watch {
		t.Fatal("expected watch to keep its default")
	}
	if cfg.PreviewMode != PreviewRendered {
		t.Fatalf("expected unknown preview mode to normalize to %q, got %q", PreviewRendered, cfg.PreviewMode)
	}
	if cfg.WatchDebounceMillis != DefaultWatchDebounceMillis {
		t.Fatalf("expected default debounce, got %d", cfg.WatchDebounceMillis)
	}
	if cfg.MaxPreviewBytes != DefaultMaxPreviewBytes {
		t.Fatalf("expected default preview cap, got %d", cfg.MaxPreviewBytes)
	}
}

func TestNormalizeDirRejectsEmpty(t *testing.T) {
	if _, err := NormalizeDir("   "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestNormalizeDirExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := NormalizeDir("~/a/../b")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if want := filepath.Join(home, "b"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
