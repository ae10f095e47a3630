package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseLayersOverDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
log_level: debug
audit:
  ignore:
    - engines/legacy/
  include_private: true
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.LogLevel != "debug" || !cfg.Audit.IncludePrivate {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.WorkspaceMarkers, []string{".git", "Gemfile"}) {
		t.Fatalf("expected default markers, got %v", cfg.WorkspaceMarkers)
	}
	if !reflect.DeepEqual(cfg.Audit.Ignore, []string{"engines/legacy/"}) {
		t.Fatalf("unexpected ignore list %v", cfg.Audit.Ignore)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	if _, err := Parse([]byte("log_level: loud\n")); err == nil {
		t.Fatalf("expected unsupported log level error")
	}
	if _, err := Parse([]byte("workspace_markers: {")); err == nil {
		t.Fatalf("expected YAML error")
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("workspace_markers: [Gemfile]\n"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	nested := filepath.Join(root, "app", "controllers")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	cfg, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if cfg.Path != filepath.Join(root, FileName) {
		t.Fatalf("expected config from %s, got %q", root, cfg.Path)
	}
	if !reflect.DeepEqual(cfg.WorkspaceMarkers, []string{"Gemfile"}) {
		t.Fatalf("unexpected markers %v", cfg.WorkspaceMarkers)
	}
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("INFO")
	if err != nil || level != slog.LevelInfo {
		t.Fatalf("expected info level, got %v (%v)", level, err)
	}
	level, err = ParseLevel("")
	if err != nil || level != slog.LevelWarn {
		t.Fatalf("expected warn default, got %v (%v)", level, err)
	}
}
