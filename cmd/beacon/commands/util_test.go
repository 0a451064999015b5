package commands

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/meridian-sys/standalone/pkg/config"
)

func TestLoadConfig_NotFoundKeepsSentinel(t *testing.T) {
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	orig := cfgFile
	cfgFile = ""
	t.Cleanup(func() { cfgFile = orig })

	_, _, err := LoadConfig()
	if err == nil {
		t.Fatal("Expected error with no configuration anywhere")
	}
	if !errors.Is(err, config.ErrNotFound) {
		t.Errorf("Expected ErrNotFound preserved through the rewrap, got %v", err)
	}
	if !strings.Contains(err.Error(), "beacon init") {
		t.Errorf("Expected actionable hint in the message, got %q", err)
	}
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "beacon.yaml")
	if err := config.WriteSample(path, false); err != nil {
		t.Fatalf("WriteSample failed: %v", err)
	}

	orig := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = orig })

	cfg, src, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if src.Origin != "flag" {
		t.Errorf("Expected flag origin, got %s", src.Origin)
	}
	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected INFO from sample config, got %q", cfg.Logging.Level)
	}
}
