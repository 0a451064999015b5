package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestCandidateSources_Order(t *testing.T) {
	t.Setenv(EnvConfigPath, "/from/env.yaml")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	sources := CandidateSources("beacon", "/from/flag.yaml")
	want := []Source{
		{Path: "/from/flag.yaml", Origin: "flag"},
		{Path: "/from/env.yaml", Origin: "env"},
		{Path: "/xdg/meridian/beacon.yaml", Origin: "user"},
		{Path: "/etc/meridian/beacon.yaml", Origin: "system"},
	}

	if len(sources) != len(want) {
		t.Fatalf("Expected %d sources, got %d: %v", len(want), len(sources), sources)
	}
	for i := range want {
		if sources[i] != want[i] {
			t.Errorf("Source[%d] = %v, want %v", i, sources[i], want[i])
		}
	}
}

func TestCandidateSources_NoFlagNoEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	sources := CandidateSources("beacon", "")
	if len(sources) != 2 {
		t.Fatalf("Expected 2 sources, got %d: %v", len(sources), sources)
	}
	if sources[0].Origin != "user" || sources[1].Origin != "system" {
		t.Errorf("Expected user then system, got %v", sources)
	}
}

func TestResolve_FirstExistingWins(t *testing.T) {
	tmpDir := t.TempDir()
	first := filepath.Join(tmpDir, "first.yaml")
	second := filepath.Join(tmpDir, "second.yaml")
	writeFile(t, first, "logging:\n  level: DEBUG\n")
	writeFile(t, second, "logging:\n  level: ERROR\n")

	doc, src, err := Resolve([]Source{
		{Path: first, Origin: "flag"},
		{Path: second, Origin: "env"},
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if src.Path != first {
		t.Errorf("Expected first source selected, got %s", src.Path)
	}
	if got := doc.Get("logging.level").Interface(); got != "DEBUG" {
		t.Errorf("Expected DEBUG from first file, got %v", got)
	}
}

func TestResolve_MissingFallsThrough(t *testing.T) {
	tmpDir := t.TempDir()
	missing := filepath.Join(tmpDir, "missing.yaml")
	present := filepath.Join(tmpDir, "present.yaml")
	writeFile(t, present, "logging:\n  level: WARN\n")

	doc, src, err := Resolve([]Source{
		{Path: missing, Origin: "flag"},
		{Path: present, Origin: "user"},
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if src.Path != present {
		t.Errorf("Expected fallthrough to present file, got %s", src.Path)
	}
	if got := doc.Get("logging.level").Interface(); got != "WARN" {
		t.Errorf("Expected WARN, got %v", got)
	}
}

func TestResolve_BrokenFileIsFatal(t *testing.T) {
	// A parse failure on an existing candidate must NOT fall through to a
	// lower-priority file; the user pointed at this file, so they see the
	// parse error.
	tmpDir := t.TempDir()
	broken := filepath.Join(tmpDir, "broken.yaml")
	valid := filepath.Join(tmpDir, "valid.yaml")
	writeFile(t, broken, "logging: [unclosed\n")
	writeFile(t, valid, "logging:\n  level: INFO\n")

	_, src, err := Resolve([]Source{
		{Path: broken, Origin: "flag"},
		{Path: valid, Origin: "user"},
	})
	if err == nil {
		t.Fatal("Expected parse error, got nil")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Expected ParseError, got %T: %v", err, err)
	}
	if parseErr.Path != broken {
		t.Errorf("Expected error to name the broken file, got %s", parseErr.Path)
	}
	if src.Path != broken {
		t.Errorf("Expected source to be the broken candidate, got %s", src.Path)
	}
}

func TestResolve_ExplicitDirectoryIsFatal(t *testing.T) {
	// Pointing --config at a directory is the user's mistake; it must be
	// reported, never skipped in favor of a lower-priority file.
	tmpDir := t.TempDir()
	valid := filepath.Join(tmpDir, "valid.yaml")
	writeFile(t, valid, "logging:\n  level: INFO\n")

	_, src, err := Resolve([]Source{
		{Path: tmpDir, Origin: "flag"},
		{Path: valid, Origin: "user"},
	})
	if err == nil {
		t.Fatal("Expected error for directory candidate, got nil")
	}
	if src.Path != tmpDir {
		t.Errorf("Expected error attributed to the directory candidate, got %s", src.Path)
	}
}

func TestResolve_ExplicitStatErrorIsFatal(t *testing.T) {
	// A path under a regular file stats with ENOTDIR, not ENOENT; for a
	// flag-named candidate that must surface rather than fall through.
	tmpDir := t.TempDir()
	plain := filepath.Join(tmpDir, "plain.yaml")
	valid := filepath.Join(tmpDir, "valid.yaml")
	writeFile(t, plain, "logging:\n  level: INFO\n")
	writeFile(t, valid, "logging:\n  level: INFO\n")

	_, src, err := Resolve([]Source{
		{Path: filepath.Join(plain, "nested.yaml"), Origin: "flag"},
		{Path: valid, Origin: "user"},
	})
	if err == nil {
		t.Fatal("Expected stat error for explicit candidate, got nil")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected a stat error, got ErrNotFound: %v", err)
	}
	if src.Origin != "flag" {
		t.Errorf("Expected error attributed to the flag candidate, got %v", src)
	}
}

func TestResolve_ConventionalDirectorySkipped(t *testing.T) {
	// Default locations keep the lenient behavior: an odd conventional
	// candidate falls through to the next source.
	tmpDir := t.TempDir()
	plain := filepath.Join(tmpDir, "plain.yaml")
	valid := filepath.Join(tmpDir, "valid.yaml")
	writeFile(t, plain, "logging:\n  level: INFO\n")
	writeFile(t, valid, "logging:\n  level: ERROR\n")

	doc, src, err := Resolve([]Source{
		{Path: tmpDir, Origin: "user"},
		{Path: filepath.Join(plain, "nested.yaml"), Origin: "user"},
		{Path: valid, Origin: "system"},
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if src.Path != valid {
		t.Errorf("Expected fallthrough past odd conventional candidates, got %s", src.Path)
	}
	if got := doc.Get("logging.level").Interface(); got != "ERROR" {
		t.Errorf("Expected ERROR, got %v", got)
	}
}

func TestResolve_NoneExists(t *testing.T) {
	tmpDir := t.TempDir()
	_, _, err := Resolve([]Source{
		{Path: filepath.Join(tmpDir, "a.yaml"), Origin: "flag"},
		{Path: filepath.Join(tmpDir, "b.yaml"), Origin: "user"},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestEnvOverlay(t *testing.T) {
	doc := FromMap(map[string]any{
		"logging": map[string]any{
			"level":  "INFO",
			"format": "text",
		},
		"shutdown_timeout": "30s",
	})

	t.Setenv("MERIDIAN_LOGGING_LEVEL", "DEBUG")
	t.Setenv("MERIDIAN_SHUTDOWN_TIMEOUT", "5s")

	overlay := EnvOverlay(doc)

	if got := overlay.Get("logging.level").Interface(); got != "DEBUG" {
		t.Errorf("Expected env override for logging.level, got %v", got)
	}
	if got := overlay.Get("shutdown_timeout").Interface(); got != "5s" {
		t.Errorf("Expected env override for shutdown_timeout, got %v", got)
	}
	if overlay.Get("logging.format") != nil {
		t.Errorf("Expected no overlay entry for unset variable")
	}
}

func TestEnvName(t *testing.T) {
	cases := map[string]string{
		"logging.level":              "MERIDIAN_LOGGING_LEVEL",
		"shutdown_timeout":           "MERIDIAN_SHUTDOWN_TIMEOUT",
		"telemetry.profiling.enabled": "MERIDIAN_TELEMETRY_PROFILING_ENABLED",
	}
	for path, want := range cases {
		if got := envName(path); got != want {
			t.Errorf("envName(%q) = %q, want %q", path, got, want)
		}
	}
}
