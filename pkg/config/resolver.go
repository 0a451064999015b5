package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvConfigPath is the environment variable that supplies a configuration
// file path when no explicit --config flag is given.
const EnvConfigPath = "MERIDIAN_CONFIG"

// EnvPrefix is the prefix for environment variable value overrides
// (MERIDIAN_LOGGING_LEVEL overrides logging.level, and so on).
const EnvPrefix = "MERIDIAN"

// Source is one candidate location for a configuration file.
type Source struct {
	// Path is the location of the candidate file.
	Path string

	// Origin describes where the candidate came from: "flag", "env",
	// "user" ($XDG_CONFIG_HOME) or "system" (/etc).
	Origin string
}

func (s Source) String() string {
	return fmt.Sprintf("%s (%s)", s.Path, s.Origin)
}

// explicit reports whether the user named this candidate directly (flag or
// environment) rather than it being a conventional default location.
func (s Source) explicit() bool {
	return s.Origin == "flag" || s.Origin == "env"
}

// CandidateSources returns the ordered list of configuration sources for a
// component, highest priority first:
//
//  1. The explicit path (--config flag), if any.
//  2. The MERIDIAN_CONFIG environment variable, if set.
//  3. $XDG_CONFIG_HOME/meridian/<component>.yaml (~/.config fallback).
//  4. /etc/meridian/<component>.yaml.
func CandidateSources(component, explicit string) []Source {
	var sources []Source
	if explicit != "" {
		sources = append(sources, Source{Path: explicit, Origin: "flag"})
	}
	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		sources = append(sources, Source{Path: envPath, Origin: "env"})
	}
	name := component + ".yaml"
	sources = append(sources,
		Source{Path: filepath.Join(userConfigDir(), name), Origin: "user"},
		Source{Path: filepath.Join("/etc/meridian", name), Origin: "system"},
	)
	return sources
}

// Resolve tries candidate sources in strict priority order and parses the
// first one that exists. A missing candidate falls through to the next; a
// parse failure on an existing candidate is fatal and does NOT fall through,
// so a user who points at a broken file sees that error rather than a silent
// fallback. The same no-fallback policy applies to a flag- or env-named
// candidate that cannot be stat'd or is a directory: the user pointed at
// that path, so they see that error. Only conventional default locations
// may be skipped on such conditions. Returns ErrNotFound when no candidate
// exists.
func Resolve(sources []Source) (*Document, Source, error) {
	for _, src := range sources {
		info, err := os.Stat(src.Path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if src.explicit() {
				return nil, src, fmt.Errorf("stat configuration file %s: %w", src.Path, err)
			}
			continue
		}
		if info.IsDir() {
			if src.explicit() {
				return nil, src, fmt.Errorf("configuration path %s is a directory", src.Path)
			}
			continue
		}
		doc, err := parseFile(src.Path)
		if err != nil {
			return nil, src, err
		}
		return doc, src, nil
	}
	return nil, Source{}, ErrNotFound
}

// parseFile reads one configuration file into an untyped document.
// Format is determined by extension (YAML, TOML or JSON).
func parseFile(path string) (*Document, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return FromMap(v.AllSettings()), nil
}

// EnvOverlay builds an override document from environment variables. Every
// leaf path of the given document is transformed to an environment variable
// name (MERIDIAN_ prefix, dots to underscores, uppercased); variables that
// are set contribute a scalar override at that path.
func EnvOverlay(doc *Document) *Document {
	overlay := &Document{kind: KindMapping, mapping: make(map[string]*Document)}
	for _, path := range doc.LeafPaths() {
		if value, ok := os.LookupEnv(envName(path)); ok {
			overlay.Set(path, Scalar(value))
		}
	}
	return overlay
}

func envName(path string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(path, ".", "_"))
}

// userConfigDir returns the per-user configuration directory,
// honoring XDG_CONFIG_HOME.
func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "meridian")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "meridian")
}

// DefaultConfigPath returns the conventional per-user configuration file
// path for a component (used by the init command).
func DefaultConfigPath(component string) string {
	return filepath.Join(userConfigDir(), component+".yaml")
}
