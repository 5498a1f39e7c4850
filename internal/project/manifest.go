// Package project loads corec.toml, the manifest naming a package and
// the compilation units that make it up. There is no module graph here
// -- name resolution is flat per unit -- so the manifest's only job is
// telling the driver which source files belong to which unit and what
// each unit builds as.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const manifestFileName = "corec.toml"

// FindManifest walks up from startDir looking for corec.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestFileName)
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, true, nil
		} else if !errors.Is(statErr, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, statErr)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// UnitConfig is one [[unit]] table: a name, the files it's built from,
// and whether it links as an executable or exports a module's public
// surface.
type UnitConfig struct {
	Name  string   `toml:"name"`
	Files []string `toml:"files"`
	Kind  string   `toml:"kind"` // "executable" (default) or "modulepack"
}

type packageConfig struct {
	Name string `toml:"name"`
}

type buildConfig struct {
	Triple string `toml:"triple"`
	CPU    string `toml:"cpu"`
}

// Config is corec.toml's decoded shape.
type Config struct {
	Package packageConfig `toml:"package"`
	Build   buildConfig   `toml:"build"`
	Units   []UnitConfig  `toml:"unit"`
}

// Manifest pairs a decoded Config with the path it was loaded from, so
// relative file entries can be resolved against the manifest's
// directory rather than the process's working directory.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Load locates and parses corec.toml starting from startDir.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if len(cfg.Units) == 0 {
		return Config{}, fmt.Errorf("%s: at least one [[unit]] is required", path)
	}
	for _, u := range cfg.Units {
		if strings.TrimSpace(u.Name) == "" {
			return Config{}, fmt.Errorf("%s: unit with no name", path)
		}
		if len(u.Files) == 0 {
			return Config{}, fmt.Errorf("%s: unit %q has no files", path, u.Name)
		}
	}
	return cfg, nil
}

// UnitFiles resolves a UnitConfig's file globs against the manifest
// root, returning the absolute paths to compile for that unit.
func (m *Manifest) UnitFiles(u UnitConfig) ([]string, error) {
	var out []string
	for _, pattern := range u.Files {
		matches, err := filepath.Glob(filepath.Join(m.Root, filepath.FromSlash(pattern)))
		if err != nil {
			return nil, fmt.Errorf("%s: bad glob %q: %w", m.Path, pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%s: unit %q pattern %q matched no files", m.Path, u.Name, pattern)
		}
		out = append(out, matches...)
	}
	return out, nil
}
