// Package project loads recoil.toml, the optional per-project
// configuration for resolution and decompilation.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"recoil/internal/typesys"
)

// Config is the parsed recoil.toml.
type Config struct {
	Decompiler DecompilerConfig `toml:"decompiler"`
	Resolver   ResolverConfig   `toml:"resolver"`
	TypeSystem TypeSystemConfig `toml:"typesystem"`
}

// DecompilerConfig controls the per-method pipeline.
type DecompilerConfig struct {
	DefinitionsOnly bool `toml:"definitions_only"`
	DebugSymbols    bool `toml:"debug_symbols"`
	Jobs            int  `toml:"jobs"`
	MaxDiagnostics  int  `toml:"max_diagnostics"`
}

// ResolverConfig controls reference resolution.
type ResolverConfig struct {
	Strict            bool     `toml:"strict"`
	SearchDirectories []string `toml:"search_directories"`
	GacPrefixes       []string `toml:"gac_prefixes"`
}

// TypeSystemConfig maps onto the type-system option bit set.
type TypeSystemConfig struct {
	Dynamic          *bool `toml:"dynamic"`
	Tuples           *bool `toml:"tuples"`
	ExtensionMethods *bool `toml:"extension_methods"`
	ExcludeNonPublic bool  `toml:"exclude_non_public"`
	Uncached         bool  `toml:"uncached"`
}

// Options folds the config into the option bit set, defaulting the
// promotions on.
func (c TypeSystemConfig) Options() typesys.Options {
	opts := typesys.Options(0)
	set := func(ptr *bool, flag typesys.Options) {
		if ptr == nil || *ptr {
			opts |= flag
		}
	}
	set(c.Dynamic, typesys.OptDynamic)
	set(c.Tuples, typesys.OptTuple)
	set(c.ExtensionMethods, typesys.OptExtensionMethods)
	if c.ExcludeNonPublic {
		opts |= typesys.OptExcludeNonPublic
	}
	if c.Uncached {
		opts |= typesys.OptUncached
	}
	return opts
}

// DefaultConfig is what an absent or empty recoil.toml means.
func DefaultConfig() Config {
	return Config{
		Decompiler: DecompilerConfig{MaxDiagnostics: 100},
	}
}

// FindRecoilToml walks up from startDir to locate recoil.toml.
func FindRecoilToml(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "recoil.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadConfig parses a recoil.toml. Search directories are resolved
// relative to the config file's own directory.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if cfg.Decompiler.MaxDiagnostics <= 0 {
		cfg.Decompiler.MaxDiagnostics = 100
	}
	base := filepath.Dir(path)
	for i, dir := range cfg.Resolver.SearchDirectories {
		if !filepath.IsAbs(dir) {
			cfg.Resolver.SearchDirectories[i] = filepath.Join(base, dir)
		}
	}
	return cfg, nil
}

// LoadNearest finds and loads the closest recoil.toml above startDir,
// falling back to defaults when none exists.
func LoadNearest(startDir string) (Config, error) {
	path, ok, err := FindRecoilToml(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}
