package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"recoil/internal/driver"
	"recoil/internal/framework"
	"recoil/internal/metadata"
	"recoil/internal/metaload"
	"recoil/internal/project"
	"recoil/internal/resolver"
)

// hostEnvironment derives the resolver environment from the Go host.
// A Go process has no hosting CLR; the runtime base directory stays
// empty unless the project config points somewhere.
func hostEnvironment() metadata.Environment {
	env := metadata.Environment{Personality: metadata.PersonalityCoreCLR}
	switch runtime.GOOS {
	case "windows":
		env.OS = metadata.OSWindows
	case "darwin":
		env.OS = metadata.OSMac
	case "linux":
		env.OS = metadata.OSLinux
	default:
		env.OS = metadata.OSOther
	}
	return env
}

// loadMain loads the main module plus its body hints and project
// config, and constructs the cached resolution probe for it.
func loadMain(cmd *cobra.Command, modulePath string) (*metadata.StaticModule, map[metadata.MethodHandle]metaload.BodyHints, *driver.CachedFinder, framework.Identity, project.Config, error) {
	abs, err := filepath.Abs(modulePath)
	if err != nil {
		return nil, nil, nil, framework.Unknown, project.Config{}, err
	}
	module, hints, err := metaload.LoadWithHints(abs)
	if err != nil {
		return nil, nil, nil, framework.Unknown, project.Config{}, fmt.Errorf("failed to load module: %w", err)
	}

	cfg, err := project.LoadNearest(filepath.Dir(abs))
	if err != nil {
		return nil, nil, nil, framework.Unknown, project.Config{}, err
	}

	tf := framework.Detect(module, abs)
	res := resolver.New(abs, tf, hostEnvironment(), resolver.Options{
		Strict:            cfg.Resolver.Strict,
		SearchDirectories: cfg.Resolver.SearchDirectories,
		GacPrefixes:       cfg.Resolver.GacPrefixes,
	})

	// The cache key mirrors the resolver's effective search
	// configuration, main-module directory included. An unusable cache
	// directory only disables memoization.
	searchDirs := append(append([]string(nil), cfg.Resolver.SearchDirectories...), filepath.Dir(abs))
	cache, cacheErr := driver.OpenResolutionCache("recoil")
	if cacheErr != nil {
		cache = nil
	}
	return module, hints, driver.NewCachedFinder(res, cache, searchDirs), tf, cfg, nil
}

// useColor resolves the tri-state --color flag against the terminal.
func useColor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(f))
}

func persistentInt(cmd *cobra.Command, name string) (int, error) {
	v, err := cmd.Root().PersistentFlags().GetInt(name)
	if err != nil {
		return 0, fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	return v, nil
}

func persistentBool(cmd *cobra.Command, name string) (bool, error) {
	v, err := cmd.Root().PersistentFlags().GetBool(name)
	if err != nil {
		return false, fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	return v, nil
}
