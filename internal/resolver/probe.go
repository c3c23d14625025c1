package resolver

import (
	"os"
	"path/filepath"
	"sort"

	"recoil/internal/metadata"
)

// Extension priority per content type. First hit wins, so ordering is
// observable behavior.
var (
	runtimeExtensions = []string{".exe", ".dll"}
	winmdExtensions   = []string{".winmd", ".dll"}
)

func extensionsFor(ref metadata.AssemblyNameReference) []string {
	if ref.IsWindowsRuntime() {
		return winmdExtensions
	}
	return runtimeExtensions
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// probeDirectory tries <dir>/<name>.<ext> for each extension in
// priority order and returns the first existing regular file.
func probeDirectory(dir string, ref metadata.AssemblyNameReference) (string, bool) {
	for _, ext := range extensionsFor(ref) {
		candidate := filepath.Join(dir, ref.Name+ext)
		if isFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// closestVersionDirectory picks among sibling directories whose names
// parse as versions: the lowest version >= requested, else the highest
// available, else the literal requested-version string.
func closestVersionDirectory(root string, requested metadata.Version) string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return requested.String()
	}
	type parsed struct {
		name    string
		version metadata.Version
	}
	var candidates []parsed
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		v, err := metadata.ParseVersion(e.Name())
		if err != nil {
			continue
		}
		candidates = append(candidates, parsed{name: e.Name(), version: v})
	}
	if len(candidates) == 0 {
		return requested.String()
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].version.Compare(candidates[j].version) < 0
	})
	for _, c := range candidates {
		if c.version.Compare(requested) >= 0 {
			return c.name
		}
	}
	return candidates[len(candidates)-1].name
}
