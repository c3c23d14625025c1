package resolver

import (
	"recoil/internal/metadata"
)

// DotNetCorePathFinder knows how to locate assemblies in the modern
// dotnet layout: shared-framework directories next to an application
// and NuGet reference packs. It is an external collaborator; the
// resolver only sequences it ahead of the generic strategy.
type DotNetCorePathFinder interface {
	TryResolve(ref metadata.AssemblyNameReference) (string, bool)
	AddSearchDirectory(dir string)
	RemoveSearchDirectory(dir string)
}

// DotNetFinderConfig is everything a finder implementation needs at
// construction time.
type DotNetFinderConfig struct {
	MainModulePath    string
	TargetFramework   string
	TargetVersion     metadata.Version
	SearchDirectories []string
}

// DotNetFinderFactory constructs a finder on first use.
type DotNetFinderFactory func(cfg DotNetFinderConfig) DotNetCorePathFinder

// dotnetFinderState is the two-phase lazy holder for the path finder:
// before first use it only accumulates search directories; after the
// transition, directory mutations are forwarded to the live finder as
// well. Callers must hold the resolver lock.
type dotnetFinderState struct {
	factory DotNetFinderFactory
	finder  DotNetCorePathFinder
	pending []string
}

func (s *dotnetFinderState) addDirectory(dir string) {
	s.pending = append(s.pending, dir)
	if s.finder != nil {
		s.finder.AddSearchDirectory(dir)
	}
}

func (s *dotnetFinderState) removeDirectory(dir string) {
	for i, d := range s.pending {
		if d == dir {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			break
		}
	}
	if s.finder != nil {
		s.finder.RemoveSearchDirectory(dir)
	}
}

// get materializes the finder on first use. Returns nil when no
// factory was configured.
func (s *dotnetFinderState) get(cfg DotNetFinderConfig) DotNetCorePathFinder {
	if s.finder != nil || s.factory == nil {
		return s.finder
	}
	cfg.SearchDirectories = append([]string(nil), s.pending...)
	s.finder = s.factory(cfg)
	return s.finder
}
