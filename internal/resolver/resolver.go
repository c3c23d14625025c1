package resolver

import (
	"path/filepath"
	"sync"

	"recoil/internal/framework"
	"recoil/internal/metadata"
)

// Options configures a Resolver.
type Options struct {
	// Strict makes unresolvable references and unsupported runtime
	// versions return errors from Resolve; otherwise they yield "".
	Strict bool
	// SearchDirectories seeds the user-registered directory list.
	SearchDirectories []string
	// DotNetFinder constructs the modern-runtime path finder lazily on
	// first use. Nil disables that strategy.
	DotNetFinder DotNetFinderFactory
	// WindowsRoot overrides the Windows directory used for classic
	// framework and GAC roots. Defaults to C:\Windows.
	WindowsRoot string
	// GacPrefixes overrides the Mono GAC prefix list normally taken
	// from the process environment.
	GacPrefixes []string
}

// Resolver locates the file behind a symbolic assembly reference.
// Safe for concurrent use; the mutable search-directory list and the
// lazily constructed dotnet finder are guarded by one lock.
type Resolver struct {
	mu sync.Mutex

	mainModulePath  string
	targetFramework framework.Identity
	env             metadata.Environment
	strict          bool
	windowsRoot     string
	gacPrefixes     []string

	searchDirs []string
	dotnet     dotnetFinderState
}

// New constructs a resolver for one main module. The environment is
// passed in explicitly; the resolver performs no global runtime
// detection of its own.
func New(mainModulePath string, tf framework.Identity, env metadata.Environment, opts Options) *Resolver {
	windowsRoot := opts.WindowsRoot
	if windowsRoot == "" {
		windowsRoot = `C:\Windows`
	}
	r := &Resolver{
		mainModulePath:  mainModulePath,
		targetFramework: tf,
		env:             env,
		strict:          opts.Strict,
		windowsRoot:     windowsRoot,
		gacPrefixes:     opts.GacPrefixes,
		searchDirs:      append([]string(nil), opts.SearchDirectories...),
		dotnet:          dotnetFinderState{factory: opts.DotNetFinder},
	}
	if mainModulePath != "" {
		r.searchDirs = append(r.searchDirs, filepath.Dir(mainModulePath))
	}
	return r
}

// AddSearchDirectory registers a directory consulted before any
// platform-specific strategy. Takes effect for later resolutions and
// propagates into the dotnet finder if it already exists.
func (r *Resolver) AddSearchDirectory(dir string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searchDirs = append(r.searchDirs, dir)
	r.dotnet.addDirectory(dir)
}

// RemoveSearchDirectory removes a previously registered directory.
func (r *Resolver) RemoveSearchDirectory(dir string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, d := range r.searchDirs {
		if d == dir {
			r.searchDirs = append(r.searchDirs[:i], r.searchDirs[i+1:]...)
			break
		}
	}
	r.dotnet.removeDirectory(dir)
}

// Resolve returns the absolute file path for a reference. In strict
// mode an unresolvable reference is a *ResolveError; otherwise "" with
// a nil error means "not found".
func (r *Resolver) Resolve(ref metadata.AssemblyNameReference) (string, error) {
	out := r.run(ref)
	switch out.Kind {
	case OutcomeFound:
		return out.Path, nil
	case OutcomeFatal:
		if r.strict {
			return "", out.Err
		}
		return "", nil
	default:
		if r.strict {
			return "", &ResolveError{Reference: ref}
		}
		return "", nil
	}
}

// FindFile is the non-throwing probe: it reports absence as ok=false
// regardless of strict mode.
func (r *Resolver) FindFile(ref metadata.AssemblyNameReference) (string, bool) {
	out := r.run(ref)
	return out.Path, out.Kind == OutcomeFound
}

// strategy is one step of an ordered resolution chain.
type strategy func(ref metadata.AssemblyNameReference) Outcome

// run dispatches on the target framework and walks the applicable
// strategy chain, first decisive outcome wins.
func (r *Resolver) run(ref metadata.AssemblyNameReference) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	var chain []strategy
	switch {
	case ref.IsWindowsRuntime():
		// Windows Runtime metadata lives outside any framework layout.
		chain = []strategy{r.searchUserDirs, r.searchWindowsMetadata}
	case r.modernFramework() && r.targetFramework.HasSpecificVersion():
		chain = append([]strategy{r.searchDotNetFinder}, r.genericChain()...)
	case r.targetFramework.Family == framework.FamilySilverlight && r.targetFramework.HasSpecificVersion():
		chain = append([]strategy{r.searchSilverlight}, r.genericChain()...)
	default:
		chain = r.genericChain()
	}

	for _, step := range chain {
		if out := step(ref); out.Kind != OutcomeMiss {
			return out
		}
	}
	return Miss()
}

func (r *Resolver) modernFramework() bool {
	switch r.targetFramework.Family {
	case framework.FamilyNET, framework.FamilyNETCoreApp, framework.FamilyNETStandard:
		return true
	default:
		return false
	}
}

// genericChain is the fallback strategy order every resolution
// eventually reaches. The final framework-directory pass repeats step
// two for non-special references; the repetition is deliberate and
// observably idempotent.
func (r *Resolver) genericChain() []strategy {
	return []strategy{
		r.searchUserDirs,
		r.searchFrameworkDirsIfSpecial,
		r.searchCorlib,
		r.searchGac,
		r.searchFrameworkDirs,
	}
}

func (r *Resolver) searchUserDirs(ref metadata.AssemblyNameReference) Outcome {
	for _, dir := range r.searchDirs {
		if path, ok := probeDirectory(dir, ref); ok {
			return Found(path)
		}
	}
	return Miss()
}

func (r *Resolver) searchFrameworkDirsIfSpecial(ref metadata.AssemblyNameReference) Outcome {
	if !ref.IsSpecialVersionOrRetargetable() {
		return Miss()
	}
	return r.searchFrameworkDirs(ref)
}

// searchFrameworkDirs probes the running platform's base library
// directories, plus the Facades subdirectory on a Mono personality
// where contract assemblies live beside the profile.
func (r *Resolver) searchFrameworkDirs(ref metadata.AssemblyNameReference) Outcome {
	if r.env.RuntimeBaseDir == "" {
		return Miss()
	}
	dirs := []string{r.env.RuntimeBaseDir}
	if r.env.Personality == metadata.PersonalityMono {
		dirs = append(dirs, filepath.Join(r.env.RuntimeBaseDir, "Facades"))
	}
	for _, dir := range dirs {
		if path, ok := probeDirectory(dir, ref); ok {
			return Found(path)
		}
	}
	return Miss()
}

func (r *Resolver) searchDotNetFinder(ref metadata.AssemblyNameReference) Outcome {
	finder := r.dotnet.get(DotNetFinderConfig{
		MainModulePath:  r.mainModulePath,
		TargetFramework: r.targetFramework.String(),
		TargetVersion:   r.targetFramework.Version,
	})
	if finder == nil {
		return Miss()
	}
	if path, ok := finder.TryResolve(ref); ok {
		return Found(path)
	}
	return Miss()
}

func (r *Resolver) searchWindowsMetadata(ref metadata.AssemblyNameReference) Outcome {
	if r.env.OS != metadata.OSWindows {
		return Miss()
	}
	dir := filepath.Join(r.windowsRoot, "System32", "WinMetadata")
	if path, ok := probeDirectory(dir, ref); ok {
		return Found(path)
	}
	return Miss()
}
