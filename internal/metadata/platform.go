package metadata

// OSPlatform is the operating system the tool runs on, as far as the
// resolver's platform-specific probing cares.
type OSPlatform uint8

const (
	OSWindows OSPlatform = iota
	OSLinux
	OSMac
	OSOther
)

// RuntimePersonality is the flavor of runtime hosting the tool.
// It is computed once by the host and passed in explicitly so that
// cross-platform resolver behavior stays deterministic under test.
type RuntimePersonality uint8

const (
	// PersonalityCoreCLR covers .NET (Core) and the classic desktop CLR.
	PersonalityCoreCLR RuntimePersonality = iota
	// PersonalityMono covers Mono and its derived runtimes.
	PersonalityMono
)

// Environment bundles the host facts the resolver branches on.
type Environment struct {
	OS          OSPlatform
	Personality RuntimePersonality
	// RuntimeBaseDir is the directory of the running runtime's own
	// standard library (the directory corlib would be loaded from).
	RuntimeBaseDir string
	// RuntimeCorlibVersion is the version of the running runtime's
	// own corlib, used to prefer it when the requested version matches.
	RuntimeCorlibVersion Version
}
