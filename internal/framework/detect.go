package framework

import (
	"regexp"
	"strings"

	"recoil/internal/metadata"
)

// System.Runtime reference versions shipped with specific .NET Core
// releases. The mapping is historical fact and must stay exact.
var systemRuntimeReleases = []struct {
	ref     metadata.Version
	release metadata.Version
}{
	{metadata.Version{Major: 4, Minor: 2, Build: 2}, metadata.Version{Major: 3, Minor: 1}},
	{metadata.Version{Major: 4, Minor: 2, Build: 1}, metadata.Version{Major: 3, Minor: 0}},
	{metadata.Version{Major: 4, Minor: 2, Build: 0}, metadata.Version{Major: 2, Minor: 0}},
}

// Path shapes the SDK and package tooling lay reference assemblies
// out in. Matched case-insensitively against the module's file path.
var (
	refAsmPattern    = regexp.MustCompile(`(?i)[/\\]Reference Assemblies[/\\]Microsoft[/\\]Framework[/\\]\.NETFramework[/\\]v(\d+(?:\.\d+)*)[/\\]`)
	sharedFxPattern  = regexp.MustCompile(`(?i)[/\\]shared[/\\]Microsoft\.NETCore\.App[/\\](\d+(?:\.\d+)*)`)
	packsPattern     = regexp.MustCompile(`(?i)[/\\]packs[/\\]Microsoft\.NETCore\.App\.Ref[/\\](\d+(?:\.\d+)*)`)
	nugetCorePattern = regexp.MustCompile(`(?i)[/\\]microsoft\.netcore\.app[/\\](\d+(?:\.\d+)*)`)
	nugetStdPattern  = regexp.MustCompile(`(?i)[/\\]netstandard\.library[/\\](\d+(?:\.\d+)*)`)
)

// Detect derives the target framework of a module. Resolution order,
// first match wins: the declared framework attribute, two hard-coded
// root-library names, the declared reference list, known install-path
// shapes, and finally the embedded runtime-version string. Detection
// never fails; an undetectable module yields Unknown.
func Detect(module metadata.Module, filePath string) Identity {
	if attr := module.TargetFrameworkAttribute(); attr != "" {
		if id := ParseMoniker(attr); id.IsKnown() {
			return id
		}
	}

	switch metadata.FoldName(module.Name()) {
	case metadata.FoldName(metadata.CorlibName):
		return Identity{Family: FamilyNETFramework, Version: module.Version()}
	case metadata.FoldName(metadata.NetStandardName):
		return Identity{Family: FamilyNETStandard, Version: module.Version()}
	}

	if id := detectFromReferences(module); id.IsKnown() {
		return id
	}
	if filePath != "" {
		if id := detectFromPath(filePath); id.IsKnown() {
			return id
		}
	}
	return detectFromRuntimeVersion(module)
}

func detectFromReferences(module metadata.Module) Identity {
	for _, ref := range module.References() {
		switch metadata.FoldName(ref.Name) {
		case metadata.FoldName(metadata.NetStandardName):
			return Identity{Family: FamilyNETStandard, Version: ref.Version}
		case metadata.FoldName(metadata.SystemRuntimeName):
			for _, m := range systemRuntimeReleases {
				if ref.Version == m.ref {
					return normalize(Identity{Family: FamilyNETCoreApp, Version: m.release})
				}
			}
		case metadata.FoldName(metadata.CorlibName):
			return Identity{Family: FamilyNETFramework, Version: ref.Version}
		}
	}
	return Unknown
}

func detectFromPath(path string) Identity {
	if m := refAsmPattern.FindStringSubmatch(path); m != nil {
		return pathIdentity(FamilyNETFramework, m[1])
	}
	if m := sharedFxPattern.FindStringSubmatch(path); m != nil {
		return pathIdentity(FamilyNETCoreApp, m[1])
	}
	if m := packsPattern.FindStringSubmatch(path); m != nil {
		return pathIdentity(FamilyNETCoreApp, m[1])
	}
	if m := nugetCorePattern.FindStringSubmatch(path); m != nil {
		return pathIdentity(FamilyNETCoreApp, m[1])
	}
	if m := nugetStdPattern.FindStringSubmatch(path); m != nil {
		return pathIdentity(FamilyNETStandard, m[1])
	}
	return Unknown
}

func pathIdentity(family Family, version string) Identity {
	v, err := metadata.ParseVersion(version)
	if err != nil {
		return Unknown
	}
	return normalize(Identity{Family: family, Version: v})
}

func detectFromRuntimeVersion(module metadata.Module) Identity {
	raw := strings.TrimPrefix(module.RuntimeVersion(), "v")
	if raw == "" {
		raw = "4.0"
	}
	// Only "major.minor" is trustworthy in the runtime string.
	if len(raw) > 3 {
		raw = raw[:3]
	}
	v, err := metadata.ParseVersion(raw)
	if err != nil {
		return Unknown
	}
	return Identity{Family: FamilyNETFramework, Version: v}
}
