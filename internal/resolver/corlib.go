package resolver

import (
	"path/filepath"

	"recoil/internal/metadata"
)

// Public key token of the Compact Framework build of the standard
// library; it installs under its own directory tree.
const compactFrameworkToken = "969db8053d3322ac"

// searchCorlib handles references to the classic standard-library
// module, whose install location is keyed by runtime version rather
// than probed generically.
func (r *Resolver) searchCorlib(ref metadata.AssemblyNameReference) Outcome {
	if metadata.FoldName(ref.Name) != metadata.FoldName(metadata.CorlibName) {
		return Miss()
	}
	if r.env.Personality == metadata.PersonalityMono {
		return r.searchMonoCorlib(ref)
	}

	// Prefer the running runtime's own copy when it satisfies the
	// request.
	if r.env.RuntimeBaseDir != "" {
		if ref.IsSpecialVersionOrRetargetable() || ref.Version == r.env.RuntimeCorlibVersion {
			if path, ok := probeDirectory(r.env.RuntimeBaseDir, ref); ok {
				return Found(path)
			}
		}
	}

	if hexToken(ref.PublicKeyToken) == compactFrameworkToken {
		dir := filepath.Join(r.windowsRoot, "Microsoft.NET", "CompactFramework",
			"v"+ref.Version.String())
		if path, ok := probeDirectory(dir, ref); ok {
			return Found(path)
		}
		return Miss()
	}

	folder, supported := corlibFolder(ref.Version)
	if !supported {
		return Fatal(&UnsupportedVersionError{Version: ref.Version})
	}
	for _, root := range []string{"Framework", "Framework64"} {
		dir := filepath.Join(r.windowsRoot, "Microsoft.NET", root, folder)
		if path, ok := probeDirectory(dir, ref); ok {
			return Found(path)
		}
	}
	return Miss()
}

// corlibFolder maps a corlib version to its versioned install folder.
// The 1.x split is keyed by the revision stamp of the 1.0 servicing
// release.
func corlibFolder(v metadata.Version) (string, bool) {
	switch v.Major {
	case 1:
		if v.Revision == 3300 {
			return "v1.0.3705", true
		}
		return "v1.1.4322", true
	case 2:
		return "v2.0.50727", true
	case 4:
		return "v4.0.30319", true
	default:
		return "", false
	}
}

// searchMonoCorlib probes the profile directories Mono lays out as
// siblings of the running runtime's own base directory.
func (r *Resolver) searchMonoCorlib(ref metadata.AssemblyNameReference) Outcome {
	if r.env.RuntimeBaseDir == "" {
		return Miss()
	}
	var profile string
	switch ref.Version.Major {
	case 1:
		profile = "1.0"
	case 2:
		if ref.Version.Revision == 5 {
			profile = "2.1"
		} else {
			profile = "2.0"
		}
	case 4:
		profile = "4.0"
	default:
		return Fatal(&UnsupportedVersionError{Version: ref.Version})
	}
	dir := filepath.Join(filepath.Dir(r.env.RuntimeBaseDir), profile)
	if path, ok := probeDirectory(dir, ref); ok {
		return Found(path)
	}
	return Miss()
}
