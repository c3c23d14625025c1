package resolver

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"recoil/internal/metadata"
)

// MonoGacPrefixEnv lists extra Mono installation prefixes; each is
// probed at <prefix>/lib/mono/gac. Separator follows the platform
// path-list convention.
const MonoGacPrefixEnv = "MONO_GAC_PREFIX"

func hexToken(token []byte) string {
	return hex.EncodeToString(token)
}

// searchGac looks the reference up in the global assembly cache.
// References without a public key token never match a GAC entry.
func (r *Resolver) searchGac(ref metadata.AssemblyNameReference) Outcome {
	if !ref.HasPublicKey() {
		return Miss()
	}
	if r.env.Personality == metadata.PersonalityMono {
		return r.searchMonoGac(ref)
	}
	return r.searchNetGac(ref)
}

// monoGacRoots discovers GAC roots: the gac directory beside the
// running runtime's profile, then one per configured prefix.
func (r *Resolver) monoGacRoots() []string {
	var roots []string
	if r.env.RuntimeBaseDir != "" {
		roots = append(roots, filepath.Join(filepath.Dir(r.env.RuntimeBaseDir), "gac"))
	}
	prefixes := r.gacPrefixes
	if prefixes == nil {
		if env := os.Getenv(MonoGacPrefixEnv); env != "" {
			prefixes = strings.Split(env, string(os.PathListSeparator))
		}
	}
	for _, prefix := range prefixes {
		if prefix == "" {
			continue
		}
		roots = append(roots, filepath.Join(prefix, "lib", "mono", "gac"))
	}
	return roots
}

func (r *Resolver) searchMonoGac(ref metadata.AssemblyNameReference) Outcome {
	folder := ref.Version.String() + "__" + hexToken(ref.PublicKeyToken)
	for _, gac := range r.monoGacRoots() {
		candidate := filepath.Join(gac, ref.Name, folder, ref.Name+".dll")
		if isFile(candidate) {
			return Found(candidate)
		}
	}
	return Miss()
}

// searchNetGac probes both classic GAC roots. Entries under the 4.0+
// root carry a "v4.0_" prefix on the version folder; the old root
// carries none.
func (r *Resolver) searchNetGac(ref metadata.AssemblyNameReference) Outcome {
	roots := []string{
		filepath.Join(r.windowsRoot, "assembly"),
		filepath.Join(r.windowsRoot, "Microsoft.NET", "assembly"),
	}
	prefixes := []string{"", "v4.0_"}
	kinds := []string{"GAC_MSIL", "GAC_32", "GAC_64", "GAC"}

	for i, root := range roots {
		for _, kind := range kinds {
			folder := prefixes[i] + ref.Version.String() + "__" + hexToken(ref.PublicKeyToken)
			candidate := filepath.Join(root, kind, ref.Name, folder, ref.Name+".dll")
			if isFile(candidate) {
				return Found(candidate)
			}
		}
	}
	return Miss()
}
