package resolver

import (
	"path/filepath"

	"recoil/internal/metadata"
)

// searchSilverlight probes the Silverlight runtime install roots.
// They exist on Windows only; elsewhere this is a plain miss and the
// generic chain takes over.
func (r *Resolver) searchSilverlight(ref metadata.AssemblyNameReference) Outcome {
	if r.env.OS != metadata.OSWindows {
		return Miss()
	}
	roots := []string{
		`C:\Program Files\Microsoft Silverlight`,
		`C:\Program Files (x86)\Microsoft Silverlight`,
	}
	for _, root := range roots {
		folder := closestVersionDirectory(root, r.targetFramework.Version)
		if path, ok := probeDirectory(filepath.Join(root, folder), ref); ok {
			return Found(path)
		}
	}
	return Miss()
}
