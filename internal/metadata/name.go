package metadata

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// ContentType distinguishes regular assemblies from Windows Runtime
// metadata components, which live in .winmd files.
type ContentType uint8

const (
	ContentDefault ContentType = iota
	ContentWindowsRuntime
)

// AssemblyNameReference is the symbolic identity of a dependency:
// where a module reference points, independent of where the file lives.
type AssemblyNameReference struct {
	Name           string
	Version        Version
	PublicKeyToken []byte
	Culture        string
	Retargetable   bool
	ContentType    ContentType
}

// nameFolder performs Unicode case folding for culture-invariant
// assembly-name comparison.
var nameFolder = cases.Fold()

// FoldName normalizes an assembly name for identity comparison.
func FoldName(name string) string {
	return nameFolder.String(name)
}

// IsSpecialVersionOrRetargetable reports whether version matching is
// relaxed to "any": an all-zero or all-0xFFFF version, or a reference
// explicitly marked retargetable.
func (r AssemblyNameReference) IsSpecialVersionOrRetargetable() bool {
	return r.Retargetable || r.Version.IsZero() || r.Version.IsUnspecified()
}

// HasPublicKey reports whether the reference carries a public key token.
// References without one never match entries in a global assembly cache.
func (r AssemblyNameReference) HasPublicKey() bool {
	return len(r.PublicKeyToken) > 0
}

// IsWindowsRuntime reports whether the reference targets Windows
// Runtime metadata rather than a regular assembly.
func (r AssemblyNameReference) IsWindowsRuntime() bool {
	return r.ContentType == ContentWindowsRuntime
}

// IdentityKey returns a stable key used to deduplicate references that
// denote the same physical module. Name comparison is case-folded;
// a special version collapses to "*" so differently versioned mentions
// of a retargetable reference coincide.
func (r AssemblyNameReference) IdentityKey() string {
	version := "*"
	if !r.IsSpecialVersionOrRetargetable() {
		version = r.Version.String()
	}
	return FoldName(r.Name) + "/" + version + "/" + hex.EncodeToString(r.PublicKeyToken)
}

// FullName renders the canonical display name, e.g.
// "System.Core, Version=4.0.0.0, Culture=neutral, PublicKeyToken=b77a5c561934e089".
func (r AssemblyNameReference) FullName() string {
	var b strings.Builder
	b.WriteString(r.Name)
	b.WriteString(", Version=")
	b.WriteString(r.Version.String())
	b.WriteString(", Culture=")
	if r.Culture == "" {
		b.WriteString("neutral")
	} else {
		b.WriteString(r.Culture)
	}
	b.WriteString(", PublicKeyToken=")
	if len(r.PublicKeyToken) == 0 {
		b.WriteString("null")
	} else {
		b.WriteString(hex.EncodeToString(r.PublicKeyToken))
	}
	if r.Retargetable {
		b.WriteString(", Retargetable=Yes")
	}
	return b.String()
}

// ParseFullName parses a display name produced by FullName. Unknown
// properties are ignored so names emitted by other tools still parse.
func ParseFullName(s string) (AssemblyNameReference, error) {
	parts := strings.Split(s, ",")
	if len(parts) == 0 || strings.TrimSpace(parts[0]) == "" {
		return AssemblyNameReference{}, fmt.Errorf("invalid assembly name %q", s)
	}
	ref := AssemblyNameReference{Name: strings.TrimSpace(parts[0])}
	for _, part := range parts[1:] {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch {
		case strings.EqualFold(key, "Version"):
			v, err := ParseVersion(value)
			if err != nil {
				return AssemblyNameReference{}, err
			}
			ref.Version = v
		case strings.EqualFold(key, "Culture"):
			if !strings.EqualFold(value, "neutral") {
				ref.Culture = value
			}
		case strings.EqualFold(key, "PublicKeyToken"):
			if !strings.EqualFold(value, "null") {
				token, err := hex.DecodeString(value)
				if err != nil {
					return AssemblyNameReference{}, fmt.Errorf("invalid public key token in %q: %w", s, err)
				}
				ref.PublicKeyToken = token
			}
		case strings.EqualFold(key, "Retargetable"):
			ref.Retargetable = strings.EqualFold(value, "Yes")
		}
	}
	return ref, nil
}
