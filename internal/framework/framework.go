// Package framework identifies which target framework a module was
// built for. The identity drives the resolver's choice of probing
// strategy; detection is best effort and never fails.
package framework

import (
	"fmt"
	"strings"

	"recoil/internal/metadata"
)

// Family is the normalized target-framework family.
type Family uint8

const (
	FamilyUnknown Family = iota
	FamilyNETFramework
	FamilyNETStandard
	FamilyNETCoreApp
	// FamilyNET is .NET 5 and above, the unified successor of
	// NETCoreApp. NETCoreApp identities with version >= 5.0 normalize
	// to this family.
	FamilyNET
	FamilySilverlight
)

func (f Family) String() string {
	switch f {
	case FamilyNETFramework:
		return ".NETFramework"
	case FamilyNETStandard:
		return ".NETStandard"
	case FamilyNETCoreApp, FamilyNET:
		// .NET 5+ keeps the historical moniker spelling.
		return ".NETCoreApp"
	case FamilySilverlight:
		return "Silverlight"
	default:
		return ""
	}
}

// Identity is a normalized (family, version) pair. The zero value is
// the unknown identity: callers must fall back to generic resolution.
type Identity struct {
	Family  Family
	Version metadata.Version
}

// Unknown is the empty identity.
var Unknown = Identity{}

// IsKnown reports whether detection produced a usable identity.
func (id Identity) IsKnown() bool { return id.Family != FamilyUnknown }

// HasSpecificVersion reports whether the identity pins a version the
// resolver can probe versioned install roots with.
func (id Identity) HasSpecificVersion() bool {
	return id.IsKnown() && !id.Version.IsZero()
}

// String renders the canonical moniker, e.g. ".NETCoreApp,Version=v3.1".
// Parsing the result yields the same identity back.
func (id Identity) String() string {
	if !id.IsKnown() {
		return ""
	}
	v := fmt.Sprintf("v%d.%d", id.Version.Major, id.Version.Minor)
	if id.Version.Build != 0 {
		v += fmt.Sprintf(".%d", id.Version.Build)
	}
	return id.Family.String() + ",Version=" + v
}

// normalize applies the version-5-and-above unification rule.
func normalize(id Identity) Identity {
	if id.Family == FamilyNETCoreApp && id.Version.Major >= 5 {
		id.Family = FamilyNET
	}
	return id
}

// ParseMoniker parses a framework moniker of the shape
// "<family>,Version=v<major.minor[.build]>[,Profile=<p>]".
// Unrecognized families map to NETFramework, matching how the runtime
// itself treats them.
func ParseMoniker(moniker string) Identity {
	parts := strings.Split(moniker, ",")
	if len(parts) == 0 || strings.TrimSpace(parts[0]) == "" {
		return Unknown
	}
	var id Identity
	switch strings.ToUpper(strings.TrimSpace(parts[0])) {
	case ".NETCOREAPP":
		id.Family = FamilyNETCoreApp
	case ".NETSTANDARD":
		id.Family = FamilyNETStandard
	case "SILVERLIGHT":
		id.Family = FamilySilverlight
	default:
		id.Family = FamilyNETFramework
	}
	for _, part := range parts[1:] {
		key, value, ok := strings.Cut(part, "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "Version") {
			continue
		}
		value = strings.TrimSpace(value)
		value = strings.TrimPrefix(value, "v")
		v, err := metadata.ParseVersion(value)
		if err != nil {
			return Unknown
		}
		id.Version = v
	}
	return normalize(id)
}
