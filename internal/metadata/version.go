package metadata

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a four-part assembly version (major.minor.build.revision).
type Version struct {
	Major    uint16
	Minor    uint16
	Build    uint16
	Revision uint16
}

// ZeroVersion compares equal to an entirely unset version.
var ZeroVersion = Version{}

// unspecified is the metadata marker for "any version" in a single field.
const unspecified = 0xFFFF

// ParseVersion parses "major[.minor[.build[.revision]]]".
// Missing parts are zero.
func ParseVersion(s string) (Version, error) {
	var v Version
	parts := strings.Split(s, ".")
	if len(parts) == 0 || len(parts) > 4 {
		return v, fmt.Errorf("invalid version %q", s)
	}
	dst := []*uint16{&v.Major, &v.Minor, &v.Build, &v.Revision}
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 16)
		if err != nil {
			return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
		}
		*dst[i] = uint16(n)
	}
	return v, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
}

// IsZero reports whether every field is zero.
func (v Version) IsZero() bool {
	return v == ZeroVersion
}

// IsUnspecified reports whether every field carries the "any" marker.
func (v Version) IsUnspecified() bool {
	return v.Major == unspecified && v.Minor == unspecified &&
		v.Build == unspecified && v.Revision == unspecified
}

// Compare orders versions field by field, major first.
func (v Version) Compare(o Version) int {
	pairs := [4][2]uint16{
		{v.Major, o.Major},
		{v.Minor, o.Minor},
		{v.Build, o.Build},
		{v.Revision, o.Revision},
	}
	for _, p := range pairs {
		if p[0] != p[1] {
			if p[0] < p[1] {
				return -1
			}
			return 1
		}
	}
	return 0
}
