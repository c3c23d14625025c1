// Package resolver locates the on-disk file for a symbolic assembly
// reference by emulating the probing strategies real deployments use:
// user search directories, framework install roots, version-specific
// corlib folders, the global assembly caches, and the modern dotnet
// shared-framework layout.
package resolver

import (
	"fmt"

	"recoil/internal/metadata"
)

// OutcomeKind classifies a single strategy's result.
type OutcomeKind uint8

const (
	// OutcomeMiss means the strategy has nothing; try the next one.
	OutcomeMiss OutcomeKind = iota
	// OutcomeFound carries a resolved file path.
	OutcomeFound
	// OutcomeFatal aborts the strategy chain with an error.
	OutcomeFatal
)

// Outcome is the explicit result of one resolution strategy. Hard
// failures are reserved for genuinely unsupported configurations;
// "not found" is an ordinary value, not an error.
type Outcome struct {
	Kind OutcomeKind
	Path string
	Err  error
}

// Found wraps a resolved path.
func Found(path string) Outcome { return Outcome{Kind: OutcomeFound, Path: path} }

// Miss is the empty outcome.
func Miss() Outcome { return Outcome{} }

// Fatal wraps a chain-aborting error.
func Fatal(err error) Outcome { return Outcome{Kind: OutcomeFatal, Err: err} }

// ResolveError reports that a referenced assembly could not be located
// by any strategy.
type ResolveError struct {
	Reference metadata.AssemblyNameReference
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("assembly not found: %s", e.Reference.FullName())
}

// UnsupportedVersionError reports a corlib lookup for a runtime major
// version the probing tables do not cover.
type UnsupportedVersionError struct {
	Version metadata.Version
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported runtime version: %s", e.Version)
}
