// Package diag collects per-method diagnostics so one failed method
// never aborts translation of its siblings.
package diag

import (
	"fmt"
	"sort"

	"recoil/internal/metadata"
)

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Code identifies a diagnostic category.
type Code uint16

const (
	UnknownCode Code = 0

	// Resolution
	ResInfo               Code = 1000
	ResAssemblyNotFound   Code = 1001
	ResUnsupportedRuntime Code = 1002
	ResLoadFailed         Code = 1003

	// Decompilation
	DecInfo            Code = 2000
	DecMethodFailed    Code = 2001
	DecCancelled       Code = 2002
	DecInvariantBroken Code = 2003
)

func (c Code) String() string {
	return fmt.Sprintf("RC%04d", uint16(c))
}

// Diagnostic is one reportable finding, attached to the method (and
// module) it originated from.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Module   string
	Method   metadata.MethodHandle
}

// Bag accumulates diagnostics up to a limit.
type Bag struct {
	items []Diagnostic
	max   uint16
}

// NewBag returns a bag capped at max diagnostics. A non-positive max
// falls back to the default limit of 100.
func NewBag(max int) *Bag {
	if max <= 0 {
		max = 100
	}
	return &Bag{
		items: make([]Diagnostic, 0, max),
		max:   uint16(max),
	}
}

// Add appends a diagnostic, honoring the limit. Returns false when the
// limit was reached and the diagnostic was dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Len() int { return len(b.items) }

// HasErrors reports whether any diagnostic is at error severity.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// Items returns a read-only view of the collected diagnostics. Do not
// modify the returned slice.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends another bag's diagnostics, growing the limit to fit.
func (b *Bag) Merge(other *Bag) {
	newTotal := len(b.items) + len(other.items)
	if uint16(newTotal) > b.max {
		b.max = uint16(newTotal)
	}
	b.items = append(b.items, other.items...)
}

// Sort orders by module, method, severity (desc), code for stable and
// deterministic output.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Module != dj.Module {
			return di.Module < dj.Module
		}
		if di.Method != dj.Method {
			return di.Method < dj.Method
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// Dedup drops repeated (code, method) pairs.
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	newitems := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s:%08x", d.Code, d.Module, uint32(d.Method))
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, d)
	}
	b.items = newitems
}
