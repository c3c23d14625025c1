// Package ir defines the per-method intermediate representation the
// transform pipeline mutates in place, and the contracts of the
// external collaborators that produce and consume it. The individual
// transform algorithms live behind the Transform interface; this
// package only fixes their calling convention.
package ir

import (
	"context"
	"fmt"

	"recoil/internal/metadata"
	"recoil/internal/typesys"
)

// Param is one formal parameter slot of a function.
type Param struct {
	Name string
	Type metadata.TypeRef
}

// Local is one local variable surviving into debug info.
type Local struct {
	Name  string
	Index int
}

// Function is the instruction-level representation of one method. It
// is exclusively owned by the one in-flight decompilation of that
// method and is never shared across methods.
type Function struct {
	Handle metadata.MethodHandle
	Params []Param
	Locals []Local

	// Body is the opaque instruction body handed to the statement
	// builder after the transforms ran.
	Body any

	// State-machine flags set by the detector transforms. In practice
	// mutually exclusive.
	IsAsync    bool
	IsIterator bool
	// MoveNextHandle is the compiler-generated suspend/resume method
	// backing a detected state machine; NilHandle when none.
	MoveNextHandle metadata.MethodHandle
}

// CheckInvariants is the structural sanity check run after every
// transform.
func (f *Function) CheckInvariants() error {
	if f.Handle == metadata.NilHandle {
		return fmt.Errorf("function has no method handle")
	}
	seen := make(map[string]bool, len(f.Params))
	for _, p := range f.Params {
		if p.Name == "" {
			continue
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate parameter name %q", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// Settings are the per-run options transforms may consult.
type Settings struct {
	// DefinitionsOnly skips member bodies: the pipeline stops right
	// after state-machine detection, since only the Async/Iterator
	// flags matter in that mode.
	DefinitionsOnly bool
	// LoadDebugSymbols makes the reader consult debug symbols for
	// names and sequence points.
	LoadDebugSymbols bool
	// EmitSourceSpans requests source-span information on the IR.
	EmitSourceSpans bool
	// Promotions is the type-system option bit set of the closure the
	// method is decompiled against. Readers and transforms honor the
	// representation promotions (dynamic, tuples, extension methods)
	// it enables.
	Promotions typesys.Options
}

// Context carries what a transform may depend on: cooperative
// cancellation, the per-run settings, and a cache scoped to one
// decompilation run.
type Context struct {
	Ctx      context.Context
	Settings Settings
	Cache    map[string]any
}

// Transform is one ordered step of the instruction pipeline.
type Transform interface {
	Name() string
	Run(fn *Function, tctx *Context) error
}

// StateMachineDetector marks the transform that recognizes async and
// iterator state machines. The orchestrator special-cases it for the
// definitions-only early exit.
type StateMachineDetector interface {
	Transform
	DetectsStateMachines()
}

// Reader produces the instruction-level representation for a method
// handle. Implemented by the raw metadata/IL reader.
type Reader interface {
	Read(ctx context.Context, handle metadata.MethodHandle, settings Settings) (*Function, error)
}
