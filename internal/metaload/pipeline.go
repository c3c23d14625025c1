package metaload

import (
	"context"
	"fmt"

	"recoil/internal/ir"
	"recoil/internal/metadata"
	"recoil/internal/stmt"
)

// BodyHints carries the per-method facts the sidecar records in place
// of real instructions: state-machine shape, local names, and the
// warnings translation would have produced.
type BodyHints struct {
	Async    bool
	Iterator bool
	MoveNext metadata.MethodHandle
	Locals   []string
	Warnings []string
}

// Reader implements the instruction-reader contract over a loaded
// module's hints.
type Reader struct {
	Module *metadata.StaticModule
	Hints  map[metadata.MethodHandle]BodyHints
}

// Read builds the function IR for one method. The body payload is the
// method's hints; the fixture transforms and builder consume it.
func (r *Reader) Read(ctx context.Context, handle metadata.MethodHandle, settings ir.Settings) (*ir.Function, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	def := r.Module.MethodByHandle(handle)
	if def == nil {
		return nil, fmt.Errorf("no method with handle 0x%08x", uint32(handle))
	}
	hints := r.Hints[handle]
	fn := &ir.Function{
		Handle: handle,
		Body:   hints,
	}
	for _, p := range def.Params {
		fn.Params = append(fn.Params, ir.Param{Name: p.Name, Type: p.Type})
	}
	for i, l := range hints.Locals {
		fn.Locals = append(fn.Locals, ir.Local{Name: l, Index: i})
	}
	return fn, nil
}

// detectStateMachines is the fixture state-machine detector: it lifts
// the sidecar's flags onto the function.
type detectStateMachines struct{}

func (detectStateMachines) Name() string { return "detect-state-machines" }

func (detectStateMachines) DetectsStateMachines() {}

func (detectStateMachines) Run(fn *ir.Function, _ *ir.Context) error {
	hints, ok := fn.Body.(BodyHints)
	if !ok {
		return nil
	}
	fn.IsAsync = hints.Async
	fn.IsIterator = hints.Iterator
	fn.MoveNextHandle = hints.MoveNext
	return nil
}

// Transforms is the fixture pipeline: state-machine detection only.
// The real instruction transforms slot in around it.
func Transforms() []ir.Transform {
	return []ir.Transform{detectStateMachines{}}
}

// Builder emits an empty block plus the sidecar's recorded warnings.
type Builder struct{}

func (Builder) BuildBlock(body any) (*stmt.Block, []stmt.Warning, error) {
	block := &stmt.Block{}
	hints, ok := body.(BodyHints)
	if !ok {
		return block, nil, nil
	}
	warnings := make([]stmt.Warning, 0, len(hints.Warnings))
	for _, w := range hints.Warnings {
		warnings = append(warnings, stmt.Warning(w))
	}
	return block, warnings, nil
}
