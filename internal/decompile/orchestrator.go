package decompile

import (
	"context"
	"fmt"

	"recoil/internal/ir"
	"recoil/internal/metadata"
	"recoil/internal/stmt"
	"recoil/internal/typesys"
)

// StateMachineKind classifies the compiler-generated suspend/resume
// shape behind a method, if any.
type StateMachineKind uint8

const (
	StateMachineNone StateMachineKind = iota
	StateMachineAsync
	StateMachineIterator
)

func (k StateMachineKind) String() string {
	switch k {
	case StateMachineAsync:
		return "async"
	case StateMachineIterator:
		return "iterator"
	default:
		return "none"
	}
}

// DebugInfo is the per-method artifact built after translation,
// independent of whether a body was emitted.
type DebugInfo struct {
	Kind StateMachineKind
	// Method is the originating method.
	Method metadata.MethodHandle
	// StateMachineMethod is the synthetic move-next-equivalent handle
	// when a state machine was detected; otherwise it equals Method.
	StateMachineMethod metadata.MethodHandle
	Locals             []string
	Parameters         []string
}

// Declaration is the annotated declaration skeleton: resolved types
// per formal parameter by positional index, plus the whole function IR
// so later tools can map source positions back to instructions.
type Declaration struct {
	Method     *metadata.MethodDef
	ParamTypes []*metadata.TypeDef
	Function   *ir.Function
}

// Result is one method's translation output.
type Result struct {
	Body        *stmt.Block
	Declaration *Declaration
	Debug       *DebugInfo
}

// Orchestrator drives the translation of single methods against one
// assembled type system. The type system is shared and read-only; each
// call owns its function IR exclusively, so one orchestrator may serve
// many methods from parallel workers.
type Orchestrator struct {
	TypeSystem *typesys.Closure
	Reader     ir.Reader
	Transforms []ir.Transform
	Builder    stmt.Builder
	Settings   ir.Settings
}

// Decompile translates one method. Cancellation errors propagate
// verbatim; every other failure comes back as a *Error tagged with the
// method handle. A failure never affects sibling methods.
func (o *Orchestrator) Decompile(ctx context.Context, handle metadata.MethodHandle) (*Result, error) {
	res, err := o.decompile(ctx, handle)
	if err != nil {
		return nil, wrap(handle, err)
	}
	return res, nil
}

func (o *Orchestrator) decompile(ctx context.Context, handle metadata.MethodHandle) (*Result, error) {
	def := o.TypeSystem.MethodByHandle(handle)
	if def == nil {
		return nil, fmt.Errorf("unknown method handle 0x%08x", uint32(handle))
	}

	if !def.HasBody {
		return o.stubMethod(def), nil
	}

	// The reader and the transforms see the closure's option bit set
	// alongside the per-run settings.
	settings := o.Settings
	settings.Promotions = o.TypeSystem.Options

	// Cancellation before the read is a distinct, non-wrapped failure.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fn, err := o.Reader.Read(ctx, handle, settings)
	if err != nil {
		return nil, err
	}

	decl := o.annotate(def, fn)

	if err := o.runTransforms(ctx, fn, settings); err != nil {
		return nil, err
	}

	var body *stmt.Block
	if !settings.DefinitionsOnly {
		body, err = o.buildStatements(fn)
		if err != nil {
			return nil, err
		}
	}

	return &Result{
		Body:        body,
		Declaration: decl,
		Debug:       buildDebugInfo(fn),
	}, nil
}

// annotate resolves a type per formal parameter by positional index
// and attaches the function IR to the declaration skeleton.
func (o *Orchestrator) annotate(def *metadata.MethodDef, fn *ir.Function) *Declaration {
	decl := &Declaration{
		Method:     def,
		ParamTypes: make([]*metadata.TypeDef, len(def.Params)),
		Function:   fn,
	}
	for i, p := range def.Params {
		if p.Type.IsGenericParam() {
			continue
		}
		decl.ParamTypes[i] = o.TypeSystem.FindType(p.Type.Name)
	}
	return decl
}

// runTransforms walks the fixed transform order, checking invariants
// after each step and polling cancellation between steps. In
// definitions-only mode the loop ends right after the state-machine
// detector has run.
func (o *Orchestrator) runTransforms(ctx context.Context, fn *ir.Function, settings ir.Settings) error {
	tctx := &ir.Context{
		Ctx:      ctx,
		Settings: settings,
		Cache:    make(map[string]any),
	}
	for _, t := range o.Transforms {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := t.Run(fn, tctx); err != nil {
			return err
		}
		if err := fn.CheckInvariants(); err != nil {
			return fmt.Errorf("after transform %s: %w", t.Name(), err)
		}
		if _, isDetector := t.(ir.StateMachineDetector); isDetector && tctx.Settings.DefinitionsOnly {
			break
		}
	}
	return nil
}

// buildStatements translates the body and splices one comment per
// translation warning, in warning order, each inserted right after the
// previous one.
func (o *Orchestrator) buildStatements(fn *ir.Function) (*stmt.Block, error) {
	body, warnings, err := o.Builder.BuildBlock(fn.Body)
	if err != nil {
		return nil, err
	}
	for i, w := range warnings {
		body.Insert(i, &stmt.Comment{Text: string(w)})
	}
	return body, nil
}

// stubMethod handles abstract-in-metadata-only and extern methods:
// there are no instructions to translate, so a minimal valid body is
// synthesized instead.
func (o *Orchestrator) stubMethod(def *metadata.MethodDef) *Result {
	var body *stmt.Block
	if !o.Settings.DefinitionsOnly {
		body = o.synthesizeEmptyBody(def)
	}
	return &Result{
		Body: body,
		Declaration: &Declaration{
			Method:     def,
			ParamTypes: make([]*metadata.TypeDef, len(def.Params)),
		},
		Debug: &DebugInfo{
			Kind:               StateMachineNone,
			Method:             def.Handle,
			StateMachineMethod: def.Handle,
		},
	}
}

// buildDebugInfo classifies the state-machine kind from the detector
// flags. Async wins if both were somehow set.
func buildDebugInfo(fn *ir.Function) *DebugInfo {
	info := &DebugInfo{
		Kind:               StateMachineNone,
		Method:             fn.Handle,
		StateMachineMethod: fn.Handle,
	}
	switch {
	case fn.IsAsync:
		info.Kind = StateMachineAsync
	case fn.IsIterator:
		info.Kind = StateMachineIterator
	}
	if info.Kind != StateMachineNone && fn.MoveNextHandle != metadata.NilHandle {
		info.StateMachineMethod = fn.MoveNextHandle
	}
	for _, l := range fn.Locals {
		info.Locals = append(info.Locals, l.Name)
	}
	for _, p := range fn.Params {
		info.Parameters = append(info.Parameters, p.Name)
	}
	return info
}
