package decompile

import (
	"sort"

	"recoil/internal/metadata"
	"recoil/internal/stmt"
)

var nullReferenceException = metadata.PlainTypeRef(
	metadata.TypeName{Namespace: "System", Name: "NullReferenceException"})

// openTypeArgs builds the identity substitution context for a type's
// own parameters: each argument is the still-open parameter itself.
func openTypeArgs(t *metadata.TypeDef, fromMethod bool) []metadata.TypeRef {
	if t == nil {
		return nil
	}
	args := make([]metadata.TypeRef, len(t.TypeParams))
	for i := range t.TypeParams {
		args[i] = metadata.TypeRef{GenericParam: i, FromMethod: fromMethod}
	}
	return args
}

// openMethodArgs is the identity context for a method's own parameters.
func openMethodArgs(m *metadata.MethodDef) []metadata.TypeRef {
	args := make([]metadata.TypeRef, len(m.TypeParams))
	for i := range m.TypeParams {
		args[i] = metadata.TypeRef{GenericParam: i, FromMethod: true}
	}
	return args
}

// synthesizeEmptyBody builds the minimal statement list for a method
// with no instructions: a base-initializer call plus field defaults
// for constructors, default assignments for out parameters, and a
// default (or throwing, for by-reference) return.
func (o *Orchestrator) synthesizeEmptyBody(def *metadata.MethodDef) *stmt.Block {
	body := &stmt.Block{}
	declaring := def.DeclaringType

	typeArgs := openTypeArgs(declaring, false)
	methodArgs := openMethodArgs(def)

	if def.IsCtor && !def.IsStatic && declaring != nil {
		if call := o.baseInitializerCall(declaring); call != nil {
			body.Statements = append(body.Statements, call)
		}
		if declaring.Kind == metadata.KindValueType {
			for _, f := range declaring.Fields {
				if f.Static {
					continue
				}
				body.Statements = append(body.Statements, &stmt.Assignment{
					Target: &stmt.Member{Target: &stmt.This{}, Name: f.Name},
					Value:  &stmt.DefaultValue{Type: metadata.Substitute(f.Type, typeArgs, methodArgs)},
				})
			}
		}
	}

	for _, p := range def.Params {
		if p.Mode != metadata.ParamOut {
			continue
		}
		resolved := metadata.Substitute(p.Type, typeArgs, methodArgs)
		resolved.ByRef = false
		body.Statements = append(body.Statements, &stmt.Assignment{
			Target: &stmt.Identifier{Name: p.Name},
			Value:  &stmt.DefaultValue{Type: resolved},
		})
	}

	if !def.VoidReturn() {
		ret := metadata.Substitute(def.Return, typeArgs, methodArgs)
		if ret.ByRef {
			// No storage exists to return a reference to.
			body.Statements = append(body.Statements, &stmt.Throw{
				Value: &stmt.NewObject{Type: nullReferenceException},
			})
		} else {
			body.Statements = append(body.Statements, &stmt.Return{
				Value: &stmt.DefaultValue{Type: ret},
			})
		}
	}
	return body
}

// baseInitializerCall picks the cheapest accessible base constructor
// and calls it with default arguments. Nil when the base type (or any
// constructor) is unavailable.
func (o *Orchestrator) baseInitializerCall(declaring *metadata.TypeDef) stmt.Statement {
	if declaring.Base == nil {
		return nil
	}
	baseDef := o.TypeSystem.FindType(declaring.Base.Name)
	if baseDef == nil {
		return nil
	}
	ctor := selectBaseConstructor(baseDef, declaring.ModuleName)
	if ctor == nil {
		return nil
	}

	// The base reference's generic arguments form the context the
	// parameter types must be substituted through.
	typeArgs := declaring.Base.Args
	args := make([]stmt.Expression, len(ctor.Params))
	for i, p := range ctor.Params {
		resolved := metadata.Substitute(p.Type, typeArgs, nil)
		resolved.ByRef = false
		args[i] = &stmt.DefaultValue{Type: resolved}
	}
	return &stmt.ExprStatement{Expr: &stmt.Invocation{
		Target: &stmt.Base{},
		Method: ctor,
		Args:   args,
	}}
}

// selectBaseConstructor ranks the base type's instance constructors:
// accessibility first, then absence of by-reference/output parameters,
// then arity, with declaration order as the final tie break.
func selectBaseConstructor(base *metadata.TypeDef, callerModule string) *metadata.MethodDef {
	ctors := base.Constructors()
	if len(ctors) == 0 {
		return nil
	}
	friend := base.GrantsInternalsTo(callerModule)
	sort.SliceStable(ctors, func(i, j int) bool {
		ri, rj := ctorRank(ctors[i], friend), ctorRank(ctors[j], friend)
		if ri != rj {
			return ri < rj
		}
		pi, pj := refOutPenalty(ctors[i]), refOutPenalty(ctors[j])
		if pi != pj {
			return pi < pj
		}
		if len(ctors[i].Params) != len(ctors[j].Params) {
			return len(ctors[i].Params) < len(ctors[j].Params)
		}
		return ctors[i].DeclOrder < ctors[j].DeclOrder
	})
	return ctors[0]
}

func ctorRank(m *metadata.MethodDef, friend bool) int {
	switch m.Access {
	case metadata.AccessPublic, metadata.AccessFamily, metadata.AccessFamilyOrAssembly:
		return 0
	case metadata.AccessAssembly, metadata.AccessFamilyAndAssembly:
		if friend {
			return 0
		}
		return 1
	case metadata.AccessPrivate:
		return 2
	default:
		return 3
	}
}

func refOutPenalty(m *metadata.MethodDef) int {
	for _, p := range m.Params {
		if p.Mode != metadata.ParamIn || p.Type.ByRef {
			return 1
		}
	}
	return 0
}
