package metadata

// MethodHandle is a metadata token identifying one method definition
// within its module.
type MethodHandle uint32

// NilHandle is the absent method handle.
const NilHandle MethodHandle = 0

// Accessibility mirrors the metadata member-access values.
type Accessibility uint8

const (
	AccessPrivateScope Accessibility = iota
	AccessPrivate
	AccessFamilyAndAssembly
	AccessAssembly
	AccessFamily
	AccessFamilyOrAssembly
	AccessPublic
)

// TypeKind classifies a type definition.
type TypeKind uint8

const (
	KindClass TypeKind = iota
	KindValueType
	KindEnum
	KindInterface
	KindDelegate
)

// ParamMode distinguishes plain, by-reference and output parameters.
type ParamMode uint8

const (
	ParamIn ParamMode = iota
	ParamRef
	ParamOut
)

// TypeRef is a (possibly generic, possibly by-reference) use of a type.
// Exactly one of Name or a generic-parameter index is meaningful:
// GenericParam >= 0 refers to the declaring type's (or, when FromMethod
// is set, the method's) type parameter at that index.
type TypeRef struct {
	Name         TypeName
	Args         []TypeRef
	GenericParam int
	FromMethod   bool
	ByRef        bool
}

// PlainTypeRef builds a non-generic, by-value reference to name.
func PlainTypeRef(name TypeName) TypeRef {
	return TypeRef{Name: name, GenericParam: -1}
}

// IsGenericParam reports whether the reference is an open type parameter.
func (t TypeRef) IsGenericParam() bool { return t.GenericParam >= 0 }

// Substitute resolves open type parameters through the current generic
// context: typeArgs for the declaring type's parameters, methodArgs for
// the method's own. Out-of-range parameters stay open.
func Substitute(t TypeRef, typeArgs, methodArgs []TypeRef) TypeRef {
	if t.IsGenericParam() {
		src := typeArgs
		if t.FromMethod {
			src = methodArgs
		}
		if t.GenericParam < len(src) {
			sub := src[t.GenericParam]
			sub.ByRef = sub.ByRef || t.ByRef
			return sub
		}
		return t
	}
	if len(t.Args) == 0 {
		return t
	}
	args := make([]TypeRef, len(t.Args))
	for i, a := range t.Args {
		args[i] = Substitute(a, typeArgs, methodArgs)
	}
	t.Args = args
	return t
}

// FieldDef is one field of a type definition, in declaration order.
type FieldDef struct {
	Name   string
	Type   TypeRef
	Static bool
}

// ParamDef is one formal parameter of a method.
type ParamDef struct {
	Name string
	Type TypeRef
	Mode ParamMode
}

// MethodDef is the metadata view of one method definition.
type MethodDef struct {
	Handle        MethodHandle
	Name          string
	DeclaringType *TypeDef
	Access        Accessibility
	Params        []ParamDef
	Return        TypeRef
	TypeParams    []string
	IsCtor        bool
	IsStatic      bool
	IsAbstract    bool
	IsExtern      bool
	HasBody       bool
	// DeclOrder is the method's position in its type's method table,
	// used as the final tie break when ranking constructors.
	DeclOrder int
}

// VoidReturn reports whether the method returns no value.
func (m *MethodDef) VoidReturn() bool {
	return !m.Return.IsGenericParam() &&
		m.Return.Name == (TypeName{Namespace: "System", Name: "Void"})
}

// TypeDef is the metadata view of one type definition.
type TypeDef struct {
	Name       TypeName
	Kind       TypeKind
	Base       *TypeRef
	Fields     []FieldDef
	Methods    []*MethodDef
	TypeParams []string
	// ModuleName is the simple name of the declaring module, consulted
	// when ranking assembly-visible members across module boundaries.
	ModuleName string
	// Friends lists modules granted internals visibility.
	Friends []string
}

// IsValueType reports whether instances are value-copied.
func (t *TypeDef) IsValueType() bool {
	return t.Kind == KindValueType || t.Kind == KindEnum
}

// Constructors returns the instance constructors in declaration order.
func (t *TypeDef) Constructors() []*MethodDef {
	var ctors []*MethodDef
	for _, m := range t.Methods {
		if m.IsCtor && !m.IsStatic {
			ctors = append(ctors, m)
		}
	}
	return ctors
}

// GrantsInternalsTo reports whether members with assembly visibility
// are accessible from the named module.
func (t *TypeDef) GrantsInternalsTo(moduleName string) bool {
	if FoldName(t.ModuleName) == FoldName(moduleName) {
		return true
	}
	for _, f := range t.Friends {
		if FoldName(f) == FoldName(moduleName) {
			return true
		}
	}
	return false
}
