package metadata

// Well-known root library names the resolver and framework detection
// special-case.
const (
	CorlibName        = "mscorlib"
	NetStandardName   = "netstandard"
	SystemRuntimeName = "System.Runtime"
)

// TypeName is a namespace-qualified top-level type name.
type TypeName struct {
	Namespace string
	Name      string
}

func (n TypeName) String() string {
	if n.Namespace == "" {
		return n.Name
	}
	return n.Namespace + "." + n.Name
}

// ExportedType is an entry of a module's exported-type table. When
// Forwarder is set and Scope is non-nil, the type is declared in the
// module Scope points at (a type forwarder).
type ExportedType struct {
	Name      TypeName
	Forwarder bool
	Scope     *AssemblyNameReference
}

// Module is the read-only metadata view of one loaded binary module.
// The raw metadata/IL reader produces implementations of this; the
// front end never mutates one.
type Module interface {
	// Name is the simple assembly name.
	Name() string
	// Version is the module's own assembly version.
	Version() Version
	// Path is the absolute file path the module was loaded from,
	// or "" for synthetic modules.
	Path() string
	// References lists the declared assembly references in metadata order.
	References() []AssemblyNameReference
	// ExportedTypes lists the exported-type table, including forwarders.
	ExportedTypes() []ExportedType
	// HasTopLevelType reports whether the module declares the given
	// top-level type itself (forwarders do not count).
	HasTopLevelType(name TypeName) bool
	// TypeByName returns the declared definition of a top-level type,
	// or nil when the module does not declare it.
	TypeByName(name TypeName) *TypeDef
	// TargetFrameworkAttribute returns the raw framework moniker from
	// the assembly-level attribute, or "" when absent.
	TargetFrameworkAttribute() string
	// RuntimeVersion is the metadata runtime-version string,
	// e.g. "v4.0.30319"; "" when absent.
	RuntimeVersion() string
	// MethodByHandle maps a method token back to its definition,
	// or nil for an unknown handle.
	MethodByHandle(h MethodHandle) *MethodDef
	// MethodHandles lists every method definition in token order.
	MethodHandles() []MethodHandle
}

// WellKnownTypes is the base vocabulary every assembled type system
// must be able to resolve. Instruction translation assumes these exist;
// the assembler synthesizes stubs for any still missing after closure.
var WellKnownTypes = []TypeName{
	{Namespace: "System", Name: "Object"},
	{Namespace: "System", Name: "ValueType"},
	{Namespace: "System", Name: "Enum"},
	{Namespace: "System", Name: "Void"},
	{Namespace: "System", Name: "Boolean"},
	{Namespace: "System", Name: "Char"},
	{Namespace: "System", Name: "SByte"},
	{Namespace: "System", Name: "Byte"},
	{Namespace: "System", Name: "Int16"},
	{Namespace: "System", Name: "UInt16"},
	{Namespace: "System", Name: "Int32"},
	{Namespace: "System", Name: "UInt32"},
	{Namespace: "System", Name: "Int64"},
	{Namespace: "System", Name: "UInt64"},
	{Namespace: "System", Name: "Single"},
	{Namespace: "System", Name: "Double"},
	{Namespace: "System", Name: "String"},
	{Namespace: "System", Name: "Decimal"},
	{Namespace: "System", Name: "IntPtr"},
	{Namespace: "System", Name: "UIntPtr"},
	{Namespace: "System", Name: "Array"},
	{Namespace: "System", Name: "Delegate"},
	{Namespace: "System", Name: "MulticastDelegate"},
	{Namespace: "System", Name: "Exception"},
	{Namespace: "System", Name: "Type"},
	{Namespace: "System", Name: "Attribute"},
	{Namespace: "System", Name: "Nullable`1"},
	{Namespace: "System.Collections", Name: "IEnumerable"},
	{Namespace: "System.Collections", Name: "IEnumerator"},
}
