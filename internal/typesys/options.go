// Package typesys assembles the closed-world symbol table for one root
// module: the transitive closure of resolvable dependencies, with
// forwarded types chased, duplicates collapsed by reference identity,
// and missing base-vocabulary types stubbed out so instruction
// translation never observes an unresolved primitive.
package typesys

// Options is an independent bit set of type-system behaviors. The
// flags compose orthogonally: representation promotions on one side,
// fidelity/memory trade-offs on the other.
type Options uint8

const (
	// OptDynamic promotes the dynamic-marker-plus-object encoding to a
	// first-class dynamic type.
	OptDynamic Options = 1 << iota
	// OptTuple promotes tuple-shaped value types plus element-name
	// metadata to a first-class tuple type.
	OptTuple
	// OptExtensionMethods promotes the extension-method marker
	// attribute to a flag on the method itself.
	OptExtensionMethods
	// OptExcludeNonPublic skips non-public members while loading.
	OptExcludeNonPublic
	// OptUncached disables the definition cache, trading memory for
	// the loss of reference equality between repeated lookups. Callers
	// comparing definitions by identity must not set this.
	OptUncached
)

// DefaultOptions enables every source-fidelity promotion and no
// memory trade-off flags.
const DefaultOptions = OptDynamic | OptTuple | OptExtensionMethods

// Has reports whether all bits of flag are set.
func (o Options) Has(flag Options) bool { return o&flag == flag }
