package typesys

import (
	"recoil/internal/metadata"
)

// Loader turns a resolved file path into a metadata view. Implemented
// by the raw metadata reader; a corrupt or unparseable file surfaces
// as an error and the candidate is skipped, never fatal.
type Loader interface {
	Load(path string) (metadata.Module, error)
}

// FileFinder is the non-throwing resolution probe the assembler uses.
// Satisfied by *resolver.Resolver.
type FileFinder interface {
	FindFile(ref metadata.AssemblyNameReference) (string, bool)
}

// Closure is the assembled type system: the root module plus every
// transitively reachable dependency that could be resolved, and at
// most one synthetic fallback module carrying stubs for well-known
// types still missing after resolution. Once assembled it is
// read-only and safe to share across concurrent decompilations.
type Closure struct {
	Root     metadata.Module
	Modules  []metadata.Module
	Fallback metadata.Module
	Options  Options

	cache *defCache
}

// AllModules returns root, resolved modules and the fallback in lookup
// order.
func (c *Closure) AllModules() []metadata.Module {
	all := make([]metadata.Module, 0, len(c.Modules)+2)
	all = append(all, c.Root)
	all = append(all, c.Modules...)
	if c.Fallback != nil {
		all = append(all, c.Fallback)
	}
	return all
}

// FindType locates a top-level type definition anywhere in the
// closure, root first. Results are memoized unless OptUncached is set.
func (c *Closure) FindType(name metadata.TypeName) *metadata.TypeDef {
	if c.cache != nil {
		if def, ok := c.cache.lookup(name); ok {
			return def
		}
	}
	var found *metadata.TypeDef
	for _, m := range c.AllModules() {
		if def := m.TypeByName(name); def != nil {
			found = def
			break
		}
	}
	if c.cache != nil && found != nil {
		c.cache.store(name, found)
	}
	return found
}

// MethodByHandle searches the closure for a method definition.
func (c *Closure) MethodByHandle(h metadata.MethodHandle) *metadata.MethodDef {
	for _, m := range c.AllModules() {
		if def := m.MethodByHandle(h); def != nil {
			return def
		}
	}
	return nil
}

// Assemble builds the closure for root. It never fails: references
// that cannot be resolved or loaded are dropped silently, keeping
// decompilation best effort.
//
// Traversal is a FIFO worklist over the dependency graph with a seen
// set keyed by full reference identity, so the same logical dependency
// reached through different forwarding chains loads exactly once and
// forwarding cycles terminate.
func Assemble(root metadata.Module, res FileFinder, loader Loader, opts Options) *Closure {
	// Visibility options apply uniformly: the root and every resolved
	// module are filtered before inclusion.
	root = restrict(root, opts)
	c := &Closure{Root: root, Options: opts}
	if !opts.Has(OptUncached) {
		c.cache = newDefCache()
	}

	var queue []metadata.AssemblyNameReference
	seen := make(map[string]bool)
	enqueue := func(ref metadata.AssemblyNameReference) {
		key := ref.IdentityKey()
		if seen[key] {
			return
		}
		seen[key] = true
		queue = append(queue, ref)
	}

	for _, ref := range root.References() {
		enqueue(ref)
	}
	for len(queue) > 0 {
		ref := queue[0]
		queue = queue[1:]

		path, ok := res.FindFile(ref)
		if !ok {
			continue
		}
		module, err := loader.Load(path)
		if err != nil {
			continue
		}
		c.Modules = append(c.Modules, restrict(module, opts))

		// Chained forwarding: a forwarder may point at a module that
		// itself forwards the type onward.
		for _, exported := range module.ExportedTypes() {
			if exported.Forwarder && exported.Scope != nil {
				enqueue(*exported.Scope)
			}
		}
	}

	c.Fallback = synthesizeFallback(c)
	return c
}

// synthesizeFallback audits the well-known base vocabulary against the
// closure and builds one synthetic module holding stubs for exactly
// the missing types, or nil when nothing is missing.
func synthesizeFallback(c *Closure) metadata.Module {
	var missing []metadata.TypeName
	for _, name := range metadata.WellKnownTypes {
		if !closureDeclares(c, name) {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	fallback := &metadata.StaticModule{ModName: "MinimalCorlib"}
	for _, name := range missing {
		fallback.AddType(&metadata.TypeDef{
			Name:       name,
			Kind:       stubKind(name),
			ModuleName: fallback.ModName,
		})
	}
	return fallback
}

func closureDeclares(c *Closure, name metadata.TypeName) bool {
	if c.Root.HasTopLevelType(name) {
		return true
	}
	for _, m := range c.Modules {
		if m.HasTopLevelType(name) {
			return true
		}
	}
	return false
}

// valueTypeStubs lists well-known names whose stubs must behave as
// value types for default-value synthesis.
var valueTypeStubs = map[string]bool{
	"Boolean": true, "Char": true,
	"SByte": true, "Byte": true,
	"Int16": true, "UInt16": true,
	"Int32": true, "UInt32": true,
	"Int64": true, "UInt64": true,
	"Single": true, "Double": true,
	"Decimal": true, "IntPtr": true, "UIntPtr": true,
	"Nullable`1": true,
}

func stubKind(name metadata.TypeName) metadata.TypeKind {
	if name.Namespace == "System" && valueTypeStubs[name.Name] {
		return metadata.KindValueType
	}
	return metadata.KindClass
}
