package typesys

import (
	"sync"

	"recoil/internal/metadata"
)

// restrict applies the member-visibility options to a module view
// before it enters the closure, uniformly for the root and for every
// resolved dependency. With OptExcludeNonPublic unset the module
// passes through untouched.
func restrict(m metadata.Module, opts Options) metadata.Module {
	if m == nil || !opts.Has(OptExcludeNonPublic) {
		return m
	}
	return &publicOnlyModule{inner: m}
}

// exported reports whether a member is visible outside its assembly.
func exported(a metadata.Accessibility) bool {
	switch a {
	case metadata.AccessPublic, metadata.AccessFamily, metadata.AccessFamilyOrAssembly:
		return true
	default:
		return false
	}
}

// publicOnlyModule is a filtering view over a module: non-public
// methods disappear from every lookup. Filtered type definitions are
// memoized so repeated lookups keep reference equality.
type publicOnlyModule struct {
	inner metadata.Module

	mu    sync.Mutex
	types map[metadata.TypeName]*metadata.TypeDef
}

var _ metadata.Module = (*publicOnlyModule)(nil)

func (m *publicOnlyModule) Name() string { return m.inner.Name() }

func (m *publicOnlyModule) Version() metadata.Version { return m.inner.Version() }

func (m *publicOnlyModule) Path() string { return m.inner.Path() }

func (m *publicOnlyModule) References() []metadata.AssemblyNameReference {
	return m.inner.References()
}

func (m *publicOnlyModule) ExportedTypes() []metadata.ExportedType { return m.inner.ExportedTypes() }

func (m *publicOnlyModule) HasTopLevelType(name metadata.TypeName) bool {
	return m.inner.HasTopLevelType(name)
}

func (m *publicOnlyModule) TargetFrameworkAttribute() string {
	return m.inner.TargetFrameworkAttribute()
}

func (m *publicOnlyModule) RuntimeVersion() string { return m.inner.RuntimeVersion() }

func (m *publicOnlyModule) TypeByName(name metadata.TypeName) *metadata.TypeDef {
	m.mu.Lock()
	defer m.mu.Unlock()
	if def, ok := m.types[name]; ok {
		return def
	}
	def := m.inner.TypeByName(name)
	if def == nil {
		return nil
	}
	filtered := *def
	filtered.Methods = nil
	for _, md := range def.Methods {
		if exported(md.Access) {
			filtered.Methods = append(filtered.Methods, md)
		}
	}
	if m.types == nil {
		m.types = make(map[metadata.TypeName]*metadata.TypeDef)
	}
	m.types[name] = &filtered
	return &filtered
}

func (m *publicOnlyModule) MethodByHandle(h metadata.MethodHandle) *metadata.MethodDef {
	def := m.inner.MethodByHandle(h)
	if def == nil || !exported(def.Access) {
		return nil
	}
	return def
}

func (m *publicOnlyModule) MethodHandles() []metadata.MethodHandle {
	var handles []metadata.MethodHandle
	for _, h := range m.inner.MethodHandles() {
		if def := m.inner.MethodByHandle(h); def != nil && exported(def.Access) {
			handles = append(handles, h)
		}
	}
	return handles
}
