package metadata

import "sort"

// StaticModule is an in-memory Module implementation. It backs the
// assembler's synthetic fallback module and test fixtures; real modules
// come from the metadata reader.
type StaticModule struct {
	ModName       string
	ModVersion    Version
	FilePath      string
	Refs          []AssemblyNameReference
	Exported      []ExportedType
	Types         map[TypeName]*TypeDef
	FrameworkAttr string
	Runtime       string
	Methods       map[MethodHandle]*MethodDef
}

var _ Module = (*StaticModule)(nil)

func (m *StaticModule) Name() string { return m.ModName }

func (m *StaticModule) Version() Version { return m.ModVersion }

func (m *StaticModule) Path() string { return m.FilePath }

func (m *StaticModule) References() []AssemblyNameReference { return m.Refs }

func (m *StaticModule) ExportedTypes() []ExportedType { return m.Exported }

func (m *StaticModule) TargetFrameworkAttribute() string { return m.FrameworkAttr }

func (m *StaticModule) RuntimeVersion() string { return m.Runtime }

func (m *StaticModule) HasTopLevelType(name TypeName) bool {
	_, ok := m.Types[name]
	return ok
}

func (m *StaticModule) TypeByName(name TypeName) *TypeDef {
	return m.Types[name]
}

func (m *StaticModule) MethodByHandle(h MethodHandle) *MethodDef {
	return m.Methods[h]
}

func (m *StaticModule) MethodHandles() []MethodHandle {
	handles := make([]MethodHandle, 0, len(m.Methods))
	for h := range m.Methods {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	return handles
}

// AddType registers a type definition, creating the map on first use.
func (m *StaticModule) AddType(t *TypeDef) {
	if m.Types == nil {
		m.Types = make(map[TypeName]*TypeDef)
	}
	m.Types[t.Name] = t
}

// AddMethod registers a method definition under its handle.
func (m *StaticModule) AddMethod(d *MethodDef) {
	if m.Methods == nil {
		m.Methods = make(map[MethodHandle]*MethodDef)
	}
	m.Methods[d.Handle] = d
}
