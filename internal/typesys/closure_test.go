package typesys

import (
	"fmt"
	"testing"

	"recoil/internal/metadata"
)

// fixture wires a FileFinder and Loader over in-memory modules keyed by
// assembly name, tracking how often each one loads.
type fixture struct {
	modules map[string]*metadata.StaticModule
	loads   map[string]int
}

func newFixture() *fixture {
	return &fixture{
		modules: make(map[string]*metadata.StaticModule),
		loads:   make(map[string]int),
	}
}

func (f *fixture) add(m *metadata.StaticModule) {
	f.modules[m.ModName] = m
}

func (f *fixture) FindFile(ref metadata.AssemblyNameReference) (string, bool) {
	if _, ok := f.modules[ref.Name]; !ok {
		return "", false
	}
	return "mem://" + ref.Name, true
}

func (f *fixture) Load(path string) (metadata.Module, error) {
	name := path[len("mem://"):]
	m, ok := f.modules[name]
	if !ok || m == nil {
		return nil, fmt.Errorf("bad metadata in %q", name)
	}
	f.loads[name]++
	return m, nil
}

func refTo(name string, major uint16) metadata.AssemblyNameReference {
	return metadata.AssemblyNameReference{Name: name, Version: metadata.Version{Major: major}}
}

func corlibModule() *metadata.StaticModule {
	m := &metadata.StaticModule{ModName: "mscorlib", ModVersion: metadata.Version{Major: 4}}
	for _, name := range metadata.WellKnownTypes {
		m.AddType(&metadata.TypeDef{Name: name, Kind: stubKind(name), ModuleName: m.ModName})
	}
	return m
}

func TestAssembleDeduplicatesAcrossForwardingChains(t *testing.T) {
	f := newFixture()
	f.add(corlibModule())

	// Root references A and B; both forward a type into Shared.
	shared := &metadata.StaticModule{ModName: "Shared"}
	shared.AddType(&metadata.TypeDef{Name: metadata.TypeName{Namespace: "Lib", Name: "Widget"}, ModuleName: "Shared"})
	f.add(shared)

	a := &metadata.StaticModule{ModName: "A", Exported: []metadata.ExportedType{{
		Name:      metadata.TypeName{Namespace: "Lib", Name: "Widget"},
		Forwarder: true,
		Scope:     &metadata.AssemblyNameReference{Name: "Shared", Version: metadata.Version{Major: 1}},
	}}}
	b := &metadata.StaticModule{ModName: "B", Exported: []metadata.ExportedType{{
		Name:      metadata.TypeName{Namespace: "Lib", Name: "Widget"},
		Forwarder: true,
		Scope:     &metadata.AssemblyNameReference{Name: "Shared", Version: metadata.Version{Major: 1}},
	}}}
	f.add(a)
	f.add(b)

	root := &metadata.StaticModule{ModName: "App", Refs: []metadata.AssemblyNameReference{
		refTo("A", 1), refTo("B", 1), refTo("mscorlib", 4),
	}}

	c := Assemble(root, f, f, DefaultOptions)
	if f.loads["Shared"] != 1 {
		t.Fatalf("Shared reached through two forwarding chains must load once, loaded %d times", f.loads["Shared"])
	}
	if len(c.Modules) != 4 {
		t.Fatalf("expected 4 resolved modules, got %d", len(c.Modules))
	}
	if c.Fallback != nil {
		t.Fatalf("complete corlib leaves nothing to stub, got fallback %v", c.Fallback.Name())
	}

	def := c.FindType(metadata.TypeName{Namespace: "Lib", Name: "Widget"})
	if def == nil || def.ModuleName != "Shared" {
		t.Fatalf("forwarded type should resolve to its declaring module, got %+v", def)
	}
}

func TestAssembleForwardingCycleTerminates(t *testing.T) {
	f := newFixture()
	f.add(corlibModule())

	// A forwards into B and B forwards back into A.
	widget := metadata.TypeName{Namespace: "Lib", Name: "Widget"}
	a := &metadata.StaticModule{ModName: "A", Exported: []metadata.ExportedType{{
		Name: widget, Forwarder: true,
		Scope: &metadata.AssemblyNameReference{Name: "B", Version: metadata.Version{Major: 1}},
	}}}
	b := &metadata.StaticModule{ModName: "B", Exported: []metadata.ExportedType{{
		Name: widget, Forwarder: true,
		Scope: &metadata.AssemblyNameReference{Name: "A", Version: metadata.Version{Major: 1}},
	}}}
	f.add(a)
	f.add(b)

	root := &metadata.StaticModule{ModName: "App", Refs: []metadata.AssemblyNameReference{
		refTo("A", 1), refTo("mscorlib", 4),
	}}
	c := Assemble(root, f, f, DefaultOptions)
	if f.loads["A"] != 1 || f.loads["B"] != 1 {
		t.Fatalf("cycle members must each load once, got A=%d B=%d", f.loads["A"], f.loads["B"])
	}
	if len(c.Modules) != 3 {
		t.Fatalf("expected 3 resolved modules, got %d", len(c.Modules))
	}
}

func TestAssembleSkipsUnresolvableAndCorrupt(t *testing.T) {
	f := newFixture()
	// "Broken" resolves but fails to load.
	f.modules["Broken"] = nil

	root := &metadata.StaticModule{ModName: "App", Refs: []metadata.AssemblyNameReference{
		refTo("Missing", 1), refTo("Broken", 1),
	}}
	c := Assemble(root, f, f, DefaultOptions)
	if len(c.Modules) != 0 {
		t.Fatalf("unresolvable and corrupt references must be skipped, got %d modules", len(c.Modules))
	}
}

func TestFallbackStubsExactlyMissingTypes(t *testing.T) {
	f := newFixture()

	// A partial corlib that declares Object and Int32 only.
	partial := &metadata.StaticModule{ModName: "mscorlib"}
	object := metadata.TypeName{Namespace: "System", Name: "Object"}
	int32Name := metadata.TypeName{Namespace: "System", Name: "Int32"}
	partial.AddType(&metadata.TypeDef{Name: object, Kind: metadata.KindClass, ModuleName: "mscorlib"})
	partial.AddType(&metadata.TypeDef{Name: int32Name, Kind: metadata.KindValueType, ModuleName: "mscorlib"})
	f.add(partial)

	root := &metadata.StaticModule{ModName: "App", Refs: []metadata.AssemblyNameReference{refTo("mscorlib", 4)}}
	c := Assemble(root, f, f, DefaultOptions)
	if c.Fallback == nil {
		t.Fatalf("incomplete base vocabulary must produce a fallback module")
	}
	if c.Fallback.Name() != "MinimalCorlib" {
		t.Fatalf("fallback name = %q", c.Fallback.Name())
	}

	// Declared types are not stubbed.
	for _, name := range []metadata.TypeName{object, int32Name} {
		if c.Fallback.HasTopLevelType(name) {
			t.Fatalf("%s is declared and must not be stubbed", name)
		}
		if def := c.FindType(name); def == nil || def.ModuleName != "mscorlib" {
			t.Fatalf("%s should resolve to the real declaration, got %+v", name, def)
		}
	}

	// Every other well-known type is stubbed, value types as such.
	for _, name := range metadata.WellKnownTypes {
		if name == object || name == int32Name {
			continue
		}
		stub := c.Fallback.TypeByName(name)
		if stub == nil {
			t.Fatalf("well-known %s should be stubbed", name)
		}
		wantValue := name.Namespace == "System" && valueTypeStubs[name.Name]
		if stub.IsValueType() != wantValue {
			t.Fatalf("%s stub value-type = %v, want %v", name, stub.IsValueType(), wantValue)
		}
	}
}

func TestFindTypeMemoizationReturnsSameDefinition(t *testing.T) {
	f := newFixture()
	f.add(corlibModule())
	root := &metadata.StaticModule{ModName: "App", Refs: []metadata.AssemblyNameReference{refTo("mscorlib", 4)}}

	c := Assemble(root, f, f, DefaultOptions)
	name := metadata.TypeName{Namespace: "System", Name: "String"}
	first := c.FindType(name)
	second := c.FindType(name)
	if first == nil || first != second {
		t.Fatalf("cached lookups must return the identical definition")
	}

	uncached := Assemble(root, f, f, DefaultOptions|OptUncached)
	if uncached.FindType(name) == nil {
		t.Fatalf("uncached closure should still find the type")
	}
}

func TestExcludeNonPublicFiltersMembers(t *testing.T) {
	f := newFixture()

	libType := &metadata.TypeDef{Name: metadata.TypeName{Namespace: "Lib", Name: "C"}, ModuleName: "Lib"}
	libRun := &metadata.MethodDef{Handle: 0x06000010, Name: "Run", DeclaringType: libType, Access: metadata.AccessPublic}
	libHidden := &metadata.MethodDef{Handle: 0x06000011, Name: "hidden", DeclaringType: libType, Access: metadata.AccessAssembly}
	libType.Methods = []*metadata.MethodDef{libRun, libHidden}
	lib := &metadata.StaticModule{ModName: "Lib"}
	lib.AddType(libType)
	lib.AddMethod(libRun)
	lib.AddMethod(libHidden)
	f.add(lib)

	rootType := &metadata.TypeDef{Name: metadata.TypeName{Namespace: "App", Name: "Main"}, ModuleName: "App"}
	rootPublic := &metadata.MethodDef{Handle: 0x06000001, Name: "Start", DeclaringType: rootType, Access: metadata.AccessPublic}
	rootSecret := &metadata.MethodDef{Handle: 0x06000002, Name: "secret", DeclaringType: rootType, Access: metadata.AccessPrivate}
	rootType.Methods = []*metadata.MethodDef{rootPublic, rootSecret}
	root := &metadata.StaticModule{ModName: "App", Refs: []metadata.AssemblyNameReference{refTo("Lib", 1)}}
	root.AddType(rootType)
	root.AddMethod(rootPublic)
	root.AddMethod(rootSecret)

	c := Assemble(root, f, f, DefaultOptions|OptExcludeNonPublic)

	// The filter applies uniformly: root and dependency alike.
	if c.MethodByHandle(rootSecret.Handle) != nil {
		t.Fatalf("private root method must not be visible in the closure")
	}
	if c.MethodByHandle(libHidden.Handle) != nil {
		t.Fatalf("assembly-visible dependency method must not be visible in the closure")
	}
	if c.MethodByHandle(rootPublic.Handle) != rootPublic || c.MethodByHandle(libRun.Handle) != libRun {
		t.Fatalf("public methods must stay visible")
	}

	def := c.FindType(rootType.Name)
	if def == nil || len(def.Methods) != 1 || def.Methods[0] != rootPublic {
		t.Fatalf("type lookup should hide non-public members, got %+v", def)
	}
	if same := c.FindType(rootType.Name); same != def {
		t.Fatalf("filtered definitions must keep reference equality across lookups")
	}

	handles := c.Root.MethodHandles()
	if len(handles) != 1 || handles[0] != rootPublic.Handle {
		t.Fatalf("handle enumeration should skip non-public methods, got %v", handles)
	}

	// Without the flag everything stays visible.
	open := Assemble(root, f, f, DefaultOptions)
	if open.MethodByHandle(rootSecret.Handle) != rootSecret {
		t.Fatalf("default options must not filter members")
	}
}

func TestClosureMethodByHandle(t *testing.T) {
	f := newFixture()
	lib := &metadata.StaticModule{ModName: "Lib"}
	owner := &metadata.TypeDef{Name: metadata.TypeName{Namespace: "Lib", Name: "C"}, ModuleName: "Lib"}
	lib.AddType(owner)
	lib.AddMethod(&metadata.MethodDef{Handle: 0x06000001, Name: "Run", DeclaringType: owner})
	f.add(lib)

	root := &metadata.StaticModule{ModName: "App", Refs: []metadata.AssemblyNameReference{refTo("Lib", 1)}}
	c := Assemble(root, f, f, DefaultOptions)

	def := c.MethodByHandle(0x06000001)
	if def == nil || def.Name != "Run" {
		t.Fatalf("method handle should resolve through the closure, got %+v", def)
	}
	if c.MethodByHandle(0x06000099) != nil {
		t.Fatalf("unknown handle must be nil")
	}
}
