package framework

import (
	"testing"

	"recoil/internal/metadata"
)

func TestParseMonikerFamilies(t *testing.T) {
	cases := []struct {
		input string
		want  Family
	}{
		{".NETCoreApp,Version=v3.1", FamilyNETCoreApp},
		{".NETStandard,Version=v2.0", FamilyNETStandard},
		{"Silverlight,Version=v5.0", FamilySilverlight},
		{".NETFramework,Version=v4.8", FamilyNETFramework},
		{"SomethingElse,Version=v1.0", FamilyNETFramework},
	}
	for _, tc := range cases {
		if got := ParseMoniker(tc.input); got.Family != tc.want {
			t.Fatalf("ParseMoniker(%q).Family = %v, want %v", tc.input, got.Family, tc.want)
		}
	}
}

func TestParseMonikerIdempotent(t *testing.T) {
	monikers := []string{
		".NETFramework,Version=v4.8",
		".NETStandard,Version=v2.1",
		".NETCoreApp,Version=v3.1",
		".NETCoreApp,Version=v6.0",
		"Silverlight,Version=v5.0",
	}
	for _, m := range monikers {
		first := ParseMoniker(m)
		second := ParseMoniker(first.String())
		if first != second {
			t.Fatalf("%q: format/re-parse changed identity: %+v vs %+v", m, first, second)
		}
	}
}

func TestNETCoreAppFiveUpgradesToNET(t *testing.T) {
	id := ParseMoniker(".NETCoreApp,Version=v5.0")
	if id.Family != FamilyNET {
		t.Fatalf("NETCoreApp 5.0 should normalize to NET, got %v", id.Family)
	}
	id = ParseMoniker(".NETCoreApp,Version=v4.9")
	if id.Family != FamilyNETCoreApp {
		t.Fatalf("NETCoreApp 4.9 must stay NETCoreApp, got %v", id.Family)
	}
}

func TestParseMonikerIgnoresProfile(t *testing.T) {
	id := ParseMoniker(".NETFramework,Version=v4.0,Profile=Client")
	if id.Family != FamilyNETFramework || id.Version.Major != 4 {
		t.Fatalf("profile suffix should not affect parsing, got %+v", id)
	}
}

func systemRuntimeModule(version metadata.Version) *metadata.StaticModule {
	return &metadata.StaticModule{
		ModName: "App",
		Refs: []metadata.AssemblyNameReference{
			{Name: "System.Runtime", Version: version},
		},
	}
}

func TestDetectSystemRuntimeMapping(t *testing.T) {
	cases := []struct {
		ref  metadata.Version
		want Identity
	}{
		{metadata.Version{Major: 4, Minor: 2, Build: 0}, Identity{FamilyNETCoreApp, metadata.Version{Major: 2}}},
		{metadata.Version{Major: 4, Minor: 2, Build: 1}, Identity{FamilyNETCoreApp, metadata.Version{Major: 3}}},
		{metadata.Version{Major: 4, Minor: 2, Build: 2}, Identity{FamilyNETCoreApp, metadata.Version{Major: 3, Minor: 1}}},
	}
	for _, tc := range cases {
		got := Detect(systemRuntimeModule(tc.ref), "")
		if got != tc.want {
			t.Fatalf("System.Runtime %s: Detect = %+v, want %+v", tc.ref, got, tc.want)
		}
	}
}

func TestDetectSystemRuntimeUnknownVersionFallsThrough(t *testing.T) {
	module := systemRuntimeModule(metadata.Version{Major: 4, Minor: 1, Build: 9})
	got := Detect(module, "")
	// No mapping entry, no other signal: the runtime-version fallback
	// reports NETFramework 4.0.
	if got.Family != FamilyNETFramework || got.Version.Major != 4 {
		t.Fatalf("unmapped System.Runtime version should fall through, got %+v", got)
	}
}

func TestDetectHardCodedRootLibraries(t *testing.T) {
	corlib := &metadata.StaticModule{ModName: "mscorlib", ModVersion: metadata.Version{Major: 4}}
	if got := Detect(corlib, ""); got.Family != FamilyNETFramework {
		t.Fatalf("mscorlib should detect as NETFramework, got %+v", got)
	}
	std := &metadata.StaticModule{ModName: "netstandard", ModVersion: metadata.Version{Major: 2, Minor: 1}}
	if got := Detect(std, ""); got.Family != FamilyNETStandard || got.Version.Minor != 1 {
		t.Fatalf("netstandard should detect as NETStandard at its own version, got %+v", got)
	}
}

func TestDetectAttributeWinsOverReferences(t *testing.T) {
	module := systemRuntimeModule(metadata.Version{Major: 4, Minor: 2, Build: 2})
	module.FrameworkAttr = ".NETCoreApp,Version=v6.0"
	got := Detect(module, "")
	if got.Family != FamilyNET || got.Version.Major != 6 {
		t.Fatalf("declared attribute must win, got %+v", got)
	}
}

func TestDetectFromPathShapes(t *testing.T) {
	cases := []struct {
		path string
		want Family
	}{
		{`C:\Program Files\dotnet\shared\Microsoft.NETCore.App\3.1.32\System.Text.Json.dll`, FamilyNETCoreApp},
		{`C:\Program Files\dotnet\packs\Microsoft.NETCore.App.Ref\6.0.25\ref\System.dll`, FamilyNET},
		{`C:\Program Files (x86)\Reference Assemblies\Microsoft\Framework\.NETFramework\v4.8\mscorlib.dll`, FamilyNETFramework},
		{`/home/user/.nuget/packages/netstandard.library/2.0.3/build/netstandard.dll`, FamilyNETStandard},
	}
	for _, tc := range cases {
		module := &metadata.StaticModule{ModName: "Lib"}
		got := Detect(module, tc.path)
		if got.Family != tc.want {
			t.Fatalf("Detect(%q).Family = %v, want %v", tc.path, got.Family, tc.want)
		}
	}
}

func TestDetectRuntimeVersionFallback(t *testing.T) {
	module := &metadata.StaticModule{ModName: "Lib", Runtime: "v2.0.50727"}
	got := Detect(module, "")
	if got.Family != FamilyNETFramework || got.Version.Major != 2 {
		t.Fatalf("runtime-version fallback should report NETFramework 2.0, got %+v", got)
	}

	empty := &metadata.StaticModule{ModName: "Lib"}
	got = Detect(empty, "")
	if got.Family != FamilyNETFramework || got.Version.Major != 4 {
		t.Fatalf("absent runtime version should default to 4.0, got %+v", got)
	}
}
