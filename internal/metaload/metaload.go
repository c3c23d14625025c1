// Package metaload loads module metadata from TOML sidecar
// descriptions (<module>.mdesc.toml). It implements the loader, reader
// and builder collaborator contracts so the front end runs end to end
// without the native PE/IL reader backend, which plugs in through the
// same interfaces.
package metaload

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"recoil/internal/metadata"
)

// SidecarSuffix is appended to a module's file path to locate its
// description.
const SidecarSuffix = ".mdesc.toml"

type moduleDesc struct {
	Name          string       `toml:"name"`
	Version       string       `toml:"version"`
	Runtime       string       `toml:"runtime"`
	FrameworkAttr string       `toml:"framework_attr"`
	References    []refDesc    `toml:"reference"`
	Exported      []exportDesc `toml:"exported_type"`
	Types         []typeDesc   `toml:"type"`
}

type refDesc struct {
	FullName string `toml:"full_name"`
}

type exportDesc struct {
	Namespace string `toml:"namespace"`
	Name      string `toml:"name"`
	Forwarder bool   `toml:"forwarder"`
	Scope     string `toml:"scope"`
}

type typeDesc struct {
	Namespace string       `toml:"namespace"`
	Name      string       `toml:"name"`
	Kind      string       `toml:"kind"`
	Base      string       `toml:"base"`
	Friends   []string     `toml:"friends"`
	Fields    []fieldDesc  `toml:"field"`
	Methods   []methodDesc `toml:"method"`
}

type fieldDesc struct {
	Name   string `toml:"name"`
	Type   string `toml:"type"`
	Static bool   `toml:"static"`
}

type methodDesc struct {
	Name     string   `toml:"name"`
	Access   string   `toml:"access"`
	Params   []string `toml:"params"`
	Return   string   `toml:"return"`
	Ctor     bool     `toml:"ctor"`
	Static   bool     `toml:"static"`
	Abstract bool     `toml:"abstract"`
	Extern   bool     `toml:"extern"`
	Async    bool     `toml:"async"`
	Iterator bool     `toml:"iterator"`
	MoveNext uint32   `toml:"move_next"`
	Locals   []string `toml:"locals"`
	Warnings []string `toml:"warnings"`
}

// Loader reads sidecar descriptions next to resolved module files.
type Loader struct{}

// Load parses <path>.mdesc.toml into a metadata view. A missing or
// malformed sidecar is an ordinary load error; closure assembly skips
// the module.
func (Loader) Load(path string) (metadata.Module, error) {
	mod, _, err := LoadWithHints(path)
	if err != nil {
		return nil, err
	}
	return mod, nil
}

// LoadWithHints additionally returns the per-method body hints used by
// the fixture-backed reader. Only the main module needs them.
func LoadWithHints(path string) (*metadata.StaticModule, map[metadata.MethodHandle]BodyHints, error) {
	sidecar := path + SidecarSuffix
	data, err := os.ReadFile(sidecar)
	if err != nil {
		return nil, nil, err
	}
	var desc moduleDesc
	if err := toml.Unmarshal(data, &desc); err != nil {
		return nil, nil, fmt.Errorf("%s: failed to parse TOML: %w", sidecar, err)
	}
	return buildModule(&desc, path)
}

func buildModule(desc *moduleDesc, path string) (*metadata.StaticModule, map[metadata.MethodHandle]BodyHints, error) {
	mod := &metadata.StaticModule{
		ModName:       desc.Name,
		FilePath:      path,
		FrameworkAttr: desc.FrameworkAttr,
		Runtime:       desc.Runtime,
	}
	hints := make(map[metadata.MethodHandle]BodyHints)
	if desc.Version != "" {
		v, err := metadata.ParseVersion(desc.Version)
		if err != nil {
			return nil, nil, err
		}
		mod.ModVersion = v
	}
	for _, r := range desc.References {
		ref, err := metadata.ParseFullName(r.FullName)
		if err != nil {
			return nil, nil, err
		}
		mod.Refs = append(mod.Refs, ref)
	}
	for _, e := range desc.Exported {
		exported := metadata.ExportedType{
			Name:      metadata.TypeName{Namespace: e.Namespace, Name: e.Name},
			Forwarder: e.Forwarder,
		}
		if e.Scope != "" {
			scope, err := metadata.ParseFullName(e.Scope)
			if err != nil {
				return nil, nil, err
			}
			exported.Scope = &scope
		}
		mod.Exported = append(mod.Exported, exported)
	}

	// Method tokens are assigned in declaration order, mirroring how
	// the real metadata table numbers rows.
	nextHandle := metadata.MethodHandle(0x06000001)
	for _, t := range desc.Types {
		def := &metadata.TypeDef{
			Name:       metadata.TypeName{Namespace: t.Namespace, Name: t.Name},
			Kind:       parseKind(t.Kind),
			ModuleName: desc.Name,
			Friends:    t.Friends,
		}
		if t.Base != "" {
			base := metadata.PlainTypeRef(parseTypeName(t.Base))
			def.Base = &base
		}
		for _, f := range t.Fields {
			def.Fields = append(def.Fields, metadata.FieldDef{
				Name:   f.Name,
				Type:   metadata.PlainTypeRef(parseTypeName(f.Type)),
				Static: f.Static,
			})
		}
		for order, m := range t.Methods {
			method, err := buildMethod(&m, def, nextHandle, order)
			if err != nil {
				return nil, nil, fmt.Errorf("%s.%s: %w", def.Name, m.Name, err)
			}
			nextHandle++
			def.Methods = append(def.Methods, method)
			mod.AddMethod(method)
			hints[method.Handle] = BodyHints{
				Async:    m.Async,
				Iterator: m.Iterator,
				MoveNext: metadata.MethodHandle(m.MoveNext),
				Locals:   m.Locals,
				Warnings: m.Warnings,
			}
		}
		mod.AddType(def)
	}
	return mod, hints, nil
}

func buildMethod(m *methodDesc, declaring *metadata.TypeDef, handle metadata.MethodHandle, order int) (*metadata.MethodDef, error) {
	def := &metadata.MethodDef{
		Handle:        handle,
		Name:          m.Name,
		DeclaringType: declaring,
		Access:        parseAccess(m.Access),
		IsCtor:        m.Ctor || m.Name == ".ctor",
		IsStatic:      m.Static,
		IsAbstract:    m.Abstract,
		IsExtern:      m.Extern,
		HasBody:       !m.Abstract && !m.Extern,
		DeclOrder:     order,
	}
	for _, p := range m.Params {
		param, err := parseParam(p)
		if err != nil {
			return nil, err
		}
		def.Params = append(def.Params, param)
	}
	def.Return = metadata.PlainTypeRef(metadata.TypeName{Namespace: "System", Name: "Void"})
	if m.Return != "" {
		def.Return = parseTypeRef(m.Return)
	}
	return def, nil
}

// parseParam understands "name:Namespace.Type[:ref|out]".
func parseParam(s string) (metadata.ParamDef, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return metadata.ParamDef{}, fmt.Errorf("invalid parameter %q", s)
	}
	param := metadata.ParamDef{
		Name: parts[0],
		Type: parseTypeRef(parts[1]),
	}
	if len(parts) > 2 {
		switch parts[2] {
		case "ref":
			param.Mode = metadata.ParamRef
			param.Type.ByRef = true
		case "out":
			param.Mode = metadata.ParamOut
			param.Type.ByRef = true
		default:
			return metadata.ParamDef{}, fmt.Errorf("invalid parameter mode %q", parts[2])
		}
	}
	return param, nil
}

// parseTypeRef understands "Namespace.Type" with an optional leading
// "ref " for by-reference returns.
func parseTypeRef(s string) metadata.TypeRef {
	byref := false
	if rest, ok := strings.CutPrefix(s, "ref "); ok {
		byref = true
		s = rest
	}
	ref := metadata.PlainTypeRef(parseTypeName(s))
	ref.ByRef = byref
	return ref
}

func parseTypeName(s string) metadata.TypeName {
	if i := strings.LastIndex(s, "."); i >= 0 {
		return metadata.TypeName{Namespace: s[:i], Name: s[i+1:]}
	}
	return metadata.TypeName{Name: s}
}

func parseKind(s string) metadata.TypeKind {
	switch s {
	case "struct":
		return metadata.KindValueType
	case "enum":
		return metadata.KindEnum
	case "interface":
		return metadata.KindInterface
	case "delegate":
		return metadata.KindDelegate
	default:
		return metadata.KindClass
	}
}

func parseAccess(s string) metadata.Accessibility {
	switch s {
	case "private":
		return metadata.AccessPrivate
	case "privatescope":
		return metadata.AccessPrivateScope
	case "internal":
		return metadata.AccessAssembly
	case "protected":
		return metadata.AccessFamily
	case "protected internal":
		return metadata.AccessFamilyOrAssembly
	case "private protected":
		return metadata.AccessFamilyAndAssembly
	default:
		return metadata.AccessPublic
	}
}
