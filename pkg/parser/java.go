package parser

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// JavaFile is the declaration-level view of one Java compilation unit.
type JavaFile struct {
	Path    string `json:"path"`
	Package string `json:"package,omitempty"`

	// Imports are single-type imports, fully qualified.
	Imports []string `json:"imports,omitempty"`

	// WildcardImports are the prefixes of on-demand imports (a.b for a.b.*).
	WildcardImports []string `json:"wildcard_imports,omitempty"`

	Types []TypeDecl `json:"types,omitempty"`
}

// TypeDecl is a class, interface, enum, record, or annotation declaration.
type TypeDecl struct {
	// Name is the simple name, prefixed by enclosing type names for nested types.
	Name      string   `json:"name"`
	Kind      string   `json:"kind"`
	Line      int      `json:"line"`
	Modifiers []string `json:"modifiers,omitempty"`

	// Supertypes lists declared supertypes with type arguments erased:
	// the superclass first, then interfaces in declaration order.
	Supertypes []string     `json:"supertypes,omitempty"`
	Methods    []MethodDecl `json:"methods,omitempty"`
	Fields     []FieldDecl  `json:"fields,omitempty"`
}

// MethodDecl is a method declared directly in a type body. Constructors are excluded.
type MethodDecl struct {
	Name           string   `json:"name"`
	ReturnType     string   `json:"return_type"`
	ParameterTypes []string `json:"parameter_types,omitempty"`
	Modifiers      []string `json:"modifiers,omitempty"`
	Line           int      `json:"line"`
}

// FieldDecl is one declared field variable.
type FieldDecl struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Modifiers []string `json:"modifiers,omitempty"`
	Line      int      `json:"line"`
}

// javaModifiers are the keyword modifiers kept on declarations. Annotations are dropped.
var javaModifiers = map[string]bool{
	"public": true, "protected": true, "private": true,
	"abstract": true, "static": true, "final": true, "strictfp": true,
	"default": true, "synchronized": true, "native": true,
	"transient": true, "volatile": true, "sealed": true, "non-sealed": true,
}

var typeDeclKinds = map[string]string{
	"class_declaration":           "class",
	"interface_declaration":       "interface",
	"enum_declaration":            "enum",
	"record_declaration":          "record",
	"annotation_type_declaration": "annotation",
}

// ExtractJavaTypes collects the package, imports, and type declarations of a parsed Java file.
func ExtractJavaTypes(result *ParseResult) (*JavaFile, error) {
	if result.Language != LangJava {
		return nil, fmt.Errorf("not a java file: %s", result.Path)
	}

	root := result.Tree.RootNode()
	src := result.Source
	file := &JavaFile{Path: result.Path}

	for i := range int(root.NamedChildCount()) {
		child := root.NamedChild(i)
		switch nodeType := child.Type(); nodeType {
		case "package_declaration":
			file.Package = qualifiedName(child, src)
		case "import_declaration":
			name := qualifiedName(child, src)
			if name == "" {
				continue
			}
			if childOfType(child, "asterisk") != nil {
				file.WildcardImports = append(file.WildcardImports, name)
			} else if childOfType(child, "static") == nil {
				file.Imports = append(file.Imports, name)
			}
		default:
			if _, ok := typeDeclKinds[nodeType]; ok {
				file.Types = extractTypeDecl(child, src, "", file.Types)
			}
		}
	}

	return file, nil
}

// qualifiedName returns the dotted name of a package or import declaration.
func qualifiedName(node *sitter.Node, src []byte) string {
	for i := range int(node.NamedChildCount()) {
		child := node.NamedChild(i)
		if t := child.Type(); t == "scoped_identifier" || t == "identifier" {
			return GetNodeText(child, src)
		}
	}
	return ""
}

// extractTypeDecl appends the declaration at node and every nested member type to out.
func extractTypeDecl(node *sitter.Node, src []byte, outer string, out []TypeDecl) []TypeDecl {
	kind := typeDeclKinds[node.Type()]
	name := GetNodeText(node.ChildByFieldName("name"), src)
	if name == "" {
		return out
	}
	if outer != "" {
		name = outer + "." + name
	}

	decl := TypeDecl{
		Name:       name,
		Kind:       kind,
		Line:       startLine(node),
		Modifiers:  extractModifiers(node, src),
		Supertypes: extractSupertypes(node, src),
	}

	var nested []*sitter.Node
	body := node.ChildByFieldName("body")
	if body != nil {
		members := body
		if kind == "enum" {
			for i := range int(body.NamedChildCount()) {
				child := body.NamedChild(i)
				if child.Type() == "enum_constant" {
					decl.Fields = append(decl.Fields, FieldDecl{
						Name:      GetNodeText(child.ChildByFieldName("name"), src),
						Type:      name,
						Modifiers: []string{"public", "static", "final"},
						Line:      startLine(child),
					})
				}
			}
			members = childOfType(body, "enum_body_declarations")
		}
		if members != nil {
			nested = extractMembers(members, src, kind, &decl)
		}
	}

	if kind == "record" {
		addRecordComponents(node, src, &decl)
	}

	out = append(out, decl)
	for _, n := range nested {
		out = extractTypeDecl(n, src, name, out)
	}
	return out
}

// extractMembers fills decl from the direct members of a type body and returns
// the nested type declarations found there.
func extractMembers(body *sitter.Node, src []byte, kind string, decl *TypeDecl) []*sitter.Node {
	var nested []*sitter.Node
	inInterface := kind == "interface" || kind == "annotation"

	for i := range int(body.NamedChildCount()) {
		member := body.NamedChild(i)
		switch memberType := member.Type(); memberType {
		case "method_declaration", "annotation_type_element_declaration":
			m := MethodDecl{
				Name:           GetNodeText(member.ChildByFieldName("name"), src),
				ReturnType:     eraseType(GetNodeText(member.ChildByFieldName("type"), src)),
				ParameterTypes: extractParameterTypes(member.ChildByFieldName("parameters"), src),
				Modifiers:      extractModifiers(member, src),
				Line:           startLine(member),
			}
			if dims := member.ChildByFieldName("dimensions"); dims != nil {
				m.ReturnType += GetNodeText(dims, src)
			}
			if inInterface {
				m.Modifiers = interfaceMethodModifiers(m.Modifiers, member.ChildByFieldName("body") != nil)
			}
			if m.Name != "" {
				decl.Methods = append(decl.Methods, m)
			}
		case "field_declaration", "constant_declaration":
			fields := extractFieldDecls(member, src)
			if inInterface {
				for j := range fields {
					fields[j].Modifiers = withModifiers(fields[j].Modifiers, "public", "static", "final")
				}
			}
			decl.Fields = append(decl.Fields, fields...)
		default:
			if _, ok := typeDeclKinds[memberType]; ok {
				nested = append(nested, member)
			}
		}
	}

	return nested
}

// interfaceMethodModifiers applies the implicit modifiers of interface members.
func interfaceMethodModifiers(mods []string, hasBody bool) []string {
	if !slices.Contains(mods, "private") {
		mods = withModifiers(mods, "public")
	}
	if !hasBody && !slices.Contains(mods, "static") && !slices.Contains(mods, "default") {
		mods = withModifiers(mods, "abstract")
	}
	return mods
}

func withModifiers(mods []string, add ...string) []string {
	for _, m := range add {
		if !slices.Contains(mods, m) {
			mods = append(mods, m)
		}
	}
	return mods
}

// addRecordComponents adds the implicit private fields and public accessors of a record.
func addRecordComponents(node *sitter.Node, src []byte, decl *TypeDecl) {
	params := node.ChildByFieldName("parameters")
	if params == nil {
		return
	}
	for i := range int(params.NamedChildCount()) {
		p := params.NamedChild(i)
		if p.Type() != "formal_parameter" {
			continue
		}
		name := GetNodeText(p.ChildByFieldName("name"), src)
		typ := eraseType(GetNodeText(p.ChildByFieldName("type"), src))
		decl.Fields = append(decl.Fields, FieldDecl{
			Name:      name,
			Type:      typ,
			Modifiers: []string{"private", "final"},
			Line:      startLine(p),
		})
		explicit := slices.ContainsFunc(decl.Methods, func(m MethodDecl) bool {
			return m.Name == name && len(m.ParameterTypes) == 0
		})
		if !explicit {
			decl.Methods = append(decl.Methods, MethodDecl{
				Name:       name,
				ReturnType: typ,
				Modifiers:  []string{"public"},
				Line:       startLine(p),
			})
		}
	}
}

// extractModifiers returns the keyword modifiers of a declaration.
func extractModifiers(node *sitter.Node, src []byte) []string {
	mods := childOfType(node, "modifiers")
	if mods == nil {
		return nil
	}
	var out []string
	for i := range int(mods.ChildCount()) {
		text := GetNodeText(mods.Child(i), src)
		if javaModifiers[text] {
			out = append(out, text)
		}
	}
	return out
}

// extractSupertypes returns the erased names in extends/implements clauses.
func extractSupertypes(node *sitter.Node, src []byte) []string {
	var supers []string
	for i := range int(node.NamedChildCount()) {
		child := node.NamedChild(i)
		switch child.Type() {
		case "superclass":
			if child.NamedChildCount() > 0 {
				supers = append(supers, eraseType(GetNodeText(child.NamedChild(0), src)))
			}
		case "super_interfaces", "extends_interfaces":
			if list := childOfType(child, "type_list"); list != nil {
				for j := range int(list.NamedChildCount()) {
					supers = append(supers, eraseType(GetNodeText(list.NamedChild(j), src)))
				}
			}
		}
	}
	return supers
}

// extractParameterTypes returns erased parameter types. Varargs become arrays,
// matching how the JVM sees them.
func extractParameterTypes(params *sitter.Node, src []byte) []string {
	if params == nil {
		return nil
	}
	var types []string
	for i := range int(params.NamedChildCount()) {
		p := params.NamedChild(i)
		switch p.Type() {
		case "formal_parameter":
			t := eraseType(GetNodeText(p.ChildByFieldName("type"), src))
			if dims := p.ChildByFieldName("dimensions"); dims != nil {
				t += strings.Repeat("[]", strings.Count(GetNodeText(dims, src), "["))
			}
			types = append(types, t)
		case "spread_parameter":
			for j := range int(p.NamedChildCount()) {
				c := p.NamedChild(j)
				if t := c.Type(); t != "modifiers" && t != "variable_declarator" {
					types = append(types, eraseType(GetNodeText(c, src))+"[]")
					break
				}
			}
		}
	}
	return types
}

// extractFieldDecls returns one FieldDecl per declarator (int a, b; yields two).
func extractFieldDecls(node *sitter.Node, src []byte) []FieldDecl {
	typ := eraseType(GetNodeText(node.ChildByFieldName("type"), src))
	mods := extractModifiers(node, src)

	var fields []FieldDecl
	for i := range int(node.NamedChildCount()) {
		d := node.NamedChild(i)
		if d.Type() != "variable_declarator" {
			continue
		}
		t := typ
		if dims := d.ChildByFieldName("dimensions"); dims != nil {
			t += strings.Repeat("[]", strings.Count(GetNodeText(dims, src), "["))
		}
		fields = append(fields, FieldDecl{
			Name:      GetNodeText(d.ChildByFieldName("name"), src),
			Type:      t,
			Modifiers: slices.Clone(mods),
			Line:      startLine(d),
		})
	}
	return fields
}

var typeAnnotation = regexp.MustCompile(`@[\w.]+(\([^)]*\))?`)

// eraseType strips annotations, type arguments, and whitespace from a type:
// "java.util.Map<String, List<Integer>>" becomes "java.util.Map".
func eraseType(t string) string {
	t = typeAnnotation.ReplaceAllString(t, "")
	var b strings.Builder
	depth := 0
	for _, r := range t {
		switch {
		case r == '<':
			depth++
		case r == '>':
			if depth > 0 {
				depth--
			}
		case depth > 0:
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
