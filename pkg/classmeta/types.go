package classmeta

import (
	"slices"
	"strings"
)

// Kind is the declaration kind of a type.
type Kind string

const (
	KindClass      Kind = "class"
	KindInterface  Kind = "interface"
	KindEnum       Kind = "enum"
	KindRecord     Kind = "record"
	KindAnnotation Kind = "annotation"
)

// Type identifies the class a node describes. It is only used for lookups and diagnostics.
type Type struct {
	Name    string `json:"name"`
	Package string `json:"package,omitempty"`
	Kind    Kind   `json:"kind"`
	Path    string `json:"path,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// QualifiedName returns the package-qualified name (a.b.Outer.Inner).
func (t Type) QualifiedName() string {
	if t.Package == "" {
		return t.Name
	}
	return t.Package + "." + t.Name
}

func (t Type) String() string {
	kind := t.Kind
	if kind == "" {
		kind = KindClass
	}
	return string(kind) + " " + t.QualifiedName()
}

// Method is a declared method.
type Method struct {
	Name           string   `json:"name"`
	DeclaringType  string   `json:"declaring_type"`
	ReturnType     string   `json:"return_type"`
	ParameterTypes []string `json:"parameter_types,omitempty"`
	Modifiers      []string `json:"modifiers,omitempty"`
	Line           int      `json:"line,omitempty"`
}

// HasModifier reports whether mod is among the method's modifiers.
func (m Method) HasModifier(mod string) bool {
	return slices.Contains(m.Modifiers, mod)
}

func (m Method) IsStatic() bool { return m.HasModifier("static") }
func (m Method) IsPublic() bool { return m.HasModifier("public") }

// Signature returns name(T1, T2).
func (m Method) Signature() string {
	return m.Name + "(" + strings.Join(m.ParameterTypes, ", ") + ")"
}

// String returns the declaring type followed by the signature.
func (m Method) String() string {
	if m.DeclaringType == "" {
		return m.Signature()
	}
	return m.DeclaringType + "." + m.Signature()
}

// Field is a declared field.
type Field struct {
	Name          string   `json:"name"`
	DeclaringType string   `json:"declaring_type"`
	Type          string   `json:"type"`
	Modifiers     []string `json:"modifiers,omitempty"`
	Line          int      `json:"line,omitempty"`
}

// HasModifier reports whether mod is among the field's modifiers.
func (f Field) HasModifier(mod string) bool {
	return slices.Contains(f.Modifiers, mod)
}

func (f Field) String() string {
	if f.DeclaringType == "" {
		return f.Name
	}
	return f.DeclaringType + "." + f.Name
}
