package hierarchy

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/panbanda/classmeta/pkg/classmeta"
	"github.com/panbanda/classmeta/pkg/config"
)

// AccessorKind classifies a method for property discovery.
type AccessorKind int

const (
	NotAccessor AccessorKind = iota
	Getter
	Setter
)

func (k AccessorKind) String() string {
	switch k {
	case Getter:
		return "getter"
	case Setter:
		return "setter"
	default:
		return "none"
	}
}

// AccessorPolicy decides which declared methods are instance methods and
// which are property accessors.
//
// A getter is named prefix+Name, takes no parameters and returns a value.
// A boolean getter uses one of the boolean prefixes and must return the
// primitive boolean. A setter is named prefix+Name and takes exactly one
// parameter. Name must start with an upper-case letter, so isolate() or
// settle() are not accessors.
type AccessorPolicy struct {
	GetterPrefixes        []string
	BooleanGetterPrefixes []string
	SetterPrefixes        []string
	PublicOnly            bool
	IncludeStatic         bool
}

// DefaultAccessorPolicy returns the JavaBeans conventions.
func DefaultAccessorPolicy() AccessorPolicy {
	return PolicyFromConfig(config.DefaultConfig().Accessors)
}

// PolicyFromConfig builds a policy from the accessors config section.
func PolicyFromConfig(cfg config.AccessorConfig) AccessorPolicy {
	return AccessorPolicy{
		GetterPrefixes:        slices.Clone(cfg.GetterPrefixes),
		BooleanGetterPrefixes: slices.Clone(cfg.BooleanGetterPrefixes),
		SetterPrefixes:        slices.Clone(cfg.SetterPrefixes),
		PublicOnly:            cfg.PublicOnly,
		IncludeStatic:         cfg.IncludeStatic,
	}
}

// IsInstanceMethod reports whether m is inherited per instance: static and
// private methods are not.
func (p AccessorPolicy) IsInstanceMethod(m classmeta.Method) bool {
	return !m.IsStatic() && !m.HasModifier("private")
}

// Classify returns the accessor kind of m and the property it belongs to.
func (p AccessorPolicy) Classify(m classmeta.Method) (AccessorKind, string) {
	if m.IsStatic() && !p.IncludeStatic {
		return NotAccessor, ""
	}
	if p.PublicOnly && !m.IsPublic() {
		return NotAccessor, ""
	}

	switch len(m.ParameterTypes) {
	case 0:
		if m.ReturnType == "boolean" {
			if name, ok := propertyName(m.Name, p.BooleanGetterPrefixes); ok {
				return Getter, name
			}
		}
		if m.ReturnType != "void" && m.ReturnType != "" {
			if name, ok := propertyName(m.Name, p.GetterPrefixes); ok {
				return Getter, name
			}
		}
	case 1:
		if name, ok := propertyName(m.Name, p.SetterPrefixes); ok {
			return Setter, name
		}
	}
	return NotAccessor, ""
}

// propertyName strips the first matching prefix and decapitalizes the rest.
func propertyName(method string, prefixes []string) (string, bool) {
	for _, prefix := range prefixes {
		rest, ok := strings.CutPrefix(method, prefix)
		if !ok || rest == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(rest)
		if !unicode.IsUpper(r) {
			continue
		}
		return Decapitalize(rest), true
	}
	return "", false
}

// Decapitalize lower-cases the first letter of s, except when the first two
// letters are both upper case: "Name" becomes "name", "URL" stays "URL".
func Decapitalize(s string) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	if second, _ := utf8.DecodeRuneInString(s[size:]); unicode.IsUpper(first) && unicode.IsUpper(second) {
		return s
	}
	return string(unicode.ToLower(first)) + s[size:]
}
