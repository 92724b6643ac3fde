package hierarchy

import (
	"strings"

	"github.com/panbanda/classmeta/pkg/parser"
)

// resolver maps supertype names as written in source to analyzed classes,
// following Java's scoping order: enclosing types, single-type imports, the
// same package, on-demand imports. A name that none of these reach resolves
// by simple name when exactly one analyzed class carries it.
type resolver struct {
	known    map[string]int
	bySimple map[string][]int
}

func newResolver() *resolver {
	return &resolver{
		known:    make(map[string]int),
		bySimple: make(map[string][]int),
	}
}

// add registers qualified as the class at index idx. simple is its declared
// name without the package, e.g. Outer.Inner.
func (r *resolver) add(qualified, simple string, idx int) bool {
	if _, dup := r.known[qualified]; dup {
		return false
	}
	r.known[qualified] = idx
	last := simple
	if i := strings.LastIndexByte(simple, '.'); i >= 0 {
		last = simple[i+1:]
	}
	r.bySimple[last] = append(r.bySimple[last], idx)
	return true
}

// resolve returns the index of the class that name refers to from inside the
// declaration decl of file.
func (r *resolver) resolve(name string, file *parser.JavaFile, decl string) (int, bool) {
	// Enclosing scopes, innermost first: a.b.Outer.Inner, a.b.Outer.
	scope := decl
	for scope != "" {
		if idx, ok := r.known[qualify(file.Package, scope+"."+name)]; ok {
			return idx, true
		}
		i := strings.LastIndexByte(scope, '.')
		if i < 0 {
			break
		}
		scope = scope[:i]
	}

	head, rest, nested := strings.Cut(name, ".")
	for _, imp := range file.Imports {
		if imp == name || strings.HasSuffix(imp, "."+head) {
			target := imp
			if nested && imp != name {
				target = imp + "." + rest
			}
			// An explicit import settles the name even when it points
			// outside the analyzed sources.
			if idx, ok := r.known[target]; ok {
				return idx, true
			}
			return -1, false
		}
	}

	if idx, ok := r.known[qualify(file.Package, name)]; ok {
		return idx, true
	}

	found := -1
	for _, w := range file.WildcardImports {
		if idx, ok := r.known[w+"."+name]; ok {
			if found >= 0 && found != idx {
				return -1, false
			}
			found = idx
		}
	}
	if found >= 0 {
		return found, true
	}

	// Already qualified.
	if idx, ok := r.known[name]; ok {
		return idx, true
	}

	if !nested {
		if candidates := r.bySimple[name]; len(candidates) == 1 {
			return candidates[0], true
		}
	}
	return -1, false
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}
