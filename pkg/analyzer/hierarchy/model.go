package hierarchy

import (
	"slices"
	"strings"

	"github.com/panbanda/classmeta/pkg/classmeta"
)

// Class is one analyzed type with its fully merged metadata.
type Class struct {
	Node *classmeta.Node

	// Supertypes are the resolved qualified names of the direct supertypes, in
	// declaration order.
	Supertypes []string

	// External are declared supertypes that did not resolve to an analyzed
	// class, such as java.lang or library types.
	External []string
}

// Name returns the qualified class name.
func (c *Class) Name() string {
	return c.Node.Type().QualifiedName()
}

// Summary counts what an analysis saw.
type Summary struct {
	Files      int `json:"files"`
	Skipped    int `json:"skipped"`
	CacheHits  int `json:"cache_hits"`
	Classes    int `json:"classes"`
	Unresolved int `json:"unresolved"`
	Cycles     int `json:"cycles"`
}

// Model is the published result of an analysis. It is never mutated after
// Analyze returns and is safe for concurrent readers.
type Model struct {
	classes  []*Class
	byName   map[string]*Class
	bySimple map[string][]*Class
	cycles   []CycleError
	summary  Summary
}

func newModel(classes []*Class, cycles []CycleError, summary Summary) *Model {
	m := &Model{
		byName:   make(map[string]*Class, len(classes)),
		bySimple: make(map[string][]*Class),
		cycles:   cycles,
	}
	for _, c := range classes {
		m.byName[c.Name()] = c
		t := c.Node.Type()
		m.bySimple[t.Name] = append(m.bySimple[t.Name], c)
		if i := strings.LastIndexByte(t.Name, '.'); i >= 0 {
			simple := t.Name[i+1:]
			m.bySimple[simple] = append(m.bySimple[simple], c)
		}
	}
	m.classes = slices.Clone(classes)
	slices.SortFunc(m.classes, func(a, b *Class) int {
		return strings.Compare(a.Name(), b.Name())
	})

	summary.Classes = len(classes)
	summary.Cycles = len(cycles)
	for _, c := range classes {
		summary.Unresolved += len(c.External)
	}
	m.summary = summary
	return m
}

// withSummary returns a model sharing m's classes with the file counters of
// a later run. Class, unresolved and cycle counts are properties of the
// classes and are kept.
func (m *Model) withSummary(s Summary) *Model {
	c := *m
	s.Classes = m.summary.Classes
	s.Unresolved = m.summary.Unresolved
	s.Cycles = m.summary.Cycles
	c.summary = s
	return &c
}

// Class looks a class up by qualified name, or by simple or nested name
// (Outer.Inner) when that is unique.
func (m *Model) Class(name string) (*Class, error) {
	if c, ok := m.byName[name]; ok {
		return c, nil
	}
	matches := m.bySimple[name]
	switch len(matches) {
	case 0:
		return nil, &ClassNotFoundError{Name: name}
	case 1:
		return matches[0], nil
	}
	candidates := make([]string, len(matches))
	for i, c := range matches {
		candidates[i] = c.Name()
	}
	slices.Sort(candidates)
	return nil, &AmbiguousClassError{Name: name, Candidates: candidates}
}

// Classes returns every analyzed class ordered by qualified name.
func (m *Model) Classes() []*Class {
	return slices.Clone(m.classes)
}

// Unresolved returns the external supertypes of the named class and of all its
// ancestors, deduplicated, in ancestor order.
func (m *Model) Unresolved(name string) ([]string, error) {
	c, err := m.Class(name)
	if err != nil {
		return nil, err
	}
	var out []string
	c.Node.VisitTypes(func(n *classmeta.Node) {
		for _, ext := range m.byName[n.Type().QualifiedName()].External {
			if !slices.Contains(out, ext) {
				out = append(out, ext)
			}
		}
	})
	return out, nil
}

// Cycles returns the inheritance cycles found during analysis.
func (m *Model) Cycles() []CycleError {
	return slices.Clone(m.cycles)
}

// Summary returns the analysis counters.
func (m *Model) Summary() Summary {
	return m.summary
}
