package classmeta

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSignature(t *testing.T) {
	tests := []struct {
		name string
		m    Method
		want string
	}{
		{"no params", Method{Name: "run"}, "run()"},
		{"one param", Method{Name: "setX", ParameterTypes: []string{"int"}}, "setX(int)"},
		{"varargs", Method{Name: "log", ParameterTypes: []string{"String", "Object..."}}, "log(String,Object...)"},
		{"return type ignored", Method{Name: "get", ReturnType: "String"}, "get()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultSignature(tt.m))
		})
	}
}

func TestMethodSet_AddKeepsFirst(t *testing.T) {
	s := NewMethodSet(nil)
	override := Method{Name: "get", DeclaringType: "Sub", ReturnType: "String"}
	original := Method{Name: "get", DeclaringType: "Super", ReturnType: "Object"}

	assert.True(t, s.Add(override))
	assert.False(t, s.Add(original))
	assert.Equal(t, 1, s.Len())

	kept, ok := s.Get(original)
	assert.True(t, ok)
	assert.Equal(t, "Sub", kept.DeclaringType)
}

func TestMethodSet_OverloadsAreDistinct(t *testing.T) {
	s := NewMethodSet(nil)
	s.Add(Method{Name: "set", ParameterTypes: []string{"int"}})
	s.Add(Method{Name: "set", ParameterTypes: []string{"long"}})
	s.Add(Method{Name: "set"})

	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Contains(Method{Name: "set", ParameterTypes: []string{"long"}}))
	assert.False(t, s.Contains(Method{Name: "set", ParameterTypes: []string{"short"}}))
}

func TestMethodSet_InsertionOrder(t *testing.T) {
	s := NewMethodSet(nil)
	for _, name := range []string{"c", "a", "b", "a"} {
		s.Add(Method{Name: name})
	}

	var visited []string
	s.Visit(func(m Method) { visited = append(visited, m.Name) })
	assert.Equal(t, []string{"c", "a", "b"}, visited)

	var iterated []string
	for m := range s.All() {
		iterated = append(iterated, m.Name)
	}
	assert.Equal(t, visited, iterated)
}

func TestMethodSet_AllStopsEarly(t *testing.T) {
	s := NewMethodSet(nil)
	s.Add(Method{Name: "a"})
	s.Add(Method{Name: "b"})

	var seen []string
	for m := range s.All() {
		seen = append(seen, m.Name)
		break
	}
	assert.Equal(t, []string{"a"}, seen)
}

func TestMethodSet_MethodsIsCopy(t *testing.T) {
	s := NewMethodSet(nil)
	s.Add(Method{Name: "a"})

	out := s.Methods()
	out[0].Name = "z"

	assert.True(t, slices.ContainsFunc(s.Methods(), func(m Method) bool { return m.Name == "a" }))
}
