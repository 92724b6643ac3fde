package classmeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMethod_Modifiers(t *testing.T) {
	m := Method{Name: "of", DeclaringType: "p.Point", ReturnType: "Point", Modifiers: []string{"public", "static"}}

	assert.True(t, m.IsPublic())
	assert.True(t, m.IsStatic())
	assert.False(t, m.HasModifier("abstract"))
	assert.Equal(t, "p.Point.of()", m.String())

	m.Modifiers = nil
	assert.False(t, m.IsPublic())
	assert.False(t, m.IsStatic())
}

func TestType_String(t *testing.T) {
	assert.Equal(t, "class p.A", Type{Name: "A", Package: "p"}.String())
	assert.Equal(t, "interface Outer.Inner", Type{Name: "Outer.Inner", Kind: KindInterface}.String())
}
