package progress

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBar_Fail(t *testing.T) {
	var buf bytes.Buffer
	b := NewBarTo(&buf, "parsing", 2)

	b.Tick()
	b.Fail(errors.New("disk gone"))

	assert.Contains(t, buf.String(), "parsing failed: disk gone")
}

func TestBar_NilIsNoop(t *testing.T) {
	var b *Bar
	assert.NotPanics(t, func() {
		b.Tick()
		b.Done()
		b.Fail(errors.New("ignored"))
	})
}

func TestSpinner(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinnerTo(&buf, "discovering")
	s.Tick()
	s.Done()
}
