package hierarchy

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	p := DefaultAccessorPolicy()
	a := []fileDigest{{"A.java", 1}, {"B.java", 2}}

	assert.Equal(t, fingerprint(a, p, DefaultSignatureKey), fingerprint([]fileDigest{{"A.java", 1}, {"B.java", 2}}, p, DefaultSignatureKey))
	assert.NotEqual(t, fingerprint(a, p, DefaultSignatureKey), fingerprint([]fileDigest{{"A.java", 1}, {"B.java", 3}}, p, DefaultSignatureKey))
	assert.NotEqual(t, fingerprint(a, p, DefaultSignatureKey), fingerprint([]fileDigest{{"B.java", 2}, {"A.java", 1}}, p, DefaultSignatureKey))
	assert.NotEqual(t, fingerprint(a, p, DefaultSignatureKey), fingerprint(a[:1], p, DefaultSignatureKey))

	p2 := DefaultAccessorPolicy()
	p2.SetterPrefixes = []string{"with"}
	assert.NotEqual(t, fingerprint(a, p, DefaultSignatureKey), fingerprint(a, p2, DefaultSignatureKey))

	assert.NotEqual(t, fingerprint(a, p, DefaultSignatureKey), fingerprint(a, p, "name"))
}

func TestFingerprint_FieldsAreDelimited(t *testing.T) {
	a := []fileDigest{{"A.java", 1}}

	joined := DefaultAccessorPolicy()
	joined.GetterPrefixes = []string{"a,b"}
	split := DefaultAccessorPolicy()
	split.GetterPrefixes = []string{"a", "b"}
	assert.NotEqual(t, fingerprint(a, joined, ""), fingerprint(a, split, ""))

	// A prefix moved between adjacent lists must change the key.
	left := DefaultAccessorPolicy()
	left.GetterPrefixes = []string{"get", "is"}
	left.BooleanGetterPrefixes = nil
	right := DefaultAccessorPolicy()
	right.GetterPrefixes = []string{"get"}
	right.BooleanGetterPrefixes = []string{"is"}
	assert.NotEqual(t, fingerprint(a, left, ""), fingerprint(a, right, ""))
}

func TestMemo_StoreKeepsFirst(t *testing.T) {
	memo := NewMemo()
	first := &Model{}

	var wg sync.WaitGroup
	results := make([]*Model, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i == 0 {
				results[i] = memo.Store(42, first)
				return
			}
			results[i] = memo.Store(42, &Model{})
		}()
	}
	wg.Wait()

	winner, ok := memo.Load(42)
	assert.True(t, ok)
	for _, r := range results {
		assert.Same(t, winner, r)
	}
	assert.Equal(t, 1, memo.Len())

	_, ok = memo.Load(7)
	assert.False(t, ok)
}
