package hierarchy

import (
	"encoding/binary"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// Memo keeps built models in memory, keyed by a fingerprint of the analyzed
// files, the accessor policy and the signature key. Models never change once
// built, so entries are never invalidated: changed sources produce a
// different fingerprint.
type Memo struct {
	models sync.Map // uint64 -> *Model
	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemo creates an empty memo.
func NewMemo() *Memo {
	return &Memo{}
}

// Load returns the model stored under key.
func (m *Memo) Load(key uint64) (*Model, bool) {
	v, ok := m.models.Load(key)
	if !ok {
		m.misses.Add(1)
		return nil, false
	}
	m.hits.Add(1)
	return v.(*Model), true
}

// Store saves model under key unless another goroutine got there first, and
// returns the model that callers should use.
func (m *Memo) Store(key uint64, model *Model) *Model {
	actual, _ := m.models.LoadOrStore(key, model)
	return actual.(*Model)
}

// Len returns the number of memoized models.
func (m *Memo) Len() int {
	n := 0
	m.models.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Stats returns the lookup hit and miss counts.
func (m *Memo) Stats() (hits, misses int64) {
	return m.hits.Load(), m.misses.Load()
}

// fileDigest identifies one input file by path and content hash.
type fileDigest struct {
	path   string
	digest uint64
}

// fingerprint hashes the ordered inputs together with the policy and the
// signature key. Every field is terminated so adjacent values cannot run
// together.
func fingerprint(inputs []fileDigest, policy AccessorPolicy, signatureKey string) uint64 {
	d := xxhash.New()
	var buf [8]byte
	writeString := func(s string) {
		d.WriteString(s)
		d.Write([]byte{0})
	}
	writeList := func(list []string) {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(list)))
		d.Write(buf[:])
		for _, s := range list {
			writeString(s)
		}
	}

	for _, in := range inputs {
		writeString(in.path)
		binary.LittleEndian.PutUint64(buf[:], in.digest)
		d.Write(buf[:])
	}
	writeList(policy.GetterPrefixes)
	writeList(policy.BooleanGetterPrefixes)
	writeList(policy.SetterPrefixes)
	writeString(strconv.FormatBool(policy.PublicOnly))
	writeString(strconv.FormatBool(policy.IncludeStatic))
	writeString(signatureKey)
	return d.Sum64()
}
