// Package intern provides an xxh3-keyed interning table for the strings a
// parsed query repeats heavily: prefix IRIs, variable and column names, and
// attribute keys. It also exposes a cheap structural fingerprint helper used
// by the planner's plan-equality fast path.
package intern

import (
	"encoding/binary"
	"sync"

	"github.com/zeebo/xxh3"
)

// hash128 packs xxh3.Hash128's Hi/Lo pair big-endian into a fixed array so
// it can key a map.
func hash128(s string) [16]byte {
	h := xxh3.Hash128([]byte(s))
	var out [16]byte
	binary.BigEndian.PutUint64(out[0:8], h.Hi)
	binary.BigEndian.PutUint64(out[8:16], h.Lo)
	return out
}

// Table interns strings, returning the same backing string value for equal
// inputs so repeated prefix IRIs and variable names in a large query share
// one allocation.
type Table struct {
	mu   sync.Mutex
	byHash map[[16]byte]string
}

// New returns an empty interning table.
func New() *Table {
	return &Table{byHash: make(map[[16]byte]string)}
}

// Intern returns a canonical string equal to s, reusing a prior interned
// value when one with the same content has already been seen.
func (t *Table) Intern(s string) string {
	h := hash128(s)
	t.mu.Lock()
	defer t.mu.Unlock()
	if existing, ok := t.byHash[h]; ok {
		return existing
	}
	t.byHash[h] = s
	return s
}

// Len reports the number of distinct strings interned so far.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.byHash)
}

// Fingerprint folds a sequence of component strings (e.g. a plan subtree's
// variant tag plus its children's own fingerprints) into a single 128-bit
// hash.
func Fingerprint(parts ...string) [16]byte {
	var buf []byte
	for _, p := range parts {
		buf = append(buf, p...)
		buf = append(buf, 0) // separator, avoids "ab","c" colliding with "a","bc"
	}
	return hash128(string(buf))
}
