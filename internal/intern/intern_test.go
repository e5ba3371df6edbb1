package intern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable_Intern_SameContentSharesOneEntry(t *testing.T) {
	tbl := New()
	a := tbl.Intern("http://example.org/knows")
	b := tbl.Intern("http://example.org/knows")
	assert.Equal(t, a, b)
	assert.Equal(t, 1, tbl.Len())
}

func TestTable_Intern_DistinctContentGetsDistinctEntries(t *testing.T) {
	tbl := New()
	tbl.Intern("a")
	tbl.Intern("b")
	tbl.Intern("a")
	assert.Equal(t, 2, tbl.Len())
}

func TestFingerprint_DeterministicAndOrderSensitive(t *testing.T) {
	f1 := Fingerprint("scan", "s", "p", "o")
	f2 := Fingerprint("scan", "s", "p", "o")
	assert.Equal(t, f1, f2)

	f3 := Fingerprint("scan", "s", "o", "p")
	assert.NotEqual(t, f1, f3)
}

func TestFingerprint_NoConcatenationCollision(t *testing.T) {
	f1 := Fingerprint("ab", "c")
	f2 := Fingerprint("a", "bc")
	assert.NotEqual(t, f1, f2, "the null-byte separator must prevent ('ab','c') colliding with ('a','bc')")
}
