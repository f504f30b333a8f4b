// Run with: go test -fuzz=FuzzBuild -fuzztime=30s ./pkg/fstexpr/
package fstexpr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fst-toolkit/pkg/fstexpr"
)

func addSeeds(f *testing.F) {
	for _, seed := range []string{
		"a:5 b:100 | c:1 . *",
		"a:5 a:100 | * c:40 * .",
		"abc:1 def:10 abc:3 . . abcdefabc:0 |",
		":3 :4 |",
		":1 +",
		"a:5 :3 .",
		"",
		"*",
		"a:1 |",
		"a:1 b:2",
		"a:",
		"a:x",
		"a:99999999999999999999",
		"a::1 :: ::2 .",
		"  a:1   *  ",
	} {
		f.Add(seed)
	}
}

// FuzzValidate checks that Validate and Build agree and never panic.
func FuzzValidate(f *testing.F) {
	addSeeds(f)
	f.Fuzz(func(t *testing.T, expr string) {
		verr := fstexpr.Validate(expr)
		_, berr := fstexpr.Build(expr)
		assert.Equal(t, verr == nil, berr == nil, "expr %q: validate %v, build %v", expr, verr, berr)
	})
}

// FuzzBuild checks that real-time conversion keeps the relation of every
// finite transducer.
func FuzzBuild(f *testing.F) {
	addSeeds(f)
	f.Fuzz(func(t *testing.T, expr string) {
		if len(expr) > 48 {
			return
		}
		tr, err := fstexpr.Build(expr)
		if err != nil {
			return
		}
		before := tr.Clone()
		if tr.MakeRealTime() {
			return
		}
		require.True(t, tr.IsRealTime())
		for _, w := range []string{"", "a", "b", "ab", "aa", "abc"} {
			wantOuts, wantOK := before.TraverseWithWord(w)
			gotOuts, gotOK := tr.TraverseWithWord(w)
			assert.Equal(t, wantOK, gotOK, "expr %q word %q", expr, w)
			assert.Equal(t, wantOuts, gotOuts, "expr %q word %q", expr, w)
		}
	})
}
