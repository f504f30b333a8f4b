package fst_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fst-toolkit/pkg/fst"
	"github.com/ha1tch/fst-toolkit/pkg/fstexpr"
)

func assertWords(t *testing.T, tr *fst.Transducer, words map[string][]uint64) {
	t.Helper()
	for word, want := range words {
		outs, ok := tr.TraverseWithWord(word)
		if want == nil {
			assert.False(t, ok, "word %q should be rejected, got %v", word, outs)
			assert.Nil(t, outs, "word %q", word)
			continue
		}
		if assert.True(t, ok, "word %q should be accepted", word) {
			assert.Equal(t, want, outs, "word %q", word)
		}
	}
}

func TestTraverseBeforeConversion(t *testing.T) {
	for _, fx := range fixtures {
		t.Run(fx.expr, func(t *testing.T) {
			tr := fstexpr.MustBuild(fx.expr)
			require.False(t, tr.IsRealTime())
			assertWords(t, tr, fx.words)
		})
	}
}

func TestMakeRealTime(t *testing.T) {
	for _, fx := range fixtures {
		t.Run(fx.expr, func(t *testing.T) {
			tr := fstexpr.MustBuild(fx.expr)
			require.False(t, tr.MakeRealTime())
			require.True(t, tr.IsRealTime())
			assert.False(t, tr.IsInfinite())

			for _, e := range tr.Edges() {
				assert.Len(t, []rune(e.Word), 1, "edge %+v", e)
			}
			assertWords(t, tr, fx.words)
		})
	}
}

func TestMakeRealTimeTrims(t *testing.T) {
	for _, fx := range fixtures {
		t.Run(fx.expr, func(t *testing.T) {
			tr := fstexpr.MustBuild(fx.expr)
			require.False(t, tr.MakeRealTime())
			size := tr.Size()
			tr.Trim()
			assert.Equal(t, size, tr.Size())
		})
	}
}

func TestMakeRealTimeIsIdempotent(t *testing.T) {
	tr := fstexpr.MustBuild("a:5 b:100 | c:1 . *")
	require.False(t, tr.MakeRealTime())
	edges := tr.Edges()
	require.False(t, tr.MakeRealTime())
	assert.Equal(t, edges, tr.Edges())
}

func TestMakeRealTimeEmptyWord(t *testing.T) {
	cases := []struct {
		expr string
		want []uint64
	}{
		{"a:5", []uint64{}},
		{"a:5 *", []uint64{0}},
		{":3", []uint64{3}},
		{":3 :4 |", []uint64{3, 4}},
		{":3 :4 .", []uint64{7}},
		{":0 * :1 .", []uint64{1}},
	}
	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			tr := fstexpr.MustBuild(tc.expr)
			before := tr.InitialEpsilonOutputs()
			require.False(t, tr.MakeRealTime())
			assert.Equal(t, tc.want, tr.InitialEpsilonOutputs())
			assert.Equal(t, before, tr.InitialEpsilonOutputs())
			assert.Equal(t, len(tc.want) > 0, tr.RecognizesEmptyWord())
		})
	}
}

func TestMakeRealTimeInfinite(t *testing.T) {
	cases := []string{
		":10 a:5 | *",
		":1 +",
		"a:5 :3 | *",
		":2 * a:1 .",
	}
	for _, expr := range cases {
		t.Run(expr, func(t *testing.T) {
			tr := fstexpr.MustBuild(expr)
			edges := tr.Edges()

			require.True(t, tr.MakeRealTime())
			assert.True(t, tr.IsInfinite())
			assert.False(t, tr.IsRealTime())
			assert.Equal(t, edges, tr.Edges(), "table must be kept")
			assert.Nil(t, tr.InitialEpsilonOutputs())

			_, err := tr.TestForFunctionality()
			assert.ErrorIs(t, err, fst.ErrInfinite)
		})
	}
}

func TestInfiniteTraversalIsGuarded(t *testing.T) {
	tr := fstexpr.MustBuild(":10 a:5 | *")
	require.True(t, tr.MakeRealTime())

	for _, word := range []string{"", "a", "aa"} {
		outs, ok := tr.TraverseWithWord(word)
		assert.False(t, ok, word)
		assert.Nil(t, outs, word)
	}
}

func TestGuardOnlyAffectsCycleStates(t *testing.T) {
	// the positive cycle hangs off the b branch only
	tr := fstexpr.MustBuild("a:1 b:1 :2 * . |")
	require.True(t, tr.MakeRealTime())

	outs, ok := tr.TraverseWithWord("a")
	require.True(t, ok)
	assert.Equal(t, []uint64{1}, outs)

	_, ok = tr.TraverseWithWord("b")
	assert.False(t, ok)
}

func TestZeroEpsilonCycleIsFinite(t *testing.T) {
	tr := fstexpr.MustBuild(":0 *")
	require.False(t, tr.MakeRealTime())
	assert.Equal(t, []uint64{0}, tr.InitialEpsilonOutputs())
}

func TestConsumedMakeRealTime(t *testing.T) {
	left := fst.FromWordAndOutput("a", 1)
	right := fst.FromWordAndOutput("b", 1)
	require.NoError(t, left.Union(right))
	assert.False(t, right.MakeRealTime())
	assert.False(t, right.IsRealTime())
}

func TestUpdateRecognizingEmptyWord(t *testing.T) {
	cases := map[string]bool{
		"a:1":           false,
		"a:1 *":         true,
		"a:1 +":         false,
		"a:1 b:2 * .":   false,
		"a:1 * b:2 * .": true,
		":4":            true,
	}
	for expr, want := range cases {
		t.Run(expr, func(t *testing.T) {
			tr := fstexpr.MustBuild(expr)
			tr.UpdateRecognizingEmptyWord()
			assert.Equal(t, want, tr.RecognizesEmptyWord())
		})
	}
}
