package fst_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fst-toolkit/pkg/fst"
	"github.com/ha1tch/fst-toolkit/pkg/fstexpr"
)

func TestTestForFunctionality(t *testing.T) {
	for _, fx := range fixtures {
		t.Run(fx.expr, func(t *testing.T) {
			tr := fstexpr.MustBuild(fx.expr)
			require.False(t, tr.MakeRealTime())

			got, err := tr.TestForFunctionality()
			require.NoError(t, err)
			assert.Equal(t, fx.functional, got)
			assert.Equal(t, fx.functional, tr.IsFunctional())
			assert.True(t, tr.FunctionalityTested())
		})
	}
}

// A functional transducer never yields two outputs for a sampled word.
func TestFunctionalIsSound(t *testing.T) {
	for _, fx := range fixtures {
		if !fx.functional {
			continue
		}
		t.Run(fx.expr, func(t *testing.T) {
			tr := fstexpr.MustBuild(fx.expr)
			require.False(t, tr.MakeRealTime())
			for word := range fx.words {
				outs, _ := tr.TraverseWithWord(word)
				assert.LessOrEqual(t, len(outs), 1, "word %q", word)
			}
		})
	}
}

func TestFunctionalityPreconditions(t *testing.T) {
	t.Run("NotRealTime", func(t *testing.T) {
		tr := fstexpr.MustBuild("a:1")
		_, err := tr.TestForFunctionality()
		assert.ErrorIs(t, err, fst.ErrNotRealTime)
		assert.False(t, tr.FunctionalityTested())
	})
	t.Run("Infinite", func(t *testing.T) {
		tr := fstexpr.MustBuild(":1 *")
		require.True(t, tr.MakeRealTime())
		_, err := tr.TestForFunctionality()
		assert.ErrorIs(t, err, fst.ErrInfinite)
	})
	t.Run("Consumed", func(t *testing.T) {
		left, right := fst.FromWordAndOutput("a", 1), fst.FromWordAndOutput("b", 1)
		require.NoError(t, left.Concat(right))
		_, err := right.TestForFunctionality()
		assert.ErrorIs(t, err, fst.ErrConsumed)
	})
}

func TestFunctionalityWithDelayedDifference(t *testing.T) {
	cases := []struct {
		expr string
		want bool
	}{
		// outputs diverge after a then converge again
		{"a:1 b:0 . a:0 b:1 . |", true},
		{"a:1 b:0 . a:0 b:2 . |", false},
		// same words read by loops of different lengths
		{"a:1 * a:1 a:1 . * |", true},
		{"a:2 * a:1 a:1 . * |", false},
		{"ab:3 a:1 b:2 . |", true},
		{"ab:3 a:1 b:3 . |", false},
	}
	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			tr := fstexpr.MustBuild(tc.expr)
			require.False(t, tr.MakeRealTime())
			got, err := tr.TestForFunctionality()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSquared(t *testing.T) {
	tr := fstexpr.MustBuild("a:5 a:100 |")
	require.False(t, tr.MakeRealTime())

	sot, err := tr.Squared()
	require.NoError(t, err)
	assert.NotZero(t, sot.Size())
	assert.Len(t, sot.Final, sot.Size())
	assert.Len(t, sot.Delta, sot.Size())

	var mixed bool
	for _, trans := range sot.Delta {
		for _, tr := range trans {
			assert.Equal(t, 'a', tr.Symbol)
			if tr.First != tr.Second {
				mixed = true
			}
		}
	}
	assert.True(t, mixed, "squared transducer pairs the two branches")
}

func TestFunctionalityResetByOperators(t *testing.T) {
	tr := fstexpr.MustBuild("a:1")
	clone := tr.Clone()
	require.False(t, clone.MakeRealTime())
	ok, err := clone.TestForFunctionality()
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, tr.CloseStar())
	assert.False(t, tr.FunctionalityTested())
	assert.False(t, tr.IsFunctional())
}
