package fst

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemappedShiftsEverything(t *testing.T) {
	tr := FromWordAndOutput("ab", 7)
	delta, initial, final := tr.remapped(3)

	require.Len(t, delta, 2)
	assert.Contains(t, delta[0]["ab"], Transition{To: 4, Output: 7})
	assert.Equal(t, map[int]struct{}{3: {}}, initial)
	assert.Equal(t, map[int]struct{}{4: {}}, final)

	// receiver untouched
	assert.Contains(t, tr.delta[0]["ab"], Transition{To: 1, Output: 7})
	assert.True(t, tr.IsInitial(0))
}

func TestMakeSingleInitialState(t *testing.T) {
	tr := FromWordAndOutput("a", 1)
	tr.initial[1] = struct{}{}
	tr.makeSingleInitialState(2)

	assert.Equal(t, 3, tr.Size())
	assert.Equal(t, []int{2}, tr.InitialStates())
	assert.Equal(t, []Edge{
		{From: 0, Word: "a", To: 1, Output: 1},
		{From: 2, Word: "", To: 0, Output: 0},
		{From: 2, Word: "", To: 1, Output: 0},
	}, tr.Edges())
}

func TestTrimDropsUselessStates(t *testing.T) {
	tr := newTransducer(5)
	tr.addTransition(0, "a", 1, 1)
	tr.addTransition(1, "b", 2, 2)
	tr.addTransition(3, "c", 1, 3) // unreachable
	tr.addTransition(0, "d", 4, 4) // dead end
	tr.initial[0] = struct{}{}
	tr.final[2] = struct{}{}

	tr.Trim()

	assert.Equal(t, 3, tr.Size())
	assert.Equal(t, []int{0}, tr.InitialStates())
	assert.Equal(t, []int{2}, tr.FinalStates())
	assert.Equal(t, []Edge{
		{From: 0, Word: "a", To: 1, Output: 1},
		{From: 1, Word: "b", To: 2, Output: 2},
	}, tr.Edges())
}

func TestTrimKeepsUsefulTable(t *testing.T) {
	tr := FromWordAndOutput("a", 1)
	before := tr.Edges()
	tr.Trim()
	assert.Equal(t, before, tr.Edges())
}

func TestUsefulStates(t *testing.T) {
	succ := map[int][]int{0: {1, 3}, 1: {2}, 3: {3}, 4: {2}}
	keep := usefulStates(5, []int{0}, []int{2}, func(q int) []int { return succ[q] })
	assert.Equal(t, []bool{true, true, true, false, false}, keep)
}

func TestConsumeKeepsLogger(t *testing.T) {
	tr := FromWordAndOutput("a", 1)
	tr.consume()
	assert.True(t, tr.IsConsumed())
	assert.Zero(t, tr.Size())
	assert.NotNil(t, tr.log)
}

func TestDistance(t *testing.T) {
	cases := []struct {
		h      Delay
		d1, d2 uint64
		want   Delay
	}{
		{Delay{}, 5, 5, Delay{}},
		{Delay{}, 5, 100, Delay{Second: 95}},
		{Delay{First: 3}, 0, 10, Delay{Second: 7}},
		{Delay{Second: 4}, 4, 0, Delay{}},
	}
	for _, tc := range cases {
		got, ok := distance(tc.h, tc.d1, tc.d2)
		assert.True(t, ok)
		assert.Equal(t, tc.want, got)
		assert.True(t, got.First == 0 || got.Second == 0)
	}

	_, ok := distance(Delay{First: math.MaxUint64}, 1, 0)
	assert.False(t, ok)
	got, ok := distance(Delay{First: math.MaxUint64 - 1}, 1, 1)
	assert.True(t, ok)
	assert.Equal(t, Delay{First: math.MaxUint64 - 1}, got)
}

func TestAddOutput(t *testing.T) {
	sum, ok := addOutput(math.MaxUint64-1, 1)
	assert.True(t, ok)
	assert.Equal(t, uint64(math.MaxUint64), sum)

	_, ok = addOutput(math.MaxUint64, 1)
	assert.False(t, ok)
}

// chain builds 0 --a:first--> 1 --a:second--> 2 without the operand limits.
func chain(first, second uint64) *Transducer {
	tr := newTransducer(3)
	tr.delta[0].add("a", 1, first)
	tr.delta[1].add("a", 2, second)
	tr.initial[0] = struct{}{}
	tr.final[2] = struct{}{}
	return tr
}

func TestTraverseRejectsOverflow(t *testing.T) {
	tr := chain(math.MaxUint64, 1)
	_, ok := tr.TraverseWithWord("aa")
	assert.False(t, ok)

	require.False(t, tr.MakeRealTime())
	_, ok = tr.TraverseWithWord("aa")
	assert.False(t, ok)

	r, err := NewRunner(tr)
	require.NoError(t, err)
	_, err = r.Step('a')
	require.NoError(t, err)
	_, err = r.Step('a')
	assert.ErrorIs(t, err, ErrOverflow)
	assert.Equal(t, "a", r.Input())

	fits := chain(math.MaxUint64-1, 1)
	outs, ok := fits.TraverseWithWord("aa")
	assert.True(t, ok)
	assert.Equal(t, []uint64{math.MaxUint64}, outs)
}

func TestFunctionalityReportsOverflow(t *testing.T) {
	tr := chain(math.MaxUint64, 1)
	tr.delta[0].add("a", 3, 0)
	tr.delta = append(tr.delta, stateTransitions{"a": {{To: 4}: {}}}, stateTransitions{})
	tr.final[4] = struct{}{}
	require.False(t, tr.MakeRealTime())

	functional, err := tr.TestForFunctionality()
	assert.ErrorIs(t, err, ErrOverflow)
	assert.False(t, functional)
	assert.False(t, tr.FunctionalityTested())
}

func TestCheckOperand(t *testing.T) {
	assert.NoError(t, CheckOperand("é", MaxOutput))
	assert.ErrorIs(t, CheckOperand("\xff", 1), ErrInvalidWord)
	assert.ErrorIs(t, CheckOperand("a", MaxOutput+1), ErrOutputTooLarge)
	assert.Panics(t, func() { FromWordAndOutput("a\xfe", 1) })
	assert.Panics(t, func() { FromWordAndOutput("a", math.MaxUint64) })
}

func TestTraverseRejectsInvalidUTF8(t *testing.T) {
	tr := FromWordAndOutput("é", 1)
	for _, w := range []string{"\xc3", "\xfe", "\uFFFD"} {
		_, ok := tr.TraverseWithWord(w)
		assert.False(t, ok, "standard %q", w)
	}
	require.False(t, tr.MakeRealTime())
	for _, w := range []string{"\xc3", "\xfe", "\uFFFD"} {
		_, ok := tr.TraverseWithWord(w)
		assert.False(t, ok, "real-time %q", w)
	}
	outs, ok := tr.TraverseWithWord("é")
	assert.True(t, ok)
	assert.Equal(t, []uint64{1}, outs)

	r, err := NewRunner(tr)
	require.NoError(t, err)
	_, err = r.Run("\xc3")
	assert.ErrorIs(t, err, ErrInvalidWord)
}
