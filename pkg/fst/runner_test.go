package fst_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fst-toolkit/pkg/fst"
	"github.com/ha1tch/fst-toolkit/pkg/fstexpr"
)

func newRunner(t *testing.T, expr string) *fst.Runner {
	t.Helper()
	tr := fstexpr.MustBuild(expr)
	require.False(t, tr.MakeRealTime())
	r, err := fst.NewRunner(tr)
	require.NoError(t, err)
	return r
}

func TestRunnerRun(t *testing.T) {
	r := newRunner(t, "a:5 b:100 | c:1 . *")

	outs, err := r.Run("bcac")
	require.NoError(t, err)
	assert.Equal(t, []uint64{107}, outs)
	assert.True(t, r.IsAccepting())
	assert.Equal(t, "bcac", r.Input())
	assert.Len(t, r.History(), 4)
}

func TestRunnerStep(t *testing.T) {
	r := newRunner(t, "a:5 b:100 | c:1 . *")

	assert.True(t, r.IsAccepting(), "empty input is accepted")
	assert.Equal(t, []uint64{0}, r.Outputs())
	assert.Equal(t, []string{"a", "b"}, r.AvailableSymbols())

	outs, err := r.Step('a')
	require.NoError(t, err)
	assert.Empty(t, outs)
	assert.False(t, r.IsAccepting())
	assert.Equal(t, []string{"c"}, r.AvailableSymbols())

	outs, err = r.Step('c')
	require.NoError(t, err)
	assert.Equal(t, []uint64{6}, outs)

	hist := r.History()
	require.Len(t, hist, 2)
	assert.Equal(t, 'a', hist[0].Symbol)
	assert.Equal(t, []uint64{6}, hist[1].Outputs)
	assert.Equal(t, hist[0].To, hist[1].From)
}

func TestRunnerStepFailureKeepsState(t *testing.T) {
	r := newRunner(t, "a:5 b:100 | c:1 . *")
	_, err := r.Step('a')
	require.NoError(t, err)
	frontier := r.Frontier()

	_, err = r.Step('x')
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no transition")
	assert.Equal(t, frontier, r.Frontier())
	assert.Equal(t, "a", r.Input())
}

func TestRunnerNondeterministic(t *testing.T) {
	r := newRunner(t, "a:5 a:100 | *")
	outs, err := r.Run("aa")
	require.NoError(t, err)
	assert.Equal(t, []uint64{10, 105, 200}, outs)
	assert.Contains(t, r.Status(), "[accepting]")
}

func TestRunnerReset(t *testing.T) {
	r := newRunner(t, "a:5 *")
	_, err := r.Run("aaa")
	require.NoError(t, err)

	r.Reset()
	assert.Empty(t, r.Input())
	assert.Empty(t, r.History())
	assert.Equal(t, []uint64{0}, r.Outputs())
}

func TestRunnerEmptyWordOutputs(t *testing.T) {
	r := newRunner(t, ":3 :4 |")
	outs, err := r.Run("")
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 4}, outs)
}

func TestNewRunnerRequiresRealTime(t *testing.T) {
	_, err := fst.NewRunner(fstexpr.MustBuild("a:1"))
	assert.ErrorIs(t, err, fst.ErrNotRealTime)

	left, right := fst.FromWordAndOutput("a", 1), fst.FromWordAndOutput("b", 1)
	require.NoError(t, left.Union(right))
	_, err = fst.NewRunner(right)
	assert.ErrorIs(t, err, fst.ErrConsumed)
}
