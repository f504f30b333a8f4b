package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fst-toolkit/pkg/fst"
	"github.com/ha1tch/fst-toolkit/pkg/fstexpr"
)

const starExpr = "a:5 b:100 | c:1 . *"

func newTestViewer(t *testing.T, expr string) (*Viewer, tcell.SimulationScreen) {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	require.NoError(t, s.Init())
	t.Cleanup(s.Fini)
	s.SetSize(100, 30)

	tr := fstexpr.MustBuild(expr)
	require.False(t, tr.MakeRealTime())
	_, err := tr.TestForFunctionality()
	require.NoError(t, err)

	v, err := newViewer(s, expr, tr)
	require.NoError(t, err)
	return v, s
}

// screenText renders the simulated screen row by row.
func screenText(v *Viewer, s tcell.SimulationScreen) string {
	v.draw()
	s.Show()
	cells, w, _ := s.GetContents()
	var sb strings.Builder
	for i, c := range cells {
		if len(c.Runes) > 0 {
			sb.WriteRune(c.Runes[0])
		} else {
			sb.WriteByte(' ')
		}
		if (i+1)%w == 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func TestViewerSteps(t *testing.T) {
	v, _ := newTestViewer(t, starExpr)

	assert.False(t, v.handleKey(runeKey('b')))
	assert.Empty(t, v.message)
	assert.False(t, v.handleKey(runeKey('c')))
	assert.Equal(t, "bc", v.runner.Input())
	assert.Equal(t, []uint64{101}, v.runner.Outputs())
	assert.Equal(t, "Accepting", v.message)
	assert.Equal(t, MsgSuccess, v.messageType)

	v.handleKey(runeKey('x'))
	assert.Equal(t, "bc", v.runner.Input())
	assert.Equal(t, "No run reads x", v.message)
	assert.Equal(t, MsgError, v.messageType)

	v.handleKey(key(tcell.KeyBackspace2))
	assert.Equal(t, "b", v.runner.Input())
	assert.False(t, v.runner.IsAccepting())
	assert.Len(t, v.runner.History(), 1)

	v.handleKey(key(tcell.KeyCtrlR))
	assert.Equal(t, "", v.runner.Input())
	assert.Equal(t, MsgInfo, v.messageType)

	// nothing to undo
	v.handleKey(key(tcell.KeyBackspace2))
	assert.Equal(t, "", v.runner.Input())

	assert.True(t, v.handleKey(key(tcell.KeyEscape)))
}

func TestViewerPanels(t *testing.T) {
	v, _ := newTestViewer(t, starExpr)
	assert.Equal(t, PanelHistory, v.panel)
	v.handleKey(key(tcell.KeyTab))
	assert.Equal(t, PanelEdges, v.panel)

	v.handleKey(key(tcell.KeyDown))
	v.handleKey(key(tcell.KeyDown))
	assert.Equal(t, 2, v.scroll)
	v.handleKey(key(tcell.KeyUp))
	assert.Equal(t, 1, v.scroll)

	v.handleKey(key(tcell.KeyTab))
	assert.Equal(t, PanelHistory, v.panel)
	assert.Equal(t, 0, v.scroll)
}

func TestViewerDraw(t *testing.T) {
	v, s := newTestViewer(t, starExpr)
	for _, r := range "bcac" {
		v.handleKey(runeKey(r))
	}

	text := screenText(v, s)
	assert.Contains(t, text, `"a:5 b:100 | c:1 . *"`)
	assert.Contains(t, text, "Functional: yes")
	assert.Contains(t, text, `Input: "bcac"`)
	assert.Contains(t, text, "Outputs: 107")
	assert.Contains(t, text, " 4: c")
	assert.Contains(t, text, "accepting")
	assert.Contains(t, text, "HISTORY")

	v.handleKey(key(tcell.KeyTab))
	text = screenText(v, s)
	assert.Contains(t, text, "TRANSITIONS")
	assert.Contains(t, text, edgeLine(v.edges[0]))
}

func TestViewerScrollIsClamped(t *testing.T) {
	v, s := newTestViewer(t, "a:1")
	v.panel = PanelEdges
	v.scroll = 50
	screenText(v, s)
	assert.Equal(t, 0, v.scroll)
}

func TestNewViewerNeedsRealTime(t *testing.T) {
	s := tcell.NewSimulationScreen("")
	_, err := newViewer(s, "a:1", fstexpr.MustBuild("a:1"))
	assert.ErrorIs(t, err, fst.ErrNotRealTime)
}

// TestFlashPhaseCalculation checks the flash pattern: normal(0-125) ->
// inverted(125-250) -> normal(250-375) -> inverted(375-500) -> normal(500+)
func TestFlashPhaseCalculation(t *testing.T) {
	tests := []struct {
		elapsed      int64
		wantInverted bool
	}{
		{-1, false},
		{0, false},
		{124, false},
		{125, true},
		{249, true},
		{250, false},
		{374, false},
		{375, true},
		{499, true},
		{500, false},
		{1000, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.wantInverted, flashInverted(tt.elapsed), "elapsed=%d", tt.elapsed)
	}
}

func TestFlashMessageTypes(t *testing.T) {
	assert.False(t, shouldFlash(MsgInfo))
	assert.True(t, shouldFlash(MsgError))
	assert.True(t, shouldFlash(MsgSuccess))
}

func TestFlashing(t *testing.T) {
	v := &Viewer{}
	assert.False(t, v.flashing(1000))

	v.message = "Accepting"
	v.messageFlashStart = 1000
	assert.True(t, v.flashing(1000))
	assert.True(t, v.flashing(1699))
	assert.False(t, v.flashing(1700))
	assert.False(t, v.flashing(999))
}
