package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/fst-toolkit/pkg/fst"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleTitle      = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorWhite)
	styleHeader     = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleState      = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleStateAcc   = tcell.StyleDefault.Foreground(tcell.ColorPurple).Bold(true)
	styleTrans      = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleTransLive  = tcell.StyleDefault.Background(tcell.ColorTeal).Foreground(tcell.ColorBlack)
	styleOutputs    = tcell.StyleDefault.Foreground(tcell.ColorPurple)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

func (v *Viewer) draw() {
	v.screen.Clear()
	w, h := v.screen.Size()

	v.drawString(1, 0, "fstview ", styleTitle)
	v.drawString(9, 0, fmt.Sprintf("%q", v.expr), styleDefault)
	v.drawString(1, 1, v.infoLine(), styleHelp)

	split := w / 2
	for y := 3; y < h-2; y++ {
		v.screen.SetContent(split, y, '│', nil, styleBorder)
	}
	v.drawRuns(1, 3, h-5)
	switch v.panel {
	case PanelHistory:
		v.drawHistory(split+2, 3, h-5)
	case PanelEdges:
		v.drawEdges(split+2, 3, h-5)
	}

	v.drawStatusBar(w, h)
}

func (v *Viewer) infoLine() string {
	s := v.fst.Stats()
	functional := "not tested"
	if v.fst.FunctionalityTested() {
		functional = "no"
		if v.fst.IsFunctional() {
			functional = "yes"
		}
	}
	return fmt.Sprintf("States: %d  Transitions: %d  Alphabet: %s  Functional: %s",
		s.States, s.Transitions, strings.Join(v.fst.Alphabet(), " "), functional)
}

// drawRuns lists the frontier: one line per run with its state and the
// output accumulated so far.
func (v *Viewer) drawRuns(x, y, height int) {
	v.drawString(x, y, "Input: "+fmt.Sprintf("%q", v.runner.Input()), styleHeader)
	y += 2

	v.drawString(x, y, "Outputs: ", styleDefault)
	if outs := v.runner.Outputs(); len(outs) > 0 {
		v.drawString(x+9, y, joinOutputs(outs), styleOutputs)
	} else {
		v.drawString(x+9, y, "-", styleHelp)
	}
	y++
	v.drawString(x, y, "Next: "+strings.Join(v.runner.AvailableSymbols(), " "), styleDefault)
	y += 2

	v.drawString(x, y, "Runs", styleHeader)
	y++
	limit := y + height - 6
	for _, c := range v.runner.Frontier() {
		if y >= limit {
			v.drawString(x, y, "...", styleHelp)
			break
		}
		style := styleState
		marker := " "
		if v.fst.IsFinal(c.State) {
			style = styleStateAcc
			marker = "*"
		}
		v.drawString(x, y, fmt.Sprintf("%s q%-4d +%d", marker, c.State, c.Output), style)
		y++
	}
}

func (v *Viewer) drawHistory(x, y, height int) {
	v.drawString(x, y, "History", styleHeader)
	y++
	history := v.runner.History()
	if len(history) == 0 {
		v.drawString(x, y, "Type a symbol to step", styleHelp)
		return
	}
	v.clampScroll(len(history), height-1)
	for i, step := range history[v.scroll:] {
		if i >= height-1 {
			break
		}
		line := fmt.Sprintf("%2d: %c  %d -> %d runs", v.scroll+i+1, step.Symbol, len(step.From), len(step.To))
		style := styleTrans
		if len(step.Outputs) > 0 {
			line += "  [" + joinOutputs(step.Outputs) + "]"
			style = styleOutputs
		}
		v.drawString(x, y+i, line, style)
	}
}

// drawEdges lists every transition, highlighting those leaving a state of
// the frontier.
func (v *Viewer) drawEdges(x, y, height int) {
	v.drawString(x, y, "Transitions", styleHeader)
	y++
	live := make(map[int]bool)
	for _, c := range v.runner.Frontier() {
		live[c.State] = true
	}
	v.clampScroll(len(v.edges), height-1)
	for i, e := range v.edges[v.scroll:] {
		if i >= height-1 {
			break
		}
		style := styleTrans
		if live[e.From] {
			style = styleTransLive
		}
		v.drawString(x, y+i, edgeLine(e), style)
	}
}

func edgeLine(e fst.Edge) string {
	return fmt.Sprintf("q%d --%s--> q%d", e.From, e.Label(), e.To)
}

func (v *Viewer) clampScroll(n, rows int) {
	maxScroll := max(n-rows, 0)
	v.scroll = min(v.scroll, maxScroll)
}

func (v *Viewer) drawStatusBar(w, h int) {
	y := h - 1
	for x := 0; x < w; x++ {
		v.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	status := "rejecting"
	if v.runner.IsAccepting() {
		status = "accepting"
	}
	v.drawString(1, y, status, styleStatus)

	panel := "HISTORY"
	if v.panel == PanelEdges {
		panel = "TRANSITIONS"
	}
	v.drawString(w/2-len(panel)/2, y, panel, styleStatus)

	if v.message != "" {
		style := styleMsgInfo
		switch v.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		}
		if v.messageFlashStart > 0 && flashInverted(time.Now().UnixMilli()-v.messageFlashStart) {
			style = style.Reverse(true)
		}
		v.drawString(w-len(v.message)-2, y, v.message, style)
	}

	y = h - 2
	for x := 0; x < w; x++ {
		v.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	v.drawString(1, y, "<symbol> step  Bksp undo  ^R reset  Tab panel  Up/Down scroll  Esc quit", styleHelp)
}

func (v *Viewer) drawString(x, y int, s string, style tcell.Style) {
	i := 0
	for _, r := range s {
		v.screen.SetContent(x+i, y, r, nil, style)
		i++
	}
}

func joinOutputs(outs []uint64) string {
	parts := make([]string, len(outs))
	for i, o := range outs {
		parts[i] = fmt.Sprint(o)
	}
	return strings.Join(parts, " ")
}
