package main

import (
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/fst-toolkit/pkg/fst"
	"github.com/ha1tch/fst-toolkit/pkg/logging"
)

// Panel selects what the right-hand side of the screen shows.
type Panel int

const (
	PanelHistory Panel = iota
	PanelEdges
)

// MessageType selects the status bar style of a message.
type MessageType int

const (
	MsgInfo    MessageType = iota // Informative, no flash
	MsgError                      // Rejected symbols, flash
	MsgSuccess                    // Accepting after a step, flash
)

// Viewer holds the viewer state.
type Viewer struct {
	screen tcell.Screen
	log    *slog.Logger
	expr   string
	fst    *fst.Transducer
	runner *fst.Runner
	edges  []fst.Edge

	panel  Panel
	scroll int

	message           string
	messageType       MessageType
	messageFlashStart int64 // Unix milliseconds, 0 when not flashing
}

func newViewer(screen tcell.Screen, expr string, t *fst.Transducer) (*Viewer, error) {
	runner, err := fst.NewRunner(t)
	if err != nil {
		return nil, err
	}
	return &Viewer{
		screen: screen,
		log:    logging.Discard(),
		expr:   expr,
		fst:    t,
		runner: runner,
		edges:  t.Edges(),
	}, nil
}

func (v *Viewer) run() {
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if v.flashing(time.Now().UnixMilli()) {
					v.screen.PostEvent(tcell.NewEventInterrupt(nil))
				}
			}
		}
	}()

	for {
		v.draw()
		v.screen.Show()

		switch ev := v.screen.PollEvent().(type) {
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			if v.handleKey(ev) {
				return
			}
		case nil:
			return
		}
	}
}

// handleKey applies a key press and reports whether the viewer should quit.
func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC, tcell.KeyCtrlQ:
		return true
	case tcell.KeyCtrlR:
		v.runner.Reset()
		v.scroll = 0
		v.showMessage("Reset to initial states", MsgInfo)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		v.undo()
	case tcell.KeyTab:
		if v.panel == PanelHistory {
			v.panel = PanelEdges
		} else {
			v.panel = PanelHistory
		}
		v.scroll = 0
	case tcell.KeyUp:
		if v.scroll > 0 {
			v.scroll--
		}
	case tcell.KeyDown:
		v.scroll++
	case tcell.KeyRune:
		v.step(ev.Rune())
	}
	return false
}

func (v *Viewer) step(sym rune) {
	outs, err := v.runner.Step(sym)
	if err != nil {
		v.log.Debug("symbol rejected", slog.String("symbol", string(sym)), slog.String("input", v.runner.Input()))
		v.showMessage("No run reads "+string(sym), MsgError)
		return
	}
	if len(outs) > 0 {
		v.showMessage("Accepting", MsgSuccess)
	} else {
		v.message = ""
	}
}

// undo removes the last symbol by replaying the rest of the input.
func (v *Viewer) undo() {
	input := []rune(v.runner.Input())
	if len(input) == 0 {
		return
	}
	v.runner.Reset()
	if _, err := v.runner.Run(string(input[:len(input)-1])); err != nil {
		v.showMessage(err.Error(), MsgError)
		return
	}
	v.message = ""
}

func (v *Viewer) showMessage(msg string, kind MessageType) {
	v.message = msg
	v.messageType = kind
	v.messageFlashStart = 0
	if shouldFlash(kind) {
		v.messageFlashStart = time.Now().UnixMilli()
	}
}

// flashing reports whether the status bar still needs redrawing at now.
func (v *Viewer) flashing(now int64) bool {
	if v.message == "" || v.messageFlashStart == 0 {
		return false
	}
	elapsed := now - v.messageFlashStart
	return elapsed >= 0 && elapsed < 700
}

func shouldFlash(kind MessageType) bool {
	return kind == MsgError || kind == MsgSuccess
}

// flashInverted alternates normal and inverted every 125ms during the first
// 500ms of a flash.
func flashInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= 500 {
		return false
	}
	phase := elapsed / 125
	return phase == 1 || phase == 3
}
