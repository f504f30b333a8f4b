package fst

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Runner steps a real-time transducer one symbol at a time.
// It tracks every run simultaneously as a frontier of configurations.
type Runner struct {
	fst      *Transducer
	frontier map[Config]struct{}
	input    []rune
	history  []Step
}

// Step records one step of execution.
type Step struct {
	Symbol  rune
	From    []Config
	To      []Config
	Outputs []uint64 // outputs accepted after the step, if any
}

// NewRunner creates a runner for the given transducer.
func NewRunner(t *Transducer) (*Runner, error) {
	if t.consumed {
		return nil, ErrConsumed
	}
	if !t.realTime {
		return nil, fmt.Errorf("cannot run transducer: %w", ErrNotRealTime)
	}
	r := &Runner{fst: t}
	r.Reset()
	return r, nil
}

// Reset returns the runner to the initial states.
func (r *Runner) Reset() {
	r.frontier = make(map[Config]struct{})
	for q := range r.fst.initial {
		r.frontier[Config{State: q}] = struct{}{}
	}
	r.input = r.input[:0]
	r.history = nil
}

// Frontier returns the current configurations sorted by state and output.
func (r *Runner) Frontier() []Config {
	return sortedConfigs(r.frontier)
}

// Input returns the symbols consumed so far.
func (r *Runner) Input() string {
	return string(r.input)
}

// IsAccepting reports whether the input consumed so far is accepted.
func (r *Runner) IsAccepting() bool {
	return len(r.Outputs()) > 0
}

// Outputs returns the outputs of the input consumed so far.
func (r *Runner) Outputs() []uint64 {
	if len(r.input) == 0 {
		return sortedOutputs(r.fst.initialEpsilonOutputs)
	}
	return sortedOutputs(r.fst.acceptedOutputs(r.frontier))
}

// AvailableSymbols returns the symbols readable from any current state.
func (r *Runner) AvailableSymbols() []string {
	seen := make(map[rune]struct{})
	for c := range r.frontier {
		for sym := range r.fst.symbols[c.State] {
			seen[sym] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for sym := range seen {
		out = append(out, string(sym))
	}
	sort.Strings(out)
	return out
}

// Step reads one symbol and returns the outputs accepted afterwards.
// It returns an error, leaving the runner unchanged, when no run can read
// the symbol or an output overflows.
func (r *Runner) Step(symbol rune) ([]uint64, error) {
	next := make(map[Config]struct{})
	for c := range r.frontier {
		for _, tr := range r.fst.symbols[c.State][symbol] {
			out, ok := addOutput(c.Output, tr.Output)
			if !ok {
				return nil, fmt.Errorf("reading %q from state %d: %w", symbol, c.State, ErrOverflow)
			}
			next[Config{State: tr.To, Output: out}] = struct{}{}
		}
	}
	if len(next) == 0 {
		return nil, fmt.Errorf("no transition from %s on %q", formatConfigs(r.Frontier()), symbol)
	}

	from := r.Frontier()
	r.frontier = next
	r.input = append(r.input, symbol)
	outputs := r.Outputs()
	r.history = append(r.history, Step{
		Symbol:  symbol,
		From:    from,
		To:      r.Frontier(),
		Outputs: outputs,
	})
	return outputs, nil
}

// Run reads every symbol of word and returns the outputs accepted at the end.
func (r *Runner) Run(word string) ([]uint64, error) {
	if !utf8.ValidString(word) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWord, word)
	}
	var outputs []uint64
	for _, sym := range word {
		out, err := r.Step(sym)
		if err != nil {
			return nil, err
		}
		outputs = out
	}
	if word == "" {
		outputs = r.Outputs()
	}
	return outputs, nil
}

// History returns the execution history.
func (r *Runner) History() []Step {
	return r.history
}

// Status returns a status line for the current frontier.
func (r *Runner) Status() string {
	status := fmt.Sprintf("Input: %q  Runs: %s", r.Input(), formatConfigs(r.Frontier()))
	if outs := r.Outputs(); len(outs) > 0 {
		status += fmt.Sprintf(" [accepting] -> %v", outs)
	}
	return status
}

func sortedConfigs(set map[Config]struct{}) []Config {
	out := make([]Config, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].State != out[j].State {
			return out[i].State < out[j].State
		}
		return out[i].Output < out[j].Output
	})
	return out
}

// formatConfigs formats configurations as {state/output, ...}.
func formatConfigs(configs []Config) string {
	parts := make([]string, len(configs))
	for i, c := range configs {
		parts[i] = fmt.Sprintf("%d/%d", c.State, c.Output)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
