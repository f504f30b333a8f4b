// Package fst provides weighted finite-state transducers from words to
// natural numbers: construction, real-time conversion, functionality
// testing and traversal.
//
// A transducer maps an input word to a set of non-negative outputs. Each
// transition reads a word (possibly empty, an epsilon transition) and adds
// its output to the running total. Transducers are composed with CloseStar,
// ClosePlus, Concat and Union, then converted with MakeRealTime so that
// every transition reads exactly one symbol.
package fst

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/bits"
	"sort"
	"strings"
	"unicode/utf8"
)

// MaxOutput is the largest output of an elementary transducer. Every sum
// built during conversion of an n-state transducer is then at most
// (2n+1)*MaxOutput and fits in a uint64.
const MaxOutput = math.MaxUint32

// Transition is a weighted edge to state To. The word it reads is the key
// under which it is stored.
type Transition struct {
	To     int
	Output uint64
}

// Edge is a fully described transition, used for export and rendering.
type Edge struct {
	From   int
	Word   string // "" for epsilon
	To     int
	Output uint64
}

// IsEpsilon reports whether the edge reads no input.
func (e Edge) IsEpsilon() bool {
	return e.Word == ""
}

// Label returns the edge label in word:output form, with ε for epsilon.
func (e Edge) Label() string {
	w := e.Word
	if w == "" {
		w = "ε"
	}
	return fmt.Sprintf("%s:%d", w, e.Output)
}

// stateTransitions maps a word to the set of transitions reading it.
type stateTransitions map[string]map[Transition]struct{}

func (s stateTransitions) add(word string, to int, out uint64) {
	set, ok := s[word]
	if !ok {
		set = make(map[Transition]struct{})
		s[word] = set
	}
	set[Transition{To: to, Output: out}] = struct{}{}
}

// Transducer is a weighted finite-state transducer over (ℕ, +, 0).
//
// States are dense indices into the transition table. Concat and Union
// consume their right operand; a consumed transducer is empty and every
// structural operator on it returns ErrConsumed.
type Transducer struct {
	delta   []stateTransitions
	initial map[int]struct{}
	final   map[int]struct{}

	consumed bool

	recognizesEmptyWord   bool
	infinite              bool
	realTime              bool
	functional            bool
	functionalityTested   bool
	initialEpsilonOutputs map[uint64]struct{}

	// closeEpsilonOnStates memoizes the weighted epsilon closure used to
	// answer empty-word queries before conversion.
	closeEpsilonOnStates WeightedRelation
	// positiveCycles holds the states lying on an epsilon cycle with
	// positive total output; nil until computed.
	positiveCycles map[int]struct{}
	// symbols is the rune-keyed table built once the transducer is real-time.
	symbols []map[rune][]Transition

	log *slog.Logger
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTransducer(states int) *Transducer {
	t := &Transducer{
		delta:                 make([]stateTransitions, states),
		initial:               make(map[int]struct{}),
		final:                 make(map[int]struct{}),
		initialEpsilonOutputs: make(map[uint64]struct{}),
		log:                   discardLogger,
	}
	for i := range t.delta {
		t.delta[i] = make(stateTransitions)
	}
	return t
}

// CheckOperand reports whether word and output can form an elementary
// transducer: word must be valid UTF-8 and output at most MaxOutput.
func CheckOperand(word string, output uint64) error {
	if !utf8.ValidString(word) {
		return fmt.Errorf("%w: %q", ErrInvalidWord, word)
	}
	if output > MaxOutput {
		return fmt.Errorf("%w: %d", ErrOutputTooLarge, output)
	}
	return nil
}

// FromWordAndOutput creates the elementary transducer 0 --word:output--> 1.
// An empty word yields a single epsilon transition carrying the output.
// It panics when CheckOperand rejects its arguments.
func FromWordAndOutput(word string, output uint64) *Transducer {
	if err := CheckOperand(word, output); err != nil {
		panic(err)
	}
	t := newTransducer(2)
	t.delta[0].add(word, 1, output)
	t.initial[0] = struct{}{}
	t.final[1] = struct{}{}
	return t
}

// addOutput returns a+b and whether the sum fits in a uint64.
func addOutput(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry == 0
}

// SetLogger attaches a logger for conversion and testing diagnostics.
func (t *Transducer) SetLogger(l *slog.Logger) {
	if l == nil {
		l = discardLogger
	}
	t.log = l
}

// Size returns the number of states.
func (t *Transducer) Size() int {
	return len(t.delta)
}

// IsConsumed reports whether the transducer was merged into another.
func (t *Transducer) IsConsumed() bool {
	return t.consumed
}

// InitialStates returns the sorted initial states.
func (t *Transducer) InitialStates() []int {
	return sortedStates(t.initial)
}

// FinalStates returns the sorted final states.
func (t *Transducer) FinalStates() []int {
	return sortedStates(t.final)
}

// IsInitial reports whether q is an initial state.
func (t *Transducer) IsInitial(q int) bool {
	_, ok := t.initial[q]
	return ok
}

// IsFinal reports whether q is a final state.
func (t *Transducer) IsFinal(q int) bool {
	_, ok := t.final[q]
	return ok
}

// Edges returns every transition ordered by source, word, destination and output.
func (t *Transducer) Edges() []Edge {
	var edges []Edge
	for q, trans := range t.delta {
		words := make([]string, 0, len(trans))
		for w := range trans {
			words = append(words, w)
		}
		sort.Strings(words)
		for _, w := range words {
			for _, tr := range sortedTransitions(trans[w]) {
				edges = append(edges, Edge{From: q, Word: w, To: tr.To, Output: tr.Output})
			}
		}
	}
	return edges
}

// Alphabet returns the sorted distinct symbols read by any transition.
func (t *Transducer) Alphabet() []string {
	seen := make(map[rune]struct{})
	for _, trans := range t.delta {
		for w := range trans {
			for _, r := range w {
				seen[r] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for r := range seen {
		out = append(out, string(r))
	}
	sort.Strings(out)
	return out
}

// Stats summarizes the transition table.
type Stats struct {
	States             int
	Transitions        int
	EpsilonTransitions int
	InitialStates      int
	FinalStates        int
	Alphabet           int
}

// Stats returns counts describing the transducer.
func (t *Transducer) Stats() Stats {
	s := Stats{
		States:        len(t.delta),
		InitialStates: len(t.initial),
		FinalStates:   len(t.final),
		Alphabet:      len(t.Alphabet()),
	}
	for _, trans := range t.delta {
		for w, set := range trans {
			s.Transitions += len(set)
			if w == "" {
				s.EpsilonTransitions += len(set)
			}
		}
	}
	return s
}

// Clone returns a deep copy, including derived flags.
func (t *Transducer) Clone() *Transducer {
	c := newTransducer(len(t.delta))
	for q, trans := range t.delta {
		for w, set := range trans {
			for tr := range set {
				c.delta[q].add(w, tr.To, tr.Output)
			}
		}
	}
	c.initial = copySet(t.initial)
	c.final = copySet(t.final)
	c.consumed = t.consumed
	c.recognizesEmptyWord = t.recognizesEmptyWord
	c.infinite = t.infinite
	c.realTime = t.realTime
	c.functional = t.functional
	c.functionalityTested = t.functionalityTested
	c.initialEpsilonOutputs = copySet(t.initialEpsilonOutputs)
	if t.positiveCycles != nil {
		c.positiveCycles = copySet(t.positiveCycles)
	}
	if t.realTime {
		c.buildSymbolTable()
	}
	c.log = t.log
	return c
}

// String returns a short human-readable description.
func (t *Transducer) String() string {
	var sb strings.Builder
	s := t.Stats()
	sb.WriteString(fmt.Sprintf("FST: %d states, %d transitions (%d epsilon)\n",
		s.States, s.Transitions, s.EpsilonTransitions))
	sb.WriteString(fmt.Sprintf("  Initial: %v\n", t.InitialStates()))
	sb.WriteString(fmt.Sprintf("  Final: %v\n", t.FinalStates()))
	sb.WriteString(fmt.Sprintf("  Real-time: %v, infinite: %v\n", t.realTime, t.infinite))
	return sb.String()
}

func (t *Transducer) addTransition(from int, word string, to int, out uint64) {
	t.delta[from].add(word, to, out)
}

// addState appends an empty state and returns its index.
func (t *Transducer) addState() int {
	t.delta = append(t.delta, make(stateTransitions))
	return len(t.delta) - 1
}

// remapped returns copies of the table and state sets with every index
// shifted by offset. The receiver is left untouched.
func (t *Transducer) remapped(offset int) (delta []stateTransitions, initial, final map[int]struct{}) {
	delta = make([]stateTransitions, len(t.delta))
	for q, trans := range t.delta {
		shifted := make(stateTransitions, len(trans))
		for w, set := range trans {
			for tr := range set {
				shifted.add(w, tr.To+offset, tr.Output)
			}
		}
		delta[q] = shifted
	}
	return delta, shiftSet(t.initial, offset), shiftSet(t.final, offset)
}

// absorb appends the remapped table of right and returns right's initial
// and final states in the receiver's numbering. right is consumed.
func (t *Transducer) absorb(right *Transducer) (initial, final map[int]struct{}) {
	offset := len(t.delta)
	delta, initial, final := right.remapped(offset)
	t.delta = append(t.delta, delta...)
	right.consume()
	return initial, final
}

// moveInitialStatesInto unions the donor's (already remapped) initial states into t.
func (t *Transducer) moveInitialStatesInto(states map[int]struct{}) {
	for q := range states {
		t.initial[q] = struct{}{}
	}
}

// moveFinalStatesInto unions the donor's (already remapped) final states into t.
func (t *Transducer) moveFinalStatesInto(states map[int]struct{}) {
	for q := range states {
		t.final[q] = struct{}{}
	}
}

// makeSingleInitialState links state newIndex to every initial state with
// a free epsilon transition and makes it the only initial state. The state
// is created if newIndex equals Size.
func (t *Transducer) makeSingleInitialState(newIndex int) {
	for newIndex >= len(t.delta) {
		t.addState()
	}
	for _, q := range sortedStates(t.initial) {
		t.addTransition(newIndex, "", q, 0)
	}
	t.initial = map[int]struct{}{newIndex: {}}
}

func (t *Transducer) consume() {
	*t = Transducer{consumed: true, log: t.log}
}

// checkMutable guards structural operators.
func (t *Transducer) checkMutable() error {
	if t.consumed {
		return ErrConsumed
	}
	if t.realTime {
		return ErrConverted
	}
	return nil
}

// invalidate drops every derived flag and cache after a structural change.
func (t *Transducer) invalidate() {
	t.recognizesEmptyWord = false
	t.infinite = false
	t.functional = false
	t.functionalityTested = false
	t.initialEpsilonOutputs = make(map[uint64]struct{})
	t.closeEpsilonOnStates = nil
	t.positiveCycles = nil
	t.symbols = nil
}

// Trim removes states that are not reachable from an initial state or
// cannot reach a final state, renumbering the rest contiguously.
func (t *Transducer) Trim() {
	n := len(t.delta)
	succ := func(q int) []int {
		var out []int
		for _, set := range t.delta[q] {
			for tr := range set {
				out = append(out, tr.To)
			}
		}
		return out
	}
	keep := usefulStates(n, sortedStates(t.initial), sortedStates(t.final), succ)

	index := make([]int, n)
	kept := 0
	for q := 0; q < n; q++ {
		if keep[q] {
			index[q] = kept
			kept++
		} else {
			index[q] = -1
		}
	}
	if kept == n {
		return
	}

	delta := make([]stateTransitions, kept)
	for q := 0; q < n; q++ {
		if !keep[q] {
			continue
		}
		trans := make(stateTransitions)
		for w, set := range t.delta[q] {
			for tr := range set {
				if keep[tr.To] {
					trans.add(w, index[tr.To], tr.Output)
				}
			}
		}
		delta[index[q]] = trans
	}
	renumber := func(set map[int]struct{}) map[int]struct{} {
		out := make(map[int]struct{}, len(set))
		for q := range set {
			if keep[q] {
				out[index[q]] = struct{}{}
			}
		}
		return out
	}
	t.delta = delta
	t.initial = renumber(t.initial)
	t.final = renumber(t.final)
	t.closeEpsilonOnStates = nil
	t.positiveCycles = nil
	if t.realTime {
		t.buildSymbolTable()
	}
}

// usefulStates marks the states reachable from initial that can also reach
// a state in final.
func usefulStates(n int, initial, final []int, succ func(int) []int) []bool {
	forward := make([]bool, n)
	pred := make([][]int, n)
	queue := make([]int, 0, n)
	for _, q := range initial {
		if !forward[q] {
			forward[q] = true
			queue = append(queue, q)
		}
	}
	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]
		for _, r := range succ(q) {
			pred[r] = append(pred[r], q)
			if !forward[r] {
				forward[r] = true
				queue = append(queue, r)
			}
		}
	}

	backward := make([]bool, n)
	for _, q := range final {
		if forward[q] && !backward[q] {
			backward[q] = true
			queue = append(queue, q)
		}
	}
	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]
		for _, p := range pred[q] {
			if !backward[p] {
				backward[p] = true
				queue = append(queue, p)
			}
		}
	}

	keep := make([]bool, n)
	for q := 0; q < n; q++ {
		keep[q] = forward[q] && backward[q]
	}
	return keep
}

func sortedStates(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for q := range set {
		out = append(out, q)
	}
	sort.Ints(out)
	return out
}

func sortedOutputs(set map[uint64]struct{}) []uint64 {
	out := make([]uint64, 0, len(set))
	for o := range set {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func copySet[K comparable](set map[K]struct{}) map[K]struct{} {
	out := make(map[K]struct{}, len(set))
	for k := range set {
		out[k] = struct{}{}
	}
	return out
}

func shiftSet(set map[int]struct{}, offset int) map[int]struct{} {
	out := make(map[int]struct{}, len(set))
	for q := range set {
		out[q+offset] = struct{}{}
	}
	return out
}
