package fst

import (
	"log/slog"
	"unicode/utf8"
)

// MakeRealTime converts the transducer so that every transition reads
// exactly one symbol and no epsilon transitions remain. It runs, in order,
// epsilon removal for free transitions, word expansion and removal of the
// remaining epsilon transitions.
//
// It returns true when an epsilon cycle with positive total output exists.
// In that case the transducer is left as it was, IsInfinite reports true
// and traversal keeps using the guarded standard walk.
func (t *Transducer) MakeRealTime() (infinite bool) {
	if t.consumed || t.realTime {
		return false
	}

	work := t.Clone()
	work.removeEpsilon()
	t.log.Debug("free epsilon transitions removed", slog.Int("states", work.Size()))

	work.expand()
	t.log.Debug("words expanded", slog.Int("states", work.Size()))

	cyclic, infinite := work.removeUpperEpsilon()
	if infinite {
		t.infinite = true
		t.realTime = false
		t.log.Debug("positive epsilon cycle found", slog.Any("states", sortedStates(cyclic)))
		return true
	}

	t.delta = work.delta
	t.initial = work.initial
	t.final = work.final
	t.initialEpsilonOutputs = work.initialEpsilonOutputs
	t.infinite = false
	t.realTime = true
	t.closeEpsilonOnStates = nil
	t.positiveCycles = map[int]struct{}{}
	t.Trim()
	t.buildSymbolTable()
	t.UpdateRecognizingEmptyWord()

	t.log.Debug("real-time conversion done",
		slog.Int("states", t.Size()),
		slog.Int("transitions", t.Stats().Transitions),
		slog.Any("empty_word_outputs", sortedOutputs(t.initialEpsilonOutputs)))
	return false
}

// IsRealTime reports whether MakeRealTime succeeded.
func (t *Transducer) IsRealTime() bool {
	return t.realTime
}

// IsInfinite reports whether MakeRealTime found a positive epsilon cycle.
func (t *Transducer) IsInfinite() bool {
	return t.infinite
}

// removeEpsilon folds epsilon transitions with output 0 into the others:
// every transition into r is duplicated towards each state freely
// reachable from r, and the initial states absorb their free closure.
func (t *Transducer) removeEpsilon() {
	free := make(Relation)
	for q, trans := range t.delta {
		set, ok := trans[""]
		if !ok {
			continue
		}
		for tr := range set {
			if tr.Output == 0 {
				free.Add(q, tr.To)
				delete(set, tr)
			}
		}
		if len(set) == 0 {
			delete(trans, "")
		}
	}
	if len(free) == 0 {
		return
	}

	closed := TransitiveClosure(free)
	for _, trans := range t.delta {
		for _, set := range trans {
			var extra []Transition
			for tr := range set {
				for r := range closed[tr.To] {
					extra = append(extra, Transition{To: r, Output: tr.Output})
				}
			}
			for _, tr := range extra {
				set[tr] = struct{}{}
			}
		}
	}
	for _, q := range sortedStates(t.initial) {
		for r := range closed[q] {
			t.initial[r] = struct{}{}
		}
	}
}

// expand replaces every transition reading a word of several symbols with
// a chain of fresh states reading one symbol each. The first hop carries
// the output, the rest carry 0, and the last one lands on the original
// destination.
func (t *Transducer) expand() {
	n := len(t.delta)
	for q := 0; q < n; q++ {
		var long []string
		for w := range t.delta[q] {
			if utf8.RuneCountInString(w) > 1 {
				long = append(long, w)
			}
		}
		for _, w := range long {
			set := t.delta[q][w]
			delete(t.delta[q], w)
			symbols := []rune(w)
			for _, tr := range sortedTransitions(set) {
				from := q
				out := tr.Output
				for i, r := range symbols {
					to := tr.To
					if i < len(symbols)-1 {
						to = t.addState()
					}
					t.addTransition(from, string(r), to, out)
					from, out = to, 0
				}
			}
		}
	}
}

// removeUpperEpsilon removes the remaining epsilon transitions, which all
// carry output. Every real transition q' --a:v--> r' is replaced by
// q --a:u+v+w--> r for each q reaching q' with cost u and each r reached
// from r' with cost w. Outputs of the empty word are recorded separately.
func (t *Transducer) removeUpperEpsilon() (cyclic map[int]struct{}, infinite bool) {
	eps := make(WeightedRelation)
	for q, trans := range t.delta {
		if set, ok := trans[""]; ok {
			for tr := range set {
				eps.Add(q, tr.To, tr.Output)
			}
			delete(trans, "")
		}
	}

	closed, cyclic, infinite := ClosureEpsilon(eps)
	if infinite {
		return cyclic, true
	}

	n := len(t.delta)
	closed.AddIdentity(n)

	t.initialEpsilonOutputs = make(map[uint64]struct{})
	for q := range t.initial {
		for tr := range closed[q] {
			if t.IsFinal(tr.To) {
				t.initialEpsilonOutputs[tr.Output] = struct{}{}
			}
		}
	}

	reversed := closed.Reversed()
	delta := make([]stateTransitions, n)
	for q := range delta {
		delta[q] = make(stateTransitions)
	}
	for src, trans := range t.delta {
		for w, set := range trans {
			for tr := range set {
				for before := range reversed[src] {
					for after := range closed[tr.To] {
						// At most (2n+1)*MaxOutput, see MaxOutput.
						delta[before.To].add(w, after.To, before.Output+tr.Output+after.Output)
					}
				}
			}
		}
	}
	t.delta = delta
	return cyclic, false
}

// buildSymbolTable indexes the single-symbol transitions by rune.
func (t *Transducer) buildSymbolTable() {
	t.symbols = make([]map[rune][]Transition, len(t.delta))
	for q, trans := range t.delta {
		table := make(map[rune][]Transition, len(trans))
		for w, set := range trans {
			r, _ := utf8.DecodeRuneInString(w)
			table[r] = append(table[r], sortedTransitions(set)...)
		}
		t.symbols[q] = table
	}
}

// UpdateRecognizingEmptyWord recomputes whether the empty word is accepted.
func (t *Transducer) UpdateRecognizingEmptyWord() {
	if t.realTime {
		t.recognizesEmptyWord = len(t.initialEpsilonOutputs) > 0
		return
	}
	reach := TransitiveClosure(t.epsilonRelation().Plain())
	reach.AddIdentity(len(t.delta))
	t.recognizesEmptyWord = false
	for q := range t.initial {
		for r := range reach[q] {
			if t.IsFinal(r) {
				t.recognizesEmptyWord = true
				return
			}
		}
	}
}

// RecognizesEmptyWord returns the value computed by UpdateRecognizingEmptyWord.
func (t *Transducer) RecognizesEmptyWord() bool {
	return t.recognizesEmptyWord
}

// InitialEpsilonOutputs returns the sorted outputs of the empty word.
// Before conversion they are computed from the memoized epsilon closure;
// the result is nil for an infinite transducer.
func (t *Transducer) InitialEpsilonOutputs() []uint64 {
	if t.realTime {
		return sortedOutputs(t.initialEpsilonOutputs)
	}
	closure, ok := t.epsilonClosure()
	if !ok {
		return nil
	}
	outs := make(map[uint64]struct{})
	for q := range t.initial {
		for tr := range closure[q] {
			if t.IsFinal(tr.To) {
				outs[tr.Output] = struct{}{}
			}
		}
	}
	return sortedOutputs(outs)
}

// epsilonRelation collects every epsilon transition of the table.
func (t *Transducer) epsilonRelation() WeightedRelation {
	eps := make(WeightedRelation)
	for q, trans := range t.delta {
		for tr := range trans[""] {
			eps.Add(q, tr.To, tr.Output)
		}
	}
	return eps
}

// epsilonClosure returns the reflexive weighted epsilon closure, memoized
// until the next structural change. ok is false on a positive cycle.
func (t *Transducer) epsilonClosure() (WeightedRelation, bool) {
	if t.closeEpsilonOnStates != nil {
		return t.closeEpsilonOnStates, true
	}
	closed, _, infinite := ClosureEpsilon(t.epsilonRelation())
	if infinite {
		return nil, false
	}
	closed.AddIdentity(len(t.delta))
	t.closeEpsilonOnStates = closed
	return closed, true
}

// positiveCycleStates returns the states lying on an epsilon cycle whose
// total output is positive. A state q qualifies when some positive epsilon
// edge u -> v has u reachable from q and q reachable from v.
func (t *Transducer) positiveCycleStates() map[int]struct{} {
	if t.positiveCycles != nil {
		return t.positiveCycles
	}
	eps := t.epsilonRelation()
	reach := TransitiveClosure(eps.Plain())
	reach.AddIdentity(len(t.delta))

	cycles := make(map[int]struct{})
	for u, set := range eps {
		for tr := range set {
			if tr.Output == 0 {
				continue
			}
			for q := range t.delta {
				if reach.Has(q, u) && reach.Has(tr.To, q) {
					cycles[q] = struct{}{}
				}
			}
		}
	}
	t.positiveCycles = cycles
	return cycles
}
