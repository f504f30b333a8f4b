package fst

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Config is one run of the transducer: the state it is in and the output
// accumulated so far.
type Config struct {
	State  int
	Output uint64
}

// TraverseWithWord simulates the transducer on word and returns the sorted
// distinct outputs of all accepting runs. accepted is false, and outputs
// nil, when the word is not in the domain.
//
// Real-time transducers are walked symbol by symbol. Otherwise epsilon
// transitions are followed as well; reaching a state on an epsilon cycle
// with positive output rejects the word, since it would have unboundedly
// many outputs.
//
// Words that are not valid UTF-8 are rejected, as are words for which some
// run accumulates an output beyond the uint64 range.
func (t *Transducer) TraverseWithWord(word string) (outputs []uint64, accepted bool) {
	if t.consumed || !utf8.ValidString(word) {
		return nil, false
	}
	var outs map[uint64]struct{}
	if t.realTime {
		outs = t.traverseRealTime(word)
	} else {
		outs = t.traverseStandard(word)
	}
	if len(outs) == 0 {
		return nil, false
	}
	return sortedOutputs(outs), true
}

func (t *Transducer) traverseRealTime(word string) map[uint64]struct{} {
	if word == "" {
		return copySet(t.initialEpsilonOutputs)
	}

	level := make(map[Config]struct{}, len(t.initial))
	for q := range t.initial {
		level[Config{State: q}] = struct{}{}
	}
	for _, r := range word {
		next := make(map[Config]struct{})
		for c := range level {
			for _, tr := range t.symbols[c.State][r] {
				out, ok := addOutput(c.Output, tr.Output)
				if !ok {
					t.logOverflow(word, c)
					return nil
				}
				next[Config{State: tr.To, Output: out}] = struct{}{}
			}
		}
		if len(next) == 0 {
			return nil
		}
		level = next
	}
	return t.acceptedOutputs(level)
}

// traverseStandard walks the table as built, where a transition may read a
// whole word or nothing. levels[i] holds the runs that consumed the first
// i bytes of word.
func (t *Transducer) traverseStandard(word string) map[uint64]struct{} {
	guard := t.positiveCycleStates()
	levels := make([]map[Config]struct{}, len(word)+1)
	levels[0] = make(map[Config]struct{})
	for q := range t.initial {
		levels[0][Config{State: q}] = struct{}{}
	}

	for i := 0; i <= len(word); i++ {
		if len(levels[i]) == 0 {
			continue
		}
		level, ok := t.followEpsilon(levels[i], guard)
		if !ok {
			return nil
		}
		levels[i] = level
		if i == len(word) {
			break
		}
		rest := word[i:]
		for c := range level {
			for w, set := range t.delta[c.State] {
				if w == "" || !strings.HasPrefix(rest, w) {
					continue
				}
				j := i + len(w)
				if levels[j] == nil {
					levels[j] = make(map[Config]struct{})
				}
				for tr := range set {
					out, ok := addOutput(c.Output, tr.Output)
					if !ok {
						t.logOverflow(word, c)
						return nil
					}
					levels[j][Config{State: tr.To, Output: out}] = struct{}{}
				}
			}
		}
	}
	return t.acceptedOutputs(levels[len(word)])
}

// followEpsilon closes a level under epsilon transitions. It fails when a
// run enters a state on a positive epsilon cycle or an output overflows.
func (t *Transducer) followEpsilon(level map[Config]struct{}, guard map[int]struct{}) (map[Config]struct{}, bool) {
	closed := make(map[Config]struct{}, len(level))
	queue := make([]Config, 0, len(level))
	for c := range level {
		closed[c] = struct{}{}
		queue = append(queue, c)
	}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if _, bad := guard[c.State]; bad {
			return nil, false
		}
		for tr := range t.delta[c.State][""] {
			out, ok := addOutput(c.Output, tr.Output)
			if !ok {
				return nil, false
			}
			next := Config{State: tr.To, Output: out}
			if _, seen := closed[next]; !seen {
				closed[next] = struct{}{}
				queue = append(queue, next)
			}
		}
	}
	return closed, true
}

func (t *Transducer) acceptedOutputs(level map[Config]struct{}) map[uint64]struct{} {
	outs := make(map[uint64]struct{})
	for c := range level {
		if t.IsFinal(c.State) {
			outs[c.Output] = struct{}{}
		}
	}
	return outs
}

func (t *Transducer) logOverflow(word string, c Config) {
	t.log.Debug("output overflow",
		slog.String("word", word), slog.Int("state", c.State), slog.Uint64("output", c.Output))
}
