package fst

import (
	"fmt"
	"log/slog"
	"sort"
)

// Delay is the output one of two parallel runs holds over the other. After
// cancelling the common part at most one component is nonzero.
type Delay struct {
	First  uint64
	Second uint64
}

// distance adds the pair (d1, d2) to h and cancels the common minimum. The
// result always has a zero component, so a delay never becomes
// unbalancable; ok is false only when a sum overflows.
func distance(h Delay, d1, d2 uint64) (d Delay, ok bool) {
	a, ok1 := addOutput(h.First, d1)
	b, ok2 := addOutput(h.Second, d2)
	if !ok1 || !ok2 {
		return Delay{}, false
	}
	m := min(a, b)
	return Delay{First: a - m, Second: b - m}, true
}

// IsZero reports whether both runs hold the same output.
func (d Delay) IsZero() bool {
	return d.First == 0 && d.Second == 0
}

// SquaredTransition reads Symbol in both copies and emits the output pair.
type SquaredTransition struct {
	Symbol rune
	To     int
	First  uint64
	Second uint64
}

// Squared is the squared-output transducer: state i runs the pair of
// original states Pairs[i] on the same input.
type Squared struct {
	Pairs   [][2]int
	Initial []int
	Final   []bool
	Delta   [][]SquaredTransition
}

// Size returns the number of pair states.
func (s *Squared) Size() int {
	return len(s.Pairs)
}

// Squared builds the trimmed squared-output transducer of a real-time
// transducer.
func (t *Transducer) Squared() (*Squared, error) {
	if err := t.checkFunctionalityPreconditions(); err != nil {
		return nil, err
	}
	return t.squared().trim(), nil
}

// squared explores the pairs reachable from the pairs of initial states.
func (t *Transducer) squared() *Squared {
	s := &Squared{}
	index := make(map[[2]int]int)
	var queue []int

	visit := func(pair [2]int) int {
		if i, ok := index[pair]; ok {
			return i
		}
		i := len(s.Pairs)
		index[pair] = i
		s.Pairs = append(s.Pairs, pair)
		s.Final = append(s.Final, t.IsFinal(pair[0]) && t.IsFinal(pair[1]))
		s.Delta = append(s.Delta, nil)
		queue = append(queue, i)
		return i
	}

	initial := sortedStates(t.initial)
	for _, p1 := range initial {
		for _, p2 := range initial {
			s.Initial = append(s.Initial, visit([2]int{p1, p2}))
		}
	}

	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		p1, p2 := s.Pairs[i][0], s.Pairs[i][1]

		symbols := make([]rune, 0, len(t.symbols[p1]))
		for r := range t.symbols[p1] {
			if _, ok := t.symbols[p2][r]; ok {
				symbols = append(symbols, r)
			}
		}
		sort.Slice(symbols, func(a, b int) bool { return symbols[a] < symbols[b] })

		for _, r := range symbols {
			for _, tr1 := range t.symbols[p1][r] {
				for _, tr2 := range t.symbols[p2][r] {
					to := visit([2]int{tr1.To, tr2.To})
					s.Delta[i] = append(s.Delta[i], SquaredTransition{
						Symbol: r,
						To:     to,
						First:  tr1.Output,
						Second: tr2.Output,
					})
				}
			}
		}
	}
	return s
}

// trim keeps the reachable and co-reachable pair states, renumbered.
func (s *Squared) trim() *Squared {
	n := len(s.Pairs)
	var final []int
	for i, f := range s.Final {
		if f {
			final = append(final, i)
		}
	}
	succ := func(i int) []int {
		out := make([]int, len(s.Delta[i]))
		for k, tr := range s.Delta[i] {
			out[k] = tr.To
		}
		return out
	}
	keep := usefulStates(n, s.Initial, final, succ)

	index := make([]int, n)
	trimmed := &Squared{}
	for i := 0; i < n; i++ {
		index[i] = -1
		if keep[i] {
			index[i] = len(trimmed.Pairs)
			trimmed.Pairs = append(trimmed.Pairs, s.Pairs[i])
			trimmed.Final = append(trimmed.Final, s.Final[i])
		}
	}
	trimmed.Delta = make([][]SquaredTransition, len(trimmed.Pairs))
	for i := 0; i < n; i++ {
		if !keep[i] {
			continue
		}
		for _, tr := range s.Delta[i] {
			if keep[tr.To] {
				tr.To = index[tr.To]
				trimmed.Delta[index[i]] = append(trimmed.Delta[index[i]], tr)
			}
		}
	}
	seen := make(map[int]bool)
	for _, i := range s.Initial {
		if keep[i] && !seen[i] {
			seen[i] = true
			trimmed.Initial = append(trimmed.Initial, index[i])
		}
	}
	return trimmed
}

func (t *Transducer) checkFunctionalityPreconditions() error {
	if t.consumed {
		return ErrConsumed
	}
	if t.infinite {
		return ErrInfinite
	}
	if !t.realTime {
		return ErrNotRealTime
	}
	return nil
}

// TestForFunctionality decides whether every accepted word has exactly one
// output. The transducer must be real-time.
//
// Two runs on the same input are tracked through the trimmed squared-output
// transducer together with the delay between their outputs. The relation is
// a function iff every pair state has a single delay and every final pair
// state is reached with zero delay. A delay beyond the uint64 range returns
// ErrOverflow.
func (t *Transducer) TestForFunctionality() (bool, error) {
	if err := t.checkFunctionalityPreconditions(); err != nil {
		return false, err
	}
	functional, err := t.testForFunctionality()
	if err != nil {
		return false, err
	}
	t.functional = functional
	t.functionalityTested = true
	return functional, nil
}

func (t *Transducer) testForFunctionality() (bool, error) {
	if len(t.initialEpsilonOutputs) > 1 {
		t.log.Debug("empty word has several outputs",
			slog.Any("outputs", sortedOutputs(t.initialEpsilonOutputs)))
		return false, nil
	}

	sot := t.squared().trim()
	t.log.Debug("squared-output transducer built", slog.Int("states", sot.Size()))

	delays := make(map[int]Delay, sot.Size())
	queue := make([]int, 0, len(sot.Initial))
	for _, i := range sot.Initial {
		delays[i] = Delay{}
		queue = append(queue, i)
	}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		h := delays[i]
		for _, tr := range sot.Delta[i] {
			next, ok := distance(h, tr.First, tr.Second)
			if !ok {
				return false, fmt.Errorf("delay of pair %v: %w", sot.Pairs[tr.To], ErrOverflow)
			}
			if sot.Final[tr.To] && !next.IsZero() {
				t.log.Debug("final pair reached with unequal outputs",
					slog.Any("pair", sot.Pairs[tr.To]), slog.Any("delay", next))
				return false, nil
			}
			if prev, ok := delays[tr.To]; ok {
				if prev != next {
					t.log.Debug("pair reached with two delays",
						slog.Any("pair", sot.Pairs[tr.To]), slog.Any("delay", next), slog.Any("previous", prev))
					return false, nil
				}
				continue
			}
			delays[tr.To] = next
			queue = append(queue, tr.To)
		}
	}
	return true, nil
}

// IsFunctional returns the result of the last TestForFunctionality.
func (t *Transducer) IsFunctional() bool {
	return t.functional
}

// FunctionalityTested reports whether TestForFunctionality has run since
// the last structural change.
func (t *Transducer) FunctionalityTested() bool {
	return t.functionalityTested
}
