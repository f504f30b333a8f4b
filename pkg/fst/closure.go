package fst

import (
	"fmt"
	"sort"
	"strings"
)

// Relation is a plain reachability relation: a is connected to every b in r[a].
type Relation map[int]map[int]struct{}

// WeightedRelation connects a to (b, out) for every transition in r[a].
type WeightedRelation map[int]map[Transition]struct{}

// Add inserts the pair (a, b).
func (r Relation) Add(a, b int) {
	dst, ok := r[a]
	if !ok {
		dst = make(map[int]struct{})
		r[a] = dst
	}
	dst[b] = struct{}{}
}

// Has reports whether (a, b) is in the relation.
func (r Relation) Has(a, b int) bool {
	_, ok := r[a][b]
	return ok
}

// Clone returns a deep copy of r.
func (r Relation) Clone() Relation {
	c := make(Relation, len(r))
	for a, dst := range r {
		cd := make(map[int]struct{}, len(dst))
		for b := range dst {
			cd[b] = struct{}{}
		}
		c[a] = cd
	}
	return c
}

// Equal reports whether both relations hold exactly the same pairs.
// Sources with an empty destination set are treated as absent.
func (r Relation) Equal(o Relation) bool {
	count := func(x Relation) int {
		n := 0
		for _, dst := range x {
			n += len(dst)
		}
		return n
	}
	if count(r) != count(o) {
		return false
	}
	for a, dst := range r {
		for b := range dst {
			if !o.Has(a, b) {
				return false
			}
		}
	}
	return true
}

// AddIdentity makes r reflexive over the states 0..n-1.
func (r Relation) AddIdentity(n int) {
	for a := 0; a < n; a++ {
		r.Add(a, a)
	}
}

// Destinations returns the sorted destinations of a.
func (r Relation) Destinations(a int) []int {
	out := make([]int, 0, len(r[a]))
	for b := range r[a] {
		out = append(out, b)
	}
	sort.Ints(out)
	return out
}

// String returns a deterministic rendering, one source per line.
func (r Relation) String() string {
	keys := make([]int, 0, len(r))
	for a := range r {
		keys = append(keys, a)
	}
	sort.Ints(keys)
	var sb strings.Builder
	for _, a := range keys {
		sb.WriteString(fmt.Sprintf("%d -> %v\n", a, r.Destinations(a)))
	}
	return sb.String()
}

// TransitiveClosure returns the one-or-more hop closure of r.
// A state reaches itself only if it lies on a cycle. r is not modified.
func TransitiveClosure(r Relation) Relation {
	closed := r.Clone()
	for changed := true; changed; {
		changed = false
		for _, dst := range closed {
			before := len(dst)
			// Snapshot: dst grows while we walk it.
			hops := make([]int, 0, before)
			for b := range dst {
				hops = append(hops, b)
			}
			for _, b := range hops {
				for c := range r[b] {
					dst[c] = struct{}{}
				}
			}
			if len(dst) != before {
				changed = true
			}
		}
	}
	return closed
}

// Add inserts the transition a --out--> b.
func (r WeightedRelation) Add(a, b int, out uint64) {
	dst, ok := r[a]
	if !ok {
		dst = make(map[Transition]struct{})
		r[a] = dst
	}
	dst[Transition{To: b, Output: out}] = struct{}{}
}

// Has reports whether a reaches b with exactly out.
func (r WeightedRelation) Has(a, b int, out uint64) bool {
	_, ok := r[a][Transition{To: b, Output: out}]
	return ok
}

// Clone returns a deep copy of r.
func (r WeightedRelation) Clone() WeightedRelation {
	c := make(WeightedRelation, len(r))
	for a, dst := range r {
		cd := make(map[Transition]struct{}, len(dst))
		for t := range dst {
			cd[t] = struct{}{}
		}
		c[a] = cd
	}
	return c
}

// AddIdentity adds (a, 0) to r[a] for every state 0..n-1.
func (r WeightedRelation) AddIdentity(n int) {
	for a := 0; a < n; a++ {
		r.Add(a, a, 0)
	}
}

// Reversed flips every edge, keeping its output.
func (r WeightedRelation) Reversed() WeightedRelation {
	rev := make(WeightedRelation, len(r))
	for a, dst := range r {
		for t := range dst {
			rev.Add(t.To, a, t.Output)
		}
	}
	return rev
}

// Plain drops the outputs.
func (r WeightedRelation) Plain() Relation {
	p := make(Relation, len(r))
	for a, dst := range r {
		for t := range dst {
			p.Add(a, t.To)
		}
	}
	return p
}

// Sorted returns the transitions of a ordered by destination, then output.
func (r WeightedRelation) Sorted(a int) []Transition {
	return sortedTransitions(r[a])
}

// ClosureEpsilon computes the one-or-more hop closure of r, summing the
// outputs along each path. If some path returns to its start with a
// nonzero sum, infinite is true, the start state is recorded in cyclic and
// the returned relation must not be used. r is not modified.
//
// closed[a] holds every distinct (b, sum) pair, not only the first sum
// found for b.
func ClosureEpsilon(r WeightedRelation) (closed WeightedRelation, cyclic map[int]struct{}, infinite bool) {
	cyclic = make(map[int]struct{})
	closed = r.Clone()

	for a, dst := range closed {
		for t := range dst {
			if t.To == a && t.Output != 0 {
				cyclic[a] = struct{}{}
				infinite = true
			}
		}
	}
	if infinite {
		return closed, cyclic, true
	}

	for changed := true; changed; {
		changed = false
		for a, dst := range closed {
			before := len(dst)
			hops := make([]Transition, 0, before)
			for t := range dst {
				hops = append(hops, t)
			}
			for _, first := range hops {
				for second := range r[first.To] {
					next := Transition{To: second.To, Output: first.Output + second.Output}
					if next.To == a && next.Output != 0 {
						cyclic[a] = struct{}{}
						infinite = true
						continue
					}
					dst[next] = struct{}{}
				}
			}
			if len(dst) != before {
				changed = true
			}
		}
		if infinite {
			return closed, cyclic, true
		}
	}
	return closed, cyclic, false
}

func sortedTransitions(set map[Transition]struct{}) []Transition {
	out := make([]Transition, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].To != out[j].To {
			return out[i].To < out[j].To
		}
		return out[i].Output < out[j].Output
	})
	return out
}
