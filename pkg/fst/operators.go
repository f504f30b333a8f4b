package fst

// ClosePlus turns the transducer into one or more repetitions of itself.
// A fresh state becomes the only initial state, with free epsilon
// transitions to the old initial states and from every final state.
func (t *Transducer) ClosePlus() error {
	if err := t.checkMutable(); err != nil {
		return err
	}
	t.closePlus()
	t.invalidate()
	return nil
}

// CloseStar is ClosePlus with the fresh state also final, so the empty
// word is accepted with output 0.
func (t *Transducer) CloseStar() error {
	if err := t.checkMutable(); err != nil {
		return err
	}
	f := t.closePlus()
	t.final[f] = struct{}{}
	t.invalidate()
	return nil
}

func (t *Transducer) closePlus() int {
	f := t.addState()
	for _, q := range sortedStates(t.final) {
		t.addTransition(q, "", f, 0)
	}
	t.makeSingleInitialState(f)
	return f
}

// Concat appends right after t: every final state of t is linked to every
// initial state of right by a free epsilon transition, and the final states
// become right's. right is consumed.
func (t *Transducer) Concat(right *Transducer) error {
	if err := t.checkMerge(right); err != nil {
		return err
	}
	leftFinal := sortedStates(t.final)
	initial, final := t.absorb(right)
	for _, q := range leftFinal {
		for _, r := range sortedStates(initial) {
			t.addTransition(q, "", r, 0)
		}
	}
	t.final = final
	t.invalidate()
	return nil
}

// Union merges right into t without a new state; both initial and final
// sets are united. right is consumed.
func (t *Transducer) Union(right *Transducer) error {
	if err := t.checkMerge(right); err != nil {
		return err
	}
	initial, final := t.absorb(right)
	t.moveInitialStatesInto(initial)
	t.moveFinalStatesInto(final)
	t.invalidate()
	return nil
}

func (t *Transducer) checkMerge(right *Transducer) error {
	if t == right {
		return ErrSelfMerge
	}
	if err := t.checkMutable(); err != nil {
		return err
	}
	return right.checkMutable()
}
