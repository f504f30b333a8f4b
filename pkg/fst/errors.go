package fst

import "errors"

var (
	// ErrNotRealTime indicates an operation that needs a real-time transducer.
	ErrNotRealTime = errors.New("fst: transducer is not real-time")
	// ErrInfinite indicates the transducer has a positive epsilon cycle.
	ErrInfinite = errors.New("fst: transducer is infinite")
	// ErrConsumed indicates use of a transducer that was merged into another.
	ErrConsumed = errors.New("fst: transducer was consumed by a merge")
	// ErrSelfMerge indicates an attempt to merge a transducer with itself.
	ErrSelfMerge = errors.New("fst: cannot merge a transducer with itself")
	// ErrConverted indicates a structural operator applied after conversion.
	ErrConverted = errors.New("fst: structural operators are not allowed after real-time conversion")
	// ErrOverflow indicates an accumulated output that does not fit in a uint64.
	ErrOverflow = errors.New("fst: output overflows uint64")
	// ErrInvalidWord indicates a word that is not valid UTF-8.
	ErrInvalidWord = errors.New("fst: word is not valid UTF-8")
	// ErrOutputTooLarge indicates an operand output above MaxOutput.
	ErrOutputTooLarge = errors.New("fst: output exceeds MaxOutput")
)
