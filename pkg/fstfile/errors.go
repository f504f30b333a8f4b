package fstfile

import "errors"

var (
	// ErrNoExpression indicates a case file without its expression line.
	ErrNoExpression = errors.New("fstfile: missing expression line")
	// ErrBadWordCount indicates a word count line that is not a non-negative integer.
	ErrBadWordCount = errors.New("fstfile: invalid word count")
	// ErrMissingWords indicates a case file with fewer words than announced.
	ErrMissingWords = errors.New("fstfile: fewer words than announced")
)
