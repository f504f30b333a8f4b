// Package fstexpr reads transducer expressions in reversed polish notation.
//
// An expression is a space separated list of tokens. An operand has the
// form word:number and denotes the transducer mapping word to number; the
// word may be empty (":3"), giving an epsilon transition with output 3.
// Words must be valid UTF-8 and outputs at most fst.MaxOutput.
// Operators act on the operand stack:
//
//	*  Kleene star (unary)
//	+  plus (unary)
//	.  concatenation (binary)
//	|  union (binary)
//
// For example "a:5 b:100 | c:1 . *" maps "ac" to 6 and "bcac" to 107.
package fstexpr

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ha1tch/fst-toolkit/pkg/fst"
)

// Kind classifies a token.
type Kind int

const (
	KindOperand Kind = iota
	KindStar
	KindPlus
	KindConcat
	KindUnion
)

var operators = map[byte]Kind{
	'*': KindStar,
	'+': KindPlus,
	'.': KindConcat,
	'|': KindUnion,
}

// String returns the operator symbol, or "operand".
func (k Kind) String() string {
	switch k {
	case KindStar:
		return "*"
	case KindPlus:
		return "+"
	case KindConcat:
		return "."
	case KindUnion:
		return "|"
	default:
		return "operand"
	}
}

// arity returns how many stack entries the token pops.
func (k Kind) arity() int {
	switch k {
	case KindStar, KindPlus:
		return 1
	case KindConcat, KindUnion:
		return 2
	default:
		return 0
	}
}

// Token is one element of an expression.
type Token struct {
	Kind   Kind
	Word   string // operands only
	Output uint64 // operands only
	Pos    int    // byte offset in the expression
	Text   string
}

// Tokenize splits expr into tokens, checking the syntax of each one.
func Tokenize(expr string) ([]Token, error) {
	var tokens []Token
	for i := 0; i < len(expr); {
		if expr[i] == ' ' {
			i++
			continue
		}
		start := i
		for i < len(expr) && expr[i] != ' ' {
			i++
		}
		tok, err := parseToken(expr[start:i], start)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

func parseToken(text string, pos int) (Token, error) {
	if len(text) == 1 {
		kind, ok := operators[text[0]]
		if !ok {
			return Token{}, &SyntaxError{Pos: pos, Token: text, Err: ErrUnknownOperator}
		}
		return Token{Kind: kind, Pos: pos, Text: text}, nil
	}

	sep := strings.LastIndexByte(text, ':')
	if sep < 0 {
		return Token{}, &SyntaxError{Pos: pos, Token: text, Err: ErrMissingSeparator}
	}
	if sep == len(text)-1 {
		return Token{}, &SyntaxError{Pos: pos, Token: text, Err: ErrMissingOutput}
	}
	out, err := strconv.ParseUint(text[sep+1:], 10, 64)
	if err != nil || out > fst.MaxOutput {
		return Token{}, &SyntaxError{Pos: pos, Token: text, Err: ErrBadOutput}
	}
	if !utf8.ValidString(text[:sep]) {
		return Token{}, &SyntaxError{Pos: pos, Token: text, Err: ErrInvalidWord}
	}
	return Token{Kind: KindOperand, Word: text[:sep], Output: out, Pos: pos, Text: text}, nil
}

// Validate checks that expr is well formed and reduces to exactly one
// transducer.
func Validate(expr string) error {
	tokens, err := Tokenize(expr)
	if err != nil {
		return err
	}
	return checkStack(tokens, len(expr))
}

func checkStack(tokens []Token, end int) error {
	depth := 0
	for _, tok := range tokens {
		if tok.Kind == KindOperand {
			depth++
			continue
		}
		n := tok.Kind.arity()
		if depth < n {
			return &SyntaxError{Pos: tok.Pos, Token: tok.Text, Err: ErrStackUnderflow}
		}
		depth -= n - 1
	}
	switch {
	case depth == 0:
		return &SyntaxError{Pos: end, Err: ErrEmptyExpression}
	case depth > 1:
		return &SyntaxError{Pos: end, Err: ErrLeftoverOperands}
	}
	return nil
}

// Option configures Build.
type Option func(*builder)

// WithLogger logs every applied operation at debug level and attaches the
// logger to the built transducer.
func WithLogger(l *slog.Logger) Option {
	return func(b *builder) {
		b.log = l
	}
}

type builder struct {
	log   *slog.Logger
	stack []*fst.Transducer
}

// Build validates expr and folds it into a single transducer.
func Build(expr string, opts ...Option) (*fst.Transducer, error) {
	tokens, err := Tokenize(expr)
	if err != nil {
		return nil, err
	}
	if err := checkStack(tokens, len(expr)); err != nil {
		return nil, err
	}

	b := &builder{}
	for _, opt := range opts {
		opt(b)
	}
	for _, tok := range tokens {
		if err := b.apply(tok); err != nil {
			return nil, err
		}
	}

	t := b.stack[0]
	if b.log != nil {
		t.SetLogger(b.log)
		b.log.Debug("transducer built", slog.String("expr", expr), slog.Int("states", t.Size()))
	}
	return t, nil
}

// MustBuild is like Build but panics on error. It is meant for fixed
// expressions in tests and examples.
func MustBuild(expr string) *fst.Transducer {
	t, err := Build(expr)
	if err != nil {
		panic(err)
	}
	return t
}

func (b *builder) apply(tok Token) error {
	if b.log != nil {
		b.log.Debug("applying token", slog.String("token", tok.Text), slog.Int("pos", tok.Pos))
	}
	if tok.Kind == KindOperand {
		b.stack = append(b.stack, fst.FromWordAndOutput(tok.Word, tok.Output))
		return nil
	}

	last := len(b.stack) - 1
	var err error
	switch tok.Kind {
	case KindStar:
		err = b.stack[last].CloseStar()
	case KindPlus:
		err = b.stack[last].ClosePlus()
	case KindConcat:
		err = b.stack[last-1].Concat(b.stack[last])
		b.stack = b.stack[:last]
	case KindUnion:
		err = b.stack[last-1].Union(b.stack[last])
		b.stack = b.stack[:last]
	}
	if err != nil {
		return &SyntaxError{Pos: tok.Pos, Token: tok.Text, Err: err}
	}
	return nil
}
