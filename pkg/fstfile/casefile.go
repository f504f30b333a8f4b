package fstfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ha1tch/fst-toolkit/pkg/fst"
	"github.com/ha1tch/fst-toolkit/pkg/fstexpr"
	"github.com/ha1tch/fst-toolkit/pkg/logging"
)

// CaseFile is a line-oriented test case: the expression on the first line,
// the number of words on the second, then one word per line. An empty line
// stands for the empty word.
type CaseFile struct {
	Expr  string
	Words []string
}

// ReadCaseFile parses a case file.
func ReadCaseFile(r io.Reader) (*CaseFile, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNoExpression
	}
	cf := &CaseFile{Expr: trimLine(sc.Text())}

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return cf, nil
	}
	count, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil || count < 0 {
		return nil, fmt.Errorf("%w: %q", ErrBadWordCount, sc.Text())
	}

	cf.Words = make([]string, 0, count)
	for len(cf.Words) < count && sc.Scan() {
		cf.Words = append(cf.Words, trimLine(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(cf.Words) < count {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrMissingWords, count, len(cf.Words))
	}
	return cf, nil
}

// trimLine drops a trailing carriage return.
func trimLine(s string) string {
	return strings.TrimSuffix(s, "\r")
}

// WordResult is the traversal result of one word.
type WordResult struct {
	Word     string   `json:"word"`
	Accepted bool     `json:"accepted"`
	Outputs  []uint64 `json:"outputs"`
}

// Report is the outcome of evaluating a case file.
type Report struct {
	Expr       string       `json:"expr"`
	RealTime   bool         `json:"real_time"`
	Infinite   bool         `json:"infinite"`
	Functional *bool        `json:"functional,omitempty"` // nil when untested
	Words      []WordResult `json:"words"`
}

// Evaluate builds the transducer, converts it, tests functionality when
// possible and traverses every word.
func (cf *CaseFile) Evaluate(log *slog.Logger) (*Report, error) {
	if log == nil {
		log = logging.Discard()
	}
	t, err := fstexpr.Build(cf.Expr, fstexpr.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("build %q: %w", cf.Expr, err)
	}

	rep := &Report{Expr: cf.Expr}
	rep.Infinite = t.MakeRealTime()
	rep.RealTime = t.IsRealTime()
	t.UpdateRecognizingEmptyWord()

	functional, err := t.TestForFunctionality()
	switch {
	case err == nil:
		rep.Functional = &functional
	case errors.Is(err, fst.ErrInfinite):
		log.Info("functionality not tested", slog.String("expr", cf.Expr), slog.Any("reason", err))
	default:
		return nil, err
	}

	for _, w := range cf.Words {
		outs, ok := t.TraverseWithWord(w)
		rep.Words = append(rep.Words, WordResult{Word: w, Accepted: ok, Outputs: outs})
	}
	return rep, nil
}

// Execute evaluates the case file and prints a report to w.
func (cf *CaseFile) Execute(w io.Writer, log *slog.Logger) error {
	rep, err := cf.Evaluate(log)
	if err != nil {
		return err
	}
	return rep.Write(w)
}

// Write prints the report in plain text.
func (r *Report) Write(w io.Writer) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Expression: %q\n", r.Expr)
	fmt.Fprintf(&sb, "\tFST is %s.\n", choose(r.RealTime, "real-time", "not real-time"))
	fmt.Fprintf(&sb, "\tFST is %s.\n", choose(r.Infinite, "infinite", "not infinite"))
	if r.Functional == nil {
		sb.WriteString("\tFunctionality was not tested.\n")
	} else {
		fmt.Fprintf(&sb, "\tFST is %s.\n", choose(*r.Functional, "functional", "not functional"))
	}
	fmt.Fprintf(&sb, "Traversing %d words:\n", len(r.Words))
	for _, res := range r.Words {
		fmt.Fprintf(&sb, "\t%q : %s\n", res.Word, FormatOutputs(res.Outputs, res.Accepted))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatOutputs prints outputs space separated, or "(rejected)".
func FormatOutputs(outputs []uint64, accepted bool) string {
	if !accepted {
		return "(rejected)"
	}
	parts := make([]string, len(outputs))
	for i, o := range outputs {
		parts[i] = strconv.FormatUint(o, 10)
	}
	return strings.Join(parts, " ")
}

func choose(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
