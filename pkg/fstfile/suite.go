package fstfile

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"
)

// Suite is a YAML list of expressions with their expected behaviour:
//
//	cases:
//	  - expr: "a:5 b:100 | c:1 . *"
//	    functional: true
//	    words:
//	      "": [0]
//	      bcac: [107]
//	      ab: []      # rejected
type Suite struct {
	Cases []SuiteCase `yaml:"cases"`
}

// SuiteCase is one expression of a suite. Functional is only checked when
// set. An empty output list expects the word to be rejected.
type SuiteCase struct {
	Name       string              `yaml:"name,omitempty"`
	Expr       string              `yaml:"expr"`
	Infinite   bool                `yaml:"infinite"`
	Functional *bool               `yaml:"functional,omitempty"`
	Words      map[string][]uint64 `yaml:"words,omitempty"`
}

// CaseResult is the outcome of one suite case.
type CaseResult struct {
	Name     string   `json:"name"`
	Expr     string   `json:"expr"`
	Failures []string `json:"failures,omitempty"`
}

// Passed reports whether every expectation held.
func (r CaseResult) Passed() bool {
	return len(r.Failures) == 0
}

// LoadSuite decodes a suite, rejecting unknown keys.
func LoadSuite(r io.Reader) (*Suite, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Suite
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode suite: %w", err)
	}
	for i, c := range s.Cases {
		if c.Expr == "" {
			return nil, fmt.Errorf("suite case %d: empty expression", i+1)
		}
	}
	return &s, nil
}

// Run evaluates every case in order.
func (s *Suite) Run(log *slog.Logger) []CaseResult {
	results := make([]CaseResult, 0, len(s.Cases))
	for _, c := range s.Cases {
		res := c.run(log)
		if log != nil {
			log.Debug("suite case done", slog.String("expr", c.Expr), slog.Bool("passed", res.Passed()))
		}
		results = append(results, res)
	}
	return results
}

func (c SuiteCase) run(log *slog.Logger) CaseResult {
	res := CaseResult{Name: c.Name, Expr: c.Expr}
	if res.Name == "" {
		res.Name = c.Expr
	}
	fail := func(format string, args ...any) {
		res.Failures = append(res.Failures, fmt.Sprintf(format, args...))
	}

	words := make([]string, 0, len(c.Words))
	for w := range c.Words {
		words = append(words, w)
	}
	sort.Strings(words)

	rep, err := (&CaseFile{Expr: c.Expr, Words: words}).Evaluate(log)
	if err != nil {
		fail("%v", err)
		return res
	}

	if rep.Infinite != c.Infinite {
		fail("infinite: got %v, want %v", rep.Infinite, c.Infinite)
	}
	if c.Functional != nil {
		switch {
		case rep.Functional == nil:
			fail("functional: not tested, want %v", *c.Functional)
		case *rep.Functional != *c.Functional:
			fail("functional: got %v, want %v", *rep.Functional, *c.Functional)
		}
	}
	for _, wr := range rep.Words {
		want := c.Words[wr.Word]
		if len(want) == 0 {
			if wr.Accepted {
				fail("word %q: got %v, want rejection", wr.Word, wr.Outputs)
			}
			continue
		}
		sorted := slices.Clone(want)
		slices.Sort(sorted)
		sorted = slices.Compact(sorted)
		if !slices.Equal(wr.Outputs, sorted) {
			fail("word %q: got %s, want %v", wr.Word, FormatOutputs(wr.Outputs, wr.Accepted), sorted)
		}
	}
	return res
}
