// Package codegen turns real-time transducers into standalone source code.
package codegen

import (
	"errors"
	"fmt"
	"go/format"
	"sort"
	"strings"

	"github.com/ha1tch/fst-toolkit/pkg/fst"
)

// ErrNotConverted is returned for transducers that are not real-time.
var ErrNotConverted = errors.New("codegen: transducer must be real-time")

// GenerateGo emits a Go file declaring type name with a method
//
//	func (name) Traverse(word string) ([]uint64, bool)
//
// that walks the transition table of t exactly like
// (*fst.Transducer).TraverseWithWord. The generated code only depends on
// the standard library.
func GenerateGo(t *fst.Transducer, packageName, name string) (string, error) {
	if !t.IsRealTime() {
		if t.IsInfinite() {
			return "", fmt.Errorf("%w: %w", ErrNotConverted, fst.ErrInfinite)
		}
		return "", ErrNotConverted
	}

	typeName := toPascalCase(sanitizeName(name))
	if typeName == "" {
		typeName = "Transducer"
	}
	packageName = strings.ToLower(sanitizeName(packageName))
	if packageName == "" {
		packageName = "fst"
	}
	prefix := lowerFirst(typeName)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`// Code generated from a transducer. DO NOT EDIT.
// States: %d, transitions: %d.

package %s

import (
	"math/bits"
	"sort"
	"unicode/utf8"
)

`, t.Size(), t.Stats().Transitions, packageName))

	sb.WriteString(fmt.Sprintf("type %sTransition struct {\n\tto     int\n\toutput uint64\n}\n\n", prefix))

	sb.WriteString(fmt.Sprintf("var %sInitial = []int{%s}\n\n", prefix, joinInts(t.InitialStates())))

	sb.WriteString(fmt.Sprintf("var %sFinal = [...]bool{", prefix))
	for q := 0; q < t.Size(); q++ {
		if q > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprint(t.IsFinal(q)))
	}
	sb.WriteString("}\n\n")

	empty := t.InitialEpsilonOutputs()
	outs := make([]string, len(empty))
	for i, o := range empty {
		outs[i] = fmt.Sprint(o)
	}
	sb.WriteString(fmt.Sprintf("var %sEmptyWordOutputs = []uint64{%s}\n\n", prefix, strings.Join(outs, ", ")))

	sb.WriteString(fmt.Sprintf("var %sDelta = [...]map[rune][]%sTransition{\n", prefix, prefix))
	for q, table := range symbolTables(t) {
		sb.WriteString(fmt.Sprintf("\t%d: {\n", q))
		for _, e := range table {
			sb.WriteString(fmt.Sprintf("\t\t%q: {", e.symbol))
			for i, tr := range e.transitions {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(fmt.Sprintf("{%d, %d}", tr.To, tr.Output))
			}
			sb.WriteString("},\n")
		}
		sb.WriteString("\t},\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString(fmt.Sprintf("// %s is a generated weighted transducer.\n", typeName))
	sb.WriteString(fmt.Sprintf("type %s struct{}\n\n", typeName))

	functional := "false"
	if t.FunctionalityTested() && t.IsFunctional() {
		functional = "true"
	}
	sb.WriteString("// Functional reports whether every accepted word has a single output.\n")
	sb.WriteString("// It is false when functionality was not tested before generation.\n")
	sb.WriteString(fmt.Sprintf("func (%s) Functional() bool {\n\treturn %s\n}\n\n", typeName, functional))

	sb.WriteString(strings.NewReplacer("$T", typeName, "$p", prefix).Replace(traverseTemplate))

	src, err := format.Source([]byte(sb.String()))
	if err != nil {
		return "", fmt.Errorf("format generated code: %w", err)
	}
	return string(src), nil
}

const traverseTemplate = `// Traverse returns the sorted distinct outputs of word and whether it is
// accepted. Invalid UTF-8 and outputs beyond the uint64 range reject the
// word.
func ($T) Traverse(word string) ([]uint64, bool) {
	if !utf8.ValidString(word) {
		return nil, false
	}
	if word == "" {
		if len($pEmptyWordOutputs) == 0 {
			return nil, false
		}
		return append([]uint64(nil), $pEmptyWordOutputs...), true
	}

	type config struct {
		state  int
		output uint64
	}
	level := make(map[config]struct{}, len($pInitial))
	for _, q := range $pInitial {
		level[config{state: q}] = struct{}{}
	}
	for _, r := range word {
		next := make(map[config]struct{})
		for c := range level {
			for _, tr := range $pDelta[c.state][r] {
				out, carry := bits.Add64(c.output, tr.output, 0)
				if carry != 0 {
					return nil, false
				}
				next[config{state: tr.to, output: out}] = struct{}{}
			}
		}
		if len(next) == 0 {
			return nil, false
		}
		level = next
	}

	seen := make(map[uint64]bool)
	var outs []uint64
	for c := range level {
		if $pFinal[c.state] && !seen[c.output] {
			seen[c.output] = true
			outs = append(outs, c.output)
		}
	}
	if len(outs) == 0 {
		return nil, false
	}
	sort.Slice(outs, func(i, j int) bool { return outs[i] < outs[j] })
	return outs, true
}
`

type symbolEntry struct {
	symbol      rune
	transitions []fst.Transition
}

// symbolTables groups the edges of each state by symbol, in order.
func symbolTables(t *fst.Transducer) [][]symbolEntry {
	tables := make([][]symbolEntry, t.Size())
	for _, e := range t.Edges() {
		r := []rune(e.Word)[0]
		table := tables[e.From]
		if n := len(table); n > 0 && table[n-1].symbol == r {
			table[n-1].transitions = append(table[n-1].transitions, fst.Transition{To: e.To, Output: e.Output})
		} else {
			table = append(table, symbolEntry{symbol: r, transitions: []fst.Transition{{To: e.To, Output: e.Output}}})
		}
		tables[e.From] = table
	}
	for _, table := range tables {
		sort.Slice(table, func(i, j int) bool { return table[i].symbol < table[j].symbol })
	}
	return tables
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, ", ")
}
