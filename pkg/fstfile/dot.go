package fstfile

import (
	"fmt"
	"strings"

	"github.com/ha1tch/fst-toolkit/pkg/fst"
)

// GenerateDOT converts a transducer to Graphviz DOT format. Final states
// are double circles, each initial state gets an arrow from an invisible
// node and parallel transitions share one edge with a joined label.
func GenerateDOT(t *fst.Transducer, title string) string {
	var sb strings.Builder

	sb.WriteString("digraph FST {\n")
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("    node [fontname=\"Helvetica\", fontsize=11];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=10];\n")
	sb.WriteString("\n")

	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		sb.WriteString(fmt.Sprintf("    label=\"%s\";\n", escapeDOT(title)))
		sb.WriteString("\n")
	}

	initial := t.InitialStates()
	for i, q := range initial {
		sb.WriteString(fmt.Sprintf("    __start%d [shape=none, label=\"\", width=0, height=0];\n", i))
		sb.WriteString(fmt.Sprintf("    __start%d -> %d;\n", i, q))
	}
	if len(initial) > 0 {
		sb.WriteString("\n")
	}

	for q := 0; q < t.Size(); q++ {
		shape := "circle"
		if t.IsFinal(q) {
			shape = "doublecircle"
		}
		sb.WriteString(fmt.Sprintf("    %d [shape=%s];\n", q, shape))
	}
	sb.WriteString("\n")

	for _, g := range groupEdges(t) {
		sb.WriteString(fmt.Sprintf("    %d -> %d [label=\"%s\"];\n",
			g.from, g.to, escapeDOT(strings.Join(g.labels, ", "))))
	}

	sb.WriteString("}\n")
	return sb.String()
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "<", "\\<")
	s = strings.ReplaceAll(s, ">", "\\>")
	return s
}
