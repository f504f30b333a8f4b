package fstfile

import (
	"encoding/json"

	"github.com/ha1tch/fst-toolkit/pkg/fst"
)

// jsonTransducer is the JSON summary of a transducer.
type jsonTransducer struct {
	Expr                string           `json:"expr,omitempty"`
	States              int              `json:"states"`
	Transitions         int              `json:"transitions"`
	EpsilonTransitions  int              `json:"epsilon_transitions"`
	Alphabet            []string         `json:"alphabet"`
	Initial             []int            `json:"initial"`
	Final               []int            `json:"final"`
	RealTime            bool             `json:"real_time"`
	Infinite            bool             `json:"infinite"`
	Functional          *bool            `json:"functional,omitempty"`
	RecognizesEmptyWord bool             `json:"recognizes_empty_word"`
	EmptyWordOutputs    []uint64         `json:"empty_word_outputs"`
	Edges               []jsonTransition `json:"edges,omitempty"`
}

type jsonTransition struct {
	From   int    `json:"from"`
	Word   string `json:"word"`
	To     int    `json:"to"`
	Output uint64 `json:"output"`
}

func summarize(t *fst.Transducer, expr string, edges bool) jsonTransducer {
	s := t.Stats()
	out := jsonTransducer{
		Expr:                expr,
		States:              s.States,
		Transitions:         s.Transitions,
		EpsilonTransitions:  s.EpsilonTransitions,
		Alphabet:            t.Alphabet(),
		Initial:             t.InitialStates(),
		Final:               t.FinalStates(),
		RealTime:            t.IsRealTime(),
		Infinite:            t.IsInfinite(),
		RecognizesEmptyWord: t.RecognizesEmptyWord(),
		EmptyWordOutputs:    t.InitialEpsilonOutputs(),
	}
	if t.FunctionalityTested() {
		functional := t.IsFunctional()
		out.Functional = &functional
	}
	if out.EmptyWordOutputs == nil {
		out.EmptyWordOutputs = []uint64{}
	}
	if edges {
		for _, e := range t.Edges() {
			out.Edges = append(out.Edges, jsonTransition{From: e.From, Word: e.Word, To: e.To, Output: e.Output})
		}
	}
	return out
}

// SummaryJSON describes the transducer as indented JSON: counts, initial
// and final states, flags and, when edges is set, every transition.
func SummaryJSON(t *fst.Transducer, expr string, edges bool) ([]byte, error) {
	return json.MarshalIndent(summarize(t, expr, edges), "", "  ")
}
