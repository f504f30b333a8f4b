package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fst-toolkit/pkg/codegen"
	"github.com/ha1tch/fst-toolkit/pkg/fst"
	"github.com/ha1tch/fst-toolkit/pkg/fstexpr"
	"github.com/ha1tch/fst-toolkit/pkg/fstfile"
)

func (a *app) checkCmd() *cobra.Command {
	var asJSON, edges bool
	cmd := &cobra.Command{
		Use:   "check <expr>",
		Short: "Convert a transducer and test it for functionality",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr := args[0]
			t, err := a.build(expr, true)
			if err != nil {
				return err
			}
			if _, err := t.TestForFunctionality(); err != nil && !errors.Is(err, fst.ErrInfinite) {
				return err
			}
			if asJSON {
				data, err := fstfile.SummaryJSON(t, expr, edges)
				if err != nil {
					return err
				}
				return writeOutput(cmd, "", append(data, '\n'))
			}
			return writeOutput(cmd, "", []byte(describe(t, expr, edges)))
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON summary")
	cmd.Flags().BoolVar(&edges, "edges", false, "list every transition")
	return cmd
}

// describe formats the transducer information in aligned columns.
func describe(t *fst.Transducer, expr string, edges bool) string {
	s := t.Stats()
	var sb strings.Builder
	fmt.Fprintf(&sb, "Expression:  %q\n", expr)
	fmt.Fprintf(&sb, "States:      %d\n", s.States)
	fmt.Fprintf(&sb, "Transitions: %d (%d epsilon)\n", s.Transitions, s.EpsilonTransitions)
	fmt.Fprintf(&sb, "Alphabet:    %v\n", t.Alphabet())
	fmt.Fprintf(&sb, "Initial:     %v\n", t.InitialStates())
	fmt.Fprintf(&sb, "Final:       %v\n", t.FinalStates())
	fmt.Fprintf(&sb, "Real-time:   %s\n", yesNo(t.IsRealTime()))
	fmt.Fprintf(&sb, "Infinite:    %s\n", yesNo(t.IsInfinite()))
	if t.FunctionalityTested() {
		fmt.Fprintf(&sb, "Functional:  %s\n", yesNo(t.IsFunctional()))
	} else {
		sb.WriteString("Functional:  not tested\n")
	}
	if t.RecognizesEmptyWord() {
		fmt.Fprintf(&sb, "Empty word:  accepted -> %v\n", t.InitialEpsilonOutputs())
	} else {
		sb.WriteString("Empty word:  rejected\n")
	}
	if edges {
		sb.WriteString("\nTransitions:\n")
		for _, e := range t.Edges() {
			fmt.Fprintf(&sb, "  %d --%s--> %d\n", e.From, e.Label(), e.To)
		}
	}
	return sb.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (a *app) runCmd() *cobra.Command {
	var standard bool
	cmd := &cobra.Command{
		Use:   "run <expr> [word...]",
		Short: "Traverse words and print their outputs",
		Long: `Traverse every word with the transducer and print the sorted outputs,
or (rejected). Use "" for the empty word.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.build(args[0], !standard)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, w := range args[1:] {
				outs, ok := t.TraverseWithWord(w)
				fmt.Fprintf(out, "%q : %s\n", w, fstfile.FormatOutputs(outs, ok))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&standard, "standard", false, "traverse without real-time conversion")
	return cmd
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <expr>...",
		Short: "Check the syntax of expressions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			invalid := 0
			for _, expr := range args {
				if err := fstexpr.Validate(expr); err != nil {
					fmt.Fprintf(out, "%q: %v\n", expr, err)
					invalid++
					continue
				}
				fmt.Fprintf(out, "%q: valid\n", expr)
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d expressions invalid", invalid, len(args))
			}
			return nil
		},
	}
}

func (a *app) genCmd() *cobra.Command {
	var pkg, name, output string
	cmd := &cobra.Command{
		Use:   "gen <expr>",
		Short: "Generate Go source traversing the transducer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.build(args[0], true)
			if err != nil {
				return err
			}
			if _, err := t.TestForFunctionality(); err != nil && !errors.Is(err, fst.ErrInfinite) {
				return err
			}
			if pkg == "" {
				pkg = a.cfg.Codegen.Package
			}
			src, err := codegen.GenerateGo(t, pkg, name)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, []byte(src))
		},
	}
	cmd.Flags().StringVar(&pkg, "package", "", "package name (default from config)")
	cmd.Flags().StringVar(&name, "name", "Transducer", "generated type name")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
