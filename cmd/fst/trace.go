package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ha1tch/fst-toolkit/pkg/fst"
)

func (a *app) traceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trace <expr> [word]",
		Short: "Step through a word, or run the transducer interactively",
		Long: `Trace the runs of the real-time transducer symbol by symbol. Without a
word, symbols are read from standard input; type help for the commands.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.build(args[0], true)
			if err != nil {
				return err
			}
			runner, err := fst.NewRunner(t)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 2 {
				if _, err := runner.Run(args[1]); err != nil {
					printHistory(out, runner)
					return err
				}
				printHistory(out, runner)
				fmt.Fprintln(out, runner.Status())
				return nil
			}
			interact(cmd.InOrStdin(), out, runner, isTerminal(cmd.InOrStdin()))
			return nil
		},
	}
}

// isTerminal reports whether r is a terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// interact reads commands and symbols line by line until quit or EOF. A
// line that is not a command is stepped symbol by symbol. The prompt is
// only shown when prompt is set.
func interact(in io.Reader, out io.Writer, r *fst.Runner, prompt bool) {
	fmt.Fprintln(out, "Commands: <symbols>, reset, status, history, inputs, quit")
	fmt.Fprintln(out, r.Status())

	scanner := bufio.NewScanner(in)
	for {
		if prompt {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			if prompt {
				fmt.Fprintln(out)
			}
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "quit", "exit", "q":
			return
		case "reset":
			r.Reset()
			fmt.Fprintln(out, "Reset to initial states")
			fmt.Fprintln(out, r.Status())
		case "status":
			fmt.Fprintln(out, r.Status())
		case "history":
			printHistory(out, r)
		case "inputs":
			if syms := r.AvailableSymbols(); len(syms) > 0 {
				fmt.Fprintf(out, "Available symbols: %v\n", syms)
			} else {
				fmt.Fprintln(out, "No symbols available from the current states")
			}
		case "help", "?":
			fmt.Fprintln(out, "Commands:")
			fmt.Fprintln(out, "  <symbols> - Read symbols")
			fmt.Fprintln(out, "  reset     - Return to the initial states")
			fmt.Fprintln(out, "  status    - Show the current runs")
			fmt.Fprintln(out, "  history   - Show the steps so far")
			fmt.Fprintln(out, "  inputs    - Show the readable symbols")
			fmt.Fprintln(out, "  quit      - Exit")
		default:
			for _, sym := range line {
				if _, err := r.Step(sym); err != nil {
					fmt.Fprintf(out, "Error: %v\n", err)
					break
				}
			}
			fmt.Fprintln(out, r.Status())
		}
	}
}

func printHistory(out io.Writer, r *fst.Runner) {
	history := r.History()
	if len(history) == 0 {
		fmt.Fprintln(out, "No history yet")
		return
	}
	fmt.Fprintln(out, "History:")
	for i, step := range history {
		line := fmt.Sprintf("  %d: %s --%c--> %s", i+1, configs(step.From), step.Symbol, configs(step.To))
		if len(step.Outputs) > 0 {
			line += fmt.Sprintf(" [%s]", joinOutputs(step.Outputs))
		}
		fmt.Fprintln(out, line)
	}
}

func configs(cs []fst.Config) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = fmt.Sprintf("%d/%d", c.State, c.Output)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func joinOutputs(outs []uint64) string {
	parts := make([]string, len(outs))
	for i, o := range outs {
		parts[i] = fmt.Sprint(o)
	}
	return strings.Join(parts, " ")
}
