package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fst-toolkit/pkg/config"
	"github.com/ha1tch/fst-toolkit/pkg/fstfile"
)

func (a *app) caseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "case <file>",
		Short: "Execute a case file: expression, word count, words",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			cf, err := fstfile.ReadCaseFile(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return cf.Execute(cmd.OutOrStdout(), a.log)
		},
	}
}

func (a *app) suiteCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "suite <file.yaml>...",
		Short: "Run YAML suites of expressions and expected outputs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			err := a.runSuites(out, args)
			if !watch {
				return err
			}

			w, werr := newSuiteWatcher(args, a.log)
			if werr != nil {
				return werr
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Watching for changes, press Ctrl-C to stop")
			w.run(cmd.Context(), func() {
				fmt.Fprintln(out)
				if err := a.runSuites(out, args); err != nil {
					a.log.Warn("suite run failed", slog.Any("error", err))
				}
			})
			return nil
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "run again whenever a suite file changes")
	return cmd
}

// runSuites runs every suite file in order and prints one line per case.
func (a *app) runSuites(out io.Writer, paths []string) error {
	passed, total := 0, 0
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		s, err := fstfile.LoadSuite(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		for _, res := range s.Run(a.log) {
			total++
			if res.Passed() {
				passed++
				fmt.Fprintf(out, "PASS %s\n", res.Name)
				continue
			}
			fmt.Fprintf(out, "FAIL %s\n", res.Name)
			for _, msg := range res.Failures {
				fmt.Fprintf(out, "     %s\n", msg)
			}
		}
	}
	fmt.Fprintf(out, "%d/%d cases passed\n", passed, total)
	if passed != total {
		return fmt.Errorf("%d cases failed", total-passed)
	}
	return nil
}

func (a *app) initConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config <file.yaml>",
		Short: "Write the default configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err == nil {
				return fmt.Errorf("%s already exists", args[0])
			}
			if err := config.WriteDefault(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Written: %s\n", args[0])
			return nil
		},
	}
}
