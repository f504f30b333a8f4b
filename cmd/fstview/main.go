// Command fstview steps through a weighted transducer in the terminal.
//
//	fstview "a:5 b:100 | c:1 . *"
//
// Typed symbols are read by every run at once; the frontier of runs, the
// outputs accepted so far and the history are shown as they change.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ha1tch/fst-toolkit/pkg/config"
	"github.com/ha1tch/fst-toolkit/pkg/fstexpr"
	"github.com/ha1tch/fst-toolkit/pkg/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath, logFile string
	cmd := &cobra.Command{
		Use:           "fstview <expr>",
		Short:         "Interactive traversal of a weighted transducer",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logCfg := cfg.Logging("fstview")
			logCfg.Output = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
				if err != nil {
					return err
				}
				defer f.Close()
				logCfg.Output = f
			}
			log := logging.New(logCfg)

			t, err := fstexpr.Build(args[0], fstexpr.WithLogger(log))
			if err != nil {
				return err
			}
			if t.MakeRealTime() {
				return fmt.Errorf("%q has an epsilon cycle with positive output and cannot be stepped", args[0])
			}
			if _, err := t.TestForFunctionality(); err != nil {
				return err
			}

			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return errors.New("fstview needs a terminal, use fst trace for piped input")
			}
			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("creating screen: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("initializing screen: %w", err)
			}
			defer screen.Fini()

			v, err := newViewer(screen, args[0], t)
			if err != nil {
				return err
			}
			v.log = log
			log.Info("viewer started", slog.String("expr", args[0]), slog.Int("states", t.Size()))
			v.run()
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML configuration file")
	cmd.Flags().StringVar(&logFile, "log-file", "", "append logs to this file")
	return cmd
}
