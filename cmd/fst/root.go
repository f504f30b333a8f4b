package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fst-toolkit/pkg/config"
	"github.com/ha1tch/fst-toolkit/pkg/fst"
	"github.com/ha1tch/fst-toolkit/pkg/fstexpr"
	"github.com/ha1tch/fst-toolkit/pkg/logging"
)

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	logLevel   string
	logJSON    bool

	cfg *config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "fst",
		Short: "Weighted finite state transducer toolkit",
		Long: `fst builds weighted transducers from expressions in reversed polish
notation, converts them to real-time form and traverses, tests, draws or
compiles them.

Operands are word:number, operators are * (star), + (plus), . (concat)
and | (union). Quote the expression: fst run "a:5 b:100 | c:1 . *" bcac`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVar(&a.logJSON, "log-json", false, "log in JSON")

	root.AddCommand(
		a.checkCmd(),
		a.runCmd(),
		a.traceCmd(),
		a.caseCmd(),
		a.suiteCmd(),
		a.dotCmd(),
		a.svgCmd(),
		a.pngCmd(),
		a.genCmd(),
		a.validateCmd(),
		a.initConfigCmd(),
	)
	return root
}

// setup loads the configuration and builds the logger. Flags override the
// file.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		if _, err := logging.ParseLevel(a.logLevel); err != nil {
			return err
		}
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-json") {
		cfg.Log.JSON = a.logJSON
	}

	logCfg := cfg.Logging("fst")
	logCfg.Output = cmd.ErrOrStderr()
	a.cfg = cfg
	a.log = logging.New(logCfg)
	return nil
}

// build parses expr and, when convert is set, makes the result real-time.
// An infinite transducer is returned unconverted with a warning.
func (a *app) build(expr string, convert bool) (*fst.Transducer, error) {
	t, err := fstexpr.Build(expr, fstexpr.WithLogger(a.log))
	if err != nil {
		return nil, err
	}
	if convert && t.MakeRealTime() {
		a.log.Warn("transducer is infinite, keeping the epsilon transitions", slog.String("expr", expr))
	}
	t.UpdateRecognizingEmptyWord()
	return t, nil
}

// writeOutput writes data to path, or to the command output when path is
// empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Written: %s\n", path)
	return nil
}
