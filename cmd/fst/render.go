package main

import (
	"bytes"
	"errors"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fst-toolkit/pkg/fstfile"
)

// renderFlags are shared by the drawing commands.
type renderFlags struct {
	output   string
	title    string
	realTime bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "diagram title (default from config)")
	cmd.Flags().BoolVar(&f.realTime, "real-time", false, "draw the transducer after real-time conversion")
}

func (a *app) titleFor(f *renderFlags, expr string) string {
	switch {
	case f.title != "":
		return f.title
	case a.cfg.Render.Title != "":
		return a.cfg.Render.Title
	}
	return expr
}

func (a *app) dotCmd() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "dot <expr>",
		Short: "Generate Graphviz DOT output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.build(args[0], f.realTime)
			if err != nil {
				return err
			}
			return writeOutput(cmd, f.output, []byte(fstfile.GenerateDOT(t, a.titleFor(&f, args[0]))))
		},
	}
	f.register(cmd)
	return cmd
}

func (a *app) svgCmd() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "svg <expr>",
		Short: "Render the transducer as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.build(args[0], f.realTime)
			if err != nil {
				return err
			}
			r := a.cfg.Render
			svg := fstfile.GenerateSVG(t, fstfile.SVGOptions{
				Width:       r.Width,
				Height:      r.Height,
				Title:       a.titleFor(&f, args[0]),
				FontSize:    r.FontSize,
				StateRadius: r.StateRadius,
				Padding:     r.Padding,
			})
			return writeOutput(cmd, f.output, []byte(svg))
		},
	}
	f.register(cmd)
	return cmd
}

func (a *app) pngCmd() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "png <expr> -o <file>",
		Short: "Render the transducer as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.output == "" {
				return errors.New("png output needs a file, use -o")
			}
			t, err := a.build(args[0], f.realTime)
			if err != nil {
				return err
			}
			r := a.cfg.Render
			var buf bytes.Buffer
			err = fstfile.RenderPNG(t, &buf, fstfile.PNGOptions{
				Width:       r.Width,
				Height:      r.Height,
				Padding:     r.Padding,
				StateRadius: r.StateRadius,
				FontSize:    r.FontSize,
				Title:       a.titleFor(&f, args[0]),
			})
			if err != nil {
				return err
			}
			return writeOutput(cmd, f.output, buf.Bytes())
		},
	}
	f.register(cmd)
	return cmd
}
