package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardstack/pkg/backend/printer"
	"github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/pipeline"
	"github.com/matzehuels/cardstack/pkg/treeviz"
)

const (
	treeFormatDOT = "dot"
	treeFormatSVG = "svg"
)

// treeOpts holds the command-line flags for the tree command.
type treeOpts struct {
	figure   int    // 1-based figure index
	format   string // dot or svg
	output   string // output file, stdout when empty
	detailed bool   // label nodes with geometry and effects
}

// treeCommand creates the tree export command.
func (c *CLI) treeCommand() *cobra.Command {
	opts := treeOpts{figure: 1, format: treeFormatDOT}

	cmd := &cobra.Command{
		Use:   "tree [job.toml]",
		Short: "Export a figure's object tree as DOT or SVG",
		Long: `Export a figure's object tree as DOT or SVG.

The figure's layouts run to completion first. Each object becomes a node
linked to its parent; --detailed adds its geometry and effects to the
label.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != treeFormatDOT && opts.format != treeFormatSVG {
				return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: dot, svg)", opts.format)
			}
			return c.runTree(cmd.Context(), args[0], opts)
		},
		ValidArgsFunction: completeJobFile,
	}

	cmd.Flags().IntVar(&opts.figure, "figure", opts.figure, "figure to export, starting at 1")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot (default), svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show geometry and effects")

	return cmd
}

func (c *CLI) runTree(ctx context.Context, path string, opts treeOpts) error {
	cfg, err := c.loadJob(path)
	if err != nil {
		return err
	}
	cfg.Backend, cfg.Formats = printer.Name, nil

	job, err := pipeline.Prepare(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer job.Close()

	f, err := job.Figure(opts.figure - 1)
	if err != nil {
		return err
	}
	if _, err := f.RunLayout(0, 0); err != nil {
		return err
	}

	data := []byte(treeviz.ToDOT(f.Container(), treeviz.Options{Detailed: opts.detailed}))
	if opts.format == treeFormatSVG {
		if data, err = treeviz.RenderSVG(string(data)); err != nil {
			return err
		}
	}

	if opts.output == "" {
		_, err := fmt.Fprint(c.stdout(), string(data))
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", opts.output)
	}
	printSuccess(c.stdout(), "Exported figure %s", f.Label())
	printFile(c.stdout(), opts.output)
	return nil
}
