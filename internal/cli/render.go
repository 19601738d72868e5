package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardstack/pkg/backend/printer"
	"github.com/matzehuels/cardstack/pkg/config"
	"github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/observability"
)

// renderOpts holds the command-line flags for the render command. Set
// flags override the job file.
type renderOpts struct {
	backend string // backend name: print, raster, svg
	formats string // comma-separated output formats
	output  string // output directory, relative to the working directory
	noCache bool   // bypass the artifact cache
	refresh bool   // redraw every figure and refresh the cache
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [job.toml]",
		Short: "Lay out and draw every figure of a job",
		Long: `Lay out and draw every figure of a job.

Each record of the job's sources becomes a figure. Its layouts run to
completion, then it is drawn with the job's backend. File backends write one
artifact per root object and format into the output directory, named
<index>-<name>_<root>.<format>.

Artifacts are cached; unchanged figures are read back from the cache.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
		ValidArgsFunction: completeJobFile,
	}

	cmd.Flags().StringVarP(&opts.backend, "backend", "b", "", "backend: "+strings.Join(config.Backends(), ", "))
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s), comma-separated")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "redraw every figure and refresh the cache")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, path string, opts renderOpts) error {
	cfg, err := c.loadJob(path)
	if err != nil {
		return err
	}
	if err := applyRenderOpts(cfg, opts); err != nil {
		return err
	}
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()
	runner.Refresh = opts.refresh

	// The print backend writes to stdout, where a spinner would interleave.
	var spin *Spinner
	if cfg.Backend != printer.Name && c.Logger.GetLevel() > LogDebug {
		spin = newSpinnerWithContext(ctx, "Rendering "+filepath.Base(path)+"...")
		spin.Start()
		observability.SetPipelineHooks(spinnerHooks{spin: spin})
		defer observability.Reset()
	}
	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, cfg)
	if err != nil {
		if spin != nil {
			spin.StopWithError(errors.UserMessage(err))
		}
		return err
	}

	out := c.stdout()
	msg := fmt.Sprintf("Rendered %d figures", res.Figures)
	if spin != nil {
		spin.StopWithSuccess(msg)
	} else {
		printSuccess(out, "%s", msg)
	}
	prog.done("render done", "job", filepath.Base(path), "figures", res.Figures,
		"files", len(res.Outputs), "cached", res.CacheInfo.Hits)
	printStats(out, res.Figures, len(res.Outputs), res.CacheInfo.Hits)
	for _, o := range res.Outputs {
		printFile(out, o.Path)
	}
	if len(res.Outputs) > 0 {
		printNextStep(out, "Inspect a figure", appName+" tree "+path+" --figure 1")
	}
	return nil
}

// applyRenderOpts overrides cfg with the flags that were set. A new backend
// drops the job's formats unless formats are given too.
func applyRenderOpts(cfg *config.Config, opts renderOpts) error {
	if opts.backend != "" && opts.backend != cfg.Backend {
		cfg.Backend = opts.backend
		cfg.Formats = nil
	}
	if opts.formats != "" {
		cfg.Formats = parseFormats(opts.formats)
	}
	if opts.output != "" {
		abs, err := filepath.Abs(opts.output)
		if err != nil {
			return err
		}
		cfg.OutputDir = abs
	}
	return nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// spinnerHooks shows pipeline progress on a spinner.
type spinnerHooks struct {
	observability.NoopPipelineHooks
	spin *Spinner
}

func (h spinnerHooks) OnLoadStart(_ context.Context, source string) {
	h.spin.SetMessage("Loading " + filepath.Base(source) + "...")
}

func (h spinnerHooks) OnLayoutStart(_ context.Context, figure string) {
	h.spin.SetMessage("Laying out " + figure + "...")
}

func (h spinnerHooks) OnDrawComplete(_ context.Context, figure, backend string, d time.Duration, err error) {
	if err == nil {
		h.spin.SetMessage(fmt.Sprintf("Drew %s with %s (%s)", figure, backend, d.Round(time.Millisecond)))
	}
}
