// Package cli implements the cardstack command-line interface.
//
// # Commands
//
// The main commands are:
//   - render: Lay out and draw every figure of a job file
//   - step: Step through a job's layouts interactively
//   - tree: Export a figure's object tree as DOT or SVG
//   - cache: Manage the artifact cache
//   - version, completion
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardstack/pkg/buildinfo"
	"github.com/matzehuels/cardstack/pkg/cache"
	"github.com/matzehuels/cardstack/pkg/config"
	"github.com/matzehuels/cardstack/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "cardstack"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command output. Commands print to stdout when nil.
	Out io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Cardstack lays out and draws card artwork from tabular data",
		Long:         `Cardstack builds print-ready card artwork: every record of a job's sources becomes a figure, laid out by the job's layouts and drawn as text, PNG, SVG or PDF.`,
		Version:      buildinfo.Resolved(),
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.stepCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// stdout returns Out, or os.Stdout when Out is unset.
func (c *CLI) stdout() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}

// =============================================================================
// Job Helpers
// =============================================================================

// loadJob reads the job file at path and attaches the CLI logger.
func (c *CLI) loadJob(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.Logger = c.Logger
	return cfg, nil
}

// newRunner creates a pipeline runner for the job's cache.
func (c *CLI) newRunner(cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	var ch cache.Cache
	if noCache {
		ch = cache.NewNullCache()
	} else {
		var err error
		if ch, err = pipeline.OpenCache(cfg); err != nil {
			return nil, err
		}
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	r.Out = c.Out
	return r, nil
}
