package cli

import (
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardstack/pkg/backend"
	"github.com/matzehuels/cardstack/pkg/buildinfo"
)

// versionCommand creates the version command.
func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := c.stdout()
			printKeyValue(w, "version", buildinfo.Resolved())
			printKeyValue(w, "commit", buildinfo.Commit)
			printKeyValue(w, "built", buildinfo.Date)
			printKeyValue(w, "go", runtime.Version())
			printKeyValue(w, "backends", strings.Join(backend.Names(), ", "))
		},
	}
}
