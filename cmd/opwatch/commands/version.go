package commands

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
)

// buildInfo is stamped by main from the release build flags.
type buildInfo struct {
	Version string
	Commit  string
	Date    string
}

var build = buildInfo{Version: "dev", Commit: "none", Date: "unknown"}

// SetVersionInfo records the release version, commit and build date.
func SetVersionInfo(v, c, d string) {
	build = buildInfo{Version: v, Commit: c, Date: d}
}

func (b buildInfo) write(out io.Writer, short bool) {
	if short {
		_, _ = fmt.Fprintln(out, b.Version)
		return
	}
	_, _ = fmt.Fprintf(out, "opwatch %s\n", b.Version)
	_, _ = fmt.Fprintf(out, "  commit: %s\n", b.Commit)
	_, _ = fmt.Fprintf(out, "  built:  %s\n", b.Date)
	_, _ = fmt.Fprintf(out, "  go:     %s\n", runtime.Version())
}

// Version returns the version command.
func Version() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the opwatch build",
		Long: `Print the release, commit and build date of this opwatch binary,
together with the Go runtime it was built with. Use --short in scripts that
compare versions.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			build.write(cmd.OutOrStdout(), short)
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print only the release version")

	return cmd
}
