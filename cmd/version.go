package cmd

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

// version is stamped with -ldflags "-X github.com/abhisek/filagen/cmd.version=...".
var version = ""

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the filagen version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "filagen %s\n", resolveVersion())
	},
}

// resolveVersion prefers the linker stamp, then the module version recorded
// by "go install". Semantic versions are printed in canonical form, so a
// stamp of "1.2" reads "v1.2.0".
func resolveVersion() string {
	v := version
	if v == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			v = info.Main.Version
		}
	}
	if v == "" || v == "(devel)" {
		return "(devel)"
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if c := semver.Canonical(v); c != "" {
		return c + semver.Build(v)
	}
	return strings.TrimPrefix(v, "v")
}
