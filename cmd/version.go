package cmd

import (
	"fmt"
	runtimedebug "runtime/debug"

	"github.com/spf13/cobra"
)

// version is stamped with -ldflags "-X github.com/mabhi256/cgdiag/cmd.version=v1.2.3"
var version = ""

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s version %s\n", binaryName, resolveVersion(version, runtimedebug.ReadBuildInfo))
	},
}

// resolveVersion prefers the stamped version, then the module version
// recorded by go install, then "dev"
func resolveVersion(stamped string, buildInfo func() (*runtimedebug.BuildInfo, bool)) string {
	if stamped != "" {
		return stamped
	}
	if info, ok := buildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
