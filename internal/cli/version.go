package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Populated via -ldflags at release time; empty outside release builds.
var (
	Version   = "dev"
	Commit    = ""
	BuildDate = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		if JSONOutput() {
			out, _ := json.MarshalIndent(versionInfo(), "", "  ")
			fmt.Println(string(out))
			return
		}
		fmt.Println(versionLine())
		if Verbose() && BuildDate != "" {
			fmt.Printf("built %s\n", BuildDate)
		}
	},
}

// versionLine is the single human-readable line, e.g.
// "vinyl 1.2.0 (3f9c2a1b04d7) go1.25.0 linux/amd64".
func versionLine() string {
	line := "vinyl " + Version
	if Commit != "" {
		line += " (" + shortCommit() + ")"
	}
	return fmt.Sprintf("%s %s %s/%s", line, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func versionInfo() map[string]string {
	info := map[string]string{
		"version":    Version,
		"go_version": runtime.Version(),
		"platform":   runtime.GOOS + "/" + runtime.GOARCH,
	}
	if Commit != "" {
		info["commit"] = Commit
	}
	if BuildDate != "" {
		info["build_date"] = BuildDate
	}
	return info
}

func shortCommit() string {
	if len(Commit) > 12 {
		return Commit[:12]
	}
	return Commit
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
