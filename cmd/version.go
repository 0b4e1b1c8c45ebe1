package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bibleaquifer/sitegen/internal/version"
)

var (
	versionFormat string
	versionShort  bool
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information including the semantic version, git
commit hash, build timestamp, Go version, and target platform.

Examples:
  sitegen version               # Show version
  sitegen version --short       # Show short version only
  sitegen version --format json # Output as JSON`,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "Output format (text, json)")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	switch versionFormat {
	case "json":
		info := version.GetBuildInfo()
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(info)
	case "text":
		if versionShort {
			fmt.Println(version.GetShortVersion())
			return nil
		}
		info := version.GetBuildInfo()
		fmt.Printf("sitegen %s", info.Version)
		if info.GitCommit != "unknown" && len(info.GitCommit) >= 7 {
			fmt.Printf(" (%s)", info.GitCommit[:7])
		}
		fmt.Println()
		if !info.BuildTime.IsZero() {
			fmt.Printf("Built: %s\n", info.BuildTime.Format("2006-01-02 15:04:05 UTC"))
		}
		fmt.Printf("Go: %s\n", info.GoVersion)
		fmt.Printf("Platform: %s\n", info.Platform)
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json)", versionFormat)
	}
}
