/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/licensegate/pkg/buildinfo"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show licensegate version information",
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("extended", false, "Show detailed build information")
	versionCmd.Flags().Bool("json", false, "Output version information in JSON format")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	extended, _ := cmd.Flags().GetBool("extended")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	out := cmd.OutOrStdout()

	if jsonOutput {
		info := map[string]string{
			"version":   buildinfo.BinaryVersion,
			"goVersion": runtime.Version(),
			"platform":  runtime.GOOS + "/" + runtime.GOARCH,
		}
		if mv := buildinfo.ModuleVersion(); mv != "" {
			info["moduleVersion"] = mv
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintf(out, "licensegate %s\n", buildinfo.BinaryVersion)
	if extended {
		fmt.Fprintf(out, "  go:       %s\n", runtime.Version())
		fmt.Fprintf(out, "  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		if mv := buildinfo.ModuleVersion(); mv != "" {
			fmt.Fprintf(out, "  module:   %s\n", mv)
		}
	}
	return nil
}
