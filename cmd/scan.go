/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/fulmenhq/licensegate/internal/scan"
	"github.com/fulmenhq/licensegate/pkg/ignore"
	"github.com/fulmenhq/licensegate/pkg/safeio"
	"github.com/fulmenhq/licensegate/pkg/sbom"
)

func newScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a project tree for dependency license violations",
		Long: `Scan discovers every workspace below the given path (default: current
directory), resolves the declared production dependencies of each to their
installed license metadata, and evaluates the merged result against the
configured allowlist. The exit code is 1 when violations are found.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScan,
	}
	addScanFlags(cmd.Flags())
	return cmd
}

func addScanFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "License config file (default: .licenserc.json in the scan root)")
	fs.String("format", "json", "Output format (json, yaml, table)")
	fs.String("output", "", "Output file (default: stdout)")
	fs.StringSlice("exclude", nil, "Extra glob patterns to prune during discovery")
	fs.String("ignore-file", ignore.DefaultIgnoreFile, "Gitignore-syntax override file, relative to the scan root")
	fs.Bool("use-gitignore", false, "Also honor the repo's git ignore files during discovery")
	fs.Int("concurrency", 0, "Parallel workspace resolution limit (0 = NumCPU)")
	fs.Bool("check-ranges", false, "Report installed versions that do not satisfy their declared range")
	fs.Bool("fail-on-violations", true, "Exit non-zero when the report has violations")

	// SBOM export
	fs.Bool("sbom", false, "Also generate a CycloneDX SBOM of the resolved packages")
	fs.String("sbom-output", "", "SBOM output file (default: stdout after the report)")
}

func runScan(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	root, err := safeio.CleanUserPath(root)
	if err != nil {
		return fmt.Errorf("invalid scan root: %w", err)
	}

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		// Default config lives next to the tree being scanned.
		candidate := filepath.Join(root, ".licenserc.json")
		if _, statErr := os.Stat(candidate); statErr == nil {
			configPath = candidate
		}
	}

	excludes, _ := cmd.Flags().GetStringSlice("exclude")
	ignoreFile, _ := cmd.Flags().GetString("ignore-file")
	useGitignore, _ := cmd.Flags().GetBool("use-gitignore")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	checkRanges, _ := cmd.Flags().GetBool("check-ranges")

	result, err := scan.Run(cmd.Context(), scan.Options{
		Root:         root,
		ConfigPath:   configPath,
		ExcludeGlobs: excludes,
		IgnoreFile:   ignoreFile,
		UseGitignore: useGitignore,
		Concurrency:  concurrency,
		CheckRanges:  checkRanges,
	})
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	format, _ := cmd.Flags().GetString("format")
	rendered, err := renderResult(result, format)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output != "" {
		if err := safeio.WriteFilePreservePerms(output, rendered); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	} else {
		cmd.Print(string(rendered))
	}

	if sbomFlag, _ := cmd.Flags().GetBool("sbom"); sbomFlag {
		if err := writeSBOM(cmd, result, root); err != nil {
			return err
		}
	}

	failOn, _ := cmd.Flags().GetBool("fail-on-violations")
	if failOn && result.Report.Summary.Violations > 0 {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return ErrViolationsFound
	}
	return nil
}

func renderResult(result *scan.Result, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}
		return append(data, '\n'), nil
	case "yaml":
		data, err := yaml.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}
		return data, nil
	case "table":
		return []byte(renderTable(result)), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func writeSBOM(cmd *cobra.Command, result *scan.Result, root string) error {
	data, err := sbom.GenerateCycloneDX(result.Packages, filepath.Base(absOrSelf(root)))
	if err != nil {
		return fmt.Errorf("SBOM generation failed: %w", err)
	}

	sbomOutput, _ := cmd.Flags().GetString("sbom-output")
	if sbomOutput == "" {
		cmd.Println(string(data))
		return nil
	}
	if err := safeio.WriteFilePreservePerms(sbomOutput, data); err != nil {
		return fmt.Errorf("failed to write SBOM file: %w", err)
	}
	return nil
}

func absOrSelf(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
