/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fulmenhq/licensegate/pkg/buildinfo"
	"github.com/fulmenhq/licensegate/pkg/exitcode"
	"github.com/fulmenhq/licensegate/pkg/logger"
)

// ErrViolationsFound signals a completed scan whose report contains at
// least one violation. Execute maps it to exitcode.ViolationsFound.
var ErrViolationsFound = errors.New("license violations found")

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "licensegate",
		Short: "Dependency license compliance checker for JS/TS monorepos",
		Long: `Licensegate walks a project tree, discovers every workspace
(package.json directory), resolves each declared production dependency to
the license of its installed copy, and checks the result against an
allowlist plus a fixed copyleft denylist.

Examples:
   licensegate scan               # Scan the current directory
   licensegate scan path/to/repo  # Scan a specific tree
   licensegate scan --format table
   licensegate version            # Show version`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().String("log-level", "info", "Set log level (debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("licensegate {{.Version}}\n")

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
// Called from init() for production; tests call it on isolated trees.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(newScanCommand())
	cmd.AddCommand(versionCmd)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	if errors.Is(err, ErrViolationsFound) {
		os.Exit(exitcode.ViolationsFound)
	}
	logger.Error("Command execution failed", logger.Err(err))
	os.Exit(exitcode.GeneralError)
}

func init() {
	registerSubcommands(rootCmd)
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	config := loggerConfig(cmd)

	if err := logger.Initialize(config); err != nil {
		if _, writeErr := os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n"); writeErr != nil {
			_ = writeErr
		}
		os.Exit(exitcode.ConfigError)
	}
}

// loggerConfig resolves the logging options. Flags set on the command line
// win; LICENSEGATE_* environment variables override the flag defaults.
func loggerConfig(cmd *cobra.Command) logger.Config {
	v := viper.New()
	v.SetEnvPrefix("LICENSEGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlag("log-level", cmd.Flags().Lookup("log-level"))
	_ = v.BindPFlag("json", cmd.Flags().Lookup("json"))
	_ = v.BindPFlag("no-color", cmd.Flags().Lookup("no-color"))

	return logger.Config{
		Level:     logger.ParseLevel(v.GetString("log-level")),
		UseColor:  !v.GetBool("no-color"),
		JSON:      v.GetBool("json"),
		Component: "licensegate",
	}
}
