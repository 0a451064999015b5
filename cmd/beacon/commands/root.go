// Package commands implements the CLI commands for the beacon component.
package commands

import (
	cfgcmd "github.com/meridian-sys/standalone/cmd/beacon/commands/config"
	"github.com/spf13/cobra"
)

// ComponentName identifies this binary to the configuration resolver; the
// default config file is <ComponentName>.yaml.
const ComponentName = "beacon"

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Global flags.
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "beacon",
	Short: "Meridian beacon - heartbeat component",
	Long: `Beacon is the reference Meridian standalone component. It emits a
heartbeat log line at a configurable interval and exists to exercise the
full harness: configuration resolution, lifecycle supervision, the ops
endpoint and graceful shutdown.

Use "beacon [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/meridian/beacon.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cfgcmd.Cmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// GetConfigFile returns the config file path from the global flag.
func GetConfigFile() string {
	return cfgFile
}

// PrintErr prints an error message to stderr.
func PrintErr(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
}
