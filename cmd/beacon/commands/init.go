package commands

import (
	"fmt"

	"github.com/meridian-sys/standalone/pkg/config"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Initialize a sample beacon configuration file.

By default the file is created at $XDG_CONFIG_HOME/meridian/beacon.yaml.
Use --config to specify a custom path.

Examples:
  # Initialize at the default location
  beacon init

  # Initialize at a custom path
  beacon init --config /etc/meridian/beacon.yaml

  # Force overwrite an existing file
  beacon init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := GetConfigFile()
	if configPath == "" {
		configPath = config.DefaultConfigPath(ComponentName)
	}

	if err := config.WriteSample(configPath, initForce); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit the configuration file to customize your setup")
	fmt.Println("  2. Start the component with: beacon start")
	fmt.Printf("  3. Or specify the config explicitly: beacon start --config %s\n", configPath)
	return nil
}
