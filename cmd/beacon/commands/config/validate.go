package config

import (
	"fmt"

	"github.com/meridian-sys/standalone/pkg/config"
	"github.com/spf13/cobra"
)

const componentName = "beacon"

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the beacon configuration file.

Checks for syntax errors, missing required fields, and invalid values.
The file is resolved the same way 'beacon start' resolves it, so what
validates here is what the component would actually load.

Examples:
  # Validate the resolved config
  beacon config validate

  # Validate a specific config file
  beacon config validate --config /etc/meridian/beacon.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	// Config path comes from the root command's persistent flag.
	configPath, _ := cmd.Flags().GetString("config")

	cfg, src, err := config.Load(componentName, configPath)
	if err != nil {
		return err
	}

	fmt.Printf("Configuration file: %s\n", src.String())
	fmt.Println("Validation: OK")

	fmt.Printf("\nConfiguration summary:\n")
	fmt.Printf("  Log level:         %s\n", cfg.Logging.Level)
	fmt.Printf("  Log format:        %s\n", cfg.Logging.Format)
	fmt.Printf("  Shutdown timeout:  %s\n", cfg.ShutdownTimeout)
	if cfg.Ops.Enabled {
		fmt.Printf("  Ops endpoint:      :%d\n", cfg.Ops.Port)
	} else {
		fmt.Printf("  Ops endpoint:      disabled\n")
	}
	return nil
}
