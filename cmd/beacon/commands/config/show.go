package config

import (
	"os"

	"github.com/meridian-sys/standalone/internal/cli/output"
	"github.com/meridian-sys/standalone/pkg/config"
	"github.com/spf13/cobra"
)

var showOutput string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the resolved configuration",
	Long: `Display the fully resolved beacon configuration: file content merged
over built-in defaults, with environment overrides applied.

By default outputs YAML format. Use --output to change format.

Examples:
  # Show the resolved config as YAML
  beacon config show

  # Show as JSON
  beacon config show --output json

  # Show a specific config file
  beacon config show --config /etc/meridian/beacon.yaml`,
	RunE: runConfigShow,
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "yaml", "Output format (yaml|json)")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	// Config path comes from the root command's persistent flag.
	configPath, _ := cmd.Flags().GetString("config")

	cfg, _, err := config.Load(componentName, configPath)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(showOutput)
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, cfg)
	default:
		return output.PrintYAML(os.Stdout, cfg)
	}
}
