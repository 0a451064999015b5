package commands

import (
	"errors"
	"fmt"

	"github.com/meridian-sys/standalone/internal/logger"
	"github.com/meridian-sys/standalone/pkg/config"
)

// InitLogger initializes the structured logger from configuration.
func InitLogger(cfg *config.Config) error {
	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// LoadConfig resolves and validates the component configuration, turning
// the "no config anywhere" case into an actionable message.
func LoadConfig() (*config.Config, config.Source, error) {
	cfg, src, err := config.Load(ComponentName, GetConfigFile())
	if err != nil {
		if errors.Is(err, config.ErrNotFound) {
			return nil, src, fmt.Errorf(
				"%w (looked for --config, $%s, %s and /etc/meridian/%s.yaml); run \"beacon init\" to create one",
				config.ErrNotFound, config.EnvConfigPath, config.DefaultConfigPath(ComponentName), ComponentName)
		}
		return nil, src, err
	}
	return cfg, src, nil
}
