package util

import (
	"github.com/pgschema/pgintrospect/internal/config"
	"github.com/pgschema/pgintrospect/internal/logger"
)

// ConfigPath is the --config flag shared by every command.
var ConfigPath string

// LoadConfig loads the configuration named by --config, or the discovered one.
func LoadConfig() (*config.Config, string, error) {
	cfg, path, err := config.Load(ConfigPath)
	if err != nil {
		return nil, path, err
	}
	logger.Get().Debug("Loaded configuration", "path", path, "schema", cfg.Schema)
	return cfg, path, nil
}
