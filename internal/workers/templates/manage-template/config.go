// internal/workers/templates/manage-template/config.go
package managetemplate

import (
	"time"

	"invoice-template-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// RejectInvalidConfig turns ValidateConfig warnings into job failures
	// for create and update. Off by default, matching the registry.
	RejectInvalidConfig bool
}

func DefaultConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}

func NewConfig(appCfg *config.Config) *Config {
	cfg := DefaultConfig()
	cfg.Timeout = config.GetDuration(config.GetWorkerConfig(appCfg, TaskType).Timeout)
	return cfg
}
