// internal/workers/templates/search-templates/config.go
package searchtemplates

import (
	"time"

	"invoice-template-workers/internal/common/config"
)

type Config struct {
	Timeout     time.Duration
	IndexName   string
	DefaultSize int
	// RegistryFallback answers from the in-process registry when the index
	// cannot be queried.
	RegistryFallback bool
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:     10 * time.Second,
		IndexName:   "invoice_templates",
		DefaultSize: 20,
	}
}

func NewConfig(appCfg *config.Config) *Config {
	cfg := DefaultConfig()
	cfg.Timeout = config.GetDuration(config.GetWorkerConfig(appCfg, TaskType).Timeout)
	if appCfg.Templates.IndexName != "" {
		cfg.IndexName = appCfg.Templates.IndexName
	}
	cfg.RegistryFallback = true
	return cfg
}
