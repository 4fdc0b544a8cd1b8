// internal/workers/templates/transfer-template/config.go
package transfertemplate

import (
	"time"

	"invoice-template-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// MaxPayloadBytes bounds the size of an import document.
	MaxPayloadBytes int
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:         30 * time.Second,
		MaxPayloadBytes: 256 * 1024,
	}
}

func NewConfig(appCfg *config.Config) *Config {
	cfg := DefaultConfig()
	cfg.Timeout = config.GetDuration(config.GetWorkerConfig(appCfg, TaskType).Timeout)
	return cfg
}
