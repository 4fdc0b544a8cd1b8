// internal/workers/recommendation/onboarding-questions/config.go
package onboardingquestions

import (
	"time"

	"invoice-template-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}

func NewConfig(appCfg *config.Config) *Config {
	cfg := DefaultConfig()
	cfg.Timeout = config.GetDuration(config.GetWorkerConfig(appCfg, TaskType).Timeout)
	return cfg
}
