// internal/workers/recommendation/recommend-templates/config.go
package recommendtemplates

import (
	"time"

	"invoice-template-workers/internal/common/config"
)

type Config struct {
	Timeout         time.Duration
	DefaultLimit    int
	CacheTTL        time.Duration
	ProfileCacheTTL time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:         10 * time.Second,
		DefaultLimit:    3,
		CacheTTL:        10 * time.Minute,
		ProfileCacheTTL: 5 * time.Minute,
	}
}

func NewConfig(appCfg *config.Config) *Config {
	cfg := DefaultConfig()
	cfg.Timeout = config.GetDuration(config.GetWorkerConfig(appCfg, TaskType).Timeout)
	cfg.DefaultLimit = appCfg.Recommendation.DefaultLimit
	cfg.CacheTTL = appCfg.Recommendation.CacheDuration()
	cfg.ProfileCacheTTL = appCfg.Recommendation.ProfileCacheDuration()
	return cfg
}
