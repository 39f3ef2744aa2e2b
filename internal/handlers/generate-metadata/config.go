package generatemetadata

import (
	"time"

	"folder-metadata/internal/common/config"
)

type Config struct {
	Model   string
	Timeout time.Duration // 0 leaves the model call unbounded
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Model:   cfg.Model.Name,
		Timeout: config.GetDuration(cfg.Model.Timeout),
	}
}
