package logger

import (
	"fmt"

	"go.uber.org/zap"

	"PROFILES_BACK-END/internal/config"
)

// New builds the application logger: JSON production output by default,
// console output when development mode is on.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.Level, err)
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = level

	return zcfg.Build()
}
