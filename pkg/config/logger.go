package config

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func (c Config) Logger() (*zap.Logger, error) {
	var zc zap.Config
	if c.DevLog {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	if c.LogLevel != "" {
		lvl, err := zapcore.ParseLevel(c.LogLevel)
		if err != nil {
			return nil, err
		}
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zc.Build()
}
