package logger

import (
	"encoding/json"

	"github.com/mager/chordlegend/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// baseConfig is shared by every environment; development only lowers the
// level and switches to console output.
var baseConfig = []byte(`{
  "level": "info",
  "encoding": "json",
  "outputPaths": ["stdout"],
  "errorOutputPaths": ["stderr"],
  "encoderConfig": {
    "messageKey": "message",
    "levelKey": "level",
    "timeKey": "ts",
    "timeEncoder": "iso8601",
    "levelEncoder": "lowercase"
  }
}`)

// ProvideLogger provides a zap logger
func ProvideLogger(cfg config.Config) *zap.SugaredLogger {
	return New(cfg.Environment)
}

// New builds the sugared logger for an environment name.
func New(environment string) *zap.SugaredLogger {
	var cfg zap.Config
	if err := json.Unmarshal(baseConfig, &cfg); err != nil {
		panic(err)
	}
	if environment == "development" {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.Encoding = "console"
	}
	logger := zap.Must(cfg.Build())

	return logger.Sugar().With("service", "chordlegend")
}

// NewTestLogger returns a new logger and observed logs for testing.
func NewTestLogger() (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zap.InfoLevel)
	return zap.New(core).Sugar(), recorded
}

var Options = ProvideLogger
