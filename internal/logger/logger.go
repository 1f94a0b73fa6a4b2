package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvLogFormat selects the encoder: "json" or console (default).
const EnvLogFormat = "LOG_FORMAT"

// Options configures New.
type Options struct {
	Level   string // debug | info | warn | error
	JSON    bool
	Verbose bool // forces debug level
}

// OptionsFromEnv reads LOG_FORMAT on top of the given level.
func OptionsFromEnv(level string, verbose bool) Options {
	return Options{
		Level:   level,
		JSON:    strings.EqualFold(os.Getenv(EnvLogFormat), "json"),
		Verbose: verbose,
	}
}

// ParseLevel maps a level name to a zap level, defaulting to info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds a logger. JSON output is structured for log shipping; the
// console encoder is for interactive use.
func New(opts Options) (*zap.Logger, error) {
	level := ParseLevel(opts.Level)
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	var cfg zap.Config
	if opts.JSON {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.MessageKey = "message"
		cfg.InitialFields = map[string]interface{}{"service": "gasmon"}
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
		cfg.DisableStacktrace = true
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}
