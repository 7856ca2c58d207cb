// Package gwlog provides the gateway's single structured logger.
//
// The spec's DESIGN NOTES call the logger singleton acceptable process-wide
// state; everything else is plumbed explicitly. Levels follow the Router
// contract (spec §4.1 step 5): Info on request entry, Debug on the inbound
// params, Warn on handled/recoverable errors, Error on compromising faults,
// Info on a successful result.
package gwlog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level mirrors the ETHRPC_LOG_LEVEL values from spec §6. zap has no
// "http"/"verbose"/"silly" levels, so they fold onto the nearest zap level.
type Level string

const (
	LevelError   Level = "error"
	LevelWarn    Level = "warn"
	LevelInfo    Level = "info"
	LevelHTTP    Level = "http"
	LevelVerbose Level = "verbose"
	LevelDebug   Level = "debug"
	LevelSilly   Level = "silly"
)

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelError:
		return zapcore.ErrorLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelInfo, LevelHTTP:
		return zapcore.InfoLevel
	case LevelVerbose, LevelDebug, LevelSilly:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds a SugaredLogger writing JSON lines to stderr at the given level.
func New(level Level) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level.zapLevel())
	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		// Fall back to a basic logger rather than fail startup over logging.
		fallback, _ := zap.NewProduction()
		if fallback == nil {
			fallback = zap.NewNop()
		}
		return fallback.Sugar()
	}
	return logger.Sugar()
}

// Nop returns a logger that discards everything, for tests.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// FromEnv reads ETHRPC_LOG_LEVEL and builds a logger, defaulting to info.
func FromEnv() *zap.SugaredLogger {
	lvl := Level(os.Getenv("ETHRPC_LOG_LEVEL"))
	if lvl == "" {
		lvl = LevelInfo
	}
	return New(lvl)
}
