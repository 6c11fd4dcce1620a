package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global *Logger

// Logger wraps zap.SugaredLogger.
type Logger struct {
	*zap.SugaredLogger
}

// Init builds the global logger. env "production" switches to the JSON encoder.
func Init(level, env string) error {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return err
	}
	global = &Logger{SugaredLogger: l.Sugar()}
	return nil
}

// Get returns the global logger, falling back to a development logger.
func Get() *Logger {
	if global == nil {
		l, _ := zap.NewDevelopment()
		global = &Logger{SugaredLogger: l.Sugar()}
	}
	return global
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// With creates a child logger with additional fields.
func (l *Logger) With(args ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(args...)}
}

// skipped reports the caller of the package-level helpers below.
func skipped() *zap.SugaredLogger {
	return Get().SugaredLogger.WithOptions(zap.AddCallerSkip(1))
}

func Debugf(template string, args ...interface{}) { skipped().Debugf(template, args...) }
func Infof(template string, args ...interface{})  { skipped().Infof(template, args...) }
func Warnf(template string, args ...interface{})  { skipped().Warnf(template, args...) }
func Errorf(template string, args ...interface{}) { skipped().Errorf(template, args...) }
func Fatalf(template string, args ...interface{}) { skipped().Fatalf(template, args...) }

// Sync flushes buffered entries.
func Sync() error {
	if global != nil {
		return global.Sync()
	}
	return nil
}
