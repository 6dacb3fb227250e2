package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Error(args ...interface{})
}

// New builds the console logger used by every command. Debug output is only
// emitted when isDebug is set.
func New(isDebug bool) *zap.SugaredLogger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if isDebug {
		level.SetLevel(zapcore.DebugLevel)
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderCfg.TimeKey = ""
	if isDebug {
		encoderCfg.TimeKey = "ts"
		encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	}

	cfg := zap.Config{
		Level:             level,
		Development:       isDebug,
		Encoding:          "console",
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     !isDebug,
		DisableStacktrace: true,
	}

	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}

	return l.Sugar()
}

// Nop returns a logger that discards everything, mostly useful in tests.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
