package logging

import (
	"os"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field re-exports keep call sites free of a direct zap import
type Field = zap.Field

var (
	Logger *zap.Logger = zap.NewNop()

	String = zap.String
	Int    = zap.Int
	Bool   = zap.Bool
	Err    = zap.Error
	Any    = zap.Any
)

// Init builds the process-wide logger. Logs rotate via lumberjack and are
// mirrored to stdout so the app remains debuggable when launched from a
// terminal. Safe to call once at startup before any other package logs.
func Init(logPath, logLevel string) {
	rotator := lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    50, // MB per file
		MaxBackups: 5,
		MaxAge:     7, // days
		Compress:   true,
	}

	var level zapcore.Level
	switch logLevel {
	case "debug":
		level = zap.DebugLevel
	case "warn":
		level = zap.WarnLevel
	case "error":
		level = zap.ErrorLevel
	default:
		level = zap.InfoLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	writers := []zapcore.WriteSyncer{
		zapcore.AddSync(&rotator),
		zapcore.AddSync(os.Stdout),
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.NewMultiWriteSyncer(writers...),
		level,
	)

	Logger = zap.New(core,
		zap.AddCaller(),
		zap.Fields(zap.String("application", "bvtc-desktop")),
	)
	Logger.Info("logger init success")
}

// Sync flushes buffered log entries; intended for a deferred call in main
func Sync() {
	_ = Logger.Sync()
}
