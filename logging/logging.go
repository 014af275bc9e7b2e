package logging

import (
	"context"
	"fmt"
	"io"
	"os"

	"bitbucket.org/kleinnic74/photomap/consts"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerKeyType string

const (
	loggerKey = loggerKeyType("logger")

	defaultMemoryLines = 1000
)

var (
	rootLogger *zap.Logger
	memory     *memoryLogs
)

// Options controls where logs are written to
type Options struct {
	// File is the path of the JSON log file, no file is written when empty
	File string
	// Level is the minimum level written to the file and memory sinks
	Level string
	// MemoryLines is the size of the in-memory ring buffer served by Dump
	MemoryLines int
}

func init() {
	memory = newMemoryLogs(defaultMemoryLines)
	rootLogger = zap.New(zapcore.NewTee(consoleCore(), memoryCore(zapcore.InfoLevel)))
}

// Configure replaces the root logger with one writing to the given sinks
func Configure(o Options) error {
	level := zapcore.InfoLevel
	if consts.IsDevMode() {
		level = zapcore.DebugLevel
	}
	if o.Level != "" {
		if err := level.UnmarshalText([]byte(o.Level)); err != nil {
			return fmt.Errorf("bad log level %q: %w", o.Level, err)
		}
	}
	if o.MemoryLines > 0 {
		memory = newMemoryLogs(o.MemoryLines)
	}
	cores := []zapcore.Core{consoleCore(), memoryCore(level)}
	if o.File != "" {
		logfile, err := os.OpenFile(o.File, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(jsonEncoder(), zapcore.Lock(logfile), level))
	}
	rootLogger = zap.New(zapcore.NewTee(cores...))
	rootLogger.With(zap.Bool("devmode", consts.IsDevMode())).Info("Logging initialized")
	return nil
}

func jsonEncoder() zapcore.Encoder {
	if consts.IsDevMode() {
		return zapcore.NewJSONEncoder(zap.NewDevelopmentEncoderConfig())
	}
	return zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
}

func consoleCore() zapcore.Core {
	if consts.IsDevMode() {
		consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		return zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), zapcore.DebugLevel)
	}
	consoleEncoder := zapcore.NewConsoleEncoder(zap.NewProductionEncoderConfig())
	return zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), zapcore.WarnLevel)
}

func memoryCore(level zapcore.Level) zapcore.Core {
	return zapcore.NewCore(jsonEncoder(), memory, level)
}

// Dump writes the most recent log lines kept in memory to w
func Dump(w io.Writer, reverse bool) error {
	return memory.Export(w, reverse)
}

// From returns the logger of the current context, if no logger is available, returns the root logger
func From(ctx context.Context) *zap.Logger {
	l := ctx.Value(loggerKey)
	if l == nil {
		return rootLogger
	}
	return l.(*zap.Logger)
}

func SubFrom(ctx context.Context, name string) (*zap.Logger, context.Context) {
	logger := From(ctx).Named(name)
	return logger, Context(ctx, logger)
}

func Context(ctx context.Context, logger *zap.Logger) context.Context {
	if logger == nil {
		logger = rootLogger
	}
	return context.WithValue(ctx, loggerKey, logger)
}

func FromWithNameAndFields(ctx context.Context, name string, fields ...zapcore.Field) (*zap.Logger, context.Context) {
	logger := From(ctx).With(fields...).Named(name)
	ctx = Context(ctx, logger)
	return logger, ctx
}

func FromWithFields(ctx context.Context, fields ...zapcore.Field) (*zap.Logger, context.Context) {
	logger := From(ctx).With(fields...)
	ctx = Context(ctx, logger)
	return logger, ctx
}
