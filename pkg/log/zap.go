package log

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	zaplogfmt "github.com/jsternberg/zap-logfmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ Logger = (*ZapLogger)(nil)

// Config selects the encoding, threshold and destination of a ZapLogger.
type Config struct {
	Format string `env:"NEAR_LOG_FORMAT" env-default:"console" yaml:"format" validate:"oneof=console logfmt json"`
	Level  Level  `env:"NEAR_LOG_LEVEL" env-default:"info" yaml:"level" validate:"oneof=debug info warn error fatal"`
	// Output is stderr, stdout or a file path. Files are appended to.
	Output string `env:"NEAR_LOG_OUTPUT" env-default:"stderr" yaml:"output"`
}

// ZapLogger is a Logger backed by a zap.SugaredLogger.
type ZapLogger struct {
	lg            *zap.SugaredLogger
	keysAndValues []any
}

// NewZapLogger builds a logger from conf. Entries are also copied to every
// extra writer, which tests use to capture output. If the output file cannot
// be opened the logger falls back to stderr and says so in its first entry.
func NewZapLogger(conf Config, extraWriters ...zapcore.WriteSyncer) Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = func(ts time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(ts.UTC().Format(time.RFC3339))
	}

	var encoder zapcore.Encoder
	switch conf.Format {
	case "logfmt":
		encoder = zaplogfmt.NewEncoder(encCfg)
	case "json":
		encoder = zapcore.NewJSONEncoder(encCfg)
	default:
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	out, openErr := openOutput(conf.Output)
	sink := zapcore.NewMultiWriteSyncer(append(extraWriters, out)...)

	core := zapcore.NewCore(encoder, sink, zapLevel(conf.Level))
	// Skip log() and the exported level method.
	logger := &ZapLogger{lg: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)).Sugar()}

	if openErr != nil {
		logger.Warn("log output unavailable, using stderr", "output", conf.Output, "error", openErr)
	}
	return logger
}

func openOutput(output string) (zapcore.WriteSyncer, error) {
	switch output {
	case "", "stderr":
		return zapcore.Lock(os.Stderr), nil
	case "stdout":
		return zapcore.Lock(os.Stdout), nil
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return zapcore.Lock(os.Stderr), fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return zapcore.Lock(os.Stderr), fmt.Errorf("open log file: %w", err)
	}
	return zapcore.AddSync(f), nil
}

// Debug logs a message at debug level.
func (l *ZapLogger) Debug(msg string, keysAndValues ...any) { l.log(LevelDebug, msg, keysAndValues) }

// Info logs a message at info level.
func (l *ZapLogger) Info(msg string, keysAndValues ...any) { l.log(LevelInfo, msg, keysAndValues) }

// Warn logs a message at warn level.
func (l *ZapLogger) Warn(msg string, keysAndValues ...any) { l.log(LevelWarn, msg, keysAndValues) }

// Error logs a message at error level.
func (l *ZapLogger) Error(msg string, keysAndValues ...any) { l.log(LevelError, msg, keysAndValues) }

// Fatal logs a message at fatal level and exits.
func (l *ZapLogger) Fatal(msg string, keysAndValues ...any) { l.log(LevelFatal, msg, keysAndValues) }

func (l *ZapLogger) log(level Level, msg string, keysAndValues []any) {
	l.lg.Logw(zapLevel(level), msg, keysAndValues...)
}

// WithKV implements Logger.
func (l *ZapLogger) WithKV(key string, value any) Logger {
	kv := make([]any, 0, len(l.keysAndValues)+2)
	kv = append(append(kv, l.keysAndValues...), key, value)
	return &ZapLogger{lg: l.lg.With(key, value), keysAndValues: kv}
}

// GetAllKV implements Logger.
func (l *ZapLogger) GetAllKV() []any {
	return l.keysAndValues
}

// WithName implements Logger.
func (l *ZapLogger) WithName(name string) Logger {
	return &ZapLogger{lg: l.lg.Named(name), keysAndValues: l.keysAndValues}
}

// Name implements Logger.
func (l *ZapLogger) Name() string {
	return l.lg.Desugar().Name()
}

// AddCallerSkip implements Logger.
func (l *ZapLogger) AddCallerSkip(skip int) Logger {
	return &ZapLogger{lg: l.lg.WithOptions(zap.AddCallerSkip(skip)), keysAndValues: l.keysAndValues}
}

func zapLevel(level Level) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	case LevelFatal:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}
