package logger

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/tahcohcat/studyquest/config"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var (
	mu   sync.RWMutex
	base = zap.NewNop()
	lvl  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Init builds the process-wide zap logger: JSON to stdout, plus a rolling
// file when cfg.Path is set.
func Init(cfg config.LogConfig) error {
	lvl.SetLevel(parseLevel(cfg.Level))

	encCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     timeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(os.Stdout), lvl),
	}

	if cfg.Path != "" {
		if dir := filepath.Dir(cfg.Path); dir != "" {
			_ = os.MkdirAll(dir, 0o755)
		}
		lj := &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    nz(cfg.MaxSizeMB, 100), // megabytes
			MaxBackups: nz(cfg.MaxBackups, 3),
			MaxAge:     nz(cfg.MaxAgeDays, 7), // days
			Compress:   cfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(lj), lvl))
	}

	opts := []zap.Option{zap.AddCaller(), zap.AddCallerSkip(1)}
	if cfg.Level == string(LogLevelDebug) {
		opts = append(opts, zap.Development())
	}

	SetBase(zap.New(zapcore.NewTee(cores...), opts...))
	return nil
}

// SetBase swaps the underlying zap logger. Tests use it with zaptest/observer.
func SetBase(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = l
}

func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = base.Sync()
}

type Log struct {
	fields []zap.Field
}

func New() *Log {
	return &Log{}
}

func (l *Log) SetLevel(level LogLevel) {
	lvl.SetLevel(parseLevel(string(level)))
}

func (l *Log) WithError(err error) *Log {
	return l.with(zap.Error(err))
}

// With attaches a structured field to every line written through the returned Log.
func (l *Log) With(key string, value interface{}) *Log {
	return l.with(zap.Any(key, value))
}

func (l *Log) with(f zap.Field) *Log {
	fields := make([]zap.Field, 0, len(l.fields)+1)
	fields = append(fields, l.fields...)
	return &Log{fields: append(fields, f)}
}

func (l *Log) zap() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

func (l *Log) Debug(msg string) { l.zap().Debug(msg, l.fields...) }

func (l *Log) Info(msg string) { l.zap().Info(msg, l.fields...) }

func (l *Log) Warn(msg string) { l.zap().Warn(msg, l.fields...) }

func (l *Log) Error(msg string) { l.zap().Error(msg, l.fields...) }

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
}

func parseLevel(s string) zapcore.Level {
	switch LogLevel(s) {
	case LogLevelDebug:
		return zapcore.DebugLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func nz(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
