package logging

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ca-srg/xbmon/domain"
	"github.com/ca-srg/xbmon/infrastructure/config"
)

// FileLogger writes log lines to a size-rotated file
type FileLogger struct {
	writer    *lumberjack.Logger
	component string
	fields    []domain.Field
	mu        *sync.Mutex
}

// NewFileLogger creates a logger writing to the configured rotating file
func NewFileLogger(cfg *config.LoggingConfig, component string) *FileLogger {
	writer := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.FileMaxSizeMB,
		MaxBackups: cfg.FileMaxBackups,
		MaxAge:     cfg.FileMaxAgeDays,
		Compress:   false,
	}

	return &FileLogger{
		writer:    writer,
		component: component,
		fields:    []domain.Field{},
		mu:        &sync.Mutex{},
	}
}

func (f *FileLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {
	f.write(domain.LogLevelDebug, msg, fields...)
}

func (f *FileLogger) Info(ctx context.Context, msg string, fields ...domain.Field) {
	f.write(domain.LogLevelInfo, msg, fields...)
}

func (f *FileLogger) Warn(ctx context.Context, msg string, fields ...domain.Field) {
	f.write(domain.LogLevelWarn, msg, fields...)
}

func (f *FileLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {
	f.write(domain.LogLevelError, msg, fields...)
}

func (f *FileLogger) WithFields(fields ...domain.Field) domain.Logger {
	newFields := make([]domain.Field, len(f.fields)+len(fields))
	copy(newFields, f.fields)
	copy(newFields[len(f.fields):], fields)

	return &FileLogger{
		writer:    f.writer,
		component: f.component,
		fields:    newFields,
		mu:        f.mu,
	}
}

func (f *FileLogger) write(level domain.LogLevel, msg string, fields ...domain.Field) {
	f.mu.Lock()
	defer f.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02T15:04:05.000Z07:00")
	levelStr := levelToString(level)

	line := fmt.Sprintf("[%s] [%s] [%s] %s", timestamp, levelStr, f.component, msg)

	allFields := append(f.fields, fields...)
	if len(allFields) > 0 {
		line += " {"
		for i, field := range allFields {
			if i > 0 {
				line += ", "
			}
			line += fmt.Sprintf("%s=%v", field.Key, field.Value)
		}
		line += "}"
	}

	_, _ = fmt.Fprintln(f.writer, line)
}

// Shutdown flushes and closes the underlying log file
func (f *FileLogger) Shutdown() error {
	return f.writer.Close()
}
