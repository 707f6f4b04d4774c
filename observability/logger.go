package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/willibrandon/mtlog"
	"github.com/willibrandon/mtlog/core"
	"github.com/willibrandon/mtlog/sinks"
)

// Logger is the goslm logger interface.
// Messages are mtlog templates: "Added profile {Profile}".
type Logger interface {
	Debug(messageTemplate string, args ...any)
	DebugContext(ctx context.Context, messageTemplate string, args ...any)

	Info(messageTemplate string, args ...any)
	InfoContext(ctx context.Context, messageTemplate string, args ...any)

	Warn(messageTemplate string, args ...any)
	WarnContext(ctx context.Context, messageTemplate string, args ...any)

	Error(messageTemplate string, args ...any)
	ErrorContext(ctx context.Context, messageTemplate string, args ...any)

	// ForContext creates a child logger that attaches key=value to every event
	ForContext(key string, value any) Logger
}

type mtlogAdapter struct {
	logger core.Logger
}

// NewLogger creates a logger writing to output at the given minimum level
func NewLogger(output io.Writer, level LogLevel) Logger {
	opts := []mtlog.Option{
		mtlog.WithSink(sinks.NewConsoleSinkWithWriter(output)),
		mtlog.WithTimestamp(),
	}

	switch level {
	case DebugLevel:
		opts = append(opts, mtlog.Debug())
	case InfoLevel:
		opts = append(opts, mtlog.Information())
	case WarnLevel:
		opts = append(opts, mtlog.Warning())
	default:
		opts = append(opts, mtlog.Error())
	}

	return &mtlogAdapter{logger: mtlog.New(opts...)}
}

// NewDefaultLogger logs warnings and errors to stderr
func NewDefaultLogger() Logger {
	return NewLogger(os.Stderr, WarnLevel)
}

func (a *mtlogAdapter) Debug(messageTemplate string, args ...any) {
	a.logger.Debug(messageTemplate, args...)
}

func (a *mtlogAdapter) DebugContext(ctx context.Context, messageTemplate string, args ...any) {
	a.logger.DebugContext(ctx, messageTemplate, args...)
}

func (a *mtlogAdapter) Info(messageTemplate string, args ...any) {
	a.logger.Info(messageTemplate, args...)
}

func (a *mtlogAdapter) InfoContext(ctx context.Context, messageTemplate string, args ...any) {
	a.logger.InfoContext(ctx, messageTemplate, args...)
}

func (a *mtlogAdapter) Warn(messageTemplate string, args ...any) {
	a.logger.Warn(messageTemplate, args...)
}

func (a *mtlogAdapter) WarnContext(ctx context.Context, messageTemplate string, args ...any) {
	a.logger.WarnContext(ctx, messageTemplate, args...)
}

func (a *mtlogAdapter) Error(messageTemplate string, args ...any) {
	a.logger.Error(messageTemplate, args...)
}

func (a *mtlogAdapter) ErrorContext(ctx context.Context, messageTemplate string, args ...any) {
	a.logger.ErrorContext(ctx, messageTemplate, args...)
}

func (a *mtlogAdapter) ForContext(key string, value any) Logger {
	return &mtlogAdapter{logger: a.logger.ForContext(key, value)}
}

// LogLevel is the minimum level a logger emits
type LogLevel int

const (
	// DebugLevel logs every store read and write
	DebugLevel LogLevel = iota
	// InfoLevel logs mutations
	InfoLevel
	// WarnLevel logs repairs of inconsistent stored state
	WarnLevel
	// ErrorLevel logs failures only
	ErrorLevel
)

// ParseLogLevel maps a level or CLI verbosity name to a LogLevel.
// "quiet" maps to ErrorLevel, "normal" to WarnLevel, "detailed" to
// InfoLevel and "diagnostic" to DebugLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "diagnostic", "diag":
		return DebugLevel, nil
	case "info", "information", "detailed":
		return InfoLevel, nil
	case "warn", "warning", "normal", "":
		return WarnLevel, nil
	case "error", "quiet":
		return ErrorLevel, nil
	default:
		return WarnLevel, fmt.Errorf("unknown log level %q", s)
	}
}

type nullLogger struct{}

// NewNullLogger creates a logger that discards all output
func NewNullLogger() Logger {
	return &nullLogger{}
}

func (n *nullLogger) Debug(messageTemplate string, args ...any)                             {}
func (n *nullLogger) DebugContext(ctx context.Context, messageTemplate string, args ...any) {}
func (n *nullLogger) Info(messageTemplate string, args ...any)                              {}
func (n *nullLogger) InfoContext(ctx context.Context, messageTemplate string, args ...any)  {}
func (n *nullLogger) Warn(messageTemplate string, args ...any)                              {}
func (n *nullLogger) WarnContext(ctx context.Context, messageTemplate string, args ...any)  {}
func (n *nullLogger) Error(messageTemplate string, args ...any)                             {}
func (n *nullLogger) ErrorContext(ctx context.Context, messageTemplate string, args ...any) {}
func (n *nullLogger) ForContext(key string, value any) Logger                               { return n }
