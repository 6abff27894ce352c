package notification

import (
	"context"
	"log/slog"
)

var _ Sink = (*ConsoleSink)(nil)

// ConsoleSink 只写日志, 未配置任何通道时使用
type ConsoleSink struct {
	logger *slog.Logger
}

func NewConsoleSink(logger *slog.Logger) *ConsoleSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsoleSink{logger: logger}
}

func (c *ConsoleSink) Name() string {
	return "console"
}

func (c *ConsoleSink) Send(ctx context.Context, ev Event) error {
	level := slog.LevelInfo
	switch ev.Severity {
	case SeverityWarning:
		level = slog.LevelWarn
	case SeverityCritical:
		level = slog.LevelError
	}
	c.logger.Log(ctx, level, ev.Title,
		"event", ev.Kind,
		"instrument", ev.Instrument,
		"strategy", ev.Strategy,
		"message", ev.Message,
		"commentary", ev.Commentary,
	)
	return nil
}
