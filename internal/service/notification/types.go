package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gopinath0332-del/zerodha-alog/internal/service/signal"
)

// ErrSinkDelivery 单个通道发送失败, 只记录, 不影响其他通道和监控任务
var ErrSinkDelivery = errors.New("sink delivery failed")

type EventKind string

const (
	EventSignal         EventKind = "signal"
	EventMonitorStarted EventKind = "monitor_started"
	EventMonitorStopped EventKind = "monitor_stopped"
	EventCycleFailed    EventKind = "cycle_failed"
	EventMonitorError   EventKind = "monitor_error"
	EventTest           EventKind = "test"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityAlert    Severity = "alert"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Color 24位 RGB, webhook embed 直接使用
type Color int

const (
	ColorGreen  Color = 0x2ECC71
	ColorRed    Color = 0xE74C3C
	ColorGray   Color = 0x95A5A6
	ColorOrange Color = 0xE67E22
)

func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", int(c))
}

type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Event 与通道无关的告警内容, 各通道自行渲染
type Event struct {
	Kind       EventKind   `json:"kind"`
	Severity   Severity    `json:"severity"`
	SignalKind signal.Kind `json:"signal_kind,omitempty"`
	Instrument string      `json:"instrument"`
	Strategy   string      `json:"strategy"`
	Title      string      `json:"title"`
	Message    string      `json:"message"`
	Fields     []Field     `json:"fields,omitempty"`
	Color      Color       `json:"color"`
	Timestamp  time.Time   `json:"timestamp"`
	// Commentary 可选的 LLM 点评
	Commentary string `json:"commentary,omitempty"`
}

// SignalColor green for bullish or oversold, red for bearish or overbought
func SignalColor(kind signal.Kind) Color {
	if kind.Bullish() {
		return ColorGreen
	}
	return ColorRed
}

func SignalEvent(sig signal.Signal, description string) Event {
	return Event{
		Kind:       EventSignal,
		Severity:   SeverityAlert,
		SignalKind: sig.Kind,
		Instrument: sig.Instrument.String(),
		Strategy:   string(sig.Strategy),
		Title:      fmt.Sprintf("%s %s %s", sig.Instrument, sig.Strategy, sig.Kind),
		Message:    description,
		Fields: []Field{
			{Name: "Signal", Value: string(sig.Kind)},
			{Name: "Close", Value: sig.Value.Close.StringFixed(2)},
			{Name: "Candle", Value: sig.CandleTime.UTC().Format(time.RFC3339)},
		},
		Color:     SignalColor(sig.Kind),
		Timestamp: sig.GeneratedAt,
	}
}

func LifecycleEvent(kind EventKind, instrument, strategy, message string, at time.Time) Event {
	ev := Event{
		Kind:       kind,
		Severity:   SeverityInfo,
		Instrument: instrument,
		Strategy:   strategy,
		Message:    message,
		Color:      ColorGray,
		Timestamp:  at,
	}
	switch kind {
	case EventMonitorStarted:
		ev.Title = fmt.Sprintf("%s %s monitor started", instrument, strategy)
	case EventMonitorStopped:
		ev.Title = fmt.Sprintf("%s %s monitor stopped", instrument, strategy)
	case EventCycleFailed:
		ev.Title = fmt.Sprintf("%s %s cycle failed", instrument, strategy)
		ev.Severity = SeverityWarning
		ev.Color = ColorOrange
	case EventMonitorError:
		ev.Title = fmt.Sprintf("%s %s monitor error", instrument, strategy)
		ev.Severity = SeverityCritical
		ev.Color = ColorRed
	default:
		ev.Title = fmt.Sprintf("%s %s %s", instrument, strategy, kind)
	}
	return ev
}

type Sink interface {
	Name() string
	Send(ctx context.Context, ev Event) error
}

// Result 单个通道的投递结果
type Result struct {
	Sink     string        `json:"sink"`
	Err      error         `json:"-"`
	Duration time.Duration `json:"duration"`
}

func (r Result) OK() bool {
	return r.Err == nil
}
