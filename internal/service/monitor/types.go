package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gopinath0332-del/zerodha-alog/internal/service/indicator"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/notification"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/signal"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/strategy"
)

var (
	// ErrConfiguration 配置错误, 监控进入 error 状态, 不再重试
	ErrConfiguration  = errors.New("invalid monitor configuration")
	ErrAlreadyRunning = errors.New("monitor already running")
	ErrNotRunning     = errors.New("monitor not running")
)

type Status string

const (
	StatusStarting Status = "starting"
	StatusRunning  Status = "running"
	StatusStopping Status = "stopping"
	StatusStopped  Status = "stopped"
	StatusError    Status = "error"
)

// Active 占用 key 的状态
func (s Status) Active() bool {
	return s == StatusStarting || s == StatusRunning || s == StatusStopping
}

// Key 每个 (instrument, strategy) 最多一个活跃监控
type Key struct {
	Instrument string          `json:"instrument"`
	Strategy   signal.Strategy `json:"strategy"`
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.Instrument, k.Strategy)
}

// State 监控状态快照
type State struct {
	Key
	CandleType string          `json:"candle_type"`
	Interval   string          `json:"interval"`
	Params     strategy.Params `json:"params"`
	Status     Status          `json:"status"`

	LastEvaluatedCandleTime time.Time        `json:"last_evaluated_candle_time"`
	LastSignalKind          signal.Kind      `json:"last_signal_kind,omitempty"`
	LastSignalCandleTime    time.Time        `json:"last_signal_candle_time"`
	LastValue               *indicator.Value `json:"last_value,omitempty"`
	LastValueText           string           `json:"last_value_text,omitempty"`
	LastAlert               string           `json:"last_alert,omitempty"`
	LastError               string           `json:"last_error,omitempty"`

	Cycles    int       `json:"cycles"`
	NextWake  time.Time `json:"next_wake"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Notifier notification.Dispatcher 满足该接口
type Notifier interface {
	Dispatch(ctx context.Context, ev notification.Event) []notification.Result
}

var _ Notifier = (*notification.Dispatcher)(nil)
