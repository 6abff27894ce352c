package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gopinath0332-del/zerodha-alog/internal/entity"
	"github.com/gopinath0332-del/zerodha-alog/internal/metrics"
	"github.com/gopinath0332-del/zerodha-alog/internal/repo"
	"github.com/gopinath0332-del/zerodha-alog/internal/schedule"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/candle"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/indicator"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/market"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/notification"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/signal"
	"github.com/samber/lo"
)

var _ schedule.Task = (*Monitor)(nil)

// errStopRequested 等待行情时收到停止请求
var errStopRequested = errors.New("stop requested")

// Monitor 一个 (instrument, strategy) 的后台轮询任务, 状态只由自己的协程修改
type Monitor struct {
	key Key
	resolved

	provider    market.Provider
	notifier    Notifier
	signals     repo.SignalRepo
	checkpoints repo.CheckpointRepo
	metrics     *metrics.Metrics
	clock       schedule.Clock

	history    *signal.History
	lastCandle time.Time
	// caughtUp 本次运行已有一个周期成功, 之后不再限制回看
	caughtUp bool

	mu    sync.RWMutex
	state State

	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(m *Monitor)

func WithSignalRepo(r repo.SignalRepo) Option {
	return func(m *Monitor) {
		m.signals = r
	}
}

func WithCheckpointRepo(r repo.CheckpointRepo) Option {
	return func(m *Monitor) {
		m.checkpoints = r
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Monitor) {
		m.metrics = mt
	}
}

func WithClock(c schedule.Clock) Option {
	return func(m *Monitor) {
		m.clock = c
	}
}

// New 校验配置并创建监控, 配置错误返回 ErrConfiguration
func New(cfg Config, provider market.Provider, notifier Notifier, opts ...Option) (*Monitor, error) {
	res, err := cfg.resolve()
	if err != nil {
		return nil, err
	}
	m := &Monitor{
		key:      res.cfg.Key(),
		resolved: res,
		provider: provider,
		notifier: notifier,
		clock:    schedule.RealClock(),
		history:  signal.NewHistory(res.cfg.DedupCapacity),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.state = State{
		Key:        m.key,
		CandleType: string(res.cfg.CandleType),
		Interval:   string(res.cfg.Interval),
		Params:     res.cfg.Params,
		Status:     StatusStarting,
	}
	return m, nil
}

func (m *Monitor) Name() string {
	return fmt.Sprintf("%s monitor", m.key)
}

func (m *Monitor) Key() Key {
	return m.key
}

// Start 在新协程中运行, parent 取消等同于 Stop
func (m *Monitor) Start(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	m.cancel = cancel
	now := m.clock.Now()
	m.update(func(s *State) {
		s.StartedAt = now
		s.UpdatedAt = now
	})
	go func() {
		defer close(m.done)
		defer cancel()
		if err := m.Run(ctx); err != nil {
			slog.Error("monitor exited", "instrument", m.key.Instrument, "strategy", m.key.Strategy, "error", err)
		}
	}()
}

// Stop 请求停止, 不等待; 已结束的监控不受影响
func (m *Monitor) Stop() {
	m.update(func(s *State) {
		if s.Status == StatusStarting || s.Status == StatusRunning {
			s.Status = StatusStopping
		}
	})
	if m.cancel != nil {
		m.cancel()
	}
}

func (m *Monitor) Done() <-chan struct{} {
	return m.done
}

func (m *Monitor) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.state
	if s.LastValue != nil {
		v := *s.LastValue
		s.LastValue = &v
	}
	return s
}

func (m *Monitor) update(fn func(s *State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.state)
}

func (m *Monitor) status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Status
}

// Run 启动后立即执行一次, 之后每个边界执行一次, 直到 ctx 取消或出现配置错误
func (m *Monitor) Run(ctx context.Context) error {
	if m.metrics != nil {
		m.metrics.ActiveMonitors.Inc()
		defer m.metrics.ActiveMonitors.Dec()
	}
	log := slog.With("instrument", m.key.Instrument, "strategy", m.key.Strategy)
	log.Info("monitor starting", "candle_type", m.cfg.CandleType, "interval", m.cfg.Interval)

	m.restore(ctx)
	m.notify(ctx, notification.LifecycleEvent(notification.EventMonitorStarted,
		m.key.Instrument, string(m.key.Strategy), m.startedMessage(), m.clock.Now()))

	startup := true
	for {
		err := m.cycle(ctx)
		if errors.Is(err, errStopRequested) {
			break
		}
		if errors.Is(err, ErrConfiguration) {
			m.fail(ctx, err)
			return err
		}
		if err != nil {
			m.cycleFailed(ctx, err)
		}
		if startup {
			startup = false
			m.update(func(s *State) {
				if s.Status == StatusStarting {
					s.Status = StatusRunning
				}
			})
			log.Info("monitor running")
		}
		if ctx.Err() != nil {
			break
		}

		now := m.clock.Now()
		wake := m.scheduler.NextWake(now)
		m.update(func(s *State) { s.NextWake = wake })
		select {
		case <-ctx.Done():
		case <-m.clock.After(wake.Sub(now)):
		}
		if ctx.Err() != nil {
			break
		}
	}

	m.update(func(s *State) { s.Status = StatusStopping })
	m.notify(ctx, notification.LifecycleEvent(notification.EventMonitorStopped,
		m.key.Instrument, string(m.key.Strategy), "Monitor stopped.", m.clock.Now()))
	m.update(func(s *State) {
		s.Status = StatusStopped
		s.UpdatedAt = m.clock.Now()
	})
	log.Info("monitor stopped")
	return nil
}

func (m *Monitor) startedMessage() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Monitoring %s with %s on %s %s candles.", m.key.Instrument, m.key.Strategy, m.cfg.Interval, m.cfg.CandleType)
	p := m.cfg.Params
	switch m.key.Strategy {
	case signal.StrategyRSI:
		fmt.Fprintf(&b, " RSI period %d, overbought %.2f, oversold %.2f.", p.RSIPeriod, p.OverboughtThreshold, p.OversoldThreshold)
	case signal.StrategyDonchian:
		fmt.Fprintf(&b, " Upper period %d, lower period %d, %s breakout.", p.DonchianUpperPeriod, p.DonchianLowerPeriod, p.BreakoutPolicy)
	}
	return b.String()
}

// restore 从数据库恢复去重历史和检查点, 失败只记录日志
func (m *Monitor) restore(ctx context.Context) {
	if m.signals != nil {
		keys, err := m.signals.RecentKeys(ctx, m.key.Instrument, string(m.key.Strategy), m.history.Cap())
		if err != nil {
			slog.Warn("failed to load signal history", "instrument", m.key.Instrument, "strategy", m.key.Strategy, "error", err)
		}
		// 倒序插入, 保证最旧的先被淘汰
		for _, raw := range lo.Reverse(keys) {
			key, err := signal.ParseKey(raw)
			if err != nil {
				continue
			}
			m.history.Add(key)
		}
	}
	if m.checkpoints != nil {
		cp, err := m.checkpoints.Find(ctx, m.key.Instrument, string(m.key.Strategy))
		switch {
		case err == nil:
			m.lastCandle = cp.LastCandleTime
			m.update(func(s *State) {
				s.LastEvaluatedCandleTime = cp.LastCandleTime
				s.LastSignalKind = signal.Kind(cp.LastSignalKind)
				s.LastSignalCandleTime = cp.LastSignalCandleAt
			})
		case !errors.Is(err, repo.ErrCheckpointNotFound):
			slog.Warn("failed to load checkpoint", "instrument", m.key.Instrument, "strategy", m.key.Strategy, "error", err)
		}
	}
}

// cycle fetch -> build -> compute -> evaluate -> dispatch
func (m *Monitor) cycle(ctx context.Context) error {
	raw, err := m.fetch(ctx)
	if err != nil {
		return err
	}

	now := m.clock.Now()
	closed := candle.Closed(raw, m.cfg.Interval, now)
	series, err := candle.Build(closed, m.cfg.CandleType)
	if err != nil {
		return err
	}
	values, err := m.strategy.Compute(series)
	if err != nil {
		return err
	}

	first := m.pending(values)
	for i := first; i < len(values); i++ {
		var prev *indicator.Value
		if i > 0 {
			prev = &values[i-1]
		}
		kind, ok := m.strategy.Evaluate(values[i], prev)
		if !ok {
			continue
		}
		m.emit(ctx, signal.Signal{
			Kind:        kind,
			Instrument:  m.instrument,
			Strategy:    m.key.Strategy,
			Value:       values[i],
			CandleTime:  values[i].CandleTime,
			GeneratedAt: now,
		})
	}

	last := values[len(values)-1]
	m.lastCandle = last.CandleTime
	m.caughtUp = true
	m.update(func(s *State) {
		s.LastEvaluatedCandleTime = last.CandleTime
		s.LastValue = &last
		s.LastValueText = m.strategy.Describe(last)
		s.LastError = ""
		s.Cycles++
		s.UpdatedAt = now
	})
	m.saveCheckpoint(ctx)
	if m.metrics != nil {
		m.metrics.CyclesTotal.WithLabelValues(string(m.key.Strategy), metrics.ResultOK).Inc()
	}
	return nil
}

// pending 返回第一个需要评估的下标; 追上之前最多回看 StartupLookback 根
func (m *Monitor) pending(values []indicator.Value) int {
	first := len(values)
	for first > 0 && values[first-1].CandleTime.After(m.lastCandle) {
		first--
	}
	if !m.caughtUp {
		first = max(first, len(values)-m.cfg.StartupLookback)
	}
	return first
}

// fetch 行情请求单独超时; 停止请求在等待期间立即可见, 请求本身继续完成
func (m *Monitor) fetch(ctx context.Context) ([]market.Candle, error) {
	type result struct {
		candles []market.Candle
		err     error
	}
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.cfg.FetchTimeout)
	ch := make(chan result, 1)
	start := time.Now()
	go func() {
		defer cancel()
		candles, err := m.provider.FetchCandles(fctx, market.FetchReq{
			Instrument:   m.instrument,
			Interval:     m.cfg.Interval,
			LookbackDays: m.cfg.LookbackDays,
		})
		ch <- result{candles: candles, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, errStopRequested
	case r := <-ch:
		if m.metrics != nil {
			m.metrics.FetchDuration.Observe(time.Since(start).Seconds())
		}
		switch {
		case r.err == nil:
			return r.candles, nil
		case errors.Is(r.err, market.ErrUnknownInstrument):
			return nil, fmt.Errorf("%w: %w", ErrConfiguration, r.err)
		case errors.Is(r.err, context.DeadlineExceeded):
			return nil, fmt.Errorf("%w: fetch timed out after %s", market.ErrProvider, m.cfg.FetchTimeout)
		}
		return nil, r.err
	}
}

func (m *Monitor) emit(ctx context.Context, sig signal.Signal) {
	key := sig.Key()
	if m.history.Seen(key) {
		slog.Debug("signal suppressed", "instrument", m.key.Instrument, "strategy", m.key.Strategy, "key", key.String())
		if m.metrics != nil {
			m.metrics.SuppressedTotal.WithLabelValues(string(m.key.Strategy)).Inc()
		}
		return
	}
	m.history.Add(key)

	desc := m.strategy.Describe(sig.Value)
	results := m.notify(ctx, notification.SignalEvent(sig, desc))
	delivered := lo.CountBy(results, func(r notification.Result) bool { return r.OK() })
	slog.Info("signal dispatched", "instrument", m.key.Instrument, "strategy", m.key.Strategy,
		"kind", sig.Kind, "candle_time", sig.CandleTime, "value", desc, "delivered", delivered)

	m.update(func(s *State) {
		s.LastSignalKind = sig.Kind
		s.LastSignalCandleTime = sig.CandleTime
		s.LastAlert = fmt.Sprintf("%s at %s (%s)", sig.Kind, sig.CandleTime.Format(time.RFC3339), desc)
	})
	if m.metrics != nil {
		m.metrics.SignalsTotal.WithLabelValues(string(m.key.Strategy), string(sig.Kind)).Inc()
	}
	if m.signals != nil {
		_, err := m.signals.Create(context.WithoutCancel(ctx), entity.SignalRecord{
			DedupKey:   key.String(),
			Instrument: m.key.Instrument,
			Strategy:   string(m.key.Strategy),
			Kind:       string(sig.Kind),
			CandleTime: sig.CandleTime,
			Close:      sig.Value.Close.String(),
			Value:      desc,
			Message:    desc,
			Delivered:  delivered,
			CreatedAt:  sig.GeneratedAt,
		})
		if err != nil {
			slog.Error("failed to save signal", "instrument", m.key.Instrument, "strategy", m.key.Strategy, "error", err)
		}
	}
}

func (m *Monitor) saveCheckpoint(ctx context.Context) {
	if m.checkpoints == nil {
		return
	}
	s := m.Snapshot()
	err := m.checkpoints.Save(context.WithoutCancel(ctx), entity.MonitorCheckpoint{
		Instrument:     m.key.Instrument,
		Strategy:       string(m.key.Strategy),
		LastCandleTime: m.lastCandle,
		LastSignalKind: string(s.LastSignalKind),

		LastSignalCandleAt: s.LastSignalCandleTime,
	})
	if err != nil {
		slog.Error("failed to save checkpoint", "instrument", m.key.Instrument, "strategy", m.key.Strategy, "error", err)
	}
}

// notify 停止过程中也要发出告警, 所以不继承取消
func (m *Monitor) notify(ctx context.Context, ev notification.Event) []notification.Result {
	if m.notifier == nil {
		return nil
	}
	return m.notifier.Dispatch(context.WithoutCancel(ctx), ev)
}

func (m *Monitor) cycleFailed(ctx context.Context, err error) {
	slog.Error("monitor cycle failed", "instrument", m.key.Instrument, "strategy", m.key.Strategy, "error", err)
	m.update(func(s *State) {
		s.LastError = err.Error()
		s.Cycles++
		s.UpdatedAt = m.clock.Now()
	})
	if m.metrics != nil {
		m.metrics.CyclesTotal.WithLabelValues(string(m.key.Strategy), metrics.ResultFailed).Inc()
	}
	m.notify(ctx, notification.LifecycleEvent(notification.EventCycleFailed,
		m.key.Instrument, string(m.key.Strategy),
		fmt.Sprintf("Cycle failed, retrying at the next boundary: %v", err), m.clock.Now()))
}

func (m *Monitor) fail(ctx context.Context, err error) {
	slog.Error("monitor stopped on configuration error", "instrument", m.key.Instrument, "strategy", m.key.Strategy, "error", err)
	m.update(func(s *State) {
		s.Status = StatusError
		s.LastError = err.Error()
		s.UpdatedAt = m.clock.Now()
	})
	if m.metrics != nil {
		m.metrics.CyclesTotal.WithLabelValues(string(m.key.Strategy), metrics.ResultFatal).Inc()
	}
	m.notify(ctx, notification.LifecycleEvent(notification.EventMonitorError,
		m.key.Instrument, string(m.key.Strategy), fmt.Sprintf("Monitor halted: %v", err), m.clock.Now()))
}
