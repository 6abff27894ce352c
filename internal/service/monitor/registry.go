package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/gopinath0332-del/zerodha-alog/internal/service/market"
	"github.com/samber/lo"
)

// Registry 进程内所有监控, 每个 Key 最多一个活跃监控
type Registry struct {
	mu       sync.Mutex
	monitors map[Key]*Monitor

	defaults Config
	provider market.Provider
	notifier Notifier
	opts     []Option

	ctx    context.Context
	cancel context.CancelFunc
}

type RegistryOption func(r *Registry)

func WithDefaults(defaults Config) RegistryOption {
	return func(r *Registry) {
		r.defaults = defaults
	}
}

// WithMonitorOptions 每个新监控都会应用这些选项
func WithMonitorOptions(opts ...Option) RegistryOption {
	return func(r *Registry) {
		r.opts = append(r.opts, opts...)
	}
}

func NewRegistry(provider market.Provider, notifier Notifier, opts ...RegistryOption) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Registry{
		monitors: make(map[Key]*Monitor),
		defaults: DefaultConfig(),
		provider: provider,
		notifier: notifier,
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start 配置错误返回 ErrConfiguration, 同一 Key 已在运行返回 ErrAlreadyRunning;
// 已停止或处于 error 状态的旧监控会被替换
func (r *Registry) Start(cfg Config) (*Monitor, error) {
	cfg = cfg.Merge(r.defaults)
	key := cfg.Key()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ctx.Err() != nil {
		return nil, fmt.Errorf("registry is shutting down")
	}
	if old, ok := r.monitors[key]; ok && old.status().Active() {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRunning, key)
	}

	m, err := New(cfg, r.provider, r.notifier, r.opts...)
	if err != nil {
		return nil, err
	}
	key = m.Key()
	r.monitors[key] = m
	m.Start(r.ctx)
	slog.Info("monitor registered", "instrument", key.Instrument, "strategy", key.Strategy)
	return m, nil
}

// Stop 幂等, 未运行时直接返回; 等待监控结束后从表中移除
func (r *Registry) Stop(ctx context.Context, key Key) error {
	r.mu.Lock()
	m, ok := r.monitors[key]
	r.mu.Unlock()
	if !ok {
		return nil
	}

	m.Stop()
	select {
	case <-m.Done():
	case <-ctx.Done():
		return ctx.Err()
	}

	r.mu.Lock()
	if r.monitors[key] == m {
		delete(r.monitors, key)
	}
	r.mu.Unlock()
	slog.Info("monitor removed", "instrument", key.Instrument, "strategy", key.Strategy)
	return nil
}

func (r *Registry) Status(key Key) (State, error) {
	r.mu.Lock()
	m, ok := r.monitors[key]
	r.mu.Unlock()
	if !ok {
		return State{}, fmt.Errorf("%w: %s", ErrNotRunning, key)
	}
	return m.Snapshot(), nil
}

// List 按 instrument, strategy 排序
func (r *Registry) List() []State {
	r.mu.Lock()
	monitors := lo.Values(r.monitors)
	r.mu.Unlock()

	states := lo.Map(monitors, func(m *Monitor, _ int) State { return m.Snapshot() })
	sort.Slice(states, func(i, j int) bool {
		return states[i].Key.String() < states[j].Key.String()
	})
	return states
}

// StopAll 进程退出时调用, 等待所有监控结束或 ctx 到期; 之后不再接受 Start
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	r.cancel()
	monitors := lo.Values(r.monitors)
	r.mu.Unlock()

	for _, m := range monitors {
		m.Stop()
	}
	for _, m := range monitors {
		select {
		case <-m.Done():
		case <-ctx.Done():
			return fmt.Errorf("stop all monitors: %w", ctx.Err())
		}
	}

	r.mu.Lock()
	for _, m := range monitors {
		if r.monitors[m.Key()] == m {
			delete(r.monitors, m.Key())
		}
	}
	r.mu.Unlock()
	slog.Info("all monitors stopped", "count", len(monitors))
	return nil
}
