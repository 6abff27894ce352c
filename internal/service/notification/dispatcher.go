package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"
)

const DefaultSinkTimeout = 10 * time.Second

// Enricher 在投递前补充事件内容, 失败时使用原事件
type Enricher interface {
	Enrich(ctx context.Context, ev Event) (Event, error)
}

// Observer 每个通道投递完成后回调, 用于指标统计
type Observer func(res Result)

type Dispatcher struct {
	sinks    []Sink
	timeout  time.Duration
	enricher Enricher
	observer Observer
	now      func() time.Time
}

type Option func(d *Dispatcher)

func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

func WithEnricher(enricher Enricher) Option {
	return func(d *Dispatcher) {
		d.enricher = enricher
	}
}

func WithObserver(observer Observer) Option {
	return func(d *Dispatcher) {
		d.observer = observer
	}
}

func NewDispatcher(sinks []Sink, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sinks:   sinks,
		timeout: DefaultSinkTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) SinkNames() []string {
	return lo.Map(d.sinks, func(s Sink, _ int) string { return s.Name() })
}

// Dispatch 并发投递到所有通道, 每个通道单独超时, 返回顺序与通道顺序一致
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) []Result {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = d.now()
	}
	if d.enricher != nil && ev.Kind == EventSignal {
		ev = d.enrich(ctx, ev)
	}

	results := make([]Result, len(d.sinks))
	var wg sync.WaitGroup
	for i, sink := range d.sinks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = d.deliver(ctx, sink, ev)
		}()
	}
	wg.Wait()
	return results
}

// SendTest 发送一条测试告警, 用于检查通道配置
func (d *Dispatcher) SendTest(ctx context.Context) []Result {
	now := d.now()
	return d.Dispatch(ctx, Event{
		Kind:      EventTest,
		Severity:  SeverityInfo,
		Title:     "Test alert",
		Message:   fmt.Sprintf("Test alert sent at %s, all configured channels should receive it.", now.Format(time.RFC1123)),
		Color:     ColorGray,
		Timestamp: now,
	})
}

func (d *Dispatcher) deliver(ctx context.Context, sink Sink, ev Event) Result {
	sctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		done <- sink.Send(sctx, ev)
	}()

	var err error
	select {
	case err = <-done:
	case <-sctx.Done():
		err = sctx.Err()
	}
	res := Result{Sink: sink.Name(), Duration: time.Since(start)}
	if err != nil {
		res.Err = fmt.Errorf("%w: %s: %w", ErrSinkDelivery, sink.Name(), err)
		slog.Error("notification delivery failed", "sink", sink.Name(), "event", ev.Kind,
			"instrument", ev.Instrument, "strategy", ev.Strategy, "error", err)
	}
	if d.observer != nil {
		d.observer(res)
	}
	return res
}

func (d *Dispatcher) enrich(ctx context.Context, ev Event) Event {
	ectx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	enriched, err := d.enricher.Enrich(ectx, ev)
	if err != nil {
		slog.Warn("failed to enrich notification", "instrument", ev.Instrument, "error", err)
		return ev
	}
	return enriched
}
