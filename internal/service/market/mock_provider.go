package market

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var _ Provider = (*MockProvider)(nil)

// MockProvider 模拟行情源 (用于测试和演示)
type MockProvider struct {
	mu      sync.RWMutex
	candles map[string][]Candle // key: instrument_interval
	errs    map[string]error
	delay   time.Duration
	calls   int
}

func NewMockProvider() *MockProvider {
	return &MockProvider{
		candles: make(map[string][]Candle),
		errs:    make(map[string]error),
	}
}

func mockKey(instrument Instrument, interval Interval) string {
	return instrument.String() + "_" + interval.ToString()
}

// SetCandles 设置某品种的K线数据
func (p *MockProvider) SetCandles(instrument Instrument, interval Interval, candles []Candle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.candles[mockKey(instrument, interval)] = candles
}

// AppendCandles 追加K线, 模拟新K线收盘
func (p *MockProvider) AppendCandles(instrument Instrument, interval Interval, candles ...Candle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := mockKey(instrument, interval)
	p.candles[key] = append(p.candles[key], candles...)
}

// SetError makes every fetch for instrument fail with err until cleared with nil.
func (p *MockProvider) SetError(instrument Instrument, interval Interval, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err == nil {
		delete(p.errs, mockKey(instrument, interval))
		return
	}
	p.errs[mockKey(instrument, interval)] = err
}

// SetDelay simulates a slow upstream.
func (p *MockProvider) SetDelay(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.delay = d
}

func (p *MockProvider) Calls() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.calls
}

// GenerateCandles 生成模拟K线
// trend: "up" 上涨, "down" 下跌, 其他为横盘小幅波动
func (p *MockProvider) GenerateCandles(
	instrument Instrument,
	interval Interval,
	startTime time.Time,
	basePrice float64,
	count int,
	trend string,
) []Candle {
	candles := make([]Candle, count)
	for i := 0; i < count; i++ {
		var price float64
		switch trend {
		case "up":
			price = basePrice * (1 + float64(i)*0.005)
		case "down":
			price = basePrice * (1 - float64(i)*0.005)
		default:
			price = basePrice * (1 + (float64(i%5)-2)*0.001)
		}
		candles[i] = Candle{
			OpenTime: startTime.Add(time.Duration(i) * interval.Duration()),
			Open:     decimal.NewFromFloat(price * 0.999),
			High:     decimal.NewFromFloat(price * 1.005),
			Low:      decimal.NewFromFloat(price * 0.995),
			Close:    decimal.NewFromFloat(price),
			Volume:   decimal.NewFromInt(int64(1000 + i*10)),
		}
	}
	p.SetCandles(instrument, interval, candles)
	return candles
}

func (p *MockProvider) FetchCandles(ctx context.Context, req FetchReq) ([]Candle, error) {
	p.mu.Lock()
	p.calls++
	delay := p.delay
	err := p.errs[mockKey(req.Instrument, req.Interval)]
	candles, ok := p.candles[mockKey(req.Instrument, req.Interval)]
	p.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrProvider, ctx.Err())
		case <-time.After(delay):
		}
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownInstrument, req.Instrument)
	}
	res := make([]Candle, len(candles))
	copy(res, candles)
	return res, nil
}
