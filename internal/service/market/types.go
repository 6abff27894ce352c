package market

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrProvider 行情源请求失败 (网络/鉴权/限频), 下个周期重试即可
	ErrProvider = errors.New("market data provider error")
	// ErrUnknownInstrument 行情源无法识别该品种, 重试没有意义
	ErrUnknownInstrument = errors.New("unknown instrument")
)

// Instrument 交易品种, 形如 MCX:GOLDPETAL 或 BINANCE:BTCUSDT
type Instrument struct {
	Exchange string `json:"exchange"`
	Symbol   string `json:"symbol"`
}

func ParseInstrument(s string) (Instrument, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	exchange, symbol, ok := strings.Cut(s, ":")
	exchange, symbol = strings.TrimSpace(exchange), strings.TrimSpace(symbol)
	if !ok || exchange == "" || symbol == "" {
		return Instrument{}, fmt.Errorf("invalid instrument %q, want EXCHANGE:SYMBOL", s)
	}
	return Instrument{Exchange: exchange, Symbol: symbol}, nil
}

func (i Instrument) IsZero() bool {
	return i.Exchange == "" || i.Symbol == ""
}

func (i Instrument) String() string {
	return fmt.Sprintf("%s:%s", i.Exchange, i.Symbol)
}

type Interval string

func (i Interval) ToString() string {
	return string(i)
}

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval2h  Interval = "2h"
	Interval4h  Interval = "4h"
	Interval1d  Interval = "1d"
)

var intervalDurations = map[Interval]time.Duration{
	Interval1m:  time.Minute,
	Interval5m:  5 * time.Minute,
	Interval15m: 15 * time.Minute,
	Interval30m: 30 * time.Minute,
	Interval1h:  time.Hour,
	Interval2h:  2 * time.Hour,
	Interval4h:  4 * time.Hour,
	Interval1d:  24 * time.Hour,
}

// Duration returns 0 for an unsupported interval.
func (i Interval) Duration() time.Duration {
	return intervalDurations[i]
}

func (i Interval) Valid() bool {
	_, ok := intervalDurations[i]
	return ok
}

// Candle 一根K线, 由行情源产生后不再修改
type Candle struct {
	OpenTime time.Time       `json:"open_time"`
	Open     decimal.Decimal `json:"open"`
	High     decimal.Decimal `json:"high"`
	Low      decimal.Decimal `json:"low"`
	Close    decimal.Decimal `json:"close"`
	Volume   decimal.Decimal `json:"volume"`
}

// CloseTime is the instant the candle stops accepting trades.
func (c Candle) CloseTime(interval Interval) time.Time {
	return c.OpenTime.Add(interval.Duration())
}

type FetchReq struct {
	Instrument   Instrument
	Interval     Interval
	LookbackDays int
}

// Provider 外部行情源, 实现方在失败时返回包装了 ErrProvider 或 ErrUnknownInstrument 的错误
type Provider interface {
	FetchCandles(ctx context.Context, req FetchReq) ([]Candle, error)
}
