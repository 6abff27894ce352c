package signal

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gopinath0332-del/zerodha-alog/internal/service/indicator"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/market"
)

type Strategy string

const (
	StrategyRSI      Strategy = "rsi"
	StrategyDonchian Strategy = "donchian"
)

func (s Strategy) Valid() bool {
	return s == StrategyRSI || s == StrategyDonchian
}

type Kind string

const (
	Overbought       Kind = "overbought"
	Oversold         Kind = "oversold"
	BullishBreakout  Kind = "bullish_breakout"
	BearishBreakdown Kind = "bearish_breakdown"
)

// Bullish reports whether the signal points upward (oversold recovery counts as bullish).
func (k Kind) Bullish() bool {
	return k == Oversold || k == BullishBreakout
}

type Signal struct {
	Kind        Kind              `json:"kind"`
	Instrument  market.Instrument `json:"instrument"`
	Strategy    Strategy          `json:"strategy"`
	Value       indicator.Value   `json:"indicator_value"`
	CandleTime  time.Time         `json:"candle_time"`
	GeneratedAt time.Time         `json:"generated_at"`
}

func (s Signal) Key() Key {
	return Key{
		Instrument: s.Instrument.String(),
		Strategy:   s.Strategy,
		CandleTime: s.CandleTime.Unix(),
		Kind:       s.Kind,
	}
}

// Key 去重键, 同一个键只发送一次
type Key struct {
	Instrument string
	Strategy   Strategy
	CandleTime int64 // unix seconds
	Kind       Kind
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%d/%s", k.Instrument, k.Strategy, k.CandleTime, k.Kind)
}

// ParseKey parses the form produced by Key.String.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 4 {
		return Key{}, fmt.Errorf("invalid signal key %q", s)
	}
	unix, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Key{}, fmt.Errorf("invalid signal key %q: %w", s, err)
	}
	return Key{
		Instrument: parts[0],
		Strategy:   Strategy(parts[1]),
		CandleTime: unix,
		Kind:       Kind(parts[3]),
	}, nil
}
