package signal

import (
	"github.com/gopinath0332-del/zerodha-alog/internal/service/indicator"
	"github.com/shopspring/decimal"
)

type BreakoutPolicy string

const (
	// BreakoutInclusive close at or above the upper band is a breakout
	BreakoutInclusive BreakoutPolicy = "inclusive"
	BreakoutStrict    BreakoutPolicy = "strict"
)

type Thresholds struct {
	Overbought decimal.Decimal
	Oversold   decimal.Decimal
	Breakout   BreakoutPolicy
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Overbought: decimal.NewFromInt(70),
		Oversold:   decimal.NewFromInt(30),
		Breakout:   BreakoutInclusive,
	}
}

// EvaluateRSI is edge-triggered: it fires only when cur crosses a threshold that prev had not crossed.
// A nil prev means there is no earlier value to compare with and the crossing is assumed.
func EvaluateRSI(cur indicator.Value, prev *indicator.Value, th Thresholds) (Kind, bool) {
	if cur.RSI.GreaterThan(th.Overbought) {
		if prev == nil || prev.RSI.LessThanOrEqual(th.Overbought) {
			return Overbought, true
		}
		return "", false
	}
	if cur.RSI.LessThan(th.Oversold) {
		if prev == nil || prev.RSI.GreaterThanOrEqual(th.Oversold) {
			return Oversold, true
		}
	}
	return "", false
}

// EvaluateDonchian compares the candle close against bands built from earlier candles only.
func EvaluateDonchian(cur indicator.Value, th Thresholds) (Kind, bool) {
	if th.Breakout == BreakoutStrict {
		switch {
		case cur.Close.GreaterThan(cur.Upper):
			return BullishBreakout, true
		case cur.Close.LessThan(cur.Lower):
			return BearishBreakdown, true
		}
		return "", false
	}
	switch {
	case cur.Close.GreaterThanOrEqual(cur.Upper):
		return BullishBreakout, true
	case cur.Close.LessThanOrEqual(cur.Lower):
		return BearishBreakdown, true
	}
	return "", false
}
