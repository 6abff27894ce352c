package indicator

import (
	"fmt"

	"github.com/gopinath0332-del/zerodha-alog/internal/service/candle"
	"github.com/gopinath0332-del/zerodha-alog/pkg/decimalx"
	"github.com/shopspring/decimal"
)

const DefaultRSIPeriod = 14

// RSI computes Wilder's RSI over the series closes.
// The first value belongs to the candle at index period; earlier candles have no RSI.
func RSI(series candle.Series, period int) ([]Value, error) {
	if period < 1 {
		return nil, fmt.Errorf("rsi period must be positive, got %d", period)
	}
	cs := series.Candles
	if len(cs) < period+1 {
		return nil, fmt.Errorf("%w: rsi(%d) needs %d candles, got %d", candle.ErrInsufficientData, period, period+1, len(cs))
	}

	p := decimal.NewFromInt(int64(period))
	pMinus1 := decimal.NewFromInt(int64(period - 1))

	// 种子: 前 period 个涨跌幅的简单平均
	sumGain, sumLoss := decimal.Zero, decimal.Zero
	for i := 1; i <= period; i++ {
		gain, loss := change(cs[i-1].Close, cs[i].Close)
		sumGain = sumGain.Add(gain)
		sumLoss = sumLoss.Add(loss)
	}
	avgGain := sumGain.Div(p)
	avgLoss := sumLoss.Div(p)

	values := make([]Value, 0, len(cs)-period)
	values = append(values, Value{
		CandleTime: cs[period].OpenTime,
		Close:      cs[period].Close,
		RSI:        rsiOf(avgGain, avgLoss),
	})

	// Wilder 平滑: avg = (prevAvg*(period-1) + cur) / period
	for i := period + 1; i < len(cs); i++ {
		gain, loss := change(cs[i-1].Close, cs[i].Close)
		avgGain = avgGain.Mul(pMinus1).Add(gain).Div(p)
		avgLoss = avgLoss.Mul(pMinus1).Add(loss).Div(p)
		values = append(values, Value{
			CandleTime: cs[i].OpenTime,
			Close:      cs[i].Close,
			RSI:        rsiOf(avgGain, avgLoss),
		})
	}
	return values, nil
}

func change(prev, cur decimal.Decimal) (gain, loss decimal.Decimal) {
	delta := cur.Sub(prev)
	if delta.IsPositive() {
		return delta, decimal.Zero
	}
	return decimal.Zero, delta.Neg()
}

func rsiOf(avgGain, avgLoss decimal.Decimal) decimal.Decimal {
	if avgLoss.IsZero() {
		return decimalx.Hundred
	}
	if avgGain.IsZero() {
		return decimal.Zero
	}
	rs := avgGain.Div(avgLoss)
	return decimalx.Hundred.Sub(decimalx.Hundred.Div(decimal.NewFromInt(1).Add(rs)))
}
