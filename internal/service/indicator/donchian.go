package indicator

import (
	"fmt"

	"github.com/gopinath0332-del/zerodha-alog/internal/service/candle"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/market"
	"github.com/gopinath0332-del/zerodha-alog/pkg/decimalx"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const (
	DefaultDonchianUpper = 20
	DefaultDonchianLower = 10
)

// Donchian computes channel bands for every candle that has a full trailing window
// of strictly earlier candles, so a candle never contributes to its own band.
func Donchian(series candle.Series, upperPeriod, lowerPeriod int) ([]Value, error) {
	if upperPeriod < 1 || lowerPeriod < 1 {
		return nil, fmt.Errorf("donchian periods must be positive, got %d/%d", upperPeriod, lowerPeriod)
	}
	cs := series.Candles
	window := max(upperPeriod, lowerPeriod)
	if len(cs) < window+1 {
		return nil, fmt.Errorf("%w: donchian(%d,%d) needs %d candles, got %d",
			candle.ErrInsufficientData, upperPeriod, lowerPeriod, window+1, len(cs))
	}

	values := make([]Value, 0, len(cs)-window)
	for i := window; i < len(cs); i++ {
		highs := lo.Map(cs[i-upperPeriod:i], func(c market.Candle, _ int) decimal.Decimal { return c.High })
		lows := lo.Map(cs[i-lowerPeriod:i], func(c market.Candle, _ int) decimal.Decimal { return c.Low })
		values = append(values, Value{
			CandleTime: cs[i].OpenTime,
			Close:      cs[i].Close,
			Upper:      decimalx.Highest(highs),
			Lower:      decimalx.Lowest(lows),
		})
	}
	return values, nil
}
