package candle

import (
	"errors"
	"fmt"
	"time"

	"github.com/gopinath0332-del/zerodha-alog/internal/service/market"
	"github.com/gopinath0332-del/zerodha-alog/pkg/decimalx"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientData = errors.New("insufficient candle data")
	ErrMalformedCandle  = errors.New("malformed candle")
)

type Type string

const (
	Normal     Type = "normal"
	HeikinAshi Type = "heikin_ashi"
)

func (t Type) Valid() bool {
	return t == Normal || t == HeikinAshi
}

// minSeriesLen Heikin Ashi 需要一根种子K线
const minSeriesLen = 2

// Series 按 OpenTime 严格递增的K线序列
type Series struct {
	Type    Type
	Candles []market.Candle
}

func (s Series) Len() int {
	return len(s.Candles)
}

// Last returns the most recent candle; callers check Len first.
func (s Series) Last() market.Candle {
	return s.Candles[len(s.Candles)-1]
}

// Build validates raw candles and converts them into an analysis series of the given type.
func Build(raw []market.Candle, typ Type) (Series, error) {
	if !typ.Valid() {
		return Series{}, fmt.Errorf("unsupported candle type %q", typ)
	}
	if len(raw) < minSeriesLen {
		return Series{}, fmt.Errorf("%w: got %d candles, need at least %d", ErrInsufficientData, len(raw), minSeriesLen)
	}
	if err := validate(raw); err != nil {
		return Series{}, err
	}

	candles := make([]market.Candle, len(raw))
	copy(candles, raw)
	if typ == HeikinAshi {
		candles = ToHeikinAshi(candles)
	}
	return Series{Type: typ, Candles: candles}, nil
}

func validate(raw []market.Candle) error {
	for i, c := range raw {
		if c.OpenTime.IsZero() {
			return fmt.Errorf("%w: candle %d has no open time", ErrMalformedCandle, i)
		}
		if i > 0 && !c.OpenTime.After(raw[i-1].OpenTime) {
			return fmt.Errorf("%w: candle %d at %s is not after %s", ErrMalformedCandle, i,
				c.OpenTime.Format(time.RFC3339), raw[i-1].OpenTime.Format(time.RFC3339))
		}
		prices := []decimal.Decimal{c.Open, c.High, c.Low, c.Close}
		if lo.ContainsBy(prices, func(p decimal.Decimal) bool { return !p.IsPositive() }) {
			return fmt.Errorf("%w: candle %d at %s has a non-positive price", ErrMalformedCandle, i, c.OpenTime.Format(time.RFC3339))
		}
		if c.Volume.IsNegative() {
			return fmt.Errorf("%w: candle %d has negative volume", ErrMalformedCandle, i)
		}
		if c.High.LessThan(decimal.Max(c.Open, c.Close, c.Low)) || c.Low.GreaterThan(decimal.Min(c.Open, c.Close)) {
			return fmt.Errorf("%w: candle %d high/low do not bound open/close", ErrMalformedCandle, i)
		}
	}
	return nil
}

// ToHeikinAshi 逐根转换, 每根 HA K线依赖前一根, 只能顺序计算
func ToHeikinAshi(src []market.Candle) []market.Candle {
	ha := make([]market.Candle, len(src))
	for i, c := range src {
		haClose := decimalx.Mean(c.Open, c.High, c.Low, c.Close)
		var haOpen decimal.Decimal
		if i == 0 {
			haOpen = decimalx.Mean(c.Open, c.Close)
		} else {
			haOpen = decimalx.Mean(ha[i-1].Open, ha[i-1].Close)
		}
		ha[i] = market.Candle{
			OpenTime: c.OpenTime,
			Open:     haOpen,
			High:     decimal.Max(c.High, haOpen, haClose),
			Low:      decimal.Min(c.Low, haOpen, haClose),
			Close:    haClose,
			Volume:   c.Volume,
		}
	}
	return ha
}

// Closed drops candles that are still forming at now; only fully closed candles are evaluated.
func Closed(raw []market.Candle, interval market.Interval, now time.Time) []market.Candle {
	end := len(raw)
	for end > 0 && raw[end-1].CloseTime(interval).After(now) {
		end--
	}
	return raw[:end]
}
