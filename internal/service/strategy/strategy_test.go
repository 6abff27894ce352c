package strategy

import (
	"testing"
	"time"

	"github.com/gopinath0332-del/zerodha-alog/internal/service/candle"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/market"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/signal"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		name    string
		kind    signal.Strategy
		params  Params
		wantMin int
		wantErr bool
	}{
		{name: "rsi defaults", kind: signal.StrategyRSI, wantMin: 15},
		{name: "rsi custom period", kind: signal.StrategyRSI, params: Params{RSIPeriod: 7}, wantMin: 8},
		{name: "rsi inverted thresholds", kind: signal.StrategyRSI, params: Params{OverboughtThreshold: 20, OversoldThreshold: 40}, wantErr: true},
		{name: "donchian defaults", kind: signal.StrategyDonchian, wantMin: 21},
		{name: "donchian lower wider", kind: signal.StrategyDonchian, params: Params{DonchianUpperPeriod: 5, DonchianLowerPeriod: 8}, wantMin: 9},
		{name: "unknown", kind: signal.Strategy("macd"), wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sg, err := New(tc.kind, tc.params)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.kind, sg.Kind())
			assert.Equal(t, tc.wantMin, sg.MinCandles())
		})
	}
}

func TestDonchianStrategy_Breakout(t *testing.T) {
	sg, err := New(signal.StrategyDonchian, Params{DonchianUpperPeriod: 3, DonchianLowerPeriod: 2})
	require.NoError(t, err)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mk := func(i int, high, low, close int64) market.Candle {
		return market.Candle{
			OpenTime: start.Add(time.Duration(i) * time.Hour),
			Open:     decimal.NewFromInt(low),
			High:     decimal.NewFromInt(high),
			Low:      decimal.NewFromInt(low),
			Close:    decimal.NewFromInt(close),
		}
	}
	series := candle.Series{Type: candle.Normal, Candles: []market.Candle{
		mk(0, 10, 8, 9),
		mk(1, 11, 9, 10),
		mk(2, 10, 8, 9),
		mk(3, 13, 9, 12),
	}}
	values, err := sg.Compute(series)
	require.NoError(t, err)
	require.Len(t, values, 1)

	kind, ok := sg.Evaluate(values[0], nil)
	assert.True(t, ok)
	assert.Equal(t, signal.BullishBreakout, kind)
	assert.Contains(t, sg.Describe(values[0]), "upper(3) 11.00")
}
