package monitor

import (
	"testing"
	"time"

	"github.com/gopinath0332-del/zerodha-alog/internal/service/candle"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/market"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/signal"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Merge(t *testing.T) {
	cfg := Config{
		Instrument:  "mcx:goldpetal",
		Strategy:    signal.StrategyRSI,
		Params:      strategy.Params{OverboughtThreshold: 80},
		SettleDelay: 10 * time.Second,
	}.Merge(DefaultConfig())

	assert.Equal(t, candle.HeikinAshi, cfg.CandleType)
	assert.Equal(t, market.Interval1h, cfg.Interval)
	assert.Equal(t, 14, cfg.RSIPeriod)
	assert.Equal(t, 80.0, cfg.OverboughtThreshold)
	assert.Equal(t, 30.0, cfg.OversoldThreshold)
	assert.Equal(t, 10*time.Second, cfg.SettleDelay)
	assert.Equal(t, DefaultFetchTimeout, cfg.FetchTimeout)
	assert.Equal(t, DefaultStartupLookback, cfg.StartupLookback)
	assert.Equal(t, signal.DefaultHistoryCapacity, cfg.DedupCapacity)
	assert.Equal(t, Key{Instrument: "MCX:GOLDPETAL", Strategy: signal.StrategyRSI}, cfg.Key())

	cfg.Instrument = " mcx : goldpetal "
	assert.Equal(t, Key{Instrument: "MCX:GOLDPETAL", Strategy: signal.StrategyRSI}, cfg.Key())
}

func TestConfig_Resolve(t *testing.T) {
	cfg := donchianConfig().Merge(DefaultConfig())
	res, err := cfg.resolve()
	require.NoError(t, err)

	assert.Equal(t, "BINANCE:BTCUSDT", res.cfg.Instrument)
	assert.Equal(t, market.Instrument{Exchange: "BINANCE", Symbol: "BTCUSDT"}, res.instrument)
	assert.Equal(t, signal.StrategyDonchian, res.strategy.Kind())
	assert.Equal(t, 4, res.strategy.MinCandles())
	assert.Equal(t, time.Hour, res.scheduler.Boundary)
	assert.Equal(t, signal.BreakoutInclusive, res.cfg.BreakoutPolicy)

	cfg.BreakoutPolicy = "sometimes"
	_, err = cfg.resolve()
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestStatus_Active(t *testing.T) {
	for _, s := range []Status{StatusStarting, StatusRunning, StatusStopping} {
		assert.True(t, s.Active(), s)
	}
	for _, s := range []Status{StatusStopped, StatusError} {
		assert.False(t, s.Active(), s)
	}
}
