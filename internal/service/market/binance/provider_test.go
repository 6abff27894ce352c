package binance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/goccy/go-json"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/market"
	"github.com/gopinath0332-del/zerodha-alog/pkg/decimalx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertKlines(t *testing.T) {
	klines := []*futures.Kline{
		{OpenTime: 1704067200000, Open: "42000.1", High: "42500", Low: "41800.5", Close: "42300", Volume: "1234.567"},
		{OpenTime: 1704070800000, Open: "42300", High: "42400", Low: "42100", Close: "42150.25", Volume: "987"},
	}

	candles, err := convertKlines(klines)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, time.UnixMilli(1704067200000), candles[0].OpenTime)
	assert.True(t, decimalx.MustFromString("41800.5").Equal(candles[0].Low))
	assert.True(t, decimalx.MustFromString("42150.25").Equal(candles[1].Close))
}

func TestConvertKlines_BadNumber(t *testing.T) {
	_, err := convertKlines([]*futures.Kline{{OpenTime: 1, Open: "x", High: "1", Low: "1", Close: "1", Volume: "1"}})
	assert.ErrorIs(t, err, market.ErrProvider)
}

func TestProvider_RejectsOtherExchange(t *testing.T) {
	p := NewProvider(futures.NewClient("", ""))
	_, err := p.FetchCandles(context.Background(), market.FetchReq{
		Instrument:   market.Instrument{Exchange: "MCX", Symbol: "GOLDPETAL"},
		Interval:     market.Interval1h,
		LookbackDays: 30,
	})
	assert.ErrorIs(t, err, market.ErrUnknownInstrument)
}

// klineServer 模拟币安K线接口: 带 startTime 时从 startTime 起返回最早的 limit 根
func klineServer(t *testing.T, step time.Duration) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		start, _ := strconv.ParseInt(q.Get("startTime"), 10, 64)
		end, _ := strconv.ParseInt(q.Get("endTime"), 10, 64)
		limit, _ := strconv.Atoi(q.Get("limit"))

		first := time.UnixMilli(start).UTC().Truncate(step)
		if first.Before(time.UnixMilli(start)) {
			first = first.Add(step)
		}
		rows := make([][]any, 0, limit)
		for ot := first; !ot.After(time.UnixMilli(end)) && len(rows) < limit; ot = ot.Add(step) {
			rows = append(rows, []any{
				ot.UnixMilli(), "100", "101", "99", "100.5", "10",
				ot.Add(step).UnixMilli() - 1, "1000", 5, "5", "500", "0",
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rows)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProvider_FetchCandles_MostRecent(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	testCases := []struct {
		name      string
		interval  market.Interval
		lookback  int
		wantCount int
	}{
		{name: "15m over limit", interval: market.Interval15m, lookback: 30, wantCount: maxKlineLimit},
		{name: "5m over limit", interval: market.Interval5m, lookback: 30, wantCount: maxKlineLimit},
		{name: "1h within limit", interval: market.Interval1h, lookback: 30, wantCount: 30*24 + 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			step := tc.interval.Duration()
			cli := futures.NewClient("", "")
			cli.BaseURL = klineServer(t, step).URL
			p := NewProvider(cli)
			p.now = func() time.Time { return now }

			candles, err := p.FetchCandles(context.Background(), market.FetchReq{
				Instrument:   market.Instrument{Exchange: Exchange, Symbol: "BTCUSDT"},
				Interval:     tc.interval,
				LookbackDays: tc.lookback,
			})
			require.NoError(t, err)
			require.Len(t, candles, tc.wantCount)
			assert.WithinDuration(t, now, candles[len(candles)-1].OpenTime, step)
			assert.False(t, candles[0].OpenTime.Before(now.AddDate(0, 0, -tc.lookback)))
		})
	}
}
