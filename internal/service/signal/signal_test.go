package signal

import (
	"fmt"
	"testing"
	"time"

	"github.com/gopinath0332-del/zerodha-alog/internal/service/indicator"
	"github.com/gopinath0332-del/zerodha-alog/pkg/decimalx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)

func rsiValues(rsis ...string) []indicator.Value {
	values := make([]indicator.Value, len(rsis))
	for i, r := range rsis {
		values[i] = indicator.Value{
			CandleTime: baseTime.Add(time.Duration(i) * time.Hour),
			RSI:        decimalx.MustFromString(r),
		}
	}
	return values
}

// fire 模拟逐根K线评估, 返回每根K线的信号
func fire(values []indicator.Value, th Thresholds) []Kind {
	res := make([]Kind, len(values))
	for i := range values {
		var prev *indicator.Value
		if i > 0 {
			prev = &values[i-1]
		}
		if kind, ok := EvaluateRSI(values[i], prev, th); ok {
			res[i] = kind
		}
	}
	return res
}

func TestEvaluateRSI_Crossing(t *testing.T) {
	testCases := []struct {
		name string
		rsis []string
		want []Kind
	}{
		{
			name: "68 72 75 69 fires once at 72",
			rsis: []string{"68", "72", "75", "69"},
			want: []Kind{"", Overbought, "", ""},
		},
		{
			name: "stays elevated for five candles",
			rsis: []string{"65", "71", "74", "80", "77", "72"},
			want: []Kind{"", Overbought, "", "", "", ""},
		},
		{
			name: "oversold crossing",
			rsis: []string{"35", "29.5", "25", "31", "28"},
			want: []Kind{"", Oversold, "", "", Oversold},
		},
		{
			name: "exactly on threshold does not fire",
			rsis: []string{"60", "70", "30"},
			want: []Kind{"", "", ""},
		},
		{
			name: "first value already past threshold",
			rsis: []string{"75"},
			want: []Kind{Overbought},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, fire(rsiValues(tc.rsis...), DefaultThresholds()))
		})
	}
}

func TestEvaluateDonchian(t *testing.T) {
	band := func(close string) indicator.Value {
		return indicator.Value{
			CandleTime: baseTime,
			Close:      decimalx.MustFromString(close),
			Upper:      decimalx.MustFromString("100"),
			Lower:      decimalx.MustFromString("90"),
		}
	}
	inclusive := DefaultThresholds()
	strict := DefaultThresholds()
	strict.Breakout = BreakoutStrict

	testCases := []struct {
		name   string
		close  string
		th     Thresholds
		want   Kind
		wantOk bool
	}{
		{name: "above upper", close: "101", th: inclusive, want: BullishBreakout, wantOk: true},
		{name: "at upper inclusive", close: "100", th: inclusive, want: BullishBreakout, wantOk: true},
		{name: "at upper strict", close: "100", th: strict},
		{name: "inside channel", close: "95", th: inclusive},
		{name: "at lower inclusive", close: "90", th: inclusive, want: BearishBreakdown, wantOk: true},
		{name: "below lower strict", close: "89.9", th: strict, want: BearishBreakdown, wantOk: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			kind, ok := EvaluateDonchian(band(tc.close), tc.th)
			assert.Equal(t, tc.wantOk, ok)
			assert.Equal(t, tc.want, kind)
		})
	}
}

func TestHistory(t *testing.T) {
	h := NewHistory(3)
	key := func(i int) Key {
		return Key{Instrument: "MCX:GOLDPETAL", Strategy: StrategyRSI, CandleTime: int64(i), Kind: Overbought}
	}

	assert.True(t, h.Add(key(1)))
	assert.False(t, h.Add(key(1)), "duplicate key must be suppressed")
	assert.True(t, h.Add(key(2)))
	assert.True(t, h.Add(key(3)))
	assert.Equal(t, 3, h.Len())

	// 超出容量, 淘汰最旧的
	assert.True(t, h.Add(key(4)))
	assert.Equal(t, 3, h.Len())
	assert.False(t, h.Seen(key(1)))
	assert.True(t, h.Seen(key(2)))
	assert.True(t, h.Seen(key(4)))
}

func TestHistory_Bounded(t *testing.T) {
	h := NewHistory(0)
	assert.Equal(t, DefaultHistoryCapacity, h.Cap())
	for i := 0; i < 2000; i++ {
		h.Add(Key{Instrument: fmt.Sprintf("NSE:X%d", i), Strategy: StrategyDonchian, Kind: BullishBreakout})
	}
	assert.Equal(t, DefaultHistoryCapacity, h.Len())
	assert.Len(t, h.index, DefaultHistoryCapacity)
}

func TestSignal_Key(t *testing.T) {
	s := Signal{
		Kind:       Overbought,
		Strategy:   StrategyRSI,
		CandleTime: baseTime,
	}
	s.Instrument.Exchange, s.Instrument.Symbol = "MCX", "NATGASMINI"
	k := s.Key()
	assert.Equal(t, "MCX:NATGASMINI", k.Instrument)
	assert.Equal(t, baseTime.Unix(), k.CandleTime)
	assert.Equal(t, fmt.Sprintf("MCX:NATGASMINI/rsi/%d/overbought", baseTime.Unix()), k.String())

	parsed, err := ParseKey(k.String())
	require.NoError(t, err)
	assert.Equal(t, k, parsed)

	_, err = ParseKey("MCX:NATGASMINI/rsi/overbought")
	assert.Error(t, err)
	_, err = ParseKey("MCX:NATGASMINI/rsi/abc/overbought")
	assert.Error(t, err)
}
