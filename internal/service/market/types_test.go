package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInstrument(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    Instrument
		wantErr bool
	}{
		{name: "mcx", input: "MCX:GOLDPETAL", want: Instrument{Exchange: "MCX", Symbol: "GOLDPETAL"}},
		{name: "lower case", input: " binance:btcusdt ", want: Instrument{Exchange: "BINANCE", Symbol: "BTCUSDT"}},
		{name: "spaces around parts", input: "binance : btcusdt", want: Instrument{Exchange: "BINANCE", Symbol: "BTCUSDT"}},
		{name: "blank symbol", input: "MCX: ", wantErr: true},
		{name: "missing exchange", input: "GOLDPETAL", wantErr: true},
		{name: "empty symbol", input: "MCX:", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseInstrument(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want.Exchange+":"+tc.want.Symbol, got.String())
		})
	}
}

func TestInterval_Duration(t *testing.T) {
	assert.Equal(t, time.Hour, Interval1h.Duration())
	assert.Equal(t, 15*time.Minute, Interval15m.Duration())
	assert.False(t, Interval("7m").Valid())
	assert.Zero(t, Interval("7m").Duration())
}

func TestMockProvider_FetchCandles(t *testing.T) {
	p := NewMockProvider()
	inst := Instrument{Exchange: "MCX", Symbol: "GOLDPETAL"}
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	generated := p.GenerateCandles(inst, Interval1h, start, 100, 10, "up")

	got, err := p.FetchCandles(context.Background(), FetchReq{Instrument: inst, Interval: Interval1h, LookbackDays: 30})
	require.NoError(t, err)
	assert.Equal(t, generated, got)
	assert.Equal(t, 1, p.Calls())

	_, err = p.FetchCandles(context.Background(), FetchReq{Instrument: Instrument{Exchange: "MCX", Symbol: "NOPE"}, Interval: Interval1h})
	assert.True(t, errors.Is(err, ErrUnknownInstrument))

	p.SetError(inst, Interval1h, ErrProvider)
	_, err = p.FetchCandles(context.Background(), FetchReq{Instrument: inst, Interval: Interval1h})
	assert.ErrorIs(t, err, ErrProvider)

	p.SetError(inst, Interval1h, nil)
	_, err = p.FetchCandles(context.Background(), FetchReq{Instrument: inst, Interval: Interval1h})
	assert.NoError(t, err)
}
