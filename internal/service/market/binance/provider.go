package binance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/market"
	"github.com/shopspring/decimal"
)

const (
	Exchange = "BINANCE"

	// 单次请求最多返回的K线数量
	maxKlineLimit = 1500

	codeInvalidSymbol = -1121
)

var _ market.Provider = (*Provider)(nil)

type Provider struct {
	cli *futures.Client
	now func() time.Time
}

// NewProvider 创建币安合约K线数据源
func NewProvider(cli *futures.Client) *Provider {
	return &Provider{cli: cli, now: time.Now}
}

func (p *Provider) FetchCandles(ctx context.Context, req market.FetchReq) ([]market.Candle, error) {
	if req.Instrument.Exchange != Exchange {
		return nil, fmt.Errorf("%w: %s is not listed on %s", market.ErrUnknownInstrument, req.Instrument, Exchange)
	}
	end := p.now()
	start := fetchStart(end, req)

	// 币安合约API使用 BTCUSDT 格式
	res, err := p.cli.NewKlinesService().
		Symbol(req.Instrument.Symbol).
		Interval(req.Interval.ToString()).
		StartTime(start.UnixMilli()).
		EndTime(end.UnixMilli()).
		Limit(maxKlineLimit).
		Do(ctx)
	if err != nil {
		var apiErr *common.APIError
		if errors.As(err, &apiErr) && apiErr.Code == codeInvalidSymbol {
			return nil, fmt.Errorf("%w: %s: %s", market.ErrUnknownInstrument, req.Instrument, apiErr.Message)
		}
		return nil, fmt.Errorf("%w: fetch klines %s: %w", market.ErrProvider, req.Instrument, err)
	}
	return convertKlines(res)
}

// fetchStart 带 startTime 时币安从最早的K线开始返回 limit 根,
// 回看窗口超过单次上限时只取最近 maxKlineLimit 根, 否则拿到的是过期数据
func fetchStart(end time.Time, req market.FetchReq) time.Time {
	start := end.AddDate(0, 0, -req.LookbackDays)
	if d := req.Interval.Duration(); d > 0 {
		if earliest := end.Add(-time.Duration(maxKlineLimit-1) * d); earliest.After(start) {
			return earliest
		}
	}
	return start
}

func convertKlines(klines []*futures.Kline) ([]market.Candle, error) {
	candles := make([]market.Candle, 0, len(klines))
	for _, k := range klines {
		c, err := convertKline(k)
		if err != nil {
			return nil, fmt.Errorf("%w: parse kline at %d: %w", market.ErrProvider, k.OpenTime, err)
		}
		candles = append(candles, c)
	}
	return candles, nil
}

func convertKline(k *futures.Kline) (market.Candle, error) {
	fields := []string{k.Open, k.High, k.Low, k.Close, k.Volume}
	values := make([]decimal.Decimal, len(fields))
	for i, f := range fields {
		v, err := decimal.NewFromString(f)
		if err != nil {
			return market.Candle{}, err
		}
		values[i] = v
	}
	return market.Candle{
		OpenTime: time.UnixMilli(k.OpenTime),
		Open:     values[0],
		High:     values[1],
		Low:      values[2],
		Close:    values[3],
		Volume:   values[4],
	}, nil
}
