package indicator

import (
	"time"

	"github.com/shopspring/decimal"
)

// Value 指标值, 与产生它的已收盘K线一一对应
type Value struct {
	CandleTime time.Time       `json:"candle_time"`
	Close      decimal.Decimal `json:"close"`

	// RSI 0-100, 仅 RSI 引擎填写
	RSI decimal.Decimal `json:"rsi"`

	// Upper/Lower Donchian 通道, 由该K线之前的K线计算得出
	Upper decimal.Decimal `json:"upper"`
	Lower decimal.Decimal `json:"lower"`
}
