package strategy

import (
	"fmt"

	"github.com/gopinath0332-del/zerodha-alog/internal/service/candle"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/indicator"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/signal"
	"github.com/shopspring/decimal"
)

// Params 策略参数, 零值字段在 WithDefaults 中补齐
type Params struct {
	RSIPeriod           int                   `json:"rsi_period" mapstructure:"rsi_period" validate:"gte=0,lte=500"`
	OverboughtThreshold float64               `json:"overbought_threshold" mapstructure:"overbought_threshold" validate:"gte=0,lte=100"`
	OversoldThreshold   float64               `json:"oversold_threshold" mapstructure:"oversold_threshold" validate:"gte=0,lte=100"`
	DonchianUpperPeriod int                   `json:"donchian_upper_period" mapstructure:"donchian_upper_period" validate:"gte=0,lte=500"`
	DonchianLowerPeriod int                   `json:"donchian_lower_period" mapstructure:"donchian_lower_period" validate:"gte=0,lte=500"`
	BreakoutPolicy      signal.BreakoutPolicy `json:"breakout_policy" mapstructure:"breakout_policy" validate:"omitempty,oneof=inclusive strict"`
}

func DefaultParams() Params {
	return Params{
		RSIPeriod:           indicator.DefaultRSIPeriod,
		OverboughtThreshold: 70,
		OversoldThreshold:   30,
		DonchianUpperPeriod: indicator.DefaultDonchianUpper,
		DonchianLowerPeriod: indicator.DefaultDonchianLower,
		BreakoutPolicy:      signal.BreakoutInclusive,
	}
}

func (p Params) WithDefaults() Params {
	def := DefaultParams()
	if p.RSIPeriod == 0 {
		p.RSIPeriod = def.RSIPeriod
	}
	if p.OverboughtThreshold == 0 {
		p.OverboughtThreshold = def.OverboughtThreshold
	}
	if p.OversoldThreshold == 0 {
		p.OversoldThreshold = def.OversoldThreshold
	}
	if p.DonchianUpperPeriod == 0 {
		p.DonchianUpperPeriod = def.DonchianUpperPeriod
	}
	if p.DonchianLowerPeriod == 0 {
		p.DonchianLowerPeriod = def.DonchianLowerPeriod
	}
	if p.BreakoutPolicy == "" {
		p.BreakoutPolicy = def.BreakoutPolicy
	}
	return p
}

func (p Params) Thresholds() signal.Thresholds {
	return signal.Thresholds{
		Overbought: decimal.NewFromFloat(p.OverboughtThreshold),
		Oversold:   decimal.NewFromFloat(p.OversoldThreshold),
		Breakout:   p.BreakoutPolicy,
	}
}

// Strategy 一个指标加一条信号规则
type Strategy interface {
	Kind() signal.Strategy
	// MinCandles 计算出至少一个指标值需要的K线数
	MinCandles() int
	Compute(series candle.Series) ([]indicator.Value, error)
	// Evaluate prev 为上一根已收盘K线的指标值, 没有时为 nil
	Evaluate(cur indicator.Value, prev *indicator.Value) (signal.Kind, bool)
	Describe(v indicator.Value) string
	Params() Params
}

func New(kind signal.Strategy, params Params) (Strategy, error) {
	params = params.WithDefaults()
	switch kind {
	case signal.StrategyRSI:
		if params.OversoldThreshold >= params.OverboughtThreshold {
			return nil, fmt.Errorf("oversold threshold %.2f must be below overbought threshold %.2f",
				params.OversoldThreshold, params.OverboughtThreshold)
		}
		return NewRSIStrategy(params), nil
	case signal.StrategyDonchian:
		return NewDonchianStrategy(params), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", kind)
	}
}
