package strategy

import (
	"fmt"

	"github.com/gopinath0332-del/zerodha-alog/internal/service/candle"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/indicator"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/signal"
)

var _ Strategy = (*RSIStrategy)(nil)

// RSIStrategy 超买超卖穿越提醒
type RSIStrategy struct {
	params     Params
	thresholds signal.Thresholds
}

func NewRSIStrategy(params Params) *RSIStrategy {
	return &RSIStrategy{params: params, thresholds: params.Thresholds()}
}

func (s *RSIStrategy) Kind() signal.Strategy {
	return signal.StrategyRSI
}

func (s *RSIStrategy) MinCandles() int {
	return s.params.RSIPeriod + 1
}

func (s *RSIStrategy) Compute(series candle.Series) ([]indicator.Value, error) {
	return indicator.RSI(series, s.params.RSIPeriod)
}

func (s *RSIStrategy) Evaluate(cur indicator.Value, prev *indicator.Value) (signal.Kind, bool) {
	return signal.EvaluateRSI(cur, prev, s.thresholds)
}

func (s *RSIStrategy) Describe(v indicator.Value) string {
	return fmt.Sprintf("RSI(%d) %s", s.params.RSIPeriod, v.RSI.StringFixed(2))
}

func (s *RSIStrategy) Params() Params {
	return s.params
}
