package strategy

import (
	"fmt"

	"github.com/gopinath0332-del/zerodha-alog/internal/service/candle"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/indicator"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/signal"
)

var _ Strategy = (*DonchianStrategy)(nil)

// DonchianStrategy 通道突破提醒
type DonchianStrategy struct {
	params     Params
	thresholds signal.Thresholds
}

func NewDonchianStrategy(params Params) *DonchianStrategy {
	return &DonchianStrategy{params: params, thresholds: params.Thresholds()}
}

func (s *DonchianStrategy) Kind() signal.Strategy {
	return signal.StrategyDonchian
}

func (s *DonchianStrategy) MinCandles() int {
	return max(s.params.DonchianUpperPeriod, s.params.DonchianLowerPeriod) + 1
}

func (s *DonchianStrategy) Compute(series candle.Series) ([]indicator.Value, error) {
	return indicator.Donchian(series, s.params.DonchianUpperPeriod, s.params.DonchianLowerPeriod)
}

// Evaluate 突破按K线判断, 不依赖上一个值
func (s *DonchianStrategy) Evaluate(cur indicator.Value, _ *indicator.Value) (signal.Kind, bool) {
	return signal.EvaluateDonchian(cur, s.thresholds)
}

func (s *DonchianStrategy) Describe(v indicator.Value) string {
	return fmt.Sprintf("close %s, upper(%d) %s, lower(%d) %s",
		v.Close.StringFixed(2),
		s.params.DonchianUpperPeriod, v.Upper.StringFixed(2),
		s.params.DonchianLowerPeriod, v.Lower.StringFixed(2))
}

func (s *DonchianStrategy) Params() Params {
	return s.params
}
