package monitor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gopinath0332-del/zerodha-alog/internal/schedule"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/candle"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/market"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/signal"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/strategy"
	"github.com/samber/lo"
)

const (
	DefaultLookbackDays    = 30
	DefaultPollBoundary    = time.Hour
	DefaultSettleDelay     = 5 * time.Second
	DefaultFetchTimeout    = 30 * time.Second
	MaxFetchTimeout        = 5 * time.Minute
	DefaultStartupLookback = 3
)

// Config 单个监控的配置, 零值字段取 Defaults 中的值
type Config struct {
	Instrument   string          `json:"instrument" mapstructure:"instrument" validate:"required"`
	Strategy     signal.Strategy `json:"strategy" mapstructure:"strategy" validate:"required,oneof=rsi donchian"`
	CandleType   candle.Type     `json:"candle_type" mapstructure:"candle_type" validate:"omitempty,oneof=normal heikin_ashi"`
	Interval     market.Interval `json:"interval" mapstructure:"interval" validate:"omitempty,oneof=1m 5m 15m 30m 1h 2h 4h 1d"`
	LookbackDays int             `json:"lookback_days" mapstructure:"lookback_days" validate:"gte=0,lte=3650"`

	strategy.Params `mapstructure:",squash"`

	PollBoundary    time.Duration `json:"poll_boundary" mapstructure:"poll_boundary" validate:"gte=0"`
	PollOffset      time.Duration `json:"poll_offset" mapstructure:"poll_offset" validate:"gte=0"`
	SettleDelay     time.Duration `json:"settle_delay" mapstructure:"settle_delay" validate:"gte=0"`
	FetchTimeout    time.Duration `json:"fetch_timeout" mapstructure:"fetch_timeout" validate:"gte=0"`
	StartupLookback int           `json:"startup_lookback" mapstructure:"startup_lookback" validate:"gte=0,lte=500"`
	DedupCapacity   int           `json:"dedup_capacity" mapstructure:"dedup_capacity" validate:"gte=0,lte=100000"`
	Timezone        string        `json:"timezone" mapstructure:"timezone"`
}

func DefaultConfig() Config {
	return Config{
		CandleType:      candle.HeikinAshi,
		Interval:        market.Interval1h,
		LookbackDays:    DefaultLookbackDays,
		Params:          strategy.DefaultParams(),
		PollBoundary:    DefaultPollBoundary,
		SettleDelay:     DefaultSettleDelay,
		FetchTimeout:    DefaultFetchTimeout,
		StartupLookback: DefaultStartupLookback,
		DedupCapacity:   signal.DefaultHistoryCapacity,
		Timezone:        "Local",
	}
}

// Merge 用 defaults 补齐 c 中的零值字段
func (c Config) Merge(defaults Config) Config {
	c.CandleType = lo.CoalesceOrEmpty(c.CandleType, defaults.CandleType)
	c.Interval = lo.CoalesceOrEmpty(c.Interval, defaults.Interval)
	c.LookbackDays = lo.CoalesceOrEmpty(c.LookbackDays, defaults.LookbackDays)
	c.RSIPeriod = lo.CoalesceOrEmpty(c.RSIPeriod, defaults.RSIPeriod)
	c.OverboughtThreshold = lo.CoalesceOrEmpty(c.OverboughtThreshold, defaults.OverboughtThreshold)
	c.OversoldThreshold = lo.CoalesceOrEmpty(c.OversoldThreshold, defaults.OversoldThreshold)
	c.DonchianUpperPeriod = lo.CoalesceOrEmpty(c.DonchianUpperPeriod, defaults.DonchianUpperPeriod)
	c.DonchianLowerPeriod = lo.CoalesceOrEmpty(c.DonchianLowerPeriod, defaults.DonchianLowerPeriod)
	c.BreakoutPolicy = lo.CoalesceOrEmpty(c.BreakoutPolicy, defaults.BreakoutPolicy)
	c.PollBoundary = lo.CoalesceOrEmpty(c.PollBoundary, defaults.PollBoundary)
	c.PollOffset = lo.CoalesceOrEmpty(c.PollOffset, defaults.PollOffset)
	c.SettleDelay = lo.CoalesceOrEmpty(c.SettleDelay, defaults.SettleDelay)
	c.FetchTimeout = lo.CoalesceOrEmpty(c.FetchTimeout, defaults.FetchTimeout)
	c.StartupLookback = lo.CoalesceOrEmpty(c.StartupLookback, defaults.StartupLookback)
	c.DedupCapacity = lo.CoalesceOrEmpty(c.DedupCapacity, defaults.DedupCapacity)
	c.Timezone = lo.CoalesceOrEmpty(c.Timezone, defaults.Timezone)
	return c
}

// Key 规范化后的监控键
func (c Config) Key() Key {
	instrument := strings.ToUpper(strings.TrimSpace(c.Instrument))
	if parsed, err := market.ParseInstrument(c.Instrument); err == nil {
		instrument = parsed.String()
	}
	return Key{
		Instrument: instrument,
		Strategy:   c.Strategy,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// resolved 校验通过后的运行参数
type resolved struct {
	cfg        Config
	instrument market.Instrument
	strategy   strategy.Strategy
	scheduler  schedule.Scheduler
}

func (c Config) resolve() (resolved, error) {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := lo.Map(verrs, func(fe validator.FieldError, _ int) string {
				return fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag())
			})
			return resolved{}, fmt.Errorf("%w: %s", ErrConfiguration, strings.Join(msgs, "; "))
		}
		return resolved{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	inst, err := market.ParseInstrument(c.Instrument)
	if err != nil {
		return resolved{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	c.Instrument = inst.String()

	if c.FetchTimeout <= 0 || c.FetchTimeout > MaxFetchTimeout {
		return resolved{}, fmt.Errorf("%w: fetch timeout %s must be within (0, %s]", ErrConfiguration, c.FetchTimeout, MaxFetchTimeout)
	}
	if c.LookbackDays <= 0 {
		return resolved{}, fmt.Errorf("%w: lookback days must be positive", ErrConfiguration)
	}

	sg, err := strategy.New(c.Strategy, c.Params)
	if err != nil {
		return resolved{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return resolved{}, fmt.Errorf("%w: timezone: %w", ErrConfiguration, err)
	}
	sched, err := schedule.New(c.PollBoundary, c.PollOffset, c.SettleDelay, loc)
	if err != nil {
		return resolved{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	c.Params = sg.Params()
	return resolved{cfg: c, instrument: inst, strategy: sg, scheduler: sched}, nil
}
