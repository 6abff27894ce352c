package ioc

import (
	"fmt"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/market"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/market/binance"
	"github.com/spf13/viper"
)

// InitBinanceCli 只拉取公开K线, key 可以为空
func InitBinanceCli() *futures.Client {
	type Config struct {
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
	}

	var cfg Config
	if err := viper.UnmarshalKey("provider.binance", &cfg); err != nil {
		panic(err)
	}

	return futures.NewClient(cfg.ApiKey, cfg.ApiSecret)
}

func InitProvider() market.Provider {
	switch kind := viper.GetString("provider.kind"); kind {
	case "", "binance":
		return binance.NewProvider(InitBinanceCli())
	case "mock":
		return market.NewMockProvider()
	default:
		panic(fmt.Errorf("unknown provider kind %q", kind))
	}
}
