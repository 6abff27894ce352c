package ioc

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gopinath0332-del/zerodha-alog/internal/metrics"
	"github.com/gopinath0332-del/zerodha-alog/internal/repo"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/market"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/monitor"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

func InitRegistry(db *gorm.DB, provider market.Provider, notifier monitor.Notifier, mt *metrics.Metrics) *monitor.Registry {
	defaults := monitor.DefaultConfig()
	if err := viper.UnmarshalKey("monitor", &defaults); err != nil {
		panic(err)
	}

	return monitor.NewRegistry(provider, notifier,
		monitor.WithDefaults(defaults),
		monitor.WithMonitorOptions(
			monitor.WithSignalRepo(repo.NewSignalRepo(db)),
			monitor.WithCheckpointRepo(repo.NewCheckpointRepo(db)),
			monitor.WithMetrics(mt),
		),
	)
}

// StartConfiguredMonitors 启动配置文件中的 monitors 列表, 单个失败不影响其他
func StartConfiguredMonitors(registry *monitor.Registry) {
	var cfgs []monitor.Config
	if err := viper.UnmarshalKey("monitors", &cfgs); err != nil {
		panic(err)
	}
	for _, cfg := range cfgs {
		if _, err := registry.Start(cfg); err != nil {
			level := slog.LevelError
			if errors.Is(err, monitor.ErrAlreadyRunning) {
				level = slog.LevelWarn
			}
			slog.Log(context.Background(), level, "failed to start configured monitor",
				"instrument", cfg.Instrument, "strategy", cfg.Strategy, "error", err)
		}
	}
}
