package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gopinath0332-del/zerodha-alog/internal/web"
	"github.com/gopinath0332-del/zerodha-alog/ioc"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func initViper() {

	// --config=./config/xxx.yaml
	file := pflag.String("config", "./config/config.dev.yaml", "specify config file")
	pflag.Parse()

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
	viper.SetDefault("db.dsn", "alog.db")
	viper.SetDefault("provider.kind", "binance")
	viper.SetDefault("http.addr", ":8080")
	viper.SetDefault("notification.timeout", "10s")

	viper.SetConfigFile(*file)
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %s \n", err))
	}

}

func main() {
	initViper()
	ioc.InitLogger()

	db := ioc.InitDB()
	mt := ioc.InitMetrics()
	provider := ioc.InitProvider()
	dispatcher := ioc.InitDispatcher(mt)
	registry := ioc.InitRegistry(db, provider, dispatcher, mt)

	ioc.StartConfiguredMonitors(registry)

	srv := web.NewServer(viper.GetString("http.addr"), web.NewHandler(registry, dispatcher, mt.Handler()))
	go func() {
		slog.Info("control surface listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown", "error", err)
	}
	if err := registry.StopAll(shutdownCtx); err != nil {
		slog.Error("monitors did not stop in time", "error", err)
		os.Exit(1)
	}
}
