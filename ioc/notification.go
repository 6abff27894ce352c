package ioc

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gopinath0332-del/zerodha-alog/internal/metrics"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/notification"
	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

func InitDispatcher(mt *metrics.Metrics) *notification.Dispatcher {
	type Config struct {
		Timeout time.Duration `mapstructure:"timeout"`
		Console bool          `mapstructure:"console"`
		Email   struct {
			Enabled                  bool `mapstructure:"enabled"`
			notification.EmailConfig `mapstructure:",squash"`
		} `mapstructure:"email"`
		Webhook struct {
			Enabled                    bool `mapstructure:"enabled"`
			notification.WebhookConfig `mapstructure:",squash"`
		} `mapstructure:"webhook"`
		Audio struct {
			Enabled                  bool `mapstructure:"enabled"`
			notification.AudioConfig `mapstructure:",squash"`
		} `mapstructure:"audio"`
	}

	var cfg Config
	if err := viper.UnmarshalKey("notification", &cfg); err != nil {
		panic(err)
	}
	validate := validator.New()

	var sinks []notification.Sink
	if cfg.Email.Enabled {
		if err := validate.Struct(cfg.Email.EmailConfig); err != nil {
			panic(err)
		}
		dialer := gomail.NewDialer(cfg.Email.Host, cfg.Email.Port, cfg.Email.Username, cfg.Email.Password)
		sinks = append(sinks, notification.NewEmailSink(dialer, cfg.Email.EmailConfig))
	}
	if cfg.Webhook.Enabled {
		if err := validate.Struct(cfg.Webhook.WebhookConfig); err != nil {
			panic(err)
		}
		sinks = append(sinks, notification.NewWebhookSink(cfg.Webhook.WebhookConfig, &http.Client{Timeout: cfg.Timeout}))
	}
	if cfg.Audio.Enabled {
		if err := validate.Struct(cfg.Audio.AudioConfig); err != nil {
			panic(err)
		}
		sinks = append(sinks, notification.NewAudioSink(cfg.Audio.AudioConfig, nil))
	}
	if cfg.Console || len(sinks) == 0 {
		sinks = append(sinks, notification.NewConsoleSink(slog.Default()))
	}

	opts := []notification.Option{
		notification.WithTimeout(cfg.Timeout),
		notification.WithObserver(func(res notification.Result) {
			result := metrics.ResultOK
			if !res.OK() {
				result = metrics.ResultFailed
			}
			mt.DeliveriesTotal.WithLabelValues(res.Sink, result).Inc()
			mt.DeliveryDuration.WithLabelValues(res.Sink).Observe(res.Duration.Seconds())
		}),
	}
	if svc := InitLLM(); svc != nil {
		opts = append(opts, notification.WithEnricher(notification.NewLLMCommentary(svc)))
	}

	d := notification.NewDispatcher(sinks, opts...)
	slog.Info("notification sinks configured", "sinks", d.SinkNames())
	return d
}
