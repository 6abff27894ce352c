package ioc

import (
	"context"

	"github.com/google/generative-ai-go/genai"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/llm"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/llm/gemini"
	"github.com/spf13/viper"
	"google.golang.org/api/option"
)

type llmConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	ApiKey  []string `mapstructure:"api_key"`
	Model   string   `mapstructure:"model"`

	// 点评只有两句话, 限制输出长度
	MaxTokens int32 `mapstructure:"max_tokens"`
}

const defaultCommentaryTokens = 256

func InitGeminiCli(cfg llmConfig) *genai.Client {
	if len(cfg.ApiKey) == 0 {
		panic("no gemini api key set")
	}

	cli, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.ApiKey[0]))
	if err != nil {
		panic(err)
	}
	return cli
}

// InitLLM 未启用时返回 nil
func InitLLM() llm.Service {
	var cfg llmConfig
	if err := viper.UnmarshalKey("notification.llm", &cfg); err != nil {
		panic(err)
	}
	if !cfg.Enabled {
		return nil
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultCommentaryTokens
	}
	return gemini.NewService(InitGeminiCli(cfg),
		gemini.WithModel(cfg.Model),
		gemini.WithTemperature(0.3),
		gemini.WithMaxOutputTokens(cfg.MaxTokens),
	)
}
