package notification

import (
	"context"
	"os/exec"
)

var _ Sink = (*AudioSink)(nil)

type AudioConfig struct {
	Player string   `mapstructure:"player" validate:"required"`
	Args   []string `mapstructure:"args"`
	// Sounds severity -> 音频文件
	Sounds map[Severity]string `mapstructure:"sounds"`
}

// Runner 执行外部播放器
type Runner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// AudioSink 按严重程度播放本地提示音
type AudioSink struct {
	player string
	args   []string
	sounds map[Severity]string
	run    Runner
}

func NewAudioSink(cfg AudioConfig, run Runner) *AudioSink {
	if run == nil {
		run = execRunner
	}
	return &AudioSink{player: cfg.Player, args: cfg.Args, sounds: cfg.Sounds, run: run}
}

func (s *AudioSink) Name() string {
	return "audio"
}

func (s *AudioSink) Send(ctx context.Context, ev Event) error {
	sound, ok := s.sounds[ev.Severity]
	if !ok || sound == "" {
		return nil
	}
	args := append(append([]string{}, s.args...), sound)
	return s.run(ctx, s.player, args...)
}
