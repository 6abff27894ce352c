package llm

import (
	"context"
	"io"
)

type Question struct {
	Content string
	Files   []io.Reader
}

type Answer struct {
	Content     string
	InputToken  int
	OutputToken int
}

// Service 大模型服务, 目前只用于给告警附加点评
type Service interface {
	AskOnce(ctx context.Context, q Question) (Answer, error)
}
