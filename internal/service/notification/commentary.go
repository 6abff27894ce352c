package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/gopinath0332-del/zerodha-alog/internal/service/llm"
)

var _ Enricher = (*LLMCommentary)(nil)

// LLMCommentary 让大模型对信号写一句简短点评
type LLMCommentary struct {
	llmSvc llm.Service
}

func NewLLMCommentary(llmSvc llm.Service) *LLMCommentary {
	return &LLMCommentary{llmSvc: llmSvc}
}

func (c *LLMCommentary) Enrich(ctx context.Context, ev Event) (Event, error) {
	var fields strings.Builder
	for _, f := range ev.Fields {
		fmt.Fprintf(&fields, "- %s: %s\n", f.Name, f.Value)
	}
	prompt := fmt.Sprintf("A technical-analysis alert fired for %s using the %s strategy.\n"+
		"Signal: %s\nDetails: %s\n%s"+
		"Reply with at most two plain sentences of context a trader should consider. "+
		"Do not give financial advice and do not use markdown.",
		ev.Instrument, ev.Strategy, ev.SignalKind, ev.Message, fields.String())

	answer, err := c.llmSvc.AskOnce(ctx, llm.Question{Content: prompt})
	if err != nil {
		return ev, err
	}
	ev.Commentary = strings.TrimSpace(answer.Content)
	return ev, nil
}
