package notification

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/samber/lo"
)

var _ Sink = (*WebhookSink)(nil)

type WebhookConfig struct {
	URL      string `mapstructure:"url" validate:"required,url"`
	Username string `mapstructure:"username"`
}

// WebhookSink Discord 风格的 embed 消息
type WebhookSink struct {
	url      string
	username string
	client   *http.Client
}

func NewWebhookSink(cfg WebhookConfig, client *http.Client) *WebhookSink {
	if client == nil {
		client = http.DefaultClient
	}
	return &WebhookSink{url: cfg.URL, username: cfg.Username, client: client}
}

func (s *WebhookSink) Name() string {
	return "webhook"
}

type webhookPayload struct {
	Username string         `json:"username,omitempty"`
	Embeds   []webhookEmbed `json:"embeds"`
}

type webhookEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Color       int            `json:"color"`
	Timestamp   string         `json:"timestamp"`
	Fields      []webhookField `json:"fields,omitempty"`
}

type webhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

func buildPayload(username string, ev Event) webhookPayload {
	desc := ev.Message
	if ev.Commentary != "" {
		desc = desc + "\n\n" + ev.Commentary
	}
	return webhookPayload{
		Username: username,
		Embeds: []webhookEmbed{{
			Title:       ev.Title,
			Description: desc,
			Color:       int(ev.Color),
			Timestamp:   ev.Timestamp.UTC().Format(time.RFC3339),
			Fields: lo.Map(ev.Fields, func(f Field, _ int) webhookField {
				return webhookField{Name: f.Name, Value: f.Value, Inline: true}
			}),
		}},
	}
}

func (s *WebhookSink) Send(ctx context.Context, ev Event) error {
	body, err := json.Marshal(buildPayload(s.username, ev))
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}
