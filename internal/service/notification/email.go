package notification

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/gomail.v2"
)

var _ Sink = (*EmailSink)(nil)

// Mailer gomail.Dialer 满足该接口
type Mailer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailConfig struct {
	Host         string   `mapstructure:"host" validate:"required"`
	Port         int      `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	Username     string   `mapstructure:"username"`
	Password     string   `mapstructure:"password"`
	From         string   `mapstructure:"from" validate:"required,email"`
	To           []string `mapstructure:"to" validate:"required,min=1,dive,email"`
	ToAdditional []string `mapstructure:"to_additional" validate:"dive,email"`
	SubjectTag   string   `mapstructure:"subject_tag"`
}

// Recipients to 与 to_additional 合并去重
func (c EmailConfig) Recipients() []string {
	all := lo.Map(append(append([]string{}, c.To...), c.ToAdditional...), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Uniq(lo.Compact(all))
}

type EmailSink struct {
	mailer     Mailer
	from       string
	to         []string
	subjectTag string
}

func NewEmailSink(mailer Mailer, cfg EmailConfig) *EmailSink {
	return &EmailSink{
		mailer:     mailer,
		from:       cfg.From,
		to:         cfg.Recipients(),
		subjectTag: cfg.SubjectTag,
	}
}

func (s *EmailSink) Name() string {
	return "email"
}

func (s *EmailSink) Send(ctx context.Context, ev Event) error {
	if len(s.to) == 0 {
		return fmt.Errorf("no email recipients configured")
	}
	msg, err := s.render(ev)
	if err != nil {
		return err
	}

	// gomail 不支持 ctx, 超时后直接返回, 发送协程自行结束
	done := make(chan error, 1)
	go func() {
		done <- s.mailer.DialAndSend(msg)
	}()
	select {
	case err = <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *EmailSink) render(ev Event) (*gomail.Message, error) {
	var html bytes.Buffer
	if err := emailTemplate.Execute(&html, ev); err != nil {
		return nil, fmt.Errorf("render email: %w", err)
	}

	subject := ev.Title
	if s.subjectTag != "" {
		subject = fmt.Sprintf("[%s] %s", s.subjectTag, subject)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainText(ev))
	m.AddAlternative("text/html", html.String())
	return m, nil
}

func plainText(ev Event) string {
	var b strings.Builder
	b.WriteString(ev.Title)
	b.WriteString("\n\n")
	b.WriteString(ev.Message)
	b.WriteString("\n")
	for _, f := range ev.Fields {
		fmt.Fprintf(&b, "%s: %s\n", f.Name, f.Value)
	}
	if ev.Commentary != "" {
		b.WriteString("\n")
		b.WriteString(ev.Commentary)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n%s\n", ev.Timestamp.Format("2006-01-02 15:04:05 MST"))
	return b.String()
}

var emailTemplate = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 16px; background: #f5f5f5;">
  <div style="max-width: 600px; margin: 0 auto; background: #ffffff; border-top: 6px solid {{.Color.Hex}}; padding: 16px;">
    <h2 style="color: {{.Color.Hex}}; margin-top: 0;">{{.Title}}</h2>
    <p>{{.Message}}</p>
    {{- if .Fields}}
    <table style="border-collapse: collapse; width: 100%;">
      {{- range .Fields}}
      <tr>
        <td style="padding: 4px 8px; border-bottom: 1px solid #eeeeee; font-weight: bold;">{{.Name}}</td>
        <td style="padding: 4px 8px; border-bottom: 1px solid #eeeeee;">{{.Value}}</td>
      </tr>
      {{- end}}
    </table>
    {{- end}}
    {{- if .Commentary}}
    <p style="color: #555555; font-style: italic;">{{.Commentary}}</p>
    {{- end}}
    <p style="color: #999999; font-size: 12px;">{{.Timestamp.Format "2006-01-02 15:04:05 MST"}}</p>
  </div>
</body>
</html>
`))
