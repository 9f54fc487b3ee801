package sender

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendGridHost     = "https://api.sendgrid.com"
	sendGridEndpoint = "/v3/mail/send"
)

// SendGridSender delivers mail through the SendGrid v3 Mail Send API.
type SendGridSender struct {
	apiKey string
	host   string
}

func NewSendGridSender(apiKey string) (*SendGridSender, error) {
	return NewSendGridSenderWithHost(apiKey, sendGridHost)
}

// NewSendGridSenderWithHost targets a different API host (mock servers, EU region).
func NewSendGridSenderWithHost(apiKey, host string) (*SendGridSender, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("SENDGRID_API_KEY not set")
	}
	return &SendGridSender{apiKey: apiKey, host: host}, nil
}

func (s *SendGridSender) SendEmail(ctx context.Context, msg Message) (SendResult, error) {
	if msg.To.Email == "" {
		return SendResult{}, fmt.Errorf("missing recipient")
	}

	request := sendgrid.GetRequest(s.apiKey, sendGridEndpoint, s.host)
	request.Method = rest.Post
	request.Body = mail.GetRequestBody(buildMail(msg))

	resp, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return SendResult{}, fmt.Errorf("sendgrid request failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return SendResult{}, fmt.Errorf("sendgrid error %d: %s", resp.StatusCode, resp.Body)
	}

	messageID := fmt.Sprintf("sendgrid-%d", time.Now().UnixNano())
	if ids := resp.Headers["X-Message-Id"]; len(ids) > 0 && ids[0] != "" {
		messageID = ids[0]
	}
	return SendResult{MessageID: messageID, SentAt: time.Now()}, nil
}

func buildMail(msg Message) *mail.SGMailV3 {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(msg.From.Name, msg.From.Email))
	m.Subject = msg.Subject

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(msg.To.Name, msg.To.Email))
	m.AddPersonalizations(p)

	if msg.ReplyTo != nil && msg.ReplyTo.Email != "" {
		m.SetReplyTo(mail.NewEmail(msg.ReplyTo.Name, msg.ReplyTo.Email))
	}
	if msg.Text != "" {
		m.AddContent(mail.NewContent("text/plain", msg.Text))
	}
	if msg.HTML != "" {
		m.AddContent(mail.NewContent("text/html", msg.HTML))
	}
	return m
}
