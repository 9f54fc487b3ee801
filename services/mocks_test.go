package services_test

import (
	"context"
	"time"

	"github.com/alanherrera2015-beep/examexperts/models"
	"github.com/alanherrera2015-beep/examexperts/sender"
	"github.com/alanherrera2015-beep/examexperts/services"
)

// ---- mock email sender ----

type mockSender struct {
	sent    []sender.Message
	sendErr error
}

func (m *mockSender) SendEmail(_ context.Context, msg sender.Message) (sender.SendResult, error) {
	if m.sendErr != nil {
		return sender.SendResult{}, m.sendErr
	}
	m.sent = append(m.sent, msg)
	return sender.SendResult{MessageID: "msg-1", SentAt: time.Now()}, nil
}

// ---- mock human verifier ----

type mockVerifier struct {
	result *services.VerificationResult
	err    error
	calls  int
	token  string
}

func (m *mockVerifier) Verify(_ context.Context, token, _ string) (*services.VerificationResult, error) {
	m.calls++
	m.token = token
	return m.result, m.err
}

// ---- mock checkout provider ----

type mockProvider struct {
	session *models.CheckoutSession
	err     error
	calls   int
	last    services.CheckoutSessionRequest
}

func (m *mockProvider) CreateCheckoutSession(_ context.Context, req services.CheckoutSessionRequest) (*models.CheckoutSession, error) {
	m.calls++
	m.last = req
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

// ---- mock SNS publisher ----

type mockSNS struct {
	publishErr error
	messages   [][]byte
}

func (m *mockSNS) Publish(_ context.Context, _ string, message []byte) error {
	m.messages = append(m.messages, message)
	return m.publishErr
}

// ---- mock metrics ----

type mockMetrics struct {
	counts map[string]int
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{counts: map[string]int{}}
}

func (m *mockMetrics) RecordCount(_ context.Context, name string, _ map[string]string) error {
	m.counts[name]++
	return nil
}

// ---- mock presigner ----

type mockPresigner struct {
	url  string
	err  error
	keys []string
}

func (m *mockPresigner) PresignDownload(_ context.Context, key string) (string, error) {
	m.keys = append(m.keys, key)
	return m.url, m.err
}

func score(v float64) *float64 { return &v }
