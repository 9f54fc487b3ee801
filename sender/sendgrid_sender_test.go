package sender_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alanherrera2015-beep/examexperts/sender"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedMail struct {
	From struct {
		Email string `json:"email"`
	} `json:"from"`
	ReplyTo *struct {
		Email string `json:"email"`
	} `json:"reply_to"`
	Subject          string `json:"subject"`
	Personalizations []struct {
		To []struct {
			Email string `json:"email"`
		} `json:"to"`
	} `json:"personalizations"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

func TestSendGridSenderSends(t *testing.T) {
	var got capturedMail
	var auth, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("X-Message-Id", "msg-123")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s, err := sender.NewSendGridSenderWithHost("SG.test", srv.URL)
	require.NoError(t, err)

	res, err := s.SendEmail(context.Background(), sender.Message{
		From:    sender.Address{Email: "site@examexperts.example"},
		To:      sender.Address{Email: "owner@examexperts.example"},
		ReplyTo: &sender.Address{Email: "a@b.com"},
		Subject: "Contact form: Hi — A",
		Text:    "Name: A\nEmail: a@b.com\nSubject: Hi\n\ntest",
		HTML:    "<p>test</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "msg-123", res.MessageID)
	assert.Equal(t, "Bearer SG.test", auth)
	assert.Equal(t, "/v3/mail/send", path)
	assert.Equal(t, "site@examexperts.example", got.From.Email)
	require.NotNil(t, got.ReplyTo)
	assert.Equal(t, "a@b.com", got.ReplyTo.Email)
	assert.Equal(t, "Contact form: Hi — A", got.Subject)
	require.Len(t, got.Personalizations, 1)
	assert.Equal(t, "owner@examexperts.example", got.Personalizations[0].To[0].Email)
	require.Len(t, got.Content, 2)
	assert.Equal(t, "text/plain", got.Content[0].Type)
	assert.Equal(t, "Name: A\nEmail: a@b.com\nSubject: Hi\n\ntest", got.Content[0].Value)
	assert.Equal(t, "text/html", got.Content[1].Type)
	assert.Equal(t, "<p>test</p>", got.Content[1].Value)
}

func TestSendGridSenderProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"The provided authorization grant is invalid"}]}`))
	}))
	defer srv.Close()

	s, err := sender.NewSendGridSenderWithHost("SG.bad", srv.URL)
	require.NoError(t, err)

	_, err = s.SendEmail(context.Background(), sender.Message{
		From: sender.Address{Email: "site@examexperts.example"},
		To:   sender.Address{Email: "owner@examexperts.example"},
		HTML: "<p>x</p>",
	})
	assert.Error(t, err)
}

func TestSendGridSenderValidation(t *testing.T) {
	_, err := sender.NewSendGridSender("")
	assert.Error(t, err)

	s, err := sender.NewSendGridSender("SG.key")
	require.NoError(t, err)
	_, err = s.SendEmail(context.Background(), sender.Message{HTML: "x"})
	assert.ErrorContains(t, err, "missing recipient")
}
