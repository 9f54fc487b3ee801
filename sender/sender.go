package sender

import (
	"context"
	"time"
)

type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Address is a mailbox with an optional display name.
type Address struct {
	Name  string
	Email string
}

// Message is a single outbound email with one recipient.
type Message struct {
	From    Address
	To      Address
	ReplyTo *Address
	Subject string
	HTML    string
	Text    string
}

type EmailSender interface {
	SendEmail(ctx context.Context, msg Message) (SendResult, error)
}
