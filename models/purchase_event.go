package models

import "time"

const (
	EventTypePurchaseCompleted = "purchase_completed"

	MetadataProductID = "productId"
)

// PurchaseEvent is published after a completed checkout has been handled.
type PurchaseEvent struct {
	Type          string    `json:"type"`
	EventID       string    `json:"event_id"`   // provider event id
	SessionID     string    `json:"session_id"` // checkout session id
	ProductID     string    `json:"product_id"`
	CustomerEmail string    `json:"customer_email"`
	Amount        int64     `json:"amount"`   // smallest currency unit
	Currency      string    `json:"currency"` // "usd"
	EmailSent     bool      `json:"email_sent"`
	Timestamp     time.Time `json:"timestamp"`
}
