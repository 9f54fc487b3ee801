package models

// CheckoutRequest is the body posted by a product's "Buy" button.
type CheckoutRequest struct {
	ProductID string `json:"productId"`
}

// CheckoutSession is the part of a hosted checkout session this service reads.
// The session itself is owned by the payment provider.
type CheckoutSession struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	ProductID  string `json:"productId"`
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
}
