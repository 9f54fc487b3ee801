package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/alanherrera2015-beep/examexperts/catalog"
	"github.com/alanherrera2015-beep/examexperts/models"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
	"github.com/stripe/stripe-go/v80/webhook"
)

var (
	ErrPaymentsNotConfigured = errors.New("stripe secret key not configured")
	ErrWebhookNotConfigured  = errors.New("stripe webhook secret not configured")
)

// CheckoutSessionRequest describes the hosted checkout session to open for one product.
type CheckoutSessionRequest struct {
	Product        catalog.Product
	Currency       string
	SuccessURL     string
	CancelURL      string
	IdempotencyKey string
}

// StripeService talks to Stripe through an injected API client. Either half
// may be unconfigured: a nil client disables checkout, an empty secret
// disables webhook verification.
type StripeService struct {
	api           *client.API
	webhookSecret string
}

func NewStripeService(api *client.API, webhookSecret string) *StripeService {
	return &StripeService{api: api, webhookSecret: webhookSecret}
}

// NewStripeAPI builds the Stripe client for secretKey, or nil when the key is empty.
func NewStripeAPI(secretKey string, backends *stripe.Backends) *client.API {
	if secretKey == "" {
		return nil
	}
	return client.New(secretKey, backends)
}

func (s *StripeService) CheckoutConfigured() bool {
	return s != nil && s.api != nil
}

func (s *StripeService) WebhookConfigured() bool {
	return s != nil && s.webhookSecret != ""
}

func (s *StripeService) CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*models.CheckoutSession, error) {
	if !s.CheckoutConfigured() {
		return nil, ErrPaymentsNotConfigured
	}

	params := NewCheckoutSessionParams(req)
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	return &models.CheckoutSession{
		ID:         sess.ID,
		URL:        sess.URL,
		ProductID:  sess.Metadata[models.MetadataProductID],
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	}, nil
}

// NewCheckoutSessionParams builds a one-item card payment session. The product
// id travels in metadata so the completed-session webhook can find it again.
func NewCheckoutSessionParams(req CheckoutSessionRequest) *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Product.Name),
					},
					UnitAmount: stripe.Int64(req.Product.Price),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	if req.Product.Description != "" {
		params.LineItems[0].PriceData.ProductData.Description = stripe.String(req.Product.Description)
	}
	params.AddMetadata(models.MetadataProductID, req.Product.ID)
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	return params
}

// ParseWebhook verifies the Stripe-Signature header against the raw payload and
// decodes the event. Events pinned to another API version are still accepted.
func (s *StripeService) ParseWebhook(payload []byte, sigHeader string) (stripe.Event, error) {
	if !s.WebhookConfigured() {
		return stripe.Event{}, ErrWebhookNotConfigured
	}
	return webhook.ConstructEventWithOptions(payload, sigHeader, s.webhookSecret, webhook.ConstructEventOptions{
		Tolerance:                webhook.DefaultTolerance,
		IgnoreAPIVersionMismatch: true,
	})
}

// ProviderMessage extracts the human readable message from a Stripe error.
func ProviderMessage(err error) string {
	if err == nil {
		return ""
	}
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return stripeErr.Msg
	}
	return err.Error()
}
