package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alanherrera2015-beep/examexperts/apperrors"
	"github.com/alanherrera2015-beep/examexperts/catalog"
	"github.com/alanherrera2015-beep/examexperts/models"
	aws_pkg "github.com/alanherrera2015-beep/examexperts/pkg/aws"
	"github.com/alanherrera2015-beep/examexperts/sender"
	"github.com/alanherrera2015-beep/examexperts/templates"

	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

// WebhookVerifier authenticates and decodes a signed payment event. *StripeService satisfies it.
type WebhookVerifier interface {
	ParseWebhook(payload []byte, sigHeader string) (stripe.Event, error)
}

// WebhookOutcome is the terminal state of an acknowledged event.
type WebhookOutcome string

const (
	OutcomeIgnored              WebhookOutcome = "ignored"
	OutcomeFulfilled            WebhookOutcome = "fulfilled"
	OutcomeFulfillmentEmailFail WebhookOutcome = "fulfillment_email_failed"
)

var (
	errNoCustomerEmail = errors.New("session has no customer email")
	errNoEmailSender   = errors.New("email provider not configured")
)

// FulfillmentService handles payment provider webhooks.
type FulfillmentService interface {
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) (WebhookOutcome, error)
}

// FulfillmentSettings configures purchase emails and event publishing.
type FulfillmentSettings struct {
	FromEmail    string
	SupportEmail string
	SNSTopicArn  string
}

type fulfillmentServiceImpl struct {
	verifier  WebhookVerifier
	catalog   *catalog.Catalog
	sender    sender.EmailSender
	links     DownloadLinker
	snsClient aws_pkg.SNSPublisher
	settings  FulfillmentSettings
	metrics   MetricsRecorder
	logger    *zap.Logger
}

// NewFulfillmentService creates a FulfillmentService. A nil verifier means the
// webhook secret is missing; a nil emailSender makes every fulfillment email fail.
func NewFulfillmentService(
	verifier WebhookVerifier,
	cat *catalog.Catalog,
	emailSender sender.EmailSender,
	links DownloadLinker,
	snsClient aws_pkg.SNSPublisher,
	settings FulfillmentSettings,
	metrics MetricsRecorder,
	logger *zap.Logger,
) FulfillmentService {
	return &fulfillmentServiceImpl{
		verifier:  verifier,
		catalog:   cat,
		sender:    emailSender,
		links:     links,
		snsClient: snsClient,
		settings:  settings,
		metrics:   metrics,
		logger:    logger,
	}
}

// PurchaseSubject builds the subject line of a fulfillment email.
func PurchaseSubject(p catalog.Product) string {
	return "Your Purchase: " + p.Name
}

// HandleWebhook verifies the event and fulfills completed checkout sessions.
// Once the signature and session decode succeed the event is acknowledged, even
// if the fulfillment email cannot be sent. Replays are fulfilled again.
func (s *fulfillmentServiceImpl) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) (WebhookOutcome, error) {
	if s.verifier == nil {
		s.logger.Error("Webhook secret not configured")
		return "", apperrors.ServiceUnavailable("Webhook not configured")
	}

	event, err := s.verifier.ParseWebhook(payload, sigHeader)
	if err != nil {
		s.logger.Warn("Webhook signature verification failed", zap.Error(err))
		recordCount(ctx, s.metrics, s.logger, aws_pkg.MetricWebhookSignatureInvalid, nil)
		return "", apperrors.InvalidSignature(err)
	}

	log := s.logger.With(zap.String("event_id", event.ID), zap.String("event_type", string(event.Type)))

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		log.Info("Ignoring webhook event")
		return OutcomeIgnored, nil
	}

	var session stripe.CheckoutSession
	if event.Data == nil || len(event.Data.Raw) == 0 {
		log.Warn("Webhook event has no data")
		return "", apperrors.InvalidInput("Invalid event payload")
	}
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		log.Warn("Failed to decode checkout session", zap.Error(err))
		return "", apperrors.InvalidInput("Invalid event payload")
	}

	productID := session.Metadata[models.MetadataProductID]
	product, ok := s.catalog.Lookup(productID)
	if !ok {
		log.Error("Completed session references a product missing from the catalog",
			zap.String("session_id", session.ID),
			zap.String("product_id", productID),
		)
		return "", apperrors.InvalidInput("Invalid product")
	}

	email := customerEmail(&session)
	outcome := OutcomeFulfilled
	if err := s.sendFulfillment(ctx, product, email); err != nil {
		outcome = OutcomeFulfillmentEmailFail
		log.Error("Failed to send fulfillment email",
			zap.String("session_id", session.ID),
			zap.String("product_id", product.ID),
			zap.Error(err),
		)
		recordCount(ctx, s.metrics, s.logger, aws_pkg.MetricFulfillmentEmailFailed, map[string]string{"Product": product.ID})
	} else {
		log.Info("Purchase fulfilled",
			zap.String("session_id", session.ID),
			zap.String("product_id", product.ID),
		)
		recordCount(ctx, s.metrics, s.logger, aws_pkg.MetricPurchasesFulfilled, map[string]string{"Product": product.ID})
	}

	s.publishEvent(ctx, models.PurchaseEvent{
		Type:          models.EventTypePurchaseCompleted,
		EventID:       event.ID,
		SessionID:     session.ID,
		ProductID:     product.ID,
		CustomerEmail: email,
		Amount:        session.AmountTotal,
		Currency:      string(session.Currency),
		EmailSent:     outcome == OutcomeFulfilled,
		Timestamp:     time.Now().UTC(),
	})

	return outcome, nil
}

func (s *fulfillmentServiceImpl) sendFulfillment(ctx context.Context, product catalog.Product, to string) error {
	if to == "" {
		return errNoCustomerEmail
	}
	if s.sender == nil {
		return errNoEmailSender
	}

	link, err := s.links.Resolve(ctx, product)
	if err != nil {
		return fmt.Errorf("resolve download link: %w", err)
	}

	data := templates.PurchaseData{
		ProductName:  product.Name,
		DownloadURL:  link.URL,
		SupportEmail: s.settings.SupportEmail,
	}
	if link.ExpiresIn > 0 {
		data.ExpiresIn = link.ExpiresIn.String()
	}
	body, err := templates.RenderPurchase(data)
	if err != nil {
		return err
	}

	_, err = s.sender.SendEmail(ctx, sender.Message{
		From:    sender.Address{Email: s.settings.FromEmail},
		To:      sender.Address{Email: to},
		Subject: PurchaseSubject(product),
		HTML:    body,
	})
	return err
}

// publishEvent marshals an event and publishes it to SNS (non-fatal on error).
func (s *fulfillmentServiceImpl) publishEvent(ctx context.Context, event interface{}) {
	if s.snsClient == nil || s.settings.SNSTopicArn == "" {
		return
	}
	b, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal SNS event", zap.Error(err))
		return
	}
	if err := s.snsClient.Publish(ctx, s.settings.SNSTopicArn, b); err != nil {
		s.logger.Error("Failed to publish SNS event", zap.Error(err))
		return
	}
	s.logger.Info("Published SNS event", zap.String("topic", s.settings.SNSTopicArn))
}

func customerEmail(session *stripe.CheckoutSession) string {
	if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
		return session.CustomerDetails.Email
	}
	return session.CustomerEmail
}
