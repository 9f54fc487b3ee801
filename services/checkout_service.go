package services

import (
	"context"
	"net/url"

	"github.com/alanherrera2015-beep/examexperts/apperrors"
	"github.com/alanherrera2015-beep/examexperts/catalog"
	"github.com/alanherrera2015-beep/examexperts/models"
	aws_pkg "github.com/alanherrera2015-beep/examexperts/pkg/aws"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutProvider opens hosted checkout sessions. *StripeService satisfies it.
type CheckoutProvider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*models.CheckoutSession, error)
}

// CheckoutService turns a product id into a hosted checkout session.
type CheckoutService interface {
	CreateSession(ctx context.Context, productID string) (*models.CheckoutSession, error)
}

type checkoutServiceImpl struct {
	catalog  *catalog.Catalog
	provider CheckoutProvider
	siteURL  string
	metrics  MetricsRecorder
	logger   *zap.Logger
}

// NewCheckoutService creates a CheckoutService. A nil provider means payments
// are not configured.
func NewCheckoutService(
	cat *catalog.Catalog,
	provider CheckoutProvider,
	siteURL string,
	metrics MetricsRecorder,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		catalog:  cat,
		provider: provider,
		siteURL:  siteURL,
		metrics:  metrics,
		logger:   logger,
	}
}

// SuccessURL is where the buyer lands after paying for productID.
func SuccessURL(siteURL, productID string) string {
	return siteURL + "?success=true&product=" + url.QueryEscape(productID)
}

// CancelURL is where the buyer lands after abandoning checkout.
func CancelURL(siteURL string) string {
	return siteURL + "?canceled=true"
}

func (s *checkoutServiceImpl) CreateSession(ctx context.Context, productID string) (*models.CheckoutSession, error) {
	product, ok := s.catalog.Lookup(productID)
	if !ok {
		s.logger.Info("Checkout requested for unknown product", zap.String("product_id", productID))
		return nil, apperrors.InvalidInput("Invalid product")
	}

	if s.provider == nil {
		s.logger.Error("Payment provider not configured")
		return nil, apperrors.ServiceUnavailable("Payment service not configured")
	}

	session, err := s.provider.CreateCheckoutSession(ctx, CheckoutSessionRequest{
		Product:        product,
		Currency:       s.catalog.Currency(),
		SuccessURL:     SuccessURL(s.siteURL, product.ID),
		CancelURL:      CancelURL(s.siteURL),
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		s.logger.Error("Failed to create checkout session",
			zap.String("product_id", product.ID),
			zap.Error(err),
		)
		recordCount(ctx, s.metrics, s.logger, aws_pkg.MetricCheckoutFailed, map[string]string{"Product": product.ID})
		return nil, apperrors.Upstream(ProviderMessage(err), err)
	}

	if session.ProductID == "" {
		session.ProductID = product.ID
	}

	s.logger.Info("Checkout session created",
		zap.String("session_id", session.ID),
		zap.String("product_id", product.ID),
	)
	recordCount(ctx, s.metrics, s.logger, aws_pkg.MetricCheckoutSessionsCreated, map[string]string{"Product": product.ID})
	return session, nil
}
