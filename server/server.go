// Package server assembles the HTTP surface: the gin engine, its middleware and
// the three function handlers with their injected provider clients.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/alanherrera2015-beep/examexperts/catalog"
	"github.com/alanherrera2015-beep/examexperts/config"
	"github.com/alanherrera2015-beep/examexperts/controllers"
	"github.com/alanherrera2015-beep/examexperts/middleware"
	aws_pkg "github.com/alanherrera2015-beep/examexperts/pkg/aws"
	"github.com/alanherrera2015-beep/examexperts/routes"
	"github.com/alanherrera2015-beep/examexperts/sender"
	"github.com/alanherrera2015-beep/examexperts/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ServiceName    = "examexperts-functions"
	requestTimeout = 30 * time.Second
)

// Dependencies are the provider clients built at process start. Nil fields mean
// the provider is not configured and the dependent handler reports
// ServiceUnavailable.
type Dependencies struct {
	Catalog   *catalog.Catalog
	Email     sender.EmailSender
	Verifier  services.HumanVerifier
	Stripe    *services.StripeService
	Presigner services.Presigner
	SNS       aws_pkg.SNSPublisher
	Metrics   *aws_pkg.MetricsClient
}

// NewRouter builds the engine. The rate limiter janitor stops with ctx.
func NewRouter(ctx context.Context, cfg *config.Config, deps Dependencies, logger *zap.Logger) (*gin.Engine, error) {
	corsHandler, err := middleware.CORS(cfg.AllowedOrigins)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	// Forwarding headers are honored only from TRUSTED_PROXIES; by default the
	// client IP is the socket peer.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}
	r.Use(
		gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
			logger.Error("panic recovered", zap.Any("panic", recovered))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}),
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.MetricsMiddleware(deps.Metrics, ServiceName, logger),
		middleware.SecurityHeaders(),
		corsHandler,
		middleware.Timeout(requestTimeout),
	)

	limiter := middleware.NewRateLimiter(ctx, cfg.RateLimitPerMinute, cfg.RateLimitBurst, 5*time.Minute)

	routes.RegisterFunctionRoutes(r, cfg.RoutePrefix, routes.Handlers{
		Contact:  controllers.NewContactController(newContactService(cfg, deps, logger), logger),
		Checkout: controllers.NewCheckoutController(newCheckoutService(cfg, deps, logger), logger),
		Webhook:  controllers.NewWebhookController(newFulfillmentService(cfg, deps, logger), logger),
	}, middleware.RateLimitMiddleware(limiter))

	return r, nil
}

func newContactService(cfg *config.Config, deps Dependencies, logger *zap.Logger) services.ContactService {
	var emailSender sender.EmailSender
	if cfg.EmailConfigured() {
		emailSender = deps.Email
	}
	return services.NewContactService(
		emailSender,
		deps.Verifier,
		services.ContactSettings{FromEmail: cfg.FromEmail, ToEmail: cfg.ToEmail},
		metricsRecorder(deps.Metrics),
		logger.Named("contact"),
	)
}

func newCheckoutService(cfg *config.Config, deps Dependencies, logger *zap.Logger) services.CheckoutService {
	var provider services.CheckoutProvider
	if deps.Stripe.CheckoutConfigured() {
		provider = deps.Stripe
	}
	return services.NewCheckoutService(deps.Catalog, provider, cfg.SiteURL, metricsRecorder(deps.Metrics), logger.Named("checkout"))
}

func newFulfillmentService(cfg *config.Config, deps Dependencies, logger *zap.Logger) services.FulfillmentService {
	var verifier services.WebhookVerifier
	if deps.Stripe.WebhookConfigured() {
		verifier = deps.Stripe
	}
	return services.NewFulfillmentService(
		verifier,
		deps.Catalog,
		deps.Email,
		services.NewDownloadLinker(deps.Presigner, cfg.DownloadURLTTL),
		deps.SNS,
		services.FulfillmentSettings{
			FromEmail:    cfg.FulfillmentFrom(),
			SupportEmail: cfg.SupportEmail,
			SNSTopicArn:  cfg.PurchaseSNSTopicARN,
		},
		metricsRecorder(deps.Metrics),
		logger.Named("webhook"),
	)
}

func metricsRecorder(m *aws_pkg.MetricsClient) services.MetricsRecorder {
	if m == nil || !m.IsEnabled() {
		return nil
	}
	return m
}
