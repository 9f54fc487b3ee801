package server

import (
	"context"
	"fmt"
	"io"

	"github.com/alanherrera2015-beep/examexperts/catalog"
	"github.com/alanherrera2015-beep/examexperts/config"
	"github.com/alanherrera2015-beep/examexperts/logger"
	aws_pkg "github.com/alanherrera2015-beep/examexperts/pkg/aws"
	"github.com/alanherrera2015-beep/examexperts/sender"
	"github.com/alanherrera2015-beep/examexperts/services"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Runtime is a fully wired process: configuration, logger and router.
type Runtime struct {
	Config *config.Config
	Logger *zap.Logger
	Router *gin.Engine
}

// Bootstrap loads configuration from the environment and wires every
// configured provider. Missing providers only disable the handlers using them.
func Bootstrap(ctx context.Context) (*Runtime, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var awsCfg *sdkaws.Config
	var awsErr error
	if needsAWS(cfg) {
		loaded, err := aws_pkg.LoadAWSConfig(ctx)
		if err != nil {
			awsErr = err
		} else {
			awsCfg = &loaded
		}
	}

	var sink io.Writer
	var sinkErr error
	if cfg.CloudWatchEnabled && awsCfg != nil {
		cw, err := aws_pkg.NewCloudWatchLogsClient(ctx, *awsCfg, cfg.CloudWatchLogGroup, aws_pkg.StreamName(ServiceName))
		if err != nil {
			sinkErr = err
		} else {
			sink = cw
		}
	}

	log, err := logger.New(cfg.Env, sink)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if awsErr != nil {
		log.Warn("AWS config unavailable, AWS integrations disabled", zap.Error(awsErr))
	}
	if sinkErr != nil {
		log.Warn("CloudWatch Logs unavailable, logging to stdout only", zap.Error(sinkErr))
	}

	if cfg.UseSecretsManager && awsCfg != nil {
		for _, err := range cfg.ApplySecrets(ctx, aws_pkg.NewSecretsClient(*awsCfg)) {
			log.Warn("Secret override skipped", zap.Error(err))
		}
	}

	cat, err := LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}

	deps, err := NewDependencies(cfg, cat, awsCfg, log)
	if err != nil {
		return nil, err
	}

	router, err := NewRouter(ctx, cfg, deps, log)
	if err != nil {
		return nil, err
	}

	log.Info("Functions configured",
		zap.String("route_prefix", cfg.RoutePrefix),
		zap.Int("products", cat.Len()),
		zap.Bool("contact_email", cfg.EmailConfigured() && deps.Email != nil),
		zap.Bool("recaptcha", deps.Verifier != nil),
		zap.Bool("checkout", deps.Stripe.CheckoutConfigured()),
		zap.Bool("webhook", deps.Stripe.WebhookConfigured()),
		zap.Bool("presigned_downloads", deps.Presigner != nil),
		zap.Bool("purchase_events", deps.SNS != nil),
	)

	return &Runtime{Config: cfg, Logger: log, Router: router}, nil
}

// LoadCatalog reads path, or the embedded catalog when path is empty.
func LoadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}

// NewDependencies builds provider clients for every configured integration.
// awsCfg may be nil, in which case AWS-backed features stay off.
func NewDependencies(cfg *config.Config, cat *catalog.Catalog, awsCfg *sdkaws.Config, log *zap.Logger) (Dependencies, error) {
	deps := Dependencies{
		Catalog: cat,
		Stripe:  services.NewStripeService(services.NewStripeAPI(cfg.StripeSecretKey, nil), cfg.StripeWebhookSecret),
	}

	if cfg.SendGridAPIKey != "" {
		sg, err := sender.NewSendGridSender(cfg.SendGridAPIKey)
		if err != nil {
			return deps, err
		}
		deps.Email = sg
	}

	if cfg.RecaptchaEnabled() {
		deps.Verifier = services.NewRecaptchaVerifier(cfg.RecaptchaSecret)
	}

	if awsCfg == nil {
		return deps, nil
	}

	if cfg.DownloadsBucket != "" {
		deps.Presigner = aws_pkg.NewDownloadPresigner(*awsCfg, cfg.DownloadsBucket, cfg.DownloadURLTTL)
	}
	if cfg.PurchaseSNSTopicARN != "" {
		deps.SNS = aws_pkg.NewSNSClient(*awsCfg)
	}
	if cfg.CloudWatchEnabled {
		deps.Metrics = aws_pkg.NewMetricsClient(*awsCfg, cfg.CloudWatchNamespace)
	}

	log.Debug("AWS integrations wired", zap.String("region", awsCfg.Region))
	return deps, nil
}

func needsAWS(cfg *config.Config) bool {
	return cfg.UseSecretsManager ||
		cfg.CloudWatchEnabled ||
		cfg.DownloadsBucket != "" ||
		cfg.PurchaseSNSTopicARN != ""
}
