package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultSiteURL      = "https://examexperts.netlify.app"
	DefaultSupportEmail = "examexpertscontact@gmail.com"
)

// Config holds all configuration for the site functions. Provider settings are
// optional at load time; handlers that need a missing one report
// ServiceUnavailable instead of the process refusing to start.
type Config struct {
	Port        string
	Env         string
	RoutePrefix string
	SiteURL     string

	SendGridAPIKey string
	FromEmail      string
	ToEmail        string
	SupportEmail   string

	RecaptchaSecret string

	StripeSecretKey     string
	StripeWebhookSecret string

	CatalogFile     string
	DownloadsBucket string
	DownloadURLTTL  time.Duration

	PurchaseSNSTopicARN string
	CloudWatchEnabled   bool
	CloudWatchNamespace string
	CloudWatchLogGroup  string
	UseSecretsManager   bool
	SecretsPrefix       string

	AllowedOrigins     []string
	TrustedProxies     []string
	RateLimitPerMinute int
	RateLimitBurst     int
}

// LoadConfig reads configuration from the environment, loading a .env file
// first when one exists.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		RoutePrefix: getEnv("ROUTE_PREFIX", "/.netlify/functions"),
		SiteURL:     strings.TrimSuffix(getEnv("URL", DefaultSiteURL), "/"),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		FromEmail:      os.Getenv("FROM_EMAIL"),
		ToEmail:        os.Getenv("TO_EMAIL"),
		SupportEmail:   getEnv("SUPPORT_EMAIL", DefaultSupportEmail),

		RecaptchaSecret: os.Getenv("RECAPTCHA_SECRET"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		CatalogFile:     os.Getenv("CATALOG_FILE"),
		DownloadsBucket: os.Getenv("DOWNLOADS_BUCKET"),

		PurchaseSNSTopicARN: os.Getenv("PURCHASE_SNS_TOPIC_ARN"),
		CloudWatchEnabled:   os.Getenv("CLOUDWATCH_ENABLED") == "true",
		CloudWatchNamespace: os.Getenv("CLOUDWATCH_NAMESPACE"),
		CloudWatchLogGroup:  os.Getenv("CLOUDWATCH_LOG_GROUP"),
		UseSecretsManager:   os.Getenv("AWS_USE_SECRETS") == "true",
		SecretsPrefix:       getEnv("SECRETS_PREFIX", "examexperts/"),

		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		TrustedProxies: splitList(os.Getenv("TRUSTED_PROXIES")),
	}

	ttl, err := time.ParseDuration(getEnv("DOWNLOAD_URL_TTL", "72h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid DOWNLOAD_URL_TTL: %q", os.Getenv("DOWNLOAD_URL_TTL"))
	}
	cfg.DownloadURLTTL = ttl

	if cfg.RateLimitPerMinute, err = getEnvInt("RATE_LIMIT_PER_MINUTE", 20); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getEnvInt("RATE_LIMIT_BURST", 5); err != nil {
		return nil, err
	}

	if !strings.HasPrefix(cfg.RoutePrefix, "/") {
		cfg.RoutePrefix = "/" + cfg.RoutePrefix
	}
	cfg.RoutePrefix = strings.TrimSuffix(cfg.RoutePrefix, "/")

	return cfg, nil
}

// EmailConfigured reports whether every setting the contact mailer needs is present.
func (c *Config) EmailConfigured() bool {
	return c.SendGridAPIKey != "" && c.FromEmail != "" && c.ToEmail != ""
}

// FulfillmentFrom is the sender address for purchase emails.
func (c *Config) FulfillmentFrom() string {
	if c.FromEmail != "" {
		return c.FromEmail
	}
	return c.SupportEmail
}

func (c *Config) RecaptchaEnabled() bool {
	return c.RecaptchaSecret != ""
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// SecretGetter fetches a named secret string.
type SecretGetter interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// ApplySecrets overrides provider keys with values stored in Secrets Manager
// under SecretsPrefix. Missing secrets keep the environment value.
func (c *Config) ApplySecrets(ctx context.Context, sm SecretGetter) []error {
	targets := map[string]*string{
		"SENDGRID_API_KEY":      &c.SendGridAPIKey,
		"RECAPTCHA_SECRET":      &c.RecaptchaSecret,
		"STRIPE_SECRET_KEY":     &c.StripeSecretKey,
		"STRIPE_WEBHOOK_SECRET": &c.StripeWebhookSecret,
	}

	var errs []error
	for name, dst := range targets {
		v, err := sm.GetSecret(ctx, c.SecretsPrefix+name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if v != "" {
			*dst = v
		}
	}
	return errs
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(part), "/")); part != "" {
			out = append(out, part)
		}
	}
	return out
}
