package services

import (
	"context"
	"fmt"

	"github.com/alanherrera2015-beep/examexperts/apperrors"
	"github.com/alanherrera2015-beep/examexperts/models"
	aws_pkg "github.com/alanherrera2015-beep/examexperts/pkg/aws"
	"github.com/alanherrera2015-beep/examexperts/sender"
	"github.com/alanherrera2015-beep/examexperts/templates"

	"go.uber.org/zap"
)

// ContactService relays contact form submissions to the site owner.
type ContactService interface {
	Submit(ctx context.Context, sub models.ContactSubmission, remoteIP string) error
}

// ContactSettings holds the mailbox configuration for the contact mailer.
type ContactSettings struct {
	FromEmail string
	ToEmail   string
}

type contactServiceImpl struct {
	sender   sender.EmailSender
	verifier HumanVerifier
	settings ContactSettings
	metrics  MetricsRecorder
	logger   *zap.Logger
}

// NewContactService creates a ContactService. A nil emailSender means the email
// provider is not configured; a nil verifier disables human verification.
func NewContactService(
	emailSender sender.EmailSender,
	verifier HumanVerifier,
	settings ContactSettings,
	metrics MetricsRecorder,
	logger *zap.Logger,
) ContactService {
	return &contactServiceImpl{
		sender:   emailSender,
		verifier: verifier,
		settings: settings,
		metrics:  metrics,
		logger:   logger,
	}
}

// ContactSubject builds the subject line of a relayed message.
func ContactSubject(sub models.ContactSubmission) string {
	return fmt.Sprintf("Contact form: %s — %s", sub.Subject, sub.Name)
}

// ContactText is the plain-text part of a relayed message.
func ContactText(sub models.ContactSubmission) string {
	return fmt.Sprintf("Name: %s\nEmail: %s\nSubject: %s\n\n%s", sub.Name, sub.Email, sub.Subject, sub.Message)
}

func (s *contactServiceImpl) Submit(ctx context.Context, sub models.ContactSubmission, remoteIP string) error {
	sub.Normalize()
	if !sub.Complete() {
		return apperrors.InvalidInput("Missing required fields")
	}

	if s.verifier != nil {
		if sub.RecaptchaToken == "" {
			return apperrors.InvalidInput("Missing reCAPTCHA token")
		}
		result, err := s.verifier.Verify(ctx, sub.RecaptchaToken, remoteIP)
		if err != nil {
			s.logger.Error("reCAPTCHA verification request failed", zap.Error(err))
			return apperrors.Upstream("Verification service unavailable", err)
		}
		if !result.Passed() {
			fields := []zap.Field{zap.Bool("success", result.Success), zap.Strings("error_codes", result.ErrorCodes)}
			if result.Score != nil {
				fields = append(fields, zap.Float64("score", *result.Score))
			}
			s.logger.Warn("reCAPTCHA verification failed", fields...)
			recordCount(ctx, s.metrics, s.logger, aws_pkg.MetricContactVerificationFails, nil)
			return apperrors.VerificationFailed("reCAPTCHA verification failed")
		}
	}

	if s.sender == nil || s.settings.FromEmail == "" || s.settings.ToEmail == "" {
		s.logger.Error("Email service not configured",
			zap.Bool("api_key", s.sender != nil),
			zap.Bool("from", s.settings.FromEmail != ""),
			zap.Bool("to", s.settings.ToEmail != ""),
		)
		return apperrors.ServiceUnavailable("Email service not configured")
	}

	body, err := templates.RenderContact(templates.ContactData{
		Name:    sub.Name,
		Email:   sub.Email,
		Subject: sub.Subject,
		Message: sub.Message,
	})
	if err != nil {
		s.logger.Error("Failed to render contact email", zap.Error(err))
		return apperrors.Upstream("Internal server error", err)
	}

	res, err := s.sender.SendEmail(ctx, sender.Message{
		From:    sender.Address{Email: s.settings.FromEmail},
		To:      sender.Address{Email: s.settings.ToEmail},
		ReplyTo: &sender.Address{Name: sub.Name, Email: sub.Email},
		Subject: ContactSubject(sub),
		Text:    ContactText(sub),
		HTML:    body,
	})
	if err != nil {
		s.logger.Error("Failed to send contact email", zap.Error(err))
		return apperrors.Upstream("Failed to send message", err)
	}

	s.logger.Info("Contact message sent", zap.String("message_id", res.MessageID))
	recordCount(ctx, s.metrics, s.logger, aws_pkg.MetricContactMessagesSent, nil)
	return nil
}
