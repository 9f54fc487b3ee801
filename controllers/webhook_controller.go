package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/alanherrera2015-beep/examexperts/apperrors"
	"github.com/alanherrera2015-beep/examexperts/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MaxWebhookBodyBytes caps the payload read before signature verification.
// Completed sessions with expanded line items and custom fields stay well
// under it.
const MaxWebhookBodyBytes = 1 << 20

const stripeSignatureHeader = "Stripe-Signature"

// WebhookController receives payment provider events.
type WebhookController struct {
	fulfillmentService services.FulfillmentService
	logger             *zap.Logger
}

func NewWebhookController(svc services.FulfillmentService, logger *zap.Logger) *WebhookController {
	return &WebhookController{fulfillmentService: svc, logger: logger}
}

// StripeWebhook handles POST /stripe-webhook
func (wc *WebhookController) StripeWebhook(ctx *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(ctx.Writer, ctx.Request.Body, MaxWebhookBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			wc.respondError(ctx, apperrors.InvalidInput("Payload too large"))
			return
		}
		wc.respondError(ctx, apperrors.InvalidInput("Failed to read request body"))
		return
	}

	outcome, err := wc.fulfillmentService.HandleWebhook(ctx.Request.Context(), payload, ctx.GetHeader(stripeSignatureHeader))
	if err != nil {
		wc.respondError(ctx, err)
		return
	}

	wc.logger.Debug("Webhook acknowledged", zap.String("outcome", string(outcome)))
	ctx.JSON(http.StatusOK, gin.H{"received": true})
}

// MethodNotAllowed answers every non-POST request to /stripe-webhook.
func (wc *WebhookController) MethodNotAllowed(ctx *gin.Context) {
	ctx.Header("Allow", http.MethodPost)
	wc.respondError(ctx, apperrors.MethodNotAllowed("Method not allowed"))
}

func (wc *WebhookController) respondError(ctx *gin.Context, err error) {
	appErr := apperrors.As(err)
	ctx.JSON(appErr.Code, gin.H{"error": appErr.Message})
}
