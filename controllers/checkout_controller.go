package controllers

import (
	"net/http"

	"github.com/alanherrera2015-beep/examexperts/apperrors"
	"github.com/alanherrera2015-beep/examexperts/models"
	"github.com/alanherrera2015-beep/examexperts/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CheckoutController opens hosted checkout sessions.
type CheckoutController struct {
	checkoutService services.CheckoutService
	logger          *zap.Logger
}

func NewCheckoutController(svc services.CheckoutService, logger *zap.Logger) *CheckoutController {
	return &CheckoutController{checkoutService: svc, logger: logger}
}

// CreateCheckout handles POST /create-checkout
func (cc *CheckoutController) CreateCheckout(ctx *gin.Context) {
	var req models.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		cc.logger.Debug("Invalid checkout body", zap.Error(err))
		cc.respondError(ctx, apperrors.InvalidInput("Invalid product"))
		return
	}

	session, err := cc.checkoutService.CreateSession(ctx.Request.Context(), req.ProductID)
	if err != nil {
		cc.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"url": session.URL})
}

// MethodNotAllowed answers every non-POST request to /create-checkout.
func (cc *CheckoutController) MethodNotAllowed(ctx *gin.Context) {
	ctx.Header("Allow", http.MethodPost)
	cc.respondError(ctx, apperrors.MethodNotAllowed("Method not allowed"))
}

// respondError writes the checkout error shape. Provider failures keep the
// provider's message in a separate field.
func (cc *CheckoutController) respondError(ctx *gin.Context, err error) {
	appErr := apperrors.As(err)
	if appErr.Kind == apperrors.KindUpstream {
		ctx.JSON(appErr.Code, gin.H{"error": "Failed to create checkout session", "message": appErr.Message})
		return
	}
	ctx.JSON(appErr.Code, gin.H{"error": appErr.Message})
}
