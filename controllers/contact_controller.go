package controllers

import (
	"net/http"

	"github.com/alanherrera2015-beep/examexperts/apperrors"
	"github.com/alanherrera2015-beep/examexperts/models"
	"github.com/alanherrera2015-beep/examexperts/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContactController handles the contact form endpoint.
type ContactController struct {
	contactService services.ContactService
	logger         *zap.Logger
}

func NewContactController(svc services.ContactService, logger *zap.Logger) *ContactController {
	return &ContactController{contactService: svc, logger: logger}
}

// Submit handles POST /contact
func (cc *ContactController) Submit(ctx *gin.Context) {
	var sub models.ContactSubmission
	if err := ctx.ShouldBindJSON(&sub); err != nil {
		cc.logger.Debug("Invalid contact body", zap.Error(err))
		cc.respondError(ctx, apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := cc.contactService.Submit(ctx.Request.Context(), sub, ctx.ClientIP()); err != nil {
		cc.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// MethodNotAllowed answers every non-POST request to /contact.
func (cc *ContactController) MethodNotAllowed(ctx *gin.Context) {
	ctx.Header("Allow", http.MethodPost)
	cc.respondError(ctx, apperrors.MethodNotAllowed("Method Not Allowed"))
}

func (cc *ContactController) respondError(ctx *gin.Context, err error) {
	appErr := apperrors.As(err)
	ctx.JSON(appErr.Code, gin.H{"success": false, "error": appErr.Message})
}
