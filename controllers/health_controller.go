package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const serviceName = "examexperts-functions"

// Health handles GET /health
func Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "healthy", "service": serviceName})
}
