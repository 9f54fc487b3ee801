package routes

import (
	"net/http"

	"github.com/alanherrera2015-beep/examexperts/controllers"

	"github.com/gin-gonic/gin"
)

// Handlers groups the controllers mounted under the function prefix.
type Handlers struct {
	Contact  *controllers.ContactController
	Checkout *controllers.CheckoutController
	Webhook  *controllers.WebhookController
}

// nonPost lists the methods answered with 405 on every function route.
var nonPost = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

// RegisterFunctionRoutes mounts contact, create-checkout and stripe-webhook under
// prefix. formLimit guards the two browser-facing forms; the webhook is
// authenticated by signature instead.
func RegisterFunctionRoutes(r *gin.Engine, prefix string, h Handlers, formLimit gin.HandlerFunc) {
	r.GET("/health", controllers.Health)

	fn := r.Group(prefix)

	fn.POST("/contact", formLimit, h.Contact.Submit)
	fn.Match(nonPost, "/contact", h.Contact.MethodNotAllowed)

	fn.POST("/create-checkout", formLimit, h.Checkout.CreateCheckout)
	fn.Match(nonPost, "/create-checkout", h.Checkout.MethodNotAllowed)

	fn.POST("/stripe-webhook", h.Webhook.StripeWebhook)
	fn.Match(nonPost, "/stripe-webhook", h.Webhook.MethodNotAllowed)
}
