package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/app/services"
	"github.com/yigit/learnhub/internal/middleware"
)

// SignatureHeader carries the gateway's webhook signature
const SignatureHeader = "stripe-signature"

// maxWebhookBody bounds the accepted webhook payload size
const maxWebhookBody = 64 << 10

// WebhookController receives payment gateway callbacks
type WebhookController struct {
	purchaseService services.PurchaseService
	logger          zerolog.Logger
}

// NewWebhookController creates a new WebhookController
func NewWebhookController(purchaseService services.PurchaseService, logger zerolog.Logger) *WebhookController {
	return &WebhookController{
		purchaseService: purchaseService,
		logger:          logger,
	}
}

// HandleStripeWebhook verifies and applies a gateway event
// @Summary Payment gateway webhook
// @Description Receives signed gateway events. The body is verified byte for byte against the stripe-signature header.
// @Tags webhook
// @Accept json
// @Param stripe-signature header string true "Gateway signature"
// @Success 200 "Event accepted"
// @Failure 400 {object} dto.ErrorResponse "Signature verification failed"
// @Failure 404 {object} dto.ErrorResponse "Purchase/user/course not found"
// @Failure 500 {object} dto.ErrorResponse "Event could not be applied; the gateway will retry"
// @Router /webhook [post]
func (c *WebhookController) HandleStripeWebhook(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxWebhookBody)
	payload, err := ctx.GetRawData()
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to read webhook body")
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Unable to read request body")
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.purchaseService.HandleWebhook(ctx.Request.Context(), payload, ctx.GetHeader(SignatureHeader)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusOK)
}
