package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/techsrow/locationhubapi/internal/services"
)

const signatureHeader = "x-signature"

// WebhookHandler receives gateway payment notifications.
type WebhookHandler struct {
	Payments services.PaymentService
}

// POST /api/bookings/webhook
//
// Signature verification runs over the exact raw body, so the payload must be
// read before any JSON binding touches it.
func (h WebhookHandler) Receive(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "could not read request body", err)
		return
	}

	if err := h.Payments.HandleWebhook(c.Request.Context(), raw, c.GetHeader(signatureHeader)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
