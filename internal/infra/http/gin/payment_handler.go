package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"rentradar/internal/app/payments"
)

type PaymentHandler struct {
	Service *payments.Service
	Logger  *slog.Logger
}

func (h PaymentHandler) CreatePreference(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payment service unavailable"})
		return
	}
	pref, err := h.Service.CreatePreference(c.Request.Context(), user.ID)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("preference creation failed", "error", err, "user_id", user.ID)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating payment preference"})
		return
	}
	c.JSON(http.StatusOK, pref)
}

func (h PaymentHandler) Webhook(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payment service unavailable"})
		return
	}
	var notification payments.Notification
	if err := c.ShouldBindJSON(&notification); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification body"})
		return
	}
	result, err := h.Service.HandleWebhook(c.Request.Context(), notification)
	if err != nil {
		h.respondWebhookError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// WebhookStatus answers the provider's GET probe on the webhook path.
func (h PaymentHandler) WebhookStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "Webhook endpoint active",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h PaymentHandler) respondWebhookError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, payments.ErrMissingPaymentID), errors.Is(err, payments.ErrMissingUserID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, payments.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("webhook processing failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing webhook"})
	}
}

var _ PaymentHTTP = (*PaymentHandler)(nil)
