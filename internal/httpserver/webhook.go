package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oakline/furniture_shop/internal/logging"
	"github.com/oakline/furniture_shop/internal/mykafka"
	"github.com/oakline/furniture_shop/internal/service"
	"github.com/oakline/furniture_shop/internal/webhook"
)

const signatureHeader = "X-Webhook-Signature"

// WebhookHTTP receives payment-gateway notifications. An unverifiable
// signature is rejected with 401. Payloads that verify but are malformed or
// reference an unknown order are logged and acknowledged with 200 so a
// poison payload can never cause the gateway to retry forever; only genuine
// persistence failures return 5xx.
type WebhookHTTP struct {
	Payment  *service.PaymentService
	Secret   []byte
	Producer *mykafka.Producer
}

func (h *WebhookHTTP) PaymentNotification(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "webhook.payment")

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		l.Warn("webhook_read_error", "status", 400, "error", err)
		return respondError(c, http.StatusBadRequest, "cannot read body")
	}

	if !webhook.VerifySignature(h.Secret, body, c.Request().Header.Get(signatureHeader)) {
		l.Warn("webhook_signature_rejected", "status", 401)
		return respondError(c, http.StatusUnauthorized, "invalid signature")
	}

	note, err := webhook.Parse(body)
	if err != nil {
		l.Warn("webhook_payload_ignored", "error", err)
		return c.JSON(http.StatusOK, envelope{Success: false, Message: "notification ignored"})
	}

	if err := h.Payment.ProcessNotification(ctx, note); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("webhook_order_unknown", "order_id", note.OrderID, "error", err)
			return c.JSON(http.StatusOK, envelope{Success: false, Message: "notification ignored"})
		}
		l.Error("webhook_processing_failed", "status", 500, "order_id", note.OrderID, "error", err)
		return respondError(c, http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, "order_events", note.OrderID.String(), map[string]interface{}{
		"type":     "payment_notification",
		"order_id": note.OrderID,
		"gateway":  note.Gateway,
		"status":   note.Status,
	})

	l.Info("webhook_processed", "order_id", note.OrderID, "gateway", note.Gateway, "payment_status", note.Status)
	return respondMessage(c, http.StatusOK, "notification processed")
}
