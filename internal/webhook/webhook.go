// Package webhook parses inbound payment-gateway notifications. Payloads are
// decoded into typed per-gateway envelopes and anything unrecognized fails
// closed. Signature verification is a pre-condition, not an afterthought.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

var (
	ErrMalformed      = errors.New("malformed payload")
	ErrUnknownGateway = errors.New("unknown gateway")
)

// Notification is the gateway-neutral result of parsing an envelope.
type Notification struct {
	Gateway       string
	OrderID       uuid.UUID
	TransactionID string
	Status        string
	PayerEmail    string
}

// Sign computes the hex HMAC-SHA256 of body. Exposed so tests and outbound
// tooling share the exact scheme the verifier expects.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifySignature(secret, body []byte, signature string) bool {
	if len(secret) == 0 || signature == "" {
		return false
	}
	expected := Sign(secret, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}

type envelope struct {
	Gateway string          `json:"gateway"`
	Data    json.RawMessage `json:"data"`
}

type moyasarPayload struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Metadata struct {
		OrderID string `json:"order_id"`
	} `json:"metadata"`
	Source struct {
		Email string `json:"email"`
	} `json:"source"`
}

type paytabsPayload struct {
	TranRef       string `json:"tran_ref"`
	CartID        string `json:"cart_id"`
	PaymentResult struct {
		ResponseStatus string `json:"response_status"`
	} `json:"payment_result"`
	CustomerDetails struct {
		Email string `json:"email"`
	} `json:"customer_details"`
}

// Parse decodes a gateway envelope into a Notification. The status is
// normalized to StatusSucceeded or StatusFailed.
func Parse(body []byte) (*Notification, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Gateway == "" || len(env.Data) == 0 {
		return nil, fmt.Errorf("%w: missing gateway or data", ErrMalformed)
	}

	switch env.Gateway {
	case "moyasar":
		return parseMoyasar(env.Data)
	case "paytabs":
		return parsePaytabs(env.Data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGateway, env.Gateway)
	}
}

func parseMoyasar(data json.RawMessage) (*Notification, error) {
	var p moyasarPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if p.ID == "" || p.Metadata.OrderID == "" {
		return nil, fmt.Errorf("%w: missing id or metadata.order_id", ErrMalformed)
	}

	orderID, err := uuid.Parse(p.Metadata.OrderID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad order id: %v", ErrMalformed, err)
	}

	status := StatusFailed
	if p.Status == "paid" {
		status = StatusSucceeded
	}

	return &Notification{
		Gateway:       "moyasar",
		OrderID:       orderID,
		TransactionID: p.ID,
		Status:        status,
		PayerEmail:    p.Source.Email,
	}, nil
}

func parsePaytabs(data json.RawMessage) (*Notification, error) {
	var p paytabsPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if p.TranRef == "" || p.CartID == "" {
		return nil, fmt.Errorf("%w: missing tran_ref or cart_id", ErrMalformed)
	}

	orderID, err := uuid.Parse(p.CartID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad order id: %v", ErrMalformed, err)
	}

	// PayTabs uses "A" for authorized/approved.
	status := StatusFailed
	if p.PaymentResult.ResponseStatus == "A" {
		status = StatusSucceeded
	}

	return &Notification{
		Gateway:       "paytabs",
		OrderID:       orderID,
		TransactionID: p.TranRef,
		Status:        status,
		PayerEmail:    p.CustomerDetails.Email,
	}, nil
}
