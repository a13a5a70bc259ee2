package webhook

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySignature(t *testing.T) {
	t.Parallel()

	secret := []byte("test-webhook-secret")
	body := []byte(`{"gateway":"moyasar","data":{}}`)

	sig := Sign(secret, body)
	assert.True(t, VerifySignature(secret, body, sig))

	assert.False(t, VerifySignature(secret, body, "deadbeef"))
	assert.False(t, VerifySignature(secret, []byte(`tampered`), sig))
	assert.False(t, VerifySignature(secret, body, ""))
	assert.False(t, VerifySignature(nil, body, sig))
}

func TestParse_Moyasar(t *testing.T) {
	t.Parallel()

	orderID := uuid.New()
	body := fmt.Sprintf(`{
		"gateway": "moyasar",
		"data": {
			"id": "pay_abc123",
			"status": "paid",
			"metadata": {"order_id": %q},
			"source": {"email": "buyer@example.com"}
		}
	}`, orderID)

	note, err := Parse([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, "moyasar", note.Gateway)
	assert.Equal(t, orderID, note.OrderID)
	assert.Equal(t, "pay_abc123", note.TransactionID)
	assert.Equal(t, StatusSucceeded, note.Status)
	assert.Equal(t, "buyer@example.com", note.PayerEmail)
}

func TestParse_MoyasarNonPaidStatusIsFailed(t *testing.T) {
	t.Parallel()

	body := fmt.Sprintf(`{
		"gateway": "moyasar",
		"data": {"id": "pay_x", "status": "voided", "metadata": {"order_id": %q}}
	}`, uuid.New())

	note, err := Parse([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, note.Status)
}

func TestParse_Paytabs(t *testing.T) {
	t.Parallel()

	orderID := uuid.New()
	body := fmt.Sprintf(`{
		"gateway": "paytabs",
		"data": {
			"tran_ref": "TST2109600000000",
			"cart_id": %q,
			"payment_result": {"response_status": "A"},
			"customer_details": {"email": "buyer@example.com"}
		}
	}`, orderID)

	note, err := Parse([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, "paytabs", note.Gateway)
	assert.Equal(t, orderID, note.OrderID)
	assert.Equal(t, "TST2109600000000", note.TransactionID)
	assert.Equal(t, StatusSucceeded, note.Status)
	assert.Equal(t, "buyer@example.com", note.PayerEmail)
}

func TestParse_PaytabsDeclined(t *testing.T) {
	t.Parallel()

	body := fmt.Sprintf(`{
		"gateway": "paytabs",
		"data": {"tran_ref": "TST1", "cart_id": %q, "payment_result": {"response_status": "D"}}
	}`, uuid.New())

	note, err := Parse([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, note.Status)
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want error
	}{
		{"not json", `{{{`, ErrMalformed},
		{"missing gateway", `{"data":{"id":"x"}}`, ErrMalformed},
		{"missing data", `{"gateway":"moyasar"}`, ErrMalformed},
		{"unknown gateway", `{"gateway":"stripe","data":{"id":"x"}}`, ErrUnknownGateway},
		{"moyasar missing order id", `{"gateway":"moyasar","data":{"id":"pay_1","status":"paid"}}`, ErrMalformed},
		{"moyasar bad order id", `{"gateway":"moyasar","data":{"id":"pay_1","status":"paid","metadata":{"order_id":"not-a-uuid"}}}`, ErrMalformed},
		{"paytabs missing tran_ref", `{"gateway":"paytabs","data":{"cart_id":"x"}}`, ErrMalformed},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			note, err := Parse([]byte(tt.body))
			require.Error(t, err)
			assert.Nil(t, note)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
