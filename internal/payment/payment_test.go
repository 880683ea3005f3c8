package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignatureMatch(t *testing.T) {
	svc := NewService("", "test_secret")

	sig := sign("test_secret", "order_A", "pay_B")
	assert.NoError(t, svc.VerifySignature("order_A", "pay_B", sig))
}

func TestVerifySignatureMutations(t *testing.T) {
	svc := NewService("", "test_secret")
	sig := sign("test_secret", "order_A", "pay_B")

	assert.ErrorIs(t, svc.VerifySignature("order_X", "pay_B", sig), ErrInvalidSignature)
	assert.ErrorIs(t, svc.VerifySignature("order_A", "pay_X", sig), ErrInvalidSignature)

	flipped := strings.ToUpper(sig[:1]) + sig[1:]
	if flipped == sig {
		flipped = "0" + sig[1:]
	}
	assert.ErrorIs(t, svc.VerifySignature("order_A", "pay_B", flipped), ErrInvalidSignature)

	other := NewService("", "other_secret")
	assert.ErrorIs(t, other.VerifySignature("order_A", "pay_B", sig), ErrInvalidSignature)
}

type stubOrders struct {
	gotData map[string]interface{}
	out     map[string]interface{}
	err     error
}

func (s *stubOrders) Create(data map[string]interface{}, _ map[string]string) (map[string]interface{}, error) {
	s.gotData = data
	return s.out, s.err
}

func TestCreateOrderConvertsToMinorUnits(t *testing.T) {
	stub := &stubOrders{out: map[string]interface{}{"id": "order_123", "amount": float64(50000)}}
	svc := newServiceWithOrders(stub, "test_secret")

	order, err := svc.CreateOrder(500)
	require.NoError(t, err)
	assert.Equal(t, "order_123", order["id"])

	assert.Equal(t, int64(50000), stub.gotData["amount"])
	assert.Equal(t, "INR", stub.gotData["currency"])
	receipt, _ := stub.gotData["receipt"].(string)
	assert.True(t, strings.HasPrefix(receipt, "receipt_"), "receipt %q", receipt)
}

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	svc := newServiceWithOrders(&stubOrders{}, "test_secret")

	_, err := svc.CreateOrder(0)
	assert.ErrorIs(t, err, ErrAmountRequired)

	_, err = svc.CreateOrder(-5)
	assert.ErrorIs(t, err, ErrAmountRequired)
}

func TestCreateOrderGatewayError(t *testing.T) {
	stub := &stubOrders{err: errors.New("BAD_REQUEST: key invalid")}
	svc := newServiceWithOrders(stub, "test_secret")

	_, err := svc.CreateOrder(100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key invalid")
}

func TestCreateOrderUnconfiguredGateway(t *testing.T) {
	svc := NewService("", "")

	_, err := svc.CreateOrder(100)
	assert.ErrorIs(t, err, ErrGatewayUnconfigured)
}
