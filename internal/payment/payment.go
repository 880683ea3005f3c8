package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
)

// Errors surfaced to handlers.
var (
	ErrAmountRequired      = errors.New("amount must be greater than zero")
	ErrInvalidSignature    = errors.New("invalid signature")
	ErrGatewayUnconfigured = errors.New("payment gateway not configured")
)

// orderAPI is the slice of the Razorpay SDK the service uses.
type orderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Service creates gateway orders and verifies payment signatures.
type Service struct {
	orders    orderAPI
	keySecret string
	now       func() time.Time
}

// NewService builds the service over a Razorpay client. With empty keys
// the gateway stays nil and order creation fails cleanly.
func NewService(keyID, keySecret string) *Service {
	s := &Service{keySecret: keySecret, now: time.Now}
	if keyID != "" && keySecret != "" {
		s.orders = razorpay.NewClient(keyID, keySecret).Order
	}
	return s
}

// newServiceWithOrders is used by tests to stub the gateway.
func newServiceWithOrders(orders orderAPI, keySecret string) *Service {
	return &Service{orders: orders, keySecret: keySecret, now: time.Now}
}

// CreateOrder converts the major-unit amount to minor units and creates
// a gateway order with a time-based receipt. The gateway's order object
// is returned verbatim.
func (s *Service) CreateOrder(amount int64) (map[string]interface{}, error) {
	if amount <= 0 {
		return nil, ErrAmountRequired
	}
	if s.orders == nil {
		return nil, ErrGatewayUnconfigured
	}

	data := map[string]interface{}{
		"amount":   amount * 100,
		"currency": "INR",
		"receipt":  fmt.Sprintf("receipt_%d", s.now().UnixMilli()),
	}
	order, err := s.orders.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

// VerifySignature recomputes HMAC-SHA256 over "orderID|paymentID" with
// the gateway secret and compares it to the supplied signature in
// constant time.
func (s *Service) VerifySignature(orderID, paymentID, signature string) error {
	mac := hmac.New(sha256.New, []byte(s.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}
