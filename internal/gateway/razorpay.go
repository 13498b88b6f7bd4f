package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"

	razorpay "github.com/razorpay/razorpay-go"
)

// Payment is the subset of a gateway payment the core cares about.
// Amount is in paise.
type Payment struct {
	ID     string
	Amount int64
	Method string
	Bank   string
	Wallet string
	VPA    string
}

// Client is the narrow surface of the payment gateway the core calls.
type Client interface {
	CreateOrder(amountPaise int64, currency, receipt string, notes map[string]interface{}) (string, error)
	FetchPayment(paymentID string) (*Payment, error)
}

var client Client

// Init wires the real Razorpay client from environment credentials.
func Init() {
	key := os.Getenv("RAZORPAY_KEY_ID")
	secret := os.Getenv("RAZORPAY_KEY_SECRET")
	if key == "" || secret == "" {
		return
	}
	client = &razorpayClient{rz: razorpay.NewClient(key, secret)}
}

// Get returns the active gateway client.
func Get() Client {
	return client
}

// SetClient swaps the gateway; used by tests.
func SetClient(c Client) {
	client = c
}

// KeyID exposes the public key for checkout payloads.
func KeyID() string {
	return os.Getenv("RAZORPAY_KEY_ID")
}

// VerifySignature checks HMAC-SHA256(orderID|paymentID) against the supplied
// signature using a constant-time comparison.
func VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(os.Getenv("RAZORPAY_KEY_SECRET")))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

type razorpayClient struct {
	rz *razorpay.Client
}

func (c *razorpayClient) CreateOrder(amountPaise int64, currency, receipt string, notes map[string]interface{}) (string, error) {
	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  receipt,
	}
	if notes != nil {
		data["notes"] = notes
	}
	body, err := c.rz.Order.Create(data, nil)
	if err != nil {
		return "", err
	}
	id, ok := body["id"].(string)
	if !ok {
		return "", errors.New("gateway returned no order id")
	}
	return id, nil
}

func (c *razorpayClient) FetchPayment(paymentID string) (*Payment, error) {
	body, err := c.rz.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return nil, err
	}
	p := &Payment{ID: paymentID}
	if v, ok := body["amount"].(float64); ok {
		p.Amount = int64(v)
	}
	if v, ok := body["method"].(string); ok {
		p.Method = v
	}
	if v, ok := body["bank"].(string); ok {
		p.Bank = v
	}
	if v, ok := body["wallet"].(string); ok {
		p.Wallet = v
	}
	if v, ok := body["vpa"].(string); ok {
		p.VPA = v
	}
	return p, nil
}
