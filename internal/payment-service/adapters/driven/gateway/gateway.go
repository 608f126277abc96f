package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"walk-companion/internal/config"
	"walk-companion/internal/mylogger"
	"walk-companion/internal/payment-service/core/ports"
)

const requestTimeout = time.Second * 15

// Client talks to the payment gateway's orders API with basic auth.
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
	mylog      mylogger.Logger
}

func New(cfg *config.Paymentconfig, mylog mylogger.Logger) ports.IGateway {
	return &Client{
		baseURL:   cfg.GatewayBaseURL,
		keyID:     cfg.GatewayKeyID,
		keySecret: cfg.GatewayKeySecret,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		mylog: mylog,
	}
}

type orderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

func (c *Client) CreateOrder(ctx context.Context, amountPaise int64, receipt string) (ports.GatewayOrder, error) {
	payload, err := json.Marshal(orderRequest{
		Amount:   amountPaise,
		Currency: "INR",
		Receipt:  receipt,
	})
	if err != nil {
		return ports.GatewayOrder{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return ports.GatewayOrder{}, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.GatewayOrder{}, fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ports.GatewayOrder{}, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var order orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return ports.GatewayOrder{}, fmt.Errorf("decode gateway response: %w", err)
	}

	return ports.GatewayOrder{
		OrderID:     order.ID,
		AmountPaise: order.Amount,
		Currency:    order.Currency,
		Receipt:     order.Receipt,
	}, nil
}

// VerifySignature recomputes the HMAC-SHA256 over "orderID|paymentID"
// with the key secret and compares in constant time.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
