package payouts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"walk-companion/internal/config"
	"walk-companion/internal/mylogger"
	"walk-companion/internal/payment-service/core/ports"
)

const requestTimeout = time.Second * 15

// Provider sends payout transfers to the external transfer API. When the
// provider is disabled in config, the service simulates transfers and this
// client is never called.
type Provider struct {
	baseURL    string
	keyID      string
	keySecret  string
	accountNo  string
	enabled    bool
	httpClient *http.Client
	mylog      mylogger.Logger
}

func New(cfg *config.Paymentconfig, mylog mylogger.Logger) ports.ITransferProvider {
	return &Provider{
		baseURL:   cfg.GatewayBaseURL,
		keyID:     cfg.GatewayKeyID,
		keySecret: cfg.GatewayKeySecret,
		accountNo: cfg.PayoutAccountNo,
		enabled:   cfg.PayoutsEnabled,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		mylog: mylog,
	}
}

func (p *Provider) Enabled() bool {
	return p.enabled
}

type payoutRequest struct {
	AccountNumber string         `json:"account_number"`
	Amount        int64          `json:"amount"`
	Currency      string         `json:"currency"`
	Mode          string         `json:"mode"`
	Purpose       string         `json:"purpose"`
	ReferenceID   string         `json:"reference_id"`
	FundAccount   map[string]any `json:"fund_account"`
}

type payoutResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Transfer submits one payout. The payout id doubles as the idempotency
// reference at the provider.
func (p *Provider) Transfer(ctx context.Context, payoutID string, amountPaise int64, method, accountNumber, ifsc, upiID string) (ports.TransferResult, error) {
	body := payoutRequest{
		AccountNumber: p.accountNo,
		Amount:        amountPaise,
		Currency:      "INR",
		Purpose:       "payout",
		ReferenceID:   payoutID,
	}

	switch method {
	case "UPI":
		body.Mode = "UPI"
		body.FundAccount = map[string]any{
			"account_type": "vpa",
			"vpa":          map[string]string{"address": upiID},
		}
	default:
		body.Mode = "IMPS"
		body.FundAccount = map[string]any{
			"account_type": "bank_account",
			"bank_account": map[string]string{
				"account_number": accountNumber,
				"ifsc":           ifsc,
			},
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return ports.TransferResult{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/payouts", bytes.NewReader(payload))
	if err != nil {
		return ports.TransferResult{}, err
	}
	req.SetBasicAuth(p.keyID, p.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return ports.TransferResult{}, fmt.Errorf("transfer request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ports.TransferResult{}, fmt.Errorf("transfer provider returned status %d", resp.StatusCode)
	}

	var result payoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ports.TransferResult{}, fmt.Errorf("decode transfer response: %w", err)
	}

	return ports.TransferResult{
		ReferenceID: result.ID,
		Processed:   result.Status == "processed",
	}, nil
}
