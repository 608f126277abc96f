package dto

import "time"

type CreateOrderRequestDto struct {
	SessionID string `json:"session_id"`
}

type CreateOrderResponseDto struct {
	PaymentID      string  `json:"payment_id"`
	GatewayOrderID string  `json:"gateway_order_id"`
	AmountPaise    int64   `json:"amount"`
	Currency       string  `json:"currency"`
	Receipt        string  `json:"receipt"`
	TotalAmount    float64 `json:"total_amount"`
	Status         string  `json:"status"`
}

type VerifyPaymentRequestDto struct {
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	GatewaySignature string `json:"gateway_signature"`
}

type PaymentResponseDto struct {
	PaymentID          string    `json:"payment_id"`
	SessionID          string    `json:"session_id"`
	TotalAmount        float64   `json:"total_amount"`
	PlatformCommission float64   `json:"platform_commission"`
	WalkerEarnings     float64   `json:"walker_earnings"`
	Status             string    `json:"status"`
	CompletedAt        time.Time `json:"completed_at,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}
