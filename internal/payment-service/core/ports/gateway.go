package ports

import "context"

// GatewayOrder is the order created at the payment gateway. Amounts are
// in paise, the gateway's smallest unit.
type GatewayOrder struct {
	OrderID     string
	AmountPaise int64
	Currency    string
	Receipt     string
}

type IGateway interface {
	CreateOrder(ctx context.Context, amountPaise int64, receipt string) (GatewayOrder, error)
	// VerifySignature checks the HMAC over "orderID|paymentID".
	VerifySignature(orderID, paymentID, signature string) bool
}

// TransferResult is the provider's answer to a payout request.
type TransferResult struct {
	ReferenceID string
	Processed   bool
}

type ITransferProvider interface {
	Enabled() bool
	Transfer(ctx context.Context, payoutID string, amountPaise int64, method, accountNumber, ifsc, upiID string) (TransferResult, error)
}

// IAvailabilityControl reopens a walker's availability after settlement.
type IAvailabilityControl interface {
	ReopenWithCooldown(ctx context.Context, walkerID string, cooldownSeconds int) error
	ClearEngaged(ctx context.Context, walkerID string) error
}
