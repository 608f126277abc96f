package model

import "time"

const (
	PaymentPending = "PENDING"
	PaymentSuccess = "SUCCESS"
	PaymentFailed  = "FAILED"
)

const (
	PayoutPending = "PENDING"
	PayoutSuccess = "SUCCESS"
	PayoutFailed  = "FAILED"
)

const (
	MethodBank = "BANK"
	MethodUpi  = "UPI"
)

const (
	TxWalletCredit = "WALLET_CREDIT"
	TxWalletDebit  = "WALLET_DEBIT"
)

type Payment struct {
	ID                 string
	WalkSessionID      string
	WandererID         string
	WalkerID           string
	TotalAmount        float64
	PlatformCommission float64
	WalkerEarnings     float64
	GatewayOrderID     string
	GatewayPaymentID   string
	GatewaySignature   string
	Status             string
	CompletedAt        time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Payout struct {
	ID                  string
	UserID              string
	Amount              float64
	Method              string
	BeneficiaryName     string
	AccountNumber       string
	Ifsc                string
	UpiID               string
	Status              string
	ExternalReferenceID string
	CompletedAt         time.Time
	CreatedAt           time.Time
}

// SessionView is the slice of a walk session the payment flow needs.
type SessionView struct {
	ID             string
	WalkRequestID  string
	WandererID     string
	WalkerID       string
	Status         string
	FareTotal      float64
	FareCommission float64
	FareEarnings   float64
	DurationMins   int
}

// HistoryEntry is one row of the merged transaction history: successful
// payments seen from either side plus wallet debits for payouts.
type HistoryEntry struct {
	ID        string
	Kind      string // PAYMENT, EARNING or WALLET_DEBIT
	Amount    float64
	Status    string
	CreatedAt time.Time
}
