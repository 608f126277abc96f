package dto

import "time"

type WalletBalanceDto struct {
	UserID  string  `json:"user_id"`
	Balance float64 `json:"balance"`
}

type AddToWalletRequestDto struct {
	Amount float64 `json:"amount"`
}

type WithdrawRequestDto struct {
	Amount          float64 `json:"amount"`
	Method          string  `json:"method"`
	BeneficiaryName string  `json:"beneficiary_name"`
	AccountNumber   string  `json:"account_number"`
	Ifsc            string  `json:"ifsc"`
	UpiID           string  `json:"upi_id"`
}

type WithdrawResponseDto struct {
	PayoutID            string  `json:"payout_id"`
	Amount              float64 `json:"amount"`
	Method              string  `json:"method"`
	Status              string  `json:"status"`
	ExternalReferenceID string  `json:"external_reference_id,omitempty"`
	RemainingBalance    float64 `json:"remaining_balance"`
}

type TransactionDto struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type TransactionHistoryDto struct {
	Transactions []TransactionDto `json:"transactions"`
	Page         int              `json:"page"`
	Limit        int              `json:"limit"`
	Total        int64            `json:"total"`
}
