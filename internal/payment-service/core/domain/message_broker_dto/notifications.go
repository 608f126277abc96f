package messagebrokerdto

// Notification mirrors walk-service's broker payload; both publish to
// the same notify topic exchange.
type Notification struct {
	UserID  string         `json:"user_id"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

const (
	PaymentCompleted = "payment_completed"
	EarningsCredited = "earnings_credited"
)
