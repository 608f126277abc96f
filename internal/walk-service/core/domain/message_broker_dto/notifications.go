package messagebrokerdto

// Notification is the payload published to the notify topic exchange.
// Routing key: notify.user.<user_id>.
type Notification struct {
	UserID  string         `json:"user_id"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Notification types pushed by walk-service.
const (
	WalkRequestNearby   = "walk_request_nearby"
	WalkAccepted        = "walk_accepted"
	WalkRejected        = "walk_rejected"
	WalkCancelled       = "walk_cancelled"
	WalkRequested       = "walk_requested"
	WalkStarted         = "walk_started"
	WalkPaymentPending  = "walk_payment_pending"
	SosTriggered        = "sos_triggered"
	SosResolved         = "sos_resolved"
)
