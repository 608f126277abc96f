package dto

import "time"

type StartWalkRequestDto struct {
	Otp string `json:"otp"`
}

type SessionResponseDto struct {
	SessionID     string    `json:"session_id"`
	WalkID        string    `json:"walk_id"`
	WandererID    string    `json:"wanderer_id"`
	WalkerID      string    `json:"walker_id"`
	Status        string    `json:"status"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time,omitempty"`
	FareTotal     float64   `json:"fare_total,omitempty"`
	FareEarnings  float64   `json:"walker_earnings,omitempty"`
	FareCommission float64  `json:"platform_commission,omitempty"`
	SosTriggered  bool      `json:"sos_triggered"`
	SosResolved   bool      `json:"sos_resolved"`
}

type ResolveSosRequestDto struct {
	Notes string `json:"notes"`
}
