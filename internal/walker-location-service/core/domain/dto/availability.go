package dto

import "time"

type LocationDto struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type SetBusyRequestDto struct {
	Busy bool `json:"busy"`
}

type AvailabilityResponseDto struct {
	WalkerID      string    `json:"walker_id"`
	Available     bool      `json:"available"`
	ManualBusy    bool      `json:"manual_busy"`
	LastHeartbeat time.Time `json:"last_heartbeat,omitempty"`
	CooldownUntil time.Time `json:"cooldown_until,omitempty"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
}
