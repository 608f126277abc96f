package dto

import "time"

// API transfer data

type CommunicationNeedsDto struct {
	PreferredLanguages []string `json:"preferred_languages"`
	SmallTalk          bool     `json:"small_talk"`
	QuietWalk          bool     `json:"quiet_walk"`
	AdditionalNotes    string   `json:"additional_notes"`
}

type WalkRequestDto struct {
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	Address             string  `json:"address"`
	DurationMinutes     int     `json:"duration_minutes"`
	MobilityLevel       string  `json:"mobility_level"`
	PrimaryPurpose      string  `json:"primary_purpose"`
	PurposeDetails      string  `json:"purpose_details"`
	SpecialRequirements string  `json:"special_requirements"`

	Communication CommunicationNeedsDto `json:"communication_needs"`
}

type WalkResponseDto struct {
	WalkID          string    `json:"walk_id"`
	WandererID      string    `json:"wanderer_id"`
	WalkerID        string    `json:"walker_id,omitempty"`
	Status          string    `json:"status"`
	Address         string    `json:"address"`
	DurationMinutes int       `json:"duration_minutes"`
	MobilityLevel   string    `json:"mobility_level"`
	PrimaryPurpose  string    `json:"primary_purpose"`
	CreatedAt       time.Time `json:"created_at"`
}

type WalkCancelRequestDto struct {
	Reason string `json:"reason"`
}

type WalkHistoryDto struct {
	Walks []WalkResponseDto `json:"walks"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Total int64             `json:"total"`
}
