package dto

import "time"

type FindWalkersRequestDto struct {
	RadiusKm float64 `json:"radius_km"`
}

type CandidateDto struct {
	WalkerID     string  `json:"walker_id"`
	WalkerName   string  `json:"walker_name"`
	WalkerImage  string  `json:"walker_image,omitempty"`
	WalkerRating float64 `json:"walker_rating"`
	TotalWalks   int     `json:"total_walks"`
	DistanceKm   float64 `json:"distance_km"`
}

type FindWalkersResponseDto struct {
	WalkID     string         `json:"walk_id"`
	Candidates []CandidateDto `json:"candidates"`
	Notified   int            `json:"notified"`
}

type AcceptResponseDto struct {
	WalkID    string    `json:"walk_id"`
	WalkerID  string    `json:"walker_id"`
	Status    string    `json:"status"`
	MatchedAt time.Time `json:"matched_at"`
}

type RequestWalkerDto struct {
	WalkerID string `json:"walker_id"`
}

type PendingRequestDto struct {
	WalkID          string    `json:"walk_id"`
	WandererID      string    `json:"wanderer_id"`
	Address         string    `json:"address"`
	DurationMinutes int       `json:"duration_minutes"`
	MobilityLevel   string    `json:"mobility_level"`
	PrimaryPurpose  string    `json:"primary_purpose"`
	CreatedAt       time.Time `json:"created_at"`
}
