package dto

import "time"

type SubscriptionRequestDto struct {
	SubscriptionType  string   `json:"subscription_type"`
	CustomDays        []int    `json:"custom_days"`
	DurationMinutes   int      `json:"duration_minutes"`
	PreferredTimeSlot string   `json:"preferred_time_slot"`
	TimeStart         string   `json:"time_start"`
	TimeEnd           string   `json:"time_end"`
	MobilityLevel     string   `json:"mobility_level"`
	PrimaryPurpose    string   `json:"primary_purpose"`
	PurposeDetails    string   `json:"purpose_details"`
	WalkerPreference  string   `json:"walker_preference"`
	PreferredWalkerID string   `json:"preferred_walker_id"`
	AutoMatch         *bool    `json:"auto_match"`
	AdvanceNotice     int      `json:"advance_notice"`

	Communication CommunicationNeedsDto `json:"communication_needs"`
}

type SubscriptionResponseDto struct {
	SubscriptionID      string    `json:"subscription_id"`
	SubscriptionType    string    `json:"subscription_type"`
	DurationMinutes     int       `json:"duration_minutes"`
	Status              string    `json:"status"`
	WalkerPreference    string    `json:"walker_preference"`
	TotalWalksCompleted int       `json:"total_walks_completed"`
	NextScheduledDate   time.Time `json:"next_scheduled_date"`
	CreatedAt           time.Time `json:"created_at"`
}

type QuickStartRequestDto struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}
