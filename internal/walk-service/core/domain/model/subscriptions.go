package model

import "time"

const (
	SubscriptionDaily    = "DAILY"
	SubscriptionWeekdays = "WEEKDAYS"
	SubscriptionWeekends = "WEEKENDS"
	SubscriptionCustom   = "CUSTOM"
)

const (
	SubscriptionActive    = "ACTIVE"
	SubscriptionPaused    = "PAUSED"
	SubscriptionCancelled = "CANCELLED"
)

const (
	WalkerPreferenceAny        = "ANY"
	WalkerPreferenceSameWalker = "SAME_WALKER"
	WalkerPreferenceRated4Plus = "RATED_4_PLUS"
)

type WalkSubscription struct {
	ID                  string
	WandererID          string
	SubscriptionType    string
	CustomDays          []int // 0=Sunday .. 6=Saturday, CUSTOM only
	DurationMinutes     int
	PreferredTimeSlot   string
	TimeStart           string // "HH:MM"
	TimeEnd             string
	MobilityLevel       string
	PrimaryPurpose      string
	PurposeDetails      string
	Communication       CommunicationNeeds
	WalkerPreference    string
	PreferredWalkerID   string
	AutoMatch           bool
	AdvanceNotice       int // minutes
	Status              string
	TotalWalksCompleted int
	LastWalkDate        time.Time
	NextScheduledDate   time.Time
	StartDate           time.Time
	EndDate             time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
