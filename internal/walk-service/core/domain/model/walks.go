package model

import "time"

// WalkRequest statuses.
const (
	StatusPending        = "PENDING"
	StatusMatched        = "MATCHED"
	StatusInProgress     = "IN_PROGRESS"
	StatusPaymentPending = "PAYMENT_PENDING"
	StatusCompleted      = "COMPLETED"
	StatusCancelled      = "CANCELLED"
)

// WalkSession statuses.
const (
	SessionActive         = "ACTIVE"
	SessionPaymentPending = "PAYMENT_PENDING"
	SessionCompleted      = "COMPLETED"
	SessionCancelled      = "CANCELLED"
)

const (
	MobilityIndependent     = "INDEPENDENT"
	MobilityLightSupport    = "LIGHT_SUPPORT"
	MobilityWalkingAidUser  = "WALKING_AID_USER"
	MobilityLimitedMobility = "LIMITED_MOBILITY"
)

const (
	PurposeMedicalRecovery  = "MEDICAL_RECOVERY"
	PurposeExerciseFitness  = "EXERCISE_FITNESS"
	PurposeErrandsShopping  = "ERRANDS_SHOPPING"
	PurposeFreshAirLeisure  = "FRESH_AIR_LEISURE"
	PurposeSocialCompanion  = "SOCIAL_COMPANION"
	PurposeSafetyMonitoring = "SAFETY_MONITORING"
)

// AllowedTransitions describes the legal walk request status graph.
// Every status change in the repositories is a conditional UPDATE on the
// "from" status, so a stale writer loses the race instead of overwriting.
var AllowedTransitions = map[string][]string{
	StatusPending:        {StatusMatched, StatusCancelled},
	StatusMatched:        {StatusInProgress, StatusCancelled},
	StatusInProgress:     {StatusPaymentPending},
	StatusPaymentPending: {StatusCompleted},
	StatusCompleted:      {},
	StatusCancelled:      {},
}

func CanTransition(from, to string) bool {
	for _, next := range AllowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type CommunicationNeeds struct {
	PreferredLanguages []string `json:"preferred_languages"`
	SmallTalk          bool     `json:"small_talk"`
	QuietWalk          bool     `json:"quiet_walk"`
	AdditionalNotes    string   `json:"additional_notes"`
}

type WalkRequest struct {
	ID                  string
	WandererID          string
	WalkerID            string
	Latitude            float64
	Longitude           float64
	Address             string
	DurationMinutes     int
	MobilityLevel       string
	PrimaryPurpose      string
	PurposeDetails      string
	SpecialRequirements string
	Communication       CommunicationNeeds
	Status              string
	OtpHash             string
	OtpExpiresAt        time.Time
	OtpVerified         bool
	ScheduledFor        time.Time
	SubscriptionID      string
	MatchedAt           time.Time
	StartedAt           time.Time
	CompletedAt         time.Time
	CancelledAt         time.Time
	CancellationReason  string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type WalkSession struct {
	ID                 string
	WalkRequestID      string
	WandererID         string
	WalkerID           string
	Status             string
	StartTime          time.Time
	EndTime            time.Time
	FareTotal          float64
	FareCommission     float64
	FareEarnings       float64
	SosTriggered       bool
	SosTriggeredAt     time.Time
	SosResolved        bool
	SosResolvedAt      time.Time
	SosResolutionNotes string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Candidate is an eligible walker produced by the matching scan,
// ordered by ascending distance from the pickup point.
type Candidate struct {
	WalkerID   string
	DistanceKm float64
	Latitude   float64
	Longitude  float64
}

// WalkerProfile is the public slice of a walker's profile shown to
// wanderers next to each candidate.
type WalkerProfile struct {
	UserID     string
	Name       string
	ImageURL   string
	Rating     float64
	TotalWalks int
}
