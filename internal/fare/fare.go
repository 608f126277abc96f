package fare

import "math"

const (
	RatePerMinute      = 5.0
	CommissionFraction = 0.20
)

type Breakdown struct {
	TotalAmount        float64 `json:"total_amount"`
	PlatformCommission float64 `json:"platform_commission"`
	WalkerEarnings     float64 `json:"walker_earnings"`
}

// Calculate derives the full fare split from the walk duration.
// The commission is taken off the top; the walker keeps the rest.
func Calculate(durationMinutes int) Breakdown {
	total := RatePerMinute * float64(durationMinutes)
	commission := round2(total * CommissionFraction)
	return Breakdown{
		TotalAmount:        round2(total),
		PlatformCommission: commission,
		WalkerEarnings:     round2(total - commission),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
