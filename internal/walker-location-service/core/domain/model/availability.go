package model

import "time"

// AvailabilityEntry is the registry record for one walker, stored in
// Redis as a hash plus a member of the walkers geo set.
type AvailabilityEntry struct {
	WalkerID      string
	Available     bool
	ManualBusy    bool
	LastHeartbeat time.Time
	CooldownUntil time.Time
	Latitude      float64
	Longitude     float64
}
