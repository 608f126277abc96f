package ports

import (
	"context"

	"walk-companion/internal/walk-service/core/domain/model"
)

// IAvailabilityView is walk-service's read/write view over the Redis
// availability registry owned by walker-location-service. Matching reads
// the geo index and eligibility fields; accept/terminal transitions
// maintain the engaged set.
type IAvailabilityView interface {
	SearchNearby(ctx context.Context, lat, lng, radiusKm float64) ([]model.Candidate, error)
	IsEligible(ctx context.Context, walkerID string) (bool, error)
	IsEngaged(ctx context.Context, walkerID string) (bool, error)
	MarkEngaged(ctx context.Context, walkerID string) error
	ClearEngaged(ctx context.Context, walkerID string) error
}
