package ports

import (
	"context"

	"walk-companion/internal/walker-location-service/core/domain/model"
)

type IAvailabilityStore interface {
	GoOnline(ctx context.Context, walkerID string, lat, lng float64) error
	GoOffline(ctx context.Context, walkerID string) error
	Heartbeat(ctx context.Context, walkerID string, lat, lng float64) error
	SetBusy(ctx context.Context, walkerID string, busy bool) error
	Get(ctx context.Context, walkerID string) (model.AvailabilityEntry, error)
	Close() error
}
