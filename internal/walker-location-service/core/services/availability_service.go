package services

import (
	"context"
	"fmt"
	"time"

	"walk-companion/internal/geo"
	"walk-companion/internal/mylogger"
	"walk-companion/internal/observability"
	"walk-companion/internal/walker-location-service/core/domain/dto"
	"walk-companion/internal/walker-location-service/core/myerrors"
	"walk-companion/internal/walker-location-service/core/ports"
)

const opTimeout = time.Second * 15

type AvailabilityService struct {
	ctx   context.Context
	mylog mylogger.Logger
	store ports.IAvailabilityStore
}

func NewAvailabilityService(ctx context.Context, log mylogger.Logger, store ports.IAvailabilityStore) ports.IAvailabilityService {
	return &AvailabilityService{
		ctx:   ctx,
		mylog: log,
		store: store,
	}
}

func (as *AvailabilityService) GoOnline(walkerID string, lat, lng float64) error {
	log := as.mylog.Action("GoOnline")

	if !geo.ValidCoordinates(lat, lng) {
		return fmt.Errorf("coordinates out of range: %w", myerrors.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(as.ctx, opTimeout)
	defer cancel()

	if err := as.store.GoOnline(ctx, walkerID, lat, lng); err != nil {
		log.Error("cannot mark walker online", err, "walker_id", walkerID)
		return err
	}
	observability.WalkersOnline.Inc()
	return nil
}

func (as *AvailabilityService) GoOffline(walkerID string) error {
	log := as.mylog.Action("GoOffline")

	ctx, cancel := context.WithTimeout(as.ctx, opTimeout)
	defer cancel()

	if err := as.store.GoOffline(ctx, walkerID); err != nil {
		log.Error("cannot mark walker offline", err, "walker_id", walkerID)
		return err
	}
	observability.WalkersOnline.Dec()
	return nil
}

// Heartbeat keeps the walker visible to matching. Entries that miss the
// heartbeat window are skipped by the eligibility scan, there is no
// explicit expiry.
func (as *AvailabilityService) Heartbeat(walkerID string, lat, lng float64) error {
	if !geo.ValidCoordinates(lat, lng) {
		return fmt.Errorf("coordinates out of range: %w", myerrors.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(as.ctx, opTimeout)
	defer cancel()

	return as.store.Heartbeat(ctx, walkerID, lat, lng)
}

func (as *AvailabilityService) SetBusy(walkerID string, busy bool) error {
	ctx, cancel := context.WithTimeout(as.ctx, opTimeout)
	defer cancel()

	return as.store.SetBusy(ctx, walkerID, busy)
}

func (as *AvailabilityService) GetAvailability(walkerID string) (dto.AvailabilityResponseDto, error) {
	ctx, cancel := context.WithTimeout(as.ctx, opTimeout)
	defer cancel()

	entry, err := as.store.Get(ctx, walkerID)
	if err != nil {
		return dto.AvailabilityResponseDto{}, err
	}

	return dto.AvailabilityResponseDto{
		WalkerID:      entry.WalkerID,
		Available:     entry.Available,
		ManualBusy:    entry.ManualBusy,
		LastHeartbeat: entry.LastHeartbeat,
		CooldownUntil: entry.CooldownUntil,
		Latitude:      entry.Latitude,
		Longitude:     entry.Longitude,
	}, nil
}
