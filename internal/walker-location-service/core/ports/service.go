package ports

import "walk-companion/internal/walker-location-service/core/domain/dto"

type IAvailabilityService interface {
	GoOnline(walkerID string, lat, lng float64) error
	GoOffline(walkerID string) error
	Heartbeat(walkerID string, lat, lng float64) error
	SetBusy(walkerID string, busy bool) error
	GetAvailability(walkerID string) (dto.AvailabilityResponseDto, error)
}
