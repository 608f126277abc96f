package services

import (
	"fmt"
	"math/rand"

	"walk-companion/internal/geo"
	"walk-companion/internal/walk-service/core/domain/dto"
	"walk-companion/internal/walk-service/core/domain/model"
	"walk-companion/internal/walk-service/core/myerrors"
)

var mobilityLevels = map[string]bool{
	model.MobilityIndependent:     true,
	model.MobilityLightSupport:    true,
	model.MobilityWalkingAidUser:  true,
	model.MobilityLimitedMobility: true,
}

var primaryPurposes = map[string]bool{
	model.PurposeMedicalRecovery:  true,
	model.PurposeExerciseFitness:  true,
	model.PurposeErrandsShopping:  true,
	model.PurposeFreshAirLeisure:  true,
	model.PurposeSocialCompanion:  true,
	model.PurposeSafetyMonitoring: true,
}

func validateWalkRequest(req dto.WalkRequestDto) error {
	if !geo.ValidCoordinates(req.Latitude, req.Longitude) {
		return fmt.Errorf("coordinates out of range: %w", myerrors.ErrValidation)
	}
	if req.Address == "" || len(req.Address) > 255 {
		return fmt.Errorf("address must be 1-255 characters: %w", myerrors.ErrValidation)
	}
	if req.DurationMinutes < 15 || req.DurationMinutes > 240 {
		return fmt.Errorf("duration must be 15-240 minutes: %w", myerrors.ErrValidation)
	}
	if !mobilityLevels[req.MobilityLevel] {
		return fmt.Errorf("unknown mobility level %q: %w", req.MobilityLevel, myerrors.ErrValidation)
	}
	if !primaryPurposes[req.PrimaryPurpose] {
		return fmt.Errorf("unknown primary purpose %q: %w", req.PrimaryPurpose, myerrors.ErrValidation)
	}
	if len(req.PurposeDetails) > 200 {
		return fmt.Errorf("purpose details too long: %w", myerrors.ErrValidation)
	}
	if len(req.SpecialRequirements) > 500 {
		return fmt.Errorf("special requirements too long: %w", myerrors.ErrValidation)
	}
	if len(req.Communication.PreferredLanguages) == 0 {
		return fmt.Errorf("at least one preferred language required: %w", myerrors.ErrValidation)
	}
	if len(req.Communication.AdditionalNotes) > 150 {
		return fmt.Errorf("additional notes too long: %w", myerrors.ErrValidation)
	}
	return nil
}

// generateOtp returns a 4-digit code, 1000-9999.
func generateOtp() string {
	return fmt.Sprintf("%d", 1000+rand.Intn(9000))
}
