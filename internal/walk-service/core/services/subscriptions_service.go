package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"walk-companion/internal/mylogger"
	"walk-companion/internal/walk-service/core/domain/dto"
	"walk-companion/internal/walk-service/core/domain/model"
	"walk-companion/internal/walk-service/core/myerrors"
	"walk-companion/internal/walk-service/core/ports"
)

type SubscriptionsService struct {
	ctx               context.Context
	mylog             mylogger.Logger
	subscriptionsRepo ports.ISubscriptionsRepo
	walksService      ports.IWalksService
}

func NewSubscriptionsService(ctx context.Context,
	log mylogger.Logger,
	subscriptionsRepo ports.ISubscriptionsRepo,
	walksService ports.IWalksService,
) ports.ISubscriptionsService {
	return &SubscriptionsService{
		ctx:               ctx,
		mylog:             log,
		subscriptionsRepo: subscriptionsRepo,
		walksService:      walksService,
	}
}

func (ss *SubscriptionsService) Create(wandererID string, req dto.SubscriptionRequestDto) (dto.SubscriptionResponseDto, error) {
	log := ss.mylog.Action("CreateSubscription")

	if err := validateSubscription(req.SubscriptionType, req.CustomDays, req.DurationMinutes,
		req.TimeStart, req.TimeEnd, req.WalkerPreference, req.AdvanceNotice); err != nil {
		return dto.SubscriptionResponseDto{}, err
	}
	if !mobilityLevels[req.MobilityLevel] {
		return dto.SubscriptionResponseDto{}, fmt.Errorf("unknown mobility level %q: %w", req.MobilityLevel, myerrors.ErrValidation)
	}
	if !primaryPurposes[req.PrimaryPurpose] {
		return dto.SubscriptionResponseDto{}, fmt.Errorf("unknown primary purpose %q: %w", req.PrimaryPurpose, myerrors.ErrValidation)
	}
	if len(req.Communication.PreferredLanguages) == 0 {
		return dto.SubscriptionResponseDto{}, fmt.Errorf("at least one preferred language required: %w", myerrors.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ss.ctx, opTimeout)
	defer cancel()

	// One live subscription per wanderer.
	if _, err := ss.subscriptionsRepo.FindActiveByWanderer(ctx, wandererID); err == nil {
		return dto.SubscriptionResponseDto{}, myerrors.ErrConflict
	} else if !errors.Is(err, myerrors.ErrNotFound) {
		return dto.SubscriptionResponseDto{}, err
	}

	autoMatch := true
	if req.AutoMatch != nil {
		autoMatch = *req.AutoMatch
	}
	walkerPreference := req.WalkerPreference
	if walkerPreference == "" {
		walkerPreference = model.WalkerPreferenceAny
	}

	now := time.Now()
	m := model.WalkSubscription{
		WandererID:        wandererID,
		SubscriptionType:  req.SubscriptionType,
		CustomDays:        req.CustomDays,
		DurationMinutes:   req.DurationMinutes,
		PreferredTimeSlot: req.PreferredTimeSlot,
		TimeStart:         req.TimeStart,
		TimeEnd:           req.TimeEnd,
		MobilityLevel:     req.MobilityLevel,
		PrimaryPurpose:    req.PrimaryPurpose,
		PurposeDetails:    req.PurposeDetails,
		Communication: model.CommunicationNeeds{
			PreferredLanguages: req.Communication.PreferredLanguages,
			SmallTalk:          req.Communication.SmallTalk,
			QuietWalk:          req.Communication.QuietWalk,
			AdditionalNotes:    req.Communication.AdditionalNotes,
		},
		WalkerPreference:  walkerPreference,
		PreferredWalkerID: req.PreferredWalkerID,
		AutoMatch:         autoMatch,
		AdvanceNotice:     req.AdvanceNotice,
		Status:            model.SubscriptionActive,
		NextScheduledDate: nextScheduledDate(req.SubscriptionType, req.CustomDays, req.TimeStart, now),
		StartDate:         now,
	}

	id, err := ss.subscriptionsRepo.Create(ctx, m)
	if err != nil {
		log.Error("cannot create subscription", err)
		return dto.SubscriptionResponseDto{}, err
	}

	m.ID = id
	m.CreatedAt = now
	return toSubscriptionResponse(m), nil
}

func (ss *SubscriptionsService) GetActive(wandererID string) (dto.SubscriptionResponseDto, error) {
	ctx, cancel := context.WithTimeout(ss.ctx, opTimeout)
	defer cancel()

	m, err := ss.subscriptionsRepo.FindActiveByWanderer(ctx, wandererID)
	if err != nil {
		return dto.SubscriptionResponseDto{}, err
	}
	return toSubscriptionResponse(m), nil
}

// Update rewrites subscription preferences. Changing frequency or walk
// time recomputes the next scheduled date.
func (ss *SubscriptionsService) Update(wandererID, subscriptionID string, req dto.SubscriptionRequestDto) (dto.SubscriptionResponseDto, error) {
	ctx, cancel := context.WithTimeout(ss.ctx, opTimeout)
	defer cancel()

	m, err := ss.ownedSubscription(ctx, wandererID, subscriptionID)
	if err != nil {
		return dto.SubscriptionResponseDto{}, err
	}
	if m.Status == model.SubscriptionCancelled {
		return dto.SubscriptionResponseDto{}, myerrors.ErrConflict
	}

	if err := validateSubscription(req.SubscriptionType, req.CustomDays, req.DurationMinutes,
		req.TimeStart, req.TimeEnd, req.WalkerPreference, req.AdvanceNotice); err != nil {
		return dto.SubscriptionResponseDto{}, err
	}

	scheduleChanged := m.SubscriptionType != req.SubscriptionType ||
		m.TimeStart != req.TimeStart ||
		!equalDays(m.CustomDays, req.CustomDays)

	m.SubscriptionType = req.SubscriptionType
	m.CustomDays = req.CustomDays
	m.DurationMinutes = req.DurationMinutes
	m.PreferredTimeSlot = req.PreferredTimeSlot
	m.TimeStart = req.TimeStart
	m.TimeEnd = req.TimeEnd
	if req.MobilityLevel != "" {
		m.MobilityLevel = req.MobilityLevel
	}
	if req.PrimaryPurpose != "" {
		m.PrimaryPurpose = req.PrimaryPurpose
	}
	m.PurposeDetails = req.PurposeDetails
	if len(req.Communication.PreferredLanguages) > 0 {
		m.Communication = model.CommunicationNeeds{
			PreferredLanguages: req.Communication.PreferredLanguages,
			SmallTalk:          req.Communication.SmallTalk,
			QuietWalk:          req.Communication.QuietWalk,
			AdditionalNotes:    req.Communication.AdditionalNotes,
		}
	}
	if req.WalkerPreference != "" {
		m.WalkerPreference = req.WalkerPreference
	}
	m.PreferredWalkerID = req.PreferredWalkerID
	if req.AutoMatch != nil {
		m.AutoMatch = *req.AutoMatch
	}
	m.AdvanceNotice = req.AdvanceNotice

	if scheduleChanged {
		m.NextScheduledDate = nextScheduledDate(m.SubscriptionType, m.CustomDays, m.TimeStart, time.Now())
	}

	if err := ss.subscriptionsRepo.Update(ctx, m); err != nil {
		return dto.SubscriptionResponseDto{}, err
	}
	return toSubscriptionResponse(m), nil
}

// QuickStart turns the subscription preferences into an immediate walk
// request and advances the schedule.
func (ss *SubscriptionsService) QuickStart(wandererID string, req dto.QuickStartRequestDto) (dto.WalkResponseDto, error) {
	log := ss.mylog.Action("QuickStart")

	ctx, cancel := context.WithTimeout(ss.ctx, opTimeout)
	defer cancel()

	sub, err := ss.subscriptionsRepo.FindActiveByWanderer(ctx, wandererID)
	if err != nil {
		return dto.WalkResponseDto{}, err
	}
	if sub.Status != model.SubscriptionActive {
		return dto.WalkResponseDto{}, myerrors.ErrConflict
	}

	walkReq := dto.WalkRequestDto{
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Address:         req.Address,
		DurationMinutes: sub.DurationMinutes,
		MobilityLevel:   sub.MobilityLevel,
		PrimaryPurpose:  sub.PrimaryPurpose,
		PurposeDetails:  sub.PurposeDetails,
		Communication: dto.CommunicationNeedsDto{
			PreferredLanguages: sub.Communication.PreferredLanguages,
			SmallTalk:          sub.Communication.SmallTalk,
			QuietWalk:          sub.Communication.QuietWalk,
			AdditionalNotes:    sub.Communication.AdditionalNotes,
		},
	}
	walk, err := ss.walksService.CreateWalk(wandererID, walkReq)
	if err != nil {
		return dto.WalkResponseDto{}, err
	}

	now := time.Now()
	next := nextScheduledDate(sub.SubscriptionType, sub.CustomDays, sub.TimeStart, now)
	if err := ss.subscriptionsRepo.RecordWalk(ctx, sub.ID, now, next); err != nil {
		log.Error("cannot advance subscription schedule", err, "subscription_id", sub.ID)
	}
	return walk, nil
}

func (ss *SubscriptionsService) Pause(wandererID, subscriptionID string) error {
	return ss.transition(wandererID, subscriptionID, model.SubscriptionActive, model.SubscriptionPaused)
}

func (ss *SubscriptionsService) Resume(wandererID, subscriptionID string) error {
	return ss.transition(wandererID, subscriptionID, model.SubscriptionPaused, model.SubscriptionActive)
}

func (ss *SubscriptionsService) Cancel(wandererID, subscriptionID string) error {
	ctx, cancel := context.WithTimeout(ss.ctx, opTimeout)
	defer cancel()

	m, err := ss.ownedSubscription(ctx, wandererID, subscriptionID)
	if err != nil {
		return err
	}
	if m.Status == model.SubscriptionCancelled {
		return myerrors.ErrConflict
	}
	return ss.subscriptionsRepo.SetStatus(ctx, subscriptionID, m.Status, model.SubscriptionCancelled)
}

func (ss *SubscriptionsService) transition(wandererID, subscriptionID, from, to string) error {
	ctx, cancel := context.WithTimeout(ss.ctx, opTimeout)
	defer cancel()

	if _, err := ss.ownedSubscription(ctx, wandererID, subscriptionID); err != nil {
		return err
	}
	return ss.subscriptionsRepo.SetStatus(ctx, subscriptionID, from, to)
}

func (ss *SubscriptionsService) ownedSubscription(ctx context.Context, wandererID, subscriptionID string) (model.WalkSubscription, error) {
	m, err := ss.subscriptionsRepo.FindByID(ctx, subscriptionID)
	if err != nil {
		return model.WalkSubscription{}, err
	}
	if m.WandererID != wandererID {
		return model.WalkSubscription{}, myerrors.ErrForbidden
	}
	return m, nil
}

func equalDays(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func toSubscriptionResponse(m model.WalkSubscription) dto.SubscriptionResponseDto {
	return dto.SubscriptionResponseDto{
		SubscriptionID:      m.ID,
		SubscriptionType:    m.SubscriptionType,
		DurationMinutes:     m.DurationMinutes,
		Status:              m.Status,
		WalkerPreference:    m.WalkerPreference,
		TotalWalksCompleted: m.TotalWalksCompleted,
		NextScheduledDate:   m.NextScheduledDate,
		CreatedAt:           m.CreatedAt,
	}
}
