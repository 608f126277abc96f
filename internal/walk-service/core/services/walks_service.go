package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"walk-companion/internal/mylogger"
	"walk-companion/internal/walk-service/core/domain/dto"
	messagebrokerdto "walk-companion/internal/walk-service/core/domain/message_broker_dto"
	"walk-companion/internal/walk-service/core/domain/model"
	"walk-companion/internal/walk-service/core/myerrors"
	"walk-companion/internal/walk-service/core/ports"
)

const opTimeout = time.Second * 15

type WalksService struct {
	ctx          context.Context
	mylog        mylogger.Logger
	walksRepo    ports.IWalksRepo
	availability ports.IAvailabilityView
	broker       ports.INotifyBroker
}

func NewWalksService(ctx context.Context,
	log mylogger.Logger,
	walksRepo ports.IWalksRepo,
	availability ports.IAvailabilityView,
	broker ports.INotifyBroker,
) ports.IWalksService {
	return &WalksService{
		ctx:          ctx,
		mylog:        log,
		walksRepo:    walksRepo,
		availability: availability,
		broker:       broker,
	}
}

func (ws *WalksService) CreateWalk(wandererID string, req dto.WalkRequestDto) (dto.WalkResponseDto, error) {
	log := ws.mylog.Action("CreateWalk")

	if err := validateWalkRequest(req); err != nil {
		return dto.WalkResponseDto{}, err
	}

	ctx, cancel := context.WithTimeout(ws.ctx, opTimeout)
	defer cancel()

	m := model.WalkRequest{
		WandererID:          wandererID,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		Address:             req.Address,
		DurationMinutes:     req.DurationMinutes,
		MobilityLevel:       req.MobilityLevel,
		PrimaryPurpose:      req.PrimaryPurpose,
		PurposeDetails:      req.PurposeDetails,
		SpecialRequirements: req.SpecialRequirements,
		Communication: model.CommunicationNeeds{
			PreferredLanguages: req.Communication.PreferredLanguages,
			SmallTalk:          req.Communication.SmallTalk,
			QuietWalk:          req.Communication.QuietWalk,
			AdditionalNotes:    req.Communication.AdditionalNotes,
		},
		Status: model.StatusPending,
	}

	walkID, err := ws.walksRepo.Create(ctx, m)
	if err != nil {
		log.Error("cannot create walk request", err)
		return dto.WalkResponseDto{}, err
	}

	created, err := ws.walksRepo.FindByID(ctx, walkID)
	if err != nil {
		log.Error("cannot read back walk request", err)
		return dto.WalkResponseDto{}, err
	}

	return toWalkResponse(created), nil
}

func (ws *WalksService) GetWalk(callerID, walkID string) (dto.WalkResponseDto, error) {
	ctx, cancel := context.WithTimeout(ws.ctx, opTimeout)
	defer cancel()

	m, err := ws.walksRepo.FindByID(ctx, walkID)
	if err != nil {
		return dto.WalkResponseDto{}, err
	}

	if m.WandererID != callerID && m.WalkerID != callerID {
		return dto.WalkResponseDto{}, myerrors.ErrForbidden
	}
	return toWalkResponse(m), nil
}

func (ws *WalksService) GetActiveWalk(wandererID string) (dto.WalkResponseDto, error) {
	ctx, cancel := context.WithTimeout(ws.ctx, opTimeout)
	defer cancel()

	m, err := ws.walksRepo.FindActiveByWanderer(ctx, wandererID)
	if err != nil {
		return dto.WalkResponseDto{}, err
	}
	return toWalkResponse(m), nil
}

func (ws *WalksService) GetHistory(wandererID string, page, limit int) (dto.WalkHistoryDto, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	ctx, cancel := context.WithTimeout(ws.ctx, opTimeout)
	defer cancel()

	walks, total, err := ws.walksRepo.HistoryByWanderer(ctx, wandererID, page, limit)
	if err != nil {
		return dto.WalkHistoryDto{}, err
	}

	res := dto.WalkHistoryDto{Page: page, Limit: limit, Total: total, Walks: make([]dto.WalkResponseDto, 0, len(walks))}
	for _, w := range walks {
		res.Walks = append(res.Walks, toWalkResponse(w))
	}
	return res, nil
}

// CancelWalk cancels a PENDING or MATCHED walk. A walk that already
// started cannot be cancelled, it must go through EndWalk and payment.
func (ws *WalksService) CancelWalk(wandererID, walkID, reason string) error {
	log := ws.mylog.Action("CancelWalk")

	ctx, cancel := context.WithTimeout(ws.ctx, opTimeout)
	defer cancel()

	m, err := ws.walksRepo.FindByID(ctx, walkID)
	if err != nil {
		return err
	}
	if m.WandererID != wandererID {
		return myerrors.ErrForbidden
	}

	if !model.CanTransition(m.Status, model.StatusCancelled) {
		return fmt.Errorf("cancel from %s: %w", m.Status, myerrors.ErrConflict)
	}

	if err := ws.walksRepo.MarkCancelled(ctx, walkID, m.Status, reason); err != nil {
		if errors.Is(err, myerrors.ErrConflict) {
			log.Warn("lost cancel race", "walk_id", walkID)
		}
		return err
	}

	if m.WalkerID != "" {
		if err := ws.availability.ClearEngaged(ctx, m.WalkerID); err != nil {
			log.Error("cannot clear engaged walker", err, "walker_id", m.WalkerID)
		}
		ws.notify(messagebrokerdto.Notification{
			UserID: m.WalkerID,
			Type:   messagebrokerdto.WalkCancelled,
			Payload: map[string]any{
				"walk_id": walkID,
				"reason":  reason,
			},
		})
	}
	return nil
}

// notify publishes fire-and-forget. Delivery failures are logged, never
// surfaced to the caller.
func (ws *WalksService) notify(msg messagebrokerdto.Notification) {
	go func() {
		ctx, cancel := context.WithTimeout(ws.ctx, time.Second*5)
		defer cancel()
		if err := ws.broker.PushNotification(ctx, msg); err != nil {
			ws.mylog.Action("notify").Error("cannot publish notification", err, "user_id", msg.UserID, "type", msg.Type)
		}
	}()
}

func toWalkResponse(m model.WalkRequest) dto.WalkResponseDto {
	return dto.WalkResponseDto{
		WalkID:          m.ID,
		WandererID:      m.WandererID,
		WalkerID:        m.WalkerID,
		Status:          m.Status,
		Address:         m.Address,
		DurationMinutes: m.DurationMinutes,
		MobilityLevel:   m.MobilityLevel,
		PrimaryPurpose:  m.PrimaryPurpose,
		CreatedAt:       m.CreatedAt,
	}
}
