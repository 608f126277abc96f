package services

import (
	"context"
	"time"

	"walk-companion/internal/fare"
	"walk-companion/internal/mylogger"
	"walk-companion/internal/walk-service/core/domain/dto"
	messagebrokerdto "walk-companion/internal/walk-service/core/domain/message_broker_dto"
	"walk-companion/internal/walk-service/core/domain/model"
	"walk-companion/internal/walk-service/core/myerrors"
	"walk-companion/internal/walk-service/core/ports"

	"golang.org/x/crypto/bcrypt"
)

type SessionsService struct {
	ctx          context.Context
	mylog        mylogger.Logger
	walksRepo    ports.IWalksRepo
	sessionsRepo ports.ISessionsRepo
	broker       ports.INotifyBroker
}

func NewSessionsService(ctx context.Context,
	log mylogger.Logger,
	walksRepo ports.IWalksRepo,
	sessionsRepo ports.ISessionsRepo,
	broker ports.INotifyBroker,
) ports.ISessionsService {
	return &SessionsService{
		ctx:          ctx,
		mylog:        log,
		walksRepo:    walksRepo,
		sessionsRepo: sessionsRepo,
		broker:       broker,
	}
}

// StartWalk verifies the OTP handed to the wanderer at accept time and
// moves the walk into IN_PROGRESS, opening an active session. Either
// party may submit the code.
func (ss *SessionsService) StartWalk(callerID, walkID, otp string) (dto.SessionResponseDto, error) {
	log := ss.mylog.Action("StartWalk")

	ctx, cancel := context.WithTimeout(ss.ctx, opTimeout)
	defer cancel()

	walk, err := ss.walksRepo.FindByID(ctx, walkID)
	if err != nil {
		return dto.SessionResponseDto{}, err
	}
	if callerID != walk.WandererID && callerID != walk.WalkerID {
		return dto.SessionResponseDto{}, myerrors.ErrForbidden
	}
	if !model.CanTransition(walk.Status, model.StatusInProgress) || walk.OtpVerified {
		return dto.SessionResponseDto{}, myerrors.ErrConflict
	}
	if time.Now().After(walk.OtpExpiresAt) {
		return dto.SessionResponseDto{}, myerrors.ErrOtpExpired
	}
	if err := bcrypt.CompareHashAndPassword([]byte(walk.OtpHash), []byte(otp)); err != nil {
		return dto.SessionResponseDto{}, myerrors.ErrInvalidOtp
	}

	if err := ss.walksRepo.MarkStarted(ctx, walkID); err != nil {
		return dto.SessionResponseDto{}, err
	}

	session := model.WalkSession{
		WalkRequestID: walkID,
		WandererID:    walk.WandererID,
		WalkerID:      walk.WalkerID,
		Status:        model.SessionActive,
		StartTime:     time.Now(),
	}
	sessionID, err := ss.sessionsRepo.Create(ctx, session)
	if err != nil {
		log.Error("cannot create walk session", err, "walk_id", walkID)
		return dto.SessionResponseDto{}, err
	}

	ss.notifyParties(walk.WandererID, walk.WalkerID, messagebrokerdto.Notification{
		Type:    messagebrokerdto.WalkStarted,
		Payload: map[string]any{"walk_id": walkID, "session_id": sessionID},
	})

	session.ID = sessionID
	return toSessionResponse(session), nil
}

// EndWalk freezes the fare and hands the session over to payment. The
// fare comes from the agreed duration, not the wall clock, and never
// changes once written.
func (ss *SessionsService) EndWalk(callerID, sessionID string) (dto.SessionResponseDto, error) {
	log := ss.mylog.Action("EndWalk")

	ctx, cancel := context.WithTimeout(ss.ctx, opTimeout)
	defer cancel()

	session, err := ss.sessionsRepo.FindByID(ctx, sessionID)
	if err != nil {
		return dto.SessionResponseDto{}, err
	}
	if callerID != session.WandererID && callerID != session.WalkerID {
		return dto.SessionResponseDto{}, myerrors.ErrForbidden
	}
	if session.Status != model.SessionActive {
		return dto.SessionResponseDto{}, myerrors.ErrConflict
	}

	walk, err := ss.walksRepo.FindByID(ctx, session.WalkRequestID)
	if err != nil {
		return dto.SessionResponseDto{}, err
	}

	breakdown := fare.Calculate(walk.DurationMinutes)
	if err := ss.sessionsRepo.FreezeFare(ctx, sessionID, breakdown.TotalAmount, breakdown.PlatformCommission, breakdown.WalkerEarnings); err != nil {
		return dto.SessionResponseDto{}, err
	}

	if err := ss.walksRepo.MarkPaymentPending(ctx, session.WalkRequestID); err != nil {
		log.Error("cannot move walk to payment", err, "walk_id", session.WalkRequestID)
		return dto.SessionResponseDto{}, err
	}

	ss.notifyParties(session.WandererID, session.WalkerID, messagebrokerdto.Notification{
		Type: messagebrokerdto.WalkPaymentPending,
		Payload: map[string]any{
			"session_id":   sessionID,
			"total_amount": breakdown.TotalAmount,
		},
	})

	session.Status = model.SessionPaymentPending
	session.EndTime = time.Now()
	session.FareTotal = breakdown.TotalAmount
	session.FareCommission = breakdown.PlatformCommission
	session.FareEarnings = breakdown.WalkerEarnings
	return toSessionResponse(session), nil
}

func (ss *SessionsService) GetSession(callerID, sessionID string) (dto.SessionResponseDto, error) {
	ctx, cancel := context.WithTimeout(ss.ctx, opTimeout)
	defer cancel()

	session, err := ss.sessionsRepo.FindByID(ctx, sessionID)
	if err != nil {
		return dto.SessionResponseDto{}, err
	}
	if callerID != session.WandererID && callerID != session.WalkerID {
		return dto.SessionResponseDto{}, myerrors.ErrForbidden
	}
	return toSessionResponse(session), nil
}

func (ss *SessionsService) TriggerSos(callerID, sessionID string) error {
	ctx, cancel := context.WithTimeout(ss.ctx, opTimeout)
	defer cancel()

	session, err := ss.sessionsRepo.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if callerID != session.WandererID && callerID != session.WalkerID {
		return myerrors.ErrForbidden
	}
	if session.SosTriggered {
		return myerrors.ErrConflict
	}

	if err := ss.sessionsRepo.TriggerSos(ctx, sessionID); err != nil {
		return err
	}

	ss.notifyParties(session.WandererID, session.WalkerID, messagebrokerdto.Notification{
		Type:    messagebrokerdto.SosTriggered,
		Payload: map[string]any{"session_id": sessionID, "triggered_by": callerID},
	})
	return nil
}

func (ss *SessionsService) ResolveSos(callerID, sessionID, notes string) error {
	ctx, cancel := context.WithTimeout(ss.ctx, opTimeout)
	defer cancel()

	session, err := ss.sessionsRepo.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if callerID != session.WandererID && callerID != session.WalkerID {
		return myerrors.ErrForbidden
	}
	if !session.SosTriggered {
		return myerrors.ErrInvalidState
	}
	if session.SosResolved {
		return myerrors.ErrConflict
	}

	if err := ss.sessionsRepo.ResolveSos(ctx, sessionID, notes); err != nil {
		return err
	}

	ss.notifyParties(session.WandererID, session.WalkerID, messagebrokerdto.Notification{
		Type:    messagebrokerdto.SosResolved,
		Payload: map[string]any{"session_id": sessionID},
	})
	return nil
}

func (ss *SessionsService) notifyParties(wandererID, walkerID string, msg messagebrokerdto.Notification) {
	for _, userID := range []string{wandererID, walkerID} {
		m := msg
		m.UserID = userID
		go func(m messagebrokerdto.Notification) {
			ctx, cancel := context.WithTimeout(ss.ctx, time.Second*5)
			defer cancel()
			if err := ss.broker.PushNotification(ctx, m); err != nil {
				ss.mylog.Action("notify").Error("cannot publish notification", err, "user_id", m.UserID, "type", m.Type)
			}
		}(m)
	}
}

func toSessionResponse(s model.WalkSession) dto.SessionResponseDto {
	return dto.SessionResponseDto{
		SessionID:      s.ID,
		WalkID:         s.WalkRequestID,
		WandererID:     s.WandererID,
		WalkerID:       s.WalkerID,
		Status:         s.Status,
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		FareTotal:      s.FareTotal,
		FareEarnings:   s.FareEarnings,
		FareCommission: s.FareCommission,
		SosTriggered:   s.SosTriggered,
		SosResolved:    s.SosResolved,
	}
}
