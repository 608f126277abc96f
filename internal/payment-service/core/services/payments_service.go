package services

import (
	"context"
	"errors"
	"math"
	"time"

	"walk-companion/internal/config"
	"walk-companion/internal/fare"
	"walk-companion/internal/mylogger"
	"walk-companion/internal/observability"
	"walk-companion/internal/payment-service/core/domain/dto"
	messagebrokerdto "walk-companion/internal/payment-service/core/domain/message_broker_dto"
	"walk-companion/internal/payment-service/core/domain/model"
	"walk-companion/internal/payment-service/core/myerrors"
	"walk-companion/internal/payment-service/core/ports"
)

const (
	opTimeout     = time.Second * 15
	orderCurrency = "INR"
	receiptPrefix = "WLK_"
	receiptMaxLen = 40
)

type PaymentsService struct {
	ctx          context.Context
	mylog        mylogger.Logger
	cfg          *config.Matchingconfig
	sessionsRepo ports.ISessionsRepo
	paymentsRepo ports.IPaymentsRepo
	gateway      ports.IGateway
	availability ports.IAvailabilityControl
	broker       ports.INotifyBroker
}

func NewPaymentsService(ctx context.Context,
	log mylogger.Logger,
	cfg *config.Matchingconfig,
	sessionsRepo ports.ISessionsRepo,
	paymentsRepo ports.IPaymentsRepo,
	gateway ports.IGateway,
	availability ports.IAvailabilityControl,
	broker ports.INotifyBroker,
) ports.IPaymentsService {
	return &PaymentsService{
		ctx:          ctx,
		mylog:        log,
		cfg:          cfg,
		sessionsRepo: sessionsRepo,
		paymentsRepo: paymentsRepo,
		gateway:      gateway,
		availability: availability,
		broker:       broker,
	}
}

// CreateOrder opens a gateway order for a session awaiting payment.
// Calling it again while the order is open returns the same order, and a
// settled session refuses a new one.
func (ps *PaymentsService) CreateOrder(callerID, sessionID string) (dto.CreateOrderResponseDto, error) {
	log := ps.mylog.Action("CreateOrder")

	ctx, cancel := context.WithTimeout(ps.ctx, opTimeout)
	defer cancel()

	session, err := ps.sessionsRepo.FindByID(ctx, sessionID)
	if err != nil {
		return dto.CreateOrderResponseDto{}, err
	}
	if session.WandererID != callerID {
		return dto.CreateOrderResponseDto{}, myerrors.ErrForbidden
	}
	if session.Status != "PAYMENT_PENDING" {
		return dto.CreateOrderResponseDto{}, myerrors.ErrInvalidState
	}

	existing, err := ps.paymentsRepo.FindLiveBySession(ctx, sessionID)
	switch {
	case err == nil && existing.Status == model.PaymentSuccess:
		return dto.CreateOrderResponseDto{}, myerrors.ErrAlreadyPaid
	case err == nil && existing.Status == model.PaymentPending:
		return toOrderResponse(existing), nil
	case err != nil && !errors.Is(err, myerrors.ErrNotFound):
		return dto.CreateOrderResponseDto{}, err
	}

	total := session.FareTotal
	commission := session.FareCommission
	earnings := session.FareEarnings
	if total <= 0 {
		breakdown := fare.Calculate(session.DurationMins)
		total = breakdown.TotalAmount
		commission = breakdown.PlatformCommission
		earnings = breakdown.WalkerEarnings
	}

	receipt := receiptPrefix + sessionID
	if len(receipt) > receiptMaxLen {
		receipt = receipt[:receiptMaxLen]
	}
	amountPaise := int64(math.Round(total * 100))

	order, err := ps.gateway.CreateOrder(ctx, amountPaise, receipt)
	if err != nil {
		log.Error("gateway order failed", err, "session_id", sessionID)
		return dto.CreateOrderResponseDto{}, err
	}

	payment := model.Payment{
		WalkSessionID:      sessionID,
		WandererID:         session.WandererID,
		WalkerID:           session.WalkerID,
		TotalAmount:        total,
		PlatformCommission: commission,
		WalkerEarnings:     earnings,
		GatewayOrderID:     order.OrderID,
		Status:             model.PaymentPending,
	}
	paymentID, err := ps.paymentsRepo.Create(ctx, payment)
	if err != nil {
		log.Error("cannot persist payment", err, "session_id", sessionID)
		return dto.CreateOrderResponseDto{}, err
	}

	payment.ID = paymentID
	return toOrderResponse(payment), nil
}

// VerifyPayment checks the gateway signature and settles the walk. The
// settlement itself is a single transaction; a second verification of
// the same order is a no-op returning the stored record.
func (ps *PaymentsService) VerifyPayment(req dto.VerifyPaymentRequestDto) (dto.PaymentResponseDto, error) {
	log := ps.mylog.Action("VerifyPayment")

	if !ps.gateway.VerifySignature(req.GatewayOrderID, req.GatewayPaymentID, req.GatewaySignature) {
		return dto.PaymentResponseDto{}, myerrors.ErrInvalidSignature
	}

	ctx, cancel := context.WithTimeout(ps.ctx, opTimeout)
	defer cancel()

	result, err := ps.paymentsRepo.Reconcile(ctx, req.GatewayOrderID, req.GatewayPaymentID, req.GatewaySignature)
	if err != nil {
		log.Error("reconciliation failed", err, "order_id", req.GatewayOrderID)
		return dto.PaymentResponseDto{}, err
	}

	if result.Applied {
		observability.PaymentsVerifiedTotal.Inc()
		ps.afterSettlement(result.Payment)
	}
	return toPaymentResponse(result.Payment), nil
}

func (ps *PaymentsService) GetPayment(callerID, paymentID string) (dto.PaymentResponseDto, error) {
	ctx, cancel := context.WithTimeout(ps.ctx, opTimeout)
	defer cancel()

	payment, err := ps.paymentsRepo.FindByID(ctx, paymentID)
	if err != nil {
		return dto.PaymentResponseDto{}, err
	}
	if callerID != payment.WandererID && callerID != payment.WalkerID {
		return dto.PaymentResponseDto{}, myerrors.ErrForbidden
	}
	return toPaymentResponse(payment), nil
}

// afterSettlement runs the post-commit side effects: the walker comes
// back to the pool behind a short cooldown and both parties hear about
// the settled walk. Failures here never roll back the payment.
func (ps *PaymentsService) afterSettlement(payment model.Payment) {
	go func() {
		ctx, cancel := context.WithTimeout(ps.ctx, opTimeout)
		defer cancel()

		log := ps.mylog.Action("afterSettlement")

		if err := ps.availability.ReopenWithCooldown(ctx, payment.WalkerID, ps.cfg.CooldownSeconds); err != nil {
			log.Error("cannot reopen walker availability", err, "walker_id", payment.WalkerID)
		}
		if err := ps.availability.ClearEngaged(ctx, payment.WalkerID); err != nil {
			log.Error("cannot clear engaged walker", err, "walker_id", payment.WalkerID)
		}

		notifications := []messagebrokerdto.Notification{
			{
				UserID: payment.WandererID,
				Type:   messagebrokerdto.PaymentCompleted,
				Payload: map[string]any{
					"payment_id":   payment.ID,
					"session_id":   payment.WalkSessionID,
					"total_amount": payment.TotalAmount,
				},
			},
			{
				UserID: payment.WalkerID,
				Type:   messagebrokerdto.EarningsCredited,
				Payload: map[string]any{
					"payment_id": payment.ID,
					"session_id": payment.WalkSessionID,
					"earnings":   payment.WalkerEarnings,
				},
			},
		}
		for _, msg := range notifications {
			if err := ps.broker.PushNotification(ctx, msg); err != nil {
				log.Error("cannot publish notification", err, "user_id", msg.UserID)
			}
		}
	}()
}

func toOrderResponse(p model.Payment) dto.CreateOrderResponseDto {
	receipt := receiptPrefix + p.WalkSessionID
	if len(receipt) > receiptMaxLen {
		receipt = receipt[:receiptMaxLen]
	}
	return dto.CreateOrderResponseDto{
		PaymentID:      p.ID,
		GatewayOrderID: p.GatewayOrderID,
		AmountPaise:    int64(math.Round(p.TotalAmount * 100)),
		Currency:       orderCurrency,
		Receipt:        receipt,
		TotalAmount:    p.TotalAmount,
		Status:         p.Status,
	}
}

func toPaymentResponse(p model.Payment) dto.PaymentResponseDto {
	return dto.PaymentResponseDto{
		PaymentID:          p.ID,
		SessionID:          p.WalkSessionID,
		TotalAmount:        p.TotalAmount,
		PlatformCommission: p.PlatformCommission,
		WalkerEarnings:     p.WalkerEarnings,
		Status:             p.Status,
		CompletedAt:        p.CompletedAt,
		CreatedAt:          p.CreatedAt,
	}
}
