package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"walk-companion/internal/config"
	"walk-companion/internal/mylogger"
	"walk-companion/internal/observability"
	"walk-companion/internal/payment-service/core/domain/dto"
	"walk-companion/internal/payment-service/core/domain/model"
	"walk-companion/internal/payment-service/core/myerrors"
	"walk-companion/internal/payment-service/core/ports"
)

type WalletService struct {
	ctx         context.Context
	mylog       mylogger.Logger
	cfg         *config.Paymentconfig
	walletRepo  ports.IWalletRepo
	payoutsRepo ports.IPayoutsRepo
	provider    ports.ITransferProvider
}

func NewWalletService(ctx context.Context,
	log mylogger.Logger,
	cfg *config.Paymentconfig,
	walletRepo ports.IWalletRepo,
	payoutsRepo ports.IPayoutsRepo,
	provider ports.ITransferProvider,
) ports.IWalletService {
	return &WalletService{
		ctx:         ctx,
		mylog:       log,
		cfg:         cfg,
		walletRepo:  walletRepo,
		payoutsRepo: payoutsRepo,
		provider:    provider,
	}
}

func (ws *WalletService) Balance(userID string) (dto.WalletBalanceDto, error) {
	ctx, cancel := context.WithTimeout(ws.ctx, opTimeout)
	defer cancel()

	balance, err := ws.walletRepo.Balance(ctx, userID)
	if err != nil {
		return dto.WalletBalanceDto{}, err
	}
	return dto.WalletBalanceDto{UserID: userID, Balance: balance}, nil
}

func (ws *WalletService) Add(userID string, amount float64) (dto.WalletBalanceDto, error) {
	if amount <= 0 {
		return dto.WalletBalanceDto{}, fmt.Errorf("amount must be positive: %w", myerrors.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ws.ctx, opTimeout)
	defer cancel()

	balance, err := ws.walletRepo.Credit(ctx, userID, amount, "Wallet top-up")
	if err != nil {
		return dto.WalletBalanceDto{}, err
	}
	return dto.WalletBalanceDto{UserID: userID, Balance: balance}, nil
}

// Withdraw validates the request, records the payout and debits the
// wallet in one transaction, then attempts the transfer. A failed or
// deferred transfer leaves the payout PENDING for an operator to retry;
// the money has already left the wallet either way.
func (ws *WalletService) Withdraw(userID string, req dto.WithdrawRequestDto) (dto.WithdrawResponseDto, error) {
	log := ws.mylog.Action("Withdraw")

	if err := ws.validateWithdraw(req); err != nil {
		return dto.WithdrawResponseDto{}, err
	}

	ctx, cancel := context.WithTimeout(ws.ctx, opTimeout)
	defer cancel()

	payout := model.Payout{
		UserID:          userID,
		Amount:          req.Amount,
		Method:          req.Method,
		BeneficiaryName: req.BeneficiaryName,
		AccountNumber:   req.AccountNumber,
		Ifsc:            req.Ifsc,
		UpiID:           req.UpiID,
		Status:          model.PayoutPending,
	}
	payoutID, remaining, err := ws.payoutsRepo.CreateWithDebit(ctx, payout)
	if err != nil {
		return dto.WithdrawResponseDto{}, err
	}

	status := model.PayoutPending
	externalRef := ""

	if ws.provider.Enabled() {
		amountPaise := int64(math.Round(req.Amount * 100))
		result, err := ws.provider.Transfer(ctx, payoutID, amountPaise, req.Method, req.AccountNumber, req.Ifsc, req.UpiID)
		switch {
		case err != nil:
			log.Error("transfer provider failed, payout stays pending", err, "payout_id", payoutID)
		case result.Processed:
			status = model.PayoutSuccess
			externalRef = result.ReferenceID
		default:
			externalRef = result.ReferenceID
		}
	} else {
		status = model.PayoutSuccess
		externalRef = fmt.Sprintf("SIMULATED_%d", time.Now().Unix())
	}

	if status != model.PayoutPending || externalRef != "" {
		if err := ws.payoutsRepo.SetResult(ctx, payoutID, status, externalRef); err != nil {
			log.Error("cannot record payout result", err, "payout_id", payoutID)
		}
	}

	observability.PayoutsTotal.WithLabelValues(status).Inc()

	return dto.WithdrawResponseDto{
		PayoutID:            payoutID,
		Amount:              req.Amount,
		Method:              req.Method,
		Status:              status,
		ExternalReferenceID: externalRef,
		RemainingBalance:    remaining,
	}, nil
}

func (ws *WalletService) History(userID string, page, limit int) (dto.TransactionHistoryDto, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	ctx, cancel := context.WithTimeout(ws.ctx, opTimeout)
	defer cancel()

	entries, total, err := ws.walletRepo.History(ctx, userID, page, limit)
	if err != nil {
		return dto.TransactionHistoryDto{}, err
	}

	res := dto.TransactionHistoryDto{
		Page:         page,
		Limit:        limit,
		Total:        total,
		Transactions: make([]dto.TransactionDto, 0, len(entries)),
	}
	for _, e := range entries {
		res.Transactions = append(res.Transactions, dto.TransactionDto{
			ID:        e.ID,
			Kind:      e.Kind,
			Amount:    e.Amount,
			Status:    e.Status,
			CreatedAt: e.CreatedAt,
		})
	}
	return res, nil
}

func (ws *WalletService) validateWithdraw(req dto.WithdrawRequestDto) error {
	if req.Amount <= 0 {
		return fmt.Errorf("amount must be positive: %w", myerrors.ErrValidation)
	}
	if req.Amount < ws.cfg.MinWithdrawAmount {
		return fmt.Errorf("minimum withdrawal is %.0f: %w", ws.cfg.MinWithdrawAmount, myerrors.ErrValidation)
	}

	switch req.Method {
	case model.MethodUpi:
		if len(req.UpiID) < 6 {
			return fmt.Errorf("UPI id must be at least 6 characters: %w", myerrors.ErrValidation)
		}
	case model.MethodBank:
		if req.AccountNumber == "" || req.Ifsc == "" {
			return fmt.Errorf("bank withdrawal needs account number and IFSC: %w", myerrors.ErrValidation)
		}
	default:
		return fmt.Errorf("unknown withdrawal method %q: %w", req.Method, myerrors.ErrValidation)
	}
	return nil
}
