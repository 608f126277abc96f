package ports

import (
	"context"

	"walk-companion/internal/payment-service/core/domain/dto"
	messagebrokerdto "walk-companion/internal/payment-service/core/domain/message_broker_dto"
)

type IPaymentsService interface {
	CreateOrder(callerID, sessionID string) (dto.CreateOrderResponseDto, error)
	VerifyPayment(req dto.VerifyPaymentRequestDto) (dto.PaymentResponseDto, error)
	GetPayment(callerID, paymentID string) (dto.PaymentResponseDto, error)
}

type IWalletService interface {
	Balance(userID string) (dto.WalletBalanceDto, error)
	Add(userID string, amount float64) (dto.WalletBalanceDto, error)
	Withdraw(userID string, req dto.WithdrawRequestDto) (dto.WithdrawResponseDto, error)
	History(userID string, page, limit int) (dto.TransactionHistoryDto, error)
}

type INotifyBroker interface {
	Close() error
	PushNotification(ctx context.Context, msg messagebrokerdto.Notification) error
}
