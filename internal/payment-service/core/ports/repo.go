package ports

import (
	"context"

	"walk-companion/internal/payment-service/core/domain/model"

	"github.com/jackc/pgx/v5"
)

type IDB interface {
	GetConn() *pgx.Conn
	IsAlive() error
	Close() error
}

type ISessionsRepo interface {
	FindByID(ctx context.Context, sessionID string) (model.SessionView, error)
}

// ReconcileResult reports what a verification attempt did. Applied is
// false when the payment was already SUCCESS, in which case the stored
// record is returned untouched.
type ReconcileResult struct {
	Payment model.Payment
	Applied bool
}

type IPaymentsRepo interface {
	Create(context.Context, model.Payment) (string, error)
	FindByID(ctx context.Context, paymentID string) (model.Payment, error)
	FindByOrderID(ctx context.Context, orderID string) (model.Payment, error)
	FindLiveBySession(ctx context.Context, sessionID string) (model.Payment, error)

	// Reconcile runs the whole post-verification settlement in one
	// transaction: payment PENDING -> SUCCESS, session and walk request
	// COMPLETED, walker wallet and totals credited, ledger row written.
	Reconcile(ctx context.Context, orderID, paymentID, signature string) (ReconcileResult, error)
}

type IWalletRepo interface {
	Balance(ctx context.Context, userID string) (float64, error)
	Credit(ctx context.Context, userID string, amount float64, description string) (float64, error)
	History(ctx context.Context, userID string, page, limit int) ([]model.HistoryEntry, int64, error)
}

type IPayoutsRepo interface {
	// CreateWithDebit records the payout row and takes the amount out of
	// the wallet in one transaction. Returns the payout id and remaining
	// balance, or myerrors.ErrInsufficientBalance.
	CreateWithDebit(context.Context, model.Payout) (string, float64, error)
	SetResult(ctx context.Context, payoutID, status, externalRef string) error
}
