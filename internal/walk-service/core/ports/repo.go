package ports

import (
	"context"
	"time"

	"walk-companion/internal/walk-service/core/domain/model"

	"github.com/jackc/pgx/v5"
)

type IDB interface {
	GetConn() *pgx.Conn
	IsAlive() error
	Close() error
}

type IWalksRepo interface {
	Create(context.Context, model.WalkRequest) (string, error)
	FindByID(ctx context.Context, walkID string) (model.WalkRequest, error)
	FindActiveByWanderer(ctx context.Context, wandererID string) (model.WalkRequest, error)
	HistoryByWanderer(ctx context.Context, wandererID string, page, limit int) ([]model.WalkRequest, int64, error)
	PendingForWalker(ctx context.Context, walkerID string, limit int) ([]model.WalkRequest, error)

	// Conditional updates. Each returns myerrors.ErrConflict when the
	// row is not in the expected "from" status.
	AssignWalker(ctx context.Context, walkID, walkerID string) error
	ClearWalker(ctx context.Context, walkID string) error
	MarkMatched(ctx context.Context, walkID, walkerID, otpHash string, otpExpiresAt time.Time) error
	MarkStarted(ctx context.Context, walkID string) error
	MarkCancelled(ctx context.Context, walkID, fromStatus, reason string) error
	MarkPaymentPending(ctx context.Context, walkID string) error
}

type IProfilesRepo interface {
	WalkerProfiles(ctx context.Context, walkerIDs []string) (map[string]model.WalkerProfile, error)
}

type ISessionsRepo interface {
	Create(context.Context, model.WalkSession) (string, error)
	FindByID(ctx context.Context, sessionID string) (model.WalkSession, error)
	FreezeFare(ctx context.Context, sessionID string, total, commission, earnings float64) error
	TriggerSos(ctx context.Context, sessionID string) error
	ResolveSos(ctx context.Context, sessionID, notes string) error
}

type ISubscriptionsRepo interface {
	Create(context.Context, model.WalkSubscription) (string, error)
	FindByID(ctx context.Context, subscriptionID string) (model.WalkSubscription, error)
	FindActiveByWanderer(ctx context.Context, wandererID string) (model.WalkSubscription, error)
	Update(context.Context, model.WalkSubscription) error
	SetStatus(ctx context.Context, subscriptionID, from, to string) error
	RecordWalk(ctx context.Context, subscriptionID string, walkDate, nextDate time.Time) error
}
