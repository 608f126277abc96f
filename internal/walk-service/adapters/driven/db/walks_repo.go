package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"walk-companion/internal/walk-service/core/domain/model"
	"walk-companion/internal/walk-service/core/myerrors"
	"walk-companion/internal/walk-service/core/ports"

	"github.com/jackc/pgx/v5"
)

type WalksRepo struct {
	db *DB
}

func NewWalksRepo(db *DB) ports.IWalksRepo {
	return &WalksRepo{
		db: db,
	}
}

const walkColumns = `
	id, wanderer_id, walker_id, latitude, longitude, address,
	duration_minutes, mobility_level, primary_purpose, purpose_details,
	special_requirements, communication_needs, status, otp_hash,
	otp_expires_at, otp_verified, scheduled_for, subscription_id,
	matched_at, started_at, completed_at, cancelled_at,
	cancellation_reason, created_at, updated_at`

func (wr *WalksRepo) Create(ctx context.Context, m model.WalkRequest) (string, error) {
	q := `
	INSERT INTO walk_requests (
		wanderer_id, latitude, longitude, address, duration_minutes,
		mobility_level, primary_purpose, purpose_details,
		special_requirements, communication_needs, status,
		scheduled_for, subscription_id
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING id`

	comm, err := json.Marshal(m.Communication)
	if err != nil {
		return "", err
	}

	row := wr.db.conn.QueryRow(ctx, q,
		m.WandererID,
		m.Latitude,
		m.Longitude,
		m.Address,
		m.DurationMinutes,
		m.MobilityLevel,
		m.PrimaryPurpose,
		nullString(m.PurposeDetails),
		nullString(m.SpecialRequirements),
		comm,
		m.Status,
		nullTime(m.ScheduledFor),
		nullString(m.SubscriptionID),
	)

	walkID := ""
	if err := row.Scan(&walkID); err != nil {
		return "", err
	}
	return walkID, nil
}

func (wr *WalksRepo) FindByID(ctx context.Context, walkID string) (model.WalkRequest, error) {
	q := `SELECT ` + walkColumns + ` FROM walk_requests WHERE id = $1`
	return wr.scanWalk(wr.db.conn.QueryRow(ctx, q, walkID))
}

func (wr *WalksRepo) FindActiveByWanderer(ctx context.Context, wandererID string) (model.WalkRequest, error) {
	q := `SELECT ` + walkColumns + `
	FROM walk_requests
	WHERE wanderer_id = $1
	  AND status IN ('PENDING', 'MATCHED', 'IN_PROGRESS', 'PAYMENT_PENDING')
	ORDER BY created_at DESC
	LIMIT 1`
	return wr.scanWalk(wr.db.conn.QueryRow(ctx, q, wandererID))
}

func (wr *WalksRepo) HistoryByWanderer(ctx context.Context, wandererID string, page, limit int) ([]model.WalkRequest, int64, error) {
	var total int64
	countQ := `SELECT COUNT(*) FROM walk_requests WHERE wanderer_id = $1`
	if err := wr.db.conn.QueryRow(ctx, countQ, wandererID).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + walkColumns + `
	FROM walk_requests
	WHERE wanderer_id = $1
	ORDER BY created_at DESC
	LIMIT $2 OFFSET $3`

	rows, err := wr.db.conn.Query(ctx, q, wandererID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	walks := []model.WalkRequest{}
	for rows.Next() {
		w, err := wr.scanWalk(rows)
		if err != nil {
			return nil, 0, err
		}
		walks = append(walks, w)
	}
	return walks, total, rows.Err()
}

func (wr *WalksRepo) PendingForWalker(ctx context.Context, walkerID string, limit int) ([]model.WalkRequest, error) {
	q := `SELECT ` + walkColumns + `
	FROM walk_requests
	WHERE walker_id = $1
	  AND status = 'PENDING'
	  AND created_at > NOW() - INTERVAL '24 hours'
	ORDER BY created_at DESC
	LIMIT $2`

	rows, err := wr.db.conn.Query(ctx, q, walkerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	walks := []model.WalkRequest{}
	for rows.Next() {
		w, err := wr.scanWalk(rows)
		if err != nil {
			return nil, err
		}
		walks = append(walks, w)
	}
	return walks, rows.Err()
}

func (wr *WalksRepo) AssignWalker(ctx context.Context, walkID, walkerID string) error {
	q := `UPDATE walk_requests
	SET walker_id = $2, updated_at = NOW()
	WHERE id = $1 AND status = 'PENDING'`
	return wr.conditional(ctx, q, walkID, walkerID)
}

func (wr *WalksRepo) ClearWalker(ctx context.Context, walkID string) error {
	q := `UPDATE walk_requests
	SET walker_id = NULL, updated_at = NOW()
	WHERE id = $1 AND status = 'PENDING'`
	return wr.conditional(ctx, q, walkID)
}

func (wr *WalksRepo) MarkMatched(ctx context.Context, walkID, walkerID, otpHash string, otpExpiresAt time.Time) error {
	q := `UPDATE walk_requests
	SET status = 'MATCHED', walker_id = $2, otp_hash = $3,
	    otp_expires_at = $4, matched_at = NOW(), updated_at = NOW()
	WHERE id = $1
	  AND status = 'PENDING'
	  AND (walker_id IS NULL OR walker_id = $2)`
	return wr.conditional(ctx, q, walkID, walkerID, otpHash, otpExpiresAt)
}

func (wr *WalksRepo) MarkStarted(ctx context.Context, walkID string) error {
	q := `UPDATE walk_requests
	SET status = 'IN_PROGRESS', otp_verified = TRUE,
	    started_at = NOW(), updated_at = NOW()
	WHERE id = $1 AND status = 'MATCHED' AND otp_verified = FALSE`
	return wr.conditional(ctx, q, walkID)
}

func (wr *WalksRepo) MarkCancelled(ctx context.Context, walkID, fromStatus, reason string) error {
	q := `UPDATE walk_requests
	SET status = 'CANCELLED', cancelled_at = NOW(),
	    cancellation_reason = $3, updated_at = NOW()
	WHERE id = $1 AND status = $2`
	return wr.conditional(ctx, q, walkID, fromStatus, reason)
}

func (wr *WalksRepo) MarkPaymentPending(ctx context.Context, walkID string) error {
	q := `UPDATE walk_requests
	SET status = 'PAYMENT_PENDING', updated_at = NOW()
	WHERE id = $1 AND status = 'IN_PROGRESS'`
	return wr.conditional(ctx, q, walkID)
}

// conditional runs a status-guarded UPDATE. Zero affected rows means the
// row moved on since the caller read it.
func (wr *WalksRepo) conditional(ctx context.Context, q string, args ...any) error {
	tag, err := wr.db.conn.Exec(ctx, q, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrConflict
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (wr *WalksRepo) scanWalk(row rowScanner) (model.WalkRequest, error) {
	var (
		m            model.WalkRequest
		walkerID     sql.NullString
		purpose      sql.NullString
		special      sql.NullString
		comm         []byte
		otpHash      sql.NullString
		otpExpiresAt sql.NullTime
		scheduledFor sql.NullTime
		subID        sql.NullString
		matchedAt    sql.NullTime
		startedAt    sql.NullTime
		completedAt  sql.NullTime
		cancelledAt  sql.NullTime
		cancelReason sql.NullString
	)

	err := row.Scan(
		&m.ID, &m.WandererID, &walkerID, &m.Latitude, &m.Longitude, &m.Address,
		&m.DurationMinutes, &m.MobilityLevel, &m.PrimaryPurpose, &purpose,
		&special, &comm, &m.Status, &otpHash,
		&otpExpiresAt, &m.OtpVerified, &scheduledFor, &subID,
		&matchedAt, &startedAt, &completedAt, &cancelledAt,
		&cancelReason, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.WalkRequest{}, myerrors.ErrNotFound
		}
		return model.WalkRequest{}, err
	}

	if len(comm) > 0 {
		if err := json.Unmarshal(comm, &m.Communication); err != nil {
			return model.WalkRequest{}, err
		}
	}

	m.WalkerID = walkerID.String
	m.PurposeDetails = purpose.String
	m.SpecialRequirements = special.String
	m.OtpHash = otpHash.String
	m.OtpExpiresAt = otpExpiresAt.Time
	m.ScheduledFor = scheduledFor.Time
	m.SubscriptionID = subID.String
	m.MatchedAt = matchedAt.Time
	m.StartedAt = startedAt.Time
	m.CompletedAt = completedAt.Time
	m.CancelledAt = cancelledAt.Time
	m.CancellationReason = cancelReason.String
	return m, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
