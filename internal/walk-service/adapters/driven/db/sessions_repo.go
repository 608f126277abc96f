package db

import (
	"context"
	"database/sql"
	"errors"

	"walk-companion/internal/walk-service/core/domain/model"
	"walk-companion/internal/walk-service/core/myerrors"
	"walk-companion/internal/walk-service/core/ports"

	"github.com/jackc/pgx/v5"
)

type SessionsRepo struct {
	db *DB
}

func NewSessionsRepo(db *DB) ports.ISessionsRepo {
	return &SessionsRepo{
		db: db,
	}
}

func (sr *SessionsRepo) Create(ctx context.Context, m model.WalkSession) (string, error) {
	q := `
	INSERT INTO walk_sessions (walk_request_id, wanderer_id, walker_id, status, start_time)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id`

	sessionID := ""
	row := sr.db.conn.QueryRow(ctx, q, m.WalkRequestID, m.WandererID, m.WalkerID, m.Status, m.StartTime)
	if err := row.Scan(&sessionID); err != nil {
		return "", err
	}
	return sessionID, nil
}

func (sr *SessionsRepo) FindByID(ctx context.Context, sessionID string) (model.WalkSession, error) {
	q := `
	SELECT id, walk_request_id, wanderer_id, walker_id, status, start_time,
	       end_time, fare_total, fare_commission, fare_earnings,
	       sos_triggered, sos_triggered_at, sos_resolved, sos_resolved_at,
	       sos_resolution_notes, created_at, updated_at
	FROM walk_sessions
	WHERE id = $1`

	var (
		m              model.WalkSession
		endTime        sql.NullTime
		fareTotal      sql.NullFloat64
		fareCommission sql.NullFloat64
		fareEarnings   sql.NullFloat64
		sosTriggeredAt sql.NullTime
		sosResolvedAt  sql.NullTime
		sosNotes       sql.NullString
	)

	err := sr.db.conn.QueryRow(ctx, q, sessionID).Scan(
		&m.ID, &m.WalkRequestID, &m.WandererID, &m.WalkerID, &m.Status, &m.StartTime,
		&endTime, &fareTotal, &fareCommission, &fareEarnings,
		&m.SosTriggered, &sosTriggeredAt, &m.SosResolved, &sosResolvedAt,
		&sosNotes, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.WalkSession{}, myerrors.ErrNotFound
		}
		return model.WalkSession{}, err
	}

	m.EndTime = endTime.Time
	m.FareTotal = fareTotal.Float64
	m.FareCommission = fareCommission.Float64
	m.FareEarnings = fareEarnings.Float64
	m.SosTriggeredAt = sosTriggeredAt.Time
	m.SosResolvedAt = sosResolvedAt.Time
	m.SosResolutionNotes = sosNotes.String
	return m, nil
}

// FreezeFare writes the fare once and moves the session to payment.
// The fare columns are only ever written here, while they are still NULL.
func (sr *SessionsRepo) FreezeFare(ctx context.Context, sessionID string, total, commission, earnings float64) error {
	q := `UPDATE walk_sessions
	SET status = 'PAYMENT_PENDING', end_time = NOW(),
	    fare_total = $2, fare_commission = $3, fare_earnings = $4,
	    updated_at = NOW()
	WHERE id = $1 AND status = 'ACTIVE' AND fare_total IS NULL`
	return sr.conditional(ctx, q, sessionID, total, commission, earnings)
}

func (sr *SessionsRepo) TriggerSos(ctx context.Context, sessionID string) error {
	q := `UPDATE walk_sessions
	SET sos_triggered = TRUE, sos_triggered_at = NOW(), updated_at = NOW()
	WHERE id = $1 AND sos_triggered = FALSE`
	return sr.conditional(ctx, q, sessionID)
}

func (sr *SessionsRepo) ResolveSos(ctx context.Context, sessionID, notes string) error {
	q := `UPDATE walk_sessions
	SET sos_resolved = TRUE, sos_resolved_at = NOW(),
	    sos_resolution_notes = $2, updated_at = NOW()
	WHERE id = $1 AND sos_triggered = TRUE AND sos_resolved = FALSE`
	return sr.conditional(ctx, q, sessionID, notes)
}

func (sr *SessionsRepo) conditional(ctx context.Context, q string, args ...any) error {
	tag, err := sr.db.conn.Exec(ctx, q, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrConflict
	}
	return nil
}
