package db

import (
	"context"
	"database/sql"
	"errors"

	"walk-companion/internal/payment-service/core/domain/model"
	"walk-companion/internal/payment-service/core/myerrors"
	"walk-companion/internal/payment-service/core/ports"

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

func (sr *SessionsRepo) FindByID(ctx context.Context, sessionID string) (model.SessionView, error) {
	q := `
	SELECT s.id, s.walk_request_id, s.wanderer_id, s.walker_id, s.status,
	       s.fare_total, s.fare_commission, s.fare_earnings,
	       r.duration_minutes
	FROM walk_sessions s
	JOIN walk_requests r ON r.id = s.walk_request_id
	WHERE s.id = $1`

	var (
		m              model.SessionView
		fareTotal      sql.NullFloat64
		fareCommission sql.NullFloat64
		fareEarnings   sql.NullFloat64
	)

	err := sr.db.conn.QueryRow(ctx, q, sessionID).Scan(
		&m.ID, &m.WalkRequestID, &m.WandererID, &m.WalkerID, &m.Status,
		&fareTotal, &fareCommission, &fareEarnings,
		&m.DurationMins,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SessionView{}, myerrors.ErrNotFound
		}
		return model.SessionView{}, err
	}

	m.FareTotal = fareTotal.Float64
	m.FareCommission = fareCommission.Float64
	m.FareEarnings = fareEarnings.Float64
	return m, nil
}
