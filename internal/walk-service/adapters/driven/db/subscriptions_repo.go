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

type SubscriptionsRepo struct {
	db *DB
}

func NewSubscriptionsRepo(db *DB) ports.ISubscriptionsRepo {
	return &SubscriptionsRepo{
		db: db,
	}
}

const subscriptionColumns = `
	id, wanderer_id, subscription_type, custom_days, duration_minutes,
	preferred_time_slot, time_start, time_end, mobility_level,
	primary_purpose, purpose_details, communication_needs,
	walker_preference, preferred_walker_id, auto_match, advance_notice,
	status, total_walks_completed, last_walk_date, next_scheduled_date,
	start_date, end_date, created_at, updated_at`

func (sr *SubscriptionsRepo) Create(ctx context.Context, m model.WalkSubscription) (string, error) {
	q := `
	INSERT INTO walk_subscriptions (
		wanderer_id, subscription_type, custom_days, duration_minutes,
		preferred_time_slot, time_start, time_end, mobility_level,
		primary_purpose, purpose_details, communication_needs,
		walker_preference, preferred_walker_id, auto_match,
		advance_notice, status, next_scheduled_date, start_date
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	RETURNING id`

	comm, err := json.Marshal(m.Communication)
	if err != nil {
		return "", err
	}
	customDays := m.CustomDays
	if customDays == nil {
		customDays = []int{}
	}

	subscriptionID := ""
	row := sr.db.conn.QueryRow(ctx, q,
		m.WandererID,
		m.SubscriptionType,
		customDays,
		m.DurationMinutes,
		m.PreferredTimeSlot,
		nullString(m.TimeStart),
		nullString(m.TimeEnd),
		m.MobilityLevel,
		m.PrimaryPurpose,
		nullString(m.PurposeDetails),
		comm,
		m.WalkerPreference,
		nullString(m.PreferredWalkerID),
		m.AutoMatch,
		m.AdvanceNotice,
		m.Status,
		m.NextScheduledDate,
		m.StartDate,
	)
	if err := row.Scan(&subscriptionID); err != nil {
		return "", err
	}
	return subscriptionID, nil
}

func (sr *SubscriptionsRepo) FindByID(ctx context.Context, subscriptionID string) (model.WalkSubscription, error) {
	q := `SELECT ` + subscriptionColumns + ` FROM walk_subscriptions WHERE id = $1`
	return sr.scanSubscription(sr.db.conn.QueryRow(ctx, q, subscriptionID))
}

func (sr *SubscriptionsRepo) FindActiveByWanderer(ctx context.Context, wandererID string) (model.WalkSubscription, error) {
	q := `SELECT ` + subscriptionColumns + `
	FROM walk_subscriptions
	WHERE wanderer_id = $1 AND status IN ('ACTIVE', 'PAUSED')
	ORDER BY created_at DESC
	LIMIT 1`
	return sr.scanSubscription(sr.db.conn.QueryRow(ctx, q, wandererID))
}

func (sr *SubscriptionsRepo) Update(ctx context.Context, m model.WalkSubscription) error {
	q := `UPDATE walk_subscriptions
	SET subscription_type = $2, custom_days = $3, duration_minutes = $4,
	    preferred_time_slot = $5, time_start = $6, time_end = $7,
	    mobility_level = $8, primary_purpose = $9, purpose_details = $10,
	    communication_needs = $11, walker_preference = $12,
	    preferred_walker_id = $13, auto_match = $14, advance_notice = $15,
	    next_scheduled_date = $16, updated_at = NOW()
	WHERE id = $1`

	comm, err := json.Marshal(m.Communication)
	if err != nil {
		return err
	}
	customDays := m.CustomDays
	if customDays == nil {
		customDays = []int{}
	}

	tag, err := sr.db.conn.Exec(ctx, q,
		m.ID,
		m.SubscriptionType,
		customDays,
		m.DurationMinutes,
		m.PreferredTimeSlot,
		nullString(m.TimeStart),
		nullString(m.TimeEnd),
		m.MobilityLevel,
		m.PrimaryPurpose,
		nullString(m.PurposeDetails),
		comm,
		m.WalkerPreference,
		nullString(m.PreferredWalkerID),
		m.AutoMatch,
		m.AdvanceNotice,
		m.NextScheduledDate,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrNotFound
	}
	return nil
}

func (sr *SubscriptionsRepo) SetStatus(ctx context.Context, subscriptionID, from, to string) error {
	q := `UPDATE walk_subscriptions
	SET status = $3, updated_at = NOW(),
	    end_date = CASE WHEN $3 = 'CANCELLED' THEN NOW() ELSE end_date END
	WHERE id = $1 AND status = $2`

	tag, err := sr.db.conn.Exec(ctx, q, subscriptionID, from, to)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrConflict
	}
	return nil
}

func (sr *SubscriptionsRepo) RecordWalk(ctx context.Context, subscriptionID string, walkDate, nextDate time.Time) error {
	q := `UPDATE walk_subscriptions
	SET total_walks_completed = total_walks_completed + 1,
	    last_walk_date = $2, next_scheduled_date = $3, updated_at = NOW()
	WHERE id = $1`

	tag, err := sr.db.conn.Exec(ctx, q, subscriptionID, walkDate, nextDate)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrNotFound
	}
	return nil
}

func (sr *SubscriptionsRepo) scanSubscription(row rowScanner) (model.WalkSubscription, error) {
	var (
		m                 model.WalkSubscription
		timeStart         sql.NullString
		timeEnd           sql.NullString
		purposeDetails    sql.NullString
		comm              []byte
		preferredWalkerID sql.NullString
		lastWalkDate      sql.NullTime
		nextScheduledDate sql.NullTime
		endDate           sql.NullTime
	)

	err := row.Scan(
		&m.ID, &m.WandererID, &m.SubscriptionType, &m.CustomDays, &m.DurationMinutes,
		&m.PreferredTimeSlot, &timeStart, &timeEnd, &m.MobilityLevel,
		&m.PrimaryPurpose, &purposeDetails, &comm,
		&m.WalkerPreference, &preferredWalkerID, &m.AutoMatch, &m.AdvanceNotice,
		&m.Status, &m.TotalWalksCompleted, &lastWalkDate, &nextScheduledDate,
		&m.StartDate, &endDate, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.WalkSubscription{}, myerrors.ErrNotFound
		}
		return model.WalkSubscription{}, err
	}

	if len(comm) > 0 {
		if err := json.Unmarshal(comm, &m.Communication); err != nil {
			return model.WalkSubscription{}, err
		}
	}

	m.TimeStart = timeStart.String
	m.TimeEnd = timeEnd.String
	m.PurposeDetails = purposeDetails.String
	m.PreferredWalkerID = preferredWalkerID.String
	m.LastWalkDate = lastWalkDate.Time
	m.NextScheduledDate = nextScheduledDate.Time
	m.EndDate = endDate.Time
	return m, nil
}
