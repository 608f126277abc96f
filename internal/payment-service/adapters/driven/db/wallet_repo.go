package db

import (
	"context"
	"errors"

	"walk-companion/internal/payment-service/core/domain/model"
	"walk-companion/internal/payment-service/core/myerrors"
	"walk-companion/internal/payment-service/core/ports"

	"github.com/jackc/pgx/v5"
)

type WalletRepo struct {
	db *DB
}

func NewWalletRepo(db *DB) ports.IWalletRepo {
	return &WalletRepo{
		db: db,
	}
}

func (wr *WalletRepo) Balance(ctx context.Context, userID string) (float64, error) {
	q := `SELECT wallet_balance FROM profiles WHERE user_id = $1`

	var balance float64
	if err := wr.db.conn.QueryRow(ctx, q, userID).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, myerrors.ErrNotFound
		}
		return 0, err
	}
	return balance, nil
}

func (wr *WalletRepo) Credit(ctx context.Context, userID string, amount float64, description string) (float64, error) {
	tx, err := wr.db.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	q := `UPDATE profiles
	SET wallet_balance = wallet_balance + $2, updated_at = NOW()
	WHERE user_id = $1
	RETURNING wallet_balance`

	var balance float64
	if err := tx.QueryRow(ctx, q, userID, amount).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, myerrors.ErrNotFound
		}
		return 0, err
	}

	q2 := `INSERT INTO wallet_transactions (user_id, tx_type, amount, description, status)
	VALUES ($1, 'WALLET_CREDIT', $2, $3, 'SUCCESS')`
	if _, err := tx.Exec(ctx, q2, userID, amount, description); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return balance, nil
}

// History merges successful payments (shown as PAYMENT to the wanderer
// and EARNING to the walker) with payout debits, newest first.
func (wr *WalletRepo) History(ctx context.Context, userID string, page, limit int) ([]model.HistoryEntry, int64, error) {
	countQ := `
	SELECT (SELECT COUNT(*) FROM payments WHERE status = 'SUCCESS' AND (wanderer_id = $1 OR walker_id = $1))
	     + (SELECT COUNT(*) FROM payouts WHERE user_id = $1)`

	var total int64
	if err := wr.db.conn.QueryRow(ctx, countQ, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `
	SELECT id, kind, amount, status, created_at FROM (
		SELECT id,
		       CASE WHEN wanderer_id = $1 THEN 'PAYMENT' ELSE 'EARNING' END AS kind,
		       CASE WHEN wanderer_id = $1 THEN total_amount ELSE walker_earnings END AS amount,
		       status,
		       created_at
		FROM payments
		WHERE status = 'SUCCESS' AND (wanderer_id = $1 OR walker_id = $1)
		UNION ALL
		SELECT id, 'WALLET_DEBIT' AS kind, amount, status, created_at
		FROM payouts
		WHERE user_id = $1
	) merged
	ORDER BY created_at DESC
	LIMIT $2 OFFSET $3`

	rows, err := wr.db.conn.Query(ctx, q, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := []model.HistoryEntry{}
	for rows.Next() {
		var e model.HistoryEntry
		if err := rows.Scan(&e.ID, &e.Kind, &e.Amount, &e.Status, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
