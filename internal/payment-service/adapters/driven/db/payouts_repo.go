package db

import (
	"context"
	"errors"

	"walk-companion/internal/payment-service/core/domain/model"
	"walk-companion/internal/payment-service/core/myerrors"
	"walk-companion/internal/payment-service/core/ports"

	"github.com/jackc/pgx/v5"
)

type PayoutsRepo struct {
	db *DB
}

func NewPayoutsRepo(db *DB) ports.IPayoutsRepo {
	return &PayoutsRepo{
		db: db,
	}
}

// CreateWithDebit inserts the payout, debits the wallet and writes the
// debit ledger row in one transaction. The conditional update keeps two
// concurrent withdrawals from spending the same balance.
func (pr *PayoutsRepo) CreateWithDebit(ctx context.Context, m model.Payout) (string, float64, error) {
	tx, err := pr.db.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", 0, err
	}
	defer tx.Rollback(ctx)

	debitQ := `UPDATE profiles
	SET wallet_balance = wallet_balance - $2, updated_at = NOW()
	WHERE user_id = $1 AND wallet_balance >= $2
	RETURNING wallet_balance`

	var balance float64
	if err := tx.QueryRow(ctx, debitQ, m.UserID, m.Amount).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", 0, myerrors.ErrInsufficientBalance
		}
		return "", 0, err
	}

	insertQ := `
	INSERT INTO payouts (
		user_id, amount, method, beneficiary_name,
		account_number, ifsc, upi_id, status
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id`

	payoutID := ""
	row := tx.QueryRow(ctx, insertQ,
		m.UserID,
		m.Amount,
		m.Method,
		nullString(m.BeneficiaryName),
		nullString(m.AccountNumber),
		nullString(m.Ifsc),
		nullString(m.UpiID),
		m.Status,
	)
	if err := row.Scan(&payoutID); err != nil {
		return "", 0, err
	}

	ledgerQ := `INSERT INTO wallet_transactions (user_id, tx_type, amount, description, status, reference_id)
	VALUES ($1, 'WALLET_DEBIT', $2, 'Withdrawal', 'SUCCESS', $3)`
	if _, err := tx.Exec(ctx, ledgerQ, m.UserID, m.Amount, payoutID); err != nil {
		return "", 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", 0, err
	}
	return payoutID, balance, nil
}

func (pr *PayoutsRepo) SetResult(ctx context.Context, payoutID, status, externalRef string) error {
	q := `UPDATE payouts
	SET status = $2, external_reference_id = $3,
	    completed_at = CASE WHEN $2 = 'SUCCESS' THEN NOW() ELSE completed_at END
	WHERE id = $1`

	tag, err := pr.db.conn.Exec(ctx, q, payoutID, status, nullString(externalRef))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrNotFound
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
