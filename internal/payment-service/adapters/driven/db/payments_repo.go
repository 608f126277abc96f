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

type PaymentsRepo struct {
	db *DB
}

func NewPaymentsRepo(db *DB) ports.IPaymentsRepo {
	return &PaymentsRepo{
		db: db,
	}
}

const paymentColumns = `
	id, walk_session_id, wanderer_id, walker_id, total_amount,
	platform_commission, walker_earnings, gateway_order_id,
	gateway_payment_id, gateway_signature, status, completed_at,
	created_at, updated_at`

func (pr *PaymentsRepo) Create(ctx context.Context, m model.Payment) (string, error) {
	q := `
	INSERT INTO payments (
		walk_session_id, wanderer_id, walker_id, total_amount,
		platform_commission, walker_earnings, gateway_order_id, status
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id`

	paymentID := ""
	row := pr.db.conn.QueryRow(ctx, q,
		m.WalkSessionID,
		m.WandererID,
		m.WalkerID,
		m.TotalAmount,
		m.PlatformCommission,
		m.WalkerEarnings,
		m.GatewayOrderID,
		m.Status,
	)
	if err := row.Scan(&paymentID); err != nil {
		return "", err
	}
	return paymentID, nil
}

func (pr *PaymentsRepo) FindByID(ctx context.Context, paymentID string) (model.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return scanPayment(pr.db.conn.QueryRow(ctx, q, paymentID))
}

func (pr *PaymentsRepo) FindByOrderID(ctx context.Context, orderID string) (model.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE gateway_order_id = $1`
	return scanPayment(pr.db.conn.QueryRow(ctx, q, orderID))
}

func (pr *PaymentsRepo) FindLiveBySession(ctx context.Context, sessionID string) (model.Payment, error) {
	q := `SELECT ` + paymentColumns + `
	FROM payments
	WHERE walk_session_id = $1 AND status IN ('PENDING', 'SUCCESS')
	ORDER BY created_at DESC
	LIMIT 1`
	return scanPayment(pr.db.conn.QueryRow(ctx, q, sessionID))
}

// Reconcile settles a verified payment in one transaction. The guarded
// UPDATE on the payment row makes the whole settlement apply exactly
// once: a repeat verification matches zero rows and reads back the
// already-settled record instead.
func (pr *PaymentsRepo) Reconcile(ctx context.Context, orderID, paymentID, signature string) (ports.ReconcileResult, error) {
	tx, err := pr.db.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return ports.ReconcileResult{}, err
	}
	defer tx.Rollback(ctx)

	q := `
	UPDATE payments
	SET status = 'SUCCESS', gateway_payment_id = $2, gateway_signature = $3,
	    completed_at = NOW(), updated_at = NOW()
	WHERE gateway_order_id = $1 AND status = 'PENDING'
	RETURNING ` + paymentColumns

	payment, err := scanPayment(tx.QueryRow(ctx, q, orderID, paymentID, signature))
	if err != nil {
		if errors.Is(err, myerrors.ErrNotFound) {
			// Already settled (or unknown order): report what is stored.
			stored, findErr := pr.FindByOrderID(ctx, orderID)
			if findErr != nil {
				return ports.ReconcileResult{}, findErr
			}
			return ports.ReconcileResult{Payment: stored, Applied: false}, nil
		}
		return ports.ReconcileResult{}, err
	}

	q2 := `UPDATE walk_sessions
	SET status = 'COMPLETED', end_time = COALESCE(end_time, NOW()), updated_at = NOW()
	WHERE id = $1`
	if _, err := tx.Exec(ctx, q2, payment.WalkSessionID); err != nil {
		return ports.ReconcileResult{}, err
	}

	q3 := `UPDATE walk_requests
	SET status = 'COMPLETED', completed_at = NOW(), updated_at = NOW()
	WHERE id = (SELECT walk_request_id FROM walk_sessions WHERE id = $1)`
	if _, err := tx.Exec(ctx, q3, payment.WalkSessionID); err != nil {
		return ports.ReconcileResult{}, err
	}

	q4 := `UPDATE profiles
	SET wallet_balance = wallet_balance + $2,
	    total_earnings = total_earnings + $2,
	    total_walks = total_walks + 1,
	    updated_at = NOW()
	WHERE user_id = $1`
	if _, err := tx.Exec(ctx, q4, payment.WalkerID, payment.WalkerEarnings); err != nil {
		return ports.ReconcileResult{}, err
	}

	q5 := `UPDATE profiles
	SET total_walks = total_walks + 1, updated_at = NOW()
	WHERE user_id = $1`
	if _, err := tx.Exec(ctx, q5, payment.WandererID); err != nil {
		return ports.ReconcileResult{}, err
	}

	q6 := `INSERT INTO wallet_transactions (user_id, tx_type, amount, description, status, reference_id)
	VALUES ($1, 'WALLET_CREDIT', $2, 'Walk earnings', 'SUCCESS', $3)`
	if _, err := tx.Exec(ctx, q6, payment.WalkerID, payment.WalkerEarnings, payment.ID); err != nil {
		return ports.ReconcileResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return ports.ReconcileResult{}, err
	}
	return ports.ReconcileResult{Payment: payment, Applied: true}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (model.Payment, error) {
	var (
		m                model.Payment
		gatewayPaymentID sql.NullString
		gatewaySignature sql.NullString
		completedAt      sql.NullTime
	)

	err := row.Scan(
		&m.ID, &m.WalkSessionID, &m.WandererID, &m.WalkerID, &m.TotalAmount,
		&m.PlatformCommission, &m.WalkerEarnings, &m.GatewayOrderID,
		&gatewayPaymentID, &gatewaySignature, &m.Status, &completedAt,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Payment{}, myerrors.ErrNotFound
		}
		return model.Payment{}, err
	}

	m.GatewayPaymentID = gatewayPaymentID.String
	m.GatewaySignature = gatewaySignature.String
	m.CompletedAt = completedAt.Time
	return m, nil
}
