package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/vittahq/vitta-api/internal/model"
)

// StatusRepo owns every write path that touches the derived subscription
// state (usuarios.status_plano / usuarios.status) and the payment-status
// flips performed by cancel and reactivate.  All methods take an optional
// *sql.Tx; when nil they run on the pool, otherwise they join the caller's
// transaction.  This mirrors how the reconciliation routine can either
// run standalone or participate in a surrounding write.
type StatusRepo struct{ DB *sql.DB }

func NewStatusRepo(db *sql.DB) *StatusRepo { return &StatusRepo{DB: db} }

// runner is satisfied by both *sql.DB and *sql.Tx.
type runner interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (r *StatusRepo) run(tx *sql.Tx) runner {
	if tx != nil {
		return tx
	}
	return r.DB
}

// ListUserIDs returns the ids of all users, for batch reconciliation.
func (r *StatusRepo) ListUserIDs(ctx context.Context, tx *sql.Tx) ([]uint64, error) {
	rows, err := r.run(tx).QueryContext(ctx, "SELECT id FROM usuarios")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// PlanAndLastPaid fetches the inputs of the status derivation: the user's
// current plan assignment and the date of its most recent paid payment.
// Returns sql.ErrNoRows when the user does not exist.
func (r *StatusRepo) PlanAndLastPaid(ctx context.Context, tx *sql.Tx, id uint64) (*uint64, *time.Time, error) {
	const q = `SELECT
        u.plano_atual_id,
        (SELECT data_pagamento FROM pagamentos
         WHERE usuario_id = u.id AND status = 'pago'
         ORDER BY data_pagamento DESC LIMIT 1)
    FROM usuarios u
    WHERE u.id = ?`
	var (
		planID   sql.NullInt64
		lastPaid sql.NullTime
	)
	if err := r.run(tx).QueryRowContext(ctx, q, id).Scan(&planID, &lastPaid); err != nil {
		return nil, nil, err
	}
	var pid *uint64
	if planID.Valid {
		v := uint64(planID.Int64)
		pid = &v
	}
	var paid *time.Time
	if lastPaid.Valid {
		t := lastPaid.Time
		paid = &t
	}
	return pid, paid, nil
}

// Apply persists a status decision.  Clearing the plan also stamps
// data_atualizacao_plano, as the only decision that changes the assignment
// itself.
func (r *StatusRepo) Apply(ctx context.Context, tx *sql.Tx, id uint64, d model.StatusDecision) error {
	if d.ClearPlan {
		_, err := r.run(tx).ExecContext(ctx,
			"UPDATE usuarios SET plano_atual_id=NULL, status_plano=?, status=?, data_atualizacao_plano=NOW() WHERE id=?",
			string(d.PlanStatus), d.AccountStatus, id)
		return err
	}
	_, err := r.run(tx).ExecContext(ctx,
		"UPDATE usuarios SET status_plano=?, status=? WHERE id=?",
		string(d.PlanStatus), d.AccountStatus, id)
	return err
}

// AssignPlan sets the user's current plan.  Called when a payment for a
// plan is recorded, before the status is rederived.
func (r *StatusRepo) AssignPlan(ctx context.Context, tx *sql.Tx, id, planID uint64) error {
	_, err := r.run(tx).ExecContext(ctx,
		"UPDATE usuarios SET plano_atual_id=? WHERE id=?", planID, id)
	return err
}

// PlanState returns the current plan assignment and derived status, used
// as the precondition check for cancel and reactivate.
func (r *StatusRepo) PlanState(ctx context.Context, tx *sql.Tx, id uint64) (*uint64, model.PlanStatus, error) {
	var (
		planID sql.NullInt64
		status string
	)
	err := r.run(tx).QueryRowContext(ctx,
		"SELECT plano_atual_id, status_plano FROM usuarios WHERE id=? LIMIT 1", id).
		Scan(&planID, &status)
	if err != nil {
		return nil, "", err
	}
	var pid *uint64
	if planID.Valid {
		v := uint64(planID.Int64)
		pid = &v
	}
	return pid, model.PlanStatus(status), nil
}

// MarkPlanCancelled flags the subscription as cancelled without touching
// the plan assignment, so a later reactivation can restore it.
func (r *StatusRepo) MarkPlanCancelled(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := r.run(tx).ExecContext(ctx,
		"UPDATE usuarios SET status_plano=?, data_atualizacao_plano=NOW() WHERE id=?",
		string(model.PlanCancelled), id)
	return err
}

// CancelPaidPayments marks every currently-paid payment of the user as
// cancelled.
func (r *StatusRepo) CancelPaidPayments(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := r.run(tx).ExecContext(ctx,
		"UPDATE pagamentos SET status=? WHERE usuario_id=? AND status=?",
		model.PaymentCancelled, id, model.PaymentPaid)
	return err
}

// ReactivatePlan restores a cancelled subscription to active.
func (r *StatusRepo) ReactivatePlan(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := r.run(tx).ExecContext(ctx,
		"UPDATE usuarios SET status_plano=?, status=?, data_atualizacao_plano=NOW() WHERE id=?",
		string(model.PlanActive), model.AccountActive, id)
	return err
}

// RepayLatestPayment flips the user's most recent payment back to paid.
func (r *StatusRepo) RepayLatestPayment(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := r.run(tx).ExecContext(ctx,
		"UPDATE pagamentos SET status=? WHERE usuario_id=? ORDER BY data_pagamento DESC LIMIT 1",
		model.PaymentPaid, id)
	return err
}

// ReactivateAssigned repairs users stuck as cancelled while still holding
// a plan assignment; returns the number of rows fixed.
func (r *StatusRepo) ReactivateAssigned(ctx context.Context, tx *sql.Tx) (int64, error) {
	res, err := r.run(tx).ExecContext(ctx,
		"UPDATE usuarios SET status_plano=? WHERE plano_atual_id IS NOT NULL AND status_plano=?",
		string(model.PlanActive), string(model.PlanCancelled))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeactivateUnassigned repairs users marked active without any plan
// assignment; returns the number of rows fixed.
func (r *StatusRepo) DeactivateUnassigned(ctx context.Context, tx *sql.Tx) (int64, error) {
	res, err := r.run(tx).ExecContext(ctx,
		"UPDATE usuarios SET status_plano=? WHERE plano_atual_id IS NULL AND status_plano=?",
		string(model.PlanInactive), string(model.PlanActive))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
