package repository

import (
	"context"
	"database/sql"

	"github.com/vittahq/vitta-api/internal/model"
)

// PaymentRepo persists billing records in the 'pagamentos' table.
type PaymentRepo struct{ DB *sql.DB }

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{DB: db} }

const paymentColumns = "id, usuario_id, plano_id, status, data_pagamento, data_vencimento, cobranca_externa_id, created_at"

func scanPayment(row interface{ Scan(...interface{}) error }) (model.Payment, error) {
	var (
		p      model.Payment
		extRef sql.NullString
	)
	err := row.Scan(&p.ID, &p.UserID, &p.PlanID, &p.Status,
		&p.PaymentDate, &p.DueDate, &extRef, &p.CreatedAt)
	if err != nil {
		return model.Payment{}, err
	}
	if extRef.Valid {
		ref := extRef.String
		p.ExternalChargeID = &ref
	}
	return p, nil
}

// CreateTx inserts a payment within the scope of an existing transaction
// and populates the generated ID and stored defaults on the record.  The
// caller must commit or rollback.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO pagamentos (usuario_id, plano_id, status, data_pagamento, data_vencimento, cobranca_externa_id) VALUES (?,?,?,?,?,?)",
		p.UserID, p.PlanID, p.Status, p.PaymentDate, p.DueDate, p.ExternalChargeID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	stored, err := scanPayment(tx.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM pagamentos WHERE id=?", p.ID))
	if err != nil {
		return err
	}
	*p = stored
	return nil
}

// ListByUser returns all payments of a user, newest first.
func (r *PaymentRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Payment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+paymentColumns+" FROM pagamentos WHERE usuario_id=? ORDER BY data_pagamento DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateStatus sets the status of a payment and returns the updated row.
// Returns sql.ErrNoRows when the payment does not exist.
func (r *PaymentRepo) UpdateStatus(ctx context.Context, id uint64, status string) (model.Payment, error) {
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE pagamentos SET status=? WHERE id=?", status, id); err != nil {
		return model.Payment{}, err
	}
	return scanPayment(r.DB.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM pagamentos WHERE id=?", id))
}

// LastPaid returns the user's most recent paid payment by payment date.
// Returns sql.ErrNoRows when the user never had one.
func (r *PaymentRepo) LastPaid(ctx context.Context, userID uint64) (model.Payment, error) {
	return scanPayment(r.DB.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM pagamentos WHERE usuario_id=? AND status=? ORDER BY data_pagamento DESC LIMIT 1",
		userID, model.PaymentPaid))
}

// LastPaidByDue returns the paid payment with the latest due date.  The
// check-in gate uses it to decide whether the user's access is current.
func (r *PaymentRepo) LastPaidByDue(ctx context.Context, userID uint64) (model.Payment, error) {
	return scanPayment(r.DB.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM pagamentos WHERE usuario_id=? AND status=? ORDER BY data_vencimento DESC LIMIT 1",
		userID, model.PaymentPaid))
}
