package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/vittahq/vitta-api/internal/model"
	"github.com/vittahq/vitta-api/internal/utils"
)

// UserRepo persists student accounts in the 'usuarios' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// isDuplicateKey reports whether err is MySQL error 1062, a duplicate
// entry for a unique key.
func isDuplicateKey(err error) bool {
	return strings.Contains(err.Error(), "1062")
}

// Create inserts a user with a hashed password and returns the stored row.
// New accounts start as 'pending' with no plan until a payment arrives.
func (r *UserRepo) Create(ctx context.Context, name, email, password string, cost int) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO usuarios (nome, email, senha, status, status_plano) VALUES (?,?,?,?,?)",
		name, email, hash, model.AccountPending, string(model.PlanNone))
	if err != nil {
		if isDuplicateKey(err) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.get(ctx, "email=?", email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.get(ctx, "id=?", id)
}

func (r *UserRepo) get(ctx context.Context, where string, arg interface{}) (model.User, error) {
	var (
		u       model.User
		planID  sql.NullInt64
		updated sql.NullTime
		status  string
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,nome,email,senha,status,plano_atual_id,status_plano,data_atualizacao_plano,created_at FROM usuarios WHERE "+where+" LIMIT 1",
		arg).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Status, &planID, &status, &updated, &u.CreatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.PlanStatus = model.PlanStatus(status)
	if planID.Valid {
		pid := uint64(planID.Int64)
		u.PlanID = &pid
	}
	if updated.Valid {
		t := updated.Time
		u.PlanStatusUpdated = &t
	}
	return u, nil
}

// UpdatePassword replaces the stored hash for the account with the given
// email.  Returns sql.ErrNoRows when no such account exists.
func (r *UserRepo) UpdatePassword(ctx context.Context, email, hash string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx, "UPDATE usuarios SET senha=? WHERE email=?", hash, email)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Overview is the denormalized view the dashboard lists: the user row plus
// its current plan and the status/plan/date of the most recent payment.
type Overview struct {
	ID                uint64     `json:"id"`
	Name              string     `json:"nome"`
	Email             string     `json:"email"`
	Status            string     `json:"usuario_status"`
	PlanID            *uint64    `json:"plano_atual_id"`
	PlanStatus        string     `json:"status_plano"`
	PlanStatusUpdated *time.Time `json:"data_atualizacao_plano"`
	CreatedAt         time.Time  `json:"created_at"`
	PlanName          *string    `json:"plano_nome"`
	PlanDescription   *string    `json:"plano_descricao"`
	LastPaymentStatus *string    `json:"status_pagamento"`
	LastPaymentPlan   *string    `json:"plano_ultimo_pagamento"`
	LastPaymentDate   *time.Time `json:"data_ultimo_pagamento"`
}

const overviewQuery = `SELECT
    u.id, u.nome, u.email, u.status, u.plano_atual_id, u.status_plano,
    u.data_atualizacao_plano, u.created_at,
    p.nome, p.descricao,
    (SELECT status FROM pagamentos WHERE usuario_id = u.id
     ORDER BY data_pagamento DESC LIMIT 1),
    (SELECT pl.nome FROM pagamentos pa
     JOIN planos pl ON pa.plano_id = pl.id
     WHERE pa.usuario_id = u.id
     ORDER BY pa.data_pagamento DESC LIMIT 1),
    (SELECT data_pagamento FROM pagamentos WHERE usuario_id = u.id
     ORDER BY data_pagamento DESC LIMIT 1)
FROM usuarios u
LEFT JOIN planos p ON u.plano_atual_id = p.id`

func scanOverview(row interface{ Scan(...interface{}) error }) (Overview, error) {
	var (
		o       Overview
		planID  sql.NullInt64
		updated sql.NullTime
		pName   sql.NullString
		pDesc   sql.NullString
		payStat sql.NullString
		payPlan sql.NullString
		payDate sql.NullTime
	)
	err := row.Scan(&o.ID, &o.Name, &o.Email, &o.Status, &planID, &o.PlanStatus,
		&updated, &o.CreatedAt, &pName, &pDesc, &payStat, &payPlan, &payDate)
	if err != nil {
		return Overview{}, err
	}
	if planID.Valid {
		pid := uint64(planID.Int64)
		o.PlanID = &pid
	}
	if updated.Valid {
		t := updated.Time
		o.PlanStatusUpdated = &t
	}
	if pName.Valid {
		o.PlanName = &pName.String
	}
	if pDesc.Valid {
		o.PlanDescription = &pDesc.String
	}
	if payStat.Valid {
		o.LastPaymentStatus = &payStat.String
	}
	if payPlan.Valid {
		o.LastPaymentPlan = &payPlan.String
	}
	if payDate.Valid {
		t := payDate.Time
		o.LastPaymentDate = &t
	}
	return o, nil
}

// ListOverview returns the dashboard view for every user, newest first.
func (r *UserRepo) ListOverview(ctx context.Context) ([]Overview, error) {
	rows, err := r.DB.QueryContext(ctx, overviewQuery+" ORDER BY u.created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Overview, 0)
	for rows.Next() {
		o, err := scanOverview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Overview returns the dashboard view for a single user.
func (r *UserRepo) Overview(ctx context.Context, id uint64) (Overview, error) {
	return scanOverview(r.DB.QueryRowContext(ctx, overviewQuery+" WHERE u.id = ?", id))
}

// PlanSummary is the user-facing view of the current subscription.
type PlanSummary struct {
	PlanName          *string
	PlanDescription   *string
	PlanPrice         *float64
	PlanStatus        string
	LastPaymentStatus *string
}

// PlanSummary loads the user's current plan together with the status of
// the most recent paid payment.  Returns sql.ErrNoRows for unknown users.
func (r *UserRepo) PlanSummary(ctx context.Context, id uint64) (PlanSummary, error) {
	const q = `SELECT
        u.status_plano, p.nome, p.descricao, p.preco,
        (SELECT status FROM pagamentos
         WHERE usuario_id = u.id AND status = 'pago'
         ORDER BY data_pagamento DESC LIMIT 1)
    FROM usuarios u
    LEFT JOIN planos p ON u.plano_atual_id = p.id
    WHERE u.id = ?`
	var (
		s     PlanSummary
		name  sql.NullString
		desc  sql.NullString
		price sql.NullFloat64
		pay   sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, q, id).Scan(&s.PlanStatus, &name, &desc, &price, &pay)
	if err != nil {
		return PlanSummary{}, err
	}
	if name.Valid {
		s.PlanName = &name.String
	}
	if desc.Valid {
		s.PlanDescription = &desc.String
	}
	if price.Valid {
		s.PlanPrice = &price.Float64
	}
	if pay.Valid {
		s.LastPaymentStatus = &pay.String
	}
	return s, nil
}
