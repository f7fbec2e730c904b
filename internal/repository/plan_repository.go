package repository

import (
	"context"
	"database/sql"

	"github.com/vittahq/vitta-api/internal/model"
)

// PlanRepo persists subscription tiers in the 'planos' table.
type PlanRepo struct{ DB *sql.DB }

func NewPlanRepo(db *sql.DB) *PlanRepo { return &PlanRepo{DB: db} }

// Create inserts a plan and populates its generated ID.
func (r *PlanRepo) Create(ctx context.Context, p *model.Plan) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO planos (nome, descricao, preco, limite_checkins) VALUES (?,?,?,?)",
		p.Name, p.Description, p.Price, p.CheckinLimit)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID fetches a single plan.
func (r *PlanRepo) GetByID(ctx context.Context, id uint64) (model.Plan, error) {
	var p model.Plan
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, nome, descricao, preco, limite_checkins FROM planos WHERE id=? LIMIT 1",
		id).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CheckinLimit)
	return p, err
}

// List returns all plans, newest first.
func (r *PlanRepo) List(ctx context.Context) ([]model.Plan, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, nome, descricao, preco, limite_checkins FROM planos ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Plan, 0)
	for rows.Next() {
		var p model.Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CheckinLimit); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update replaces all editable fields of a plan.  Returns sql.ErrNoRows
// when the plan does not exist.
func (r *PlanRepo) Update(ctx context.Context, p model.Plan) (model.Plan, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE planos SET nome=?, descricao=?, preco=?, limite_checkins=? WHERE id=?",
		p.Name, p.Description, p.Price, p.CheckinLimit, p.ID)
	if err != nil {
		return model.Plan{}, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return model.Plan{}, err
	} else if n == 0 {
		// The update may also affect zero rows when nothing changed, so
		// confirm existence before reporting not-found.
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return model.Plan{}, err
		}
	}
	return r.GetByID(ctx, p.ID)
}

// Delete removes a plan.  Returns sql.ErrNoRows when it does not exist.
func (r *PlanRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM planos WHERE id=?", id)
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
