package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/vittahq/vitta-api/internal/model"
	"github.com/vittahq/vitta-api/internal/utils"
)

// StaffRepo persists employee accounts in the 'funcionarios' table.
type StaffRepo struct{ DB *sql.DB }

func NewStaffRepo(db *sql.DB) *StaffRepo { return &StaffRepo{DB: db} }

// Create inserts a staff member with a hashed password and returns the
// stored row.
func (r *StaffRepo) Create(ctx context.Context, name, email, password, role string, cost int) (model.Staff, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.Staff{}, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO funcionarios (nome, email, senha, cargo) VALUES (?,?,?,?)",
		name, email, hash, role)
	if err != nil {
		if isDuplicateKey(err) {
			return model.Staff{}, ErrEmailExists
		}
		return model.Staff{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Staff{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByEmail fetches a staff member by normalized email.
func (r *StaffRepo) GetByEmail(ctx context.Context, email string) (model.Staff, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var s model.Staff
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, nome, email, senha, cargo FROM funcionarios WHERE email=? LIMIT 1",
		email).Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.Role)
	return s, err
}

// GetByID fetches a staff member by id.
func (r *StaffRepo) GetByID(ctx context.Context, id uint64) (model.Staff, error) {
	var s model.Staff
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, nome, email, senha, cargo FROM funcionarios WHERE id=? LIMIT 1",
		id).Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.Role)
	return s, err
}

// List returns all staff members, newest first.
func (r *StaffRepo) List(ctx context.Context) ([]model.Staff, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, nome, email, senha, cargo FROM funcionarios ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Staff, 0)
	for rows.Next() {
		var s model.Staff
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.Role); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update replaces name, email and role, and the password when a new one is
// provided.  Returns sql.ErrNoRows when the staff member does not exist.
func (r *StaffRepo) Update(ctx context.Context, id uint64, name, email, password, role string, cost int) (model.Staff, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if password != "" {
		hash, err := utils.HashPassword(password, cost)
		if err != nil {
			return model.Staff{}, err
		}
		if _, err := r.DB.ExecContext(ctx,
			"UPDATE funcionarios SET nome=?, email=?, senha=?, cargo=? WHERE id=?",
			name, email, hash, role, id); err != nil {
			return model.Staff{}, err
		}
	} else {
		if _, err := r.DB.ExecContext(ctx,
			"UPDATE funcionarios SET nome=?, email=?, cargo=? WHERE id=?",
			name, email, role, id); err != nil {
			return model.Staff{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a staff member.  Returns sql.ErrNoRows when it does not
// exist.
func (r *StaffRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM funcionarios WHERE id=?", id)
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
