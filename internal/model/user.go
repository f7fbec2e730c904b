package model

import "time"

// User represents a student record as stored in the `usuarios` table.
// Each field corresponds to a column in the database.  The json tags are
// omitted here because these structs are primarily used internally by the
// repository layer; handlers define separate response types with
// appropriate JSON tags.
//
// Two status columns coexist: Status is the account-level state
// (pending/active/inativo) and PlanStatus is the derived subscription
// state.  Both are only ever written together through a StatusDecision so
// they cannot drift apart after a reconcile.
//
// Fields:
//
//	ID                – primary key identifier of the user.
//	Name              – display name (usuarios.nome).
//	Email             – unique email address.
//	PasswordHash      – bcrypt hashed password (usuarios.senha).
//	Status            – account state (usuarios.status).
//	PlanID            – current plan, nil when the user has none (usuarios.plano_atual_id).
//	PlanStatus        – derived subscription state (usuarios.status_plano).
//	PlanStatusUpdated – when the plan status last changed (usuarios.data_atualizacao_plano).
//	CreatedAt         – timestamp of creation.
type User struct {
	ID                uint64     // usuarios.id
	Name              string     // usuarios.nome
	Email             string     // usuarios.email
	PasswordHash      string     // usuarios.senha
	Status            string     // usuarios.status
	PlanID            *uint64    // usuarios.plano_atual_id (nullable)
	PlanStatus        PlanStatus // usuarios.status_plano
	PlanStatusUpdated *time.Time // usuarios.data_atualizacao_plano (nullable)
	CreatedAt         time.Time  // usuarios.created_at
}

// Account-level status values.  The mixed-language values are the ones the
// dashboard stores and filters on; changing them would break every existing
// row.
const (
	AccountPending  = "pending"
	AccountActive   = "active"
	AccountInactive = "inativo"
)
