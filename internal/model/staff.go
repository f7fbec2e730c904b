package model

// Staff represents an employee record as stored in the `funcionarios`
// table.  Staff accounts are independent from students; they carry a role
// string used for the funcionario JWT claim.
//
// Fields:
//
//	ID           – primary key identifier.
//	Name         – display name (funcionarios.nome).
//	Email        – login email (funcionarios.email).
//	PasswordHash – bcrypt hashed password (funcionarios.senha).
//	Role         – job title / role (funcionarios.cargo).
type Staff struct {
	ID           uint64 // funcionarios.id
	Name         string // funcionarios.nome
	Email        string // funcionarios.email
	PasswordHash string // funcionarios.senha
	Role         string // funcionarios.cargo
}
