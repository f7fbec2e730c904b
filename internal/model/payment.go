package model

import "time"

// Payment statuses.  The most recent payment by data_pagamento is
// authoritative for deriving the user's subscription state; only 'pago'
// payments count toward it.
const (
	PaymentPaid      = "pago"
	PaymentPending   = "pendente"
	PaymentLate      = "atrasado"
	PaymentCancelled = "cancelado"
	PaymentRefunded  = "reembolsado"
	PaymentInactive  = "inativo"
)

// Payment records a billing attempt or settlement tied to a user and a
// plan, stored in the `pagamentos` table.  Multiple payments per user
// accumulate; rows are never deleted.
//
// Fields:
//
//	ID               – primary key identifier.
//	UserID           – paying user (pagamentos.usuario_id).
//	PlanID           – plan being paid for (pagamentos.plano_id).
//	Status           – one of the Payment* constants.
//	PaymentDate      – when the payment was made (pagamentos.data_pagamento).
//	DueDate          – when the covered period ends (pagamentos.data_vencimento).
//	ExternalChargeID – billing-gateway charge id, if the payment went through Asaas.
//	CreatedAt        – creation timestamp.
type Payment struct {
	ID               uint64    // pagamentos.id
	UserID           uint64    // pagamentos.usuario_id
	PlanID           uint64    // pagamentos.plano_id
	Status           string    // pagamentos.status
	PaymentDate      time.Time // pagamentos.data_pagamento
	DueDate          time.Time // pagamentos.data_vencimento
	ExternalChargeID *string   // pagamentos.cobranca_externa_id (nullable)
	CreatedAt        time.Time // pagamentos.created_at
}
