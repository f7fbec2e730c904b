package queue

// PaymentRecordedEvent is published to the payment.recorded queue when a
// payment is persisted.  The finance back office consumes it for its
// audit trail.
type PaymentRecordedEvent struct {
	PaymentID   uint64  `json:"pagamento_id"`
	UserID      uint64  `json:"usuario_id"`
	UserName    string  `json:"usuario_nome"`
	PlanID      uint64  `json:"plano_id"`
	PlanName    string  `json:"plano_nome"`
	Amount      float64 `json:"valor"`
	Status      string  `json:"status"`
	PaidAt      string  `json:"data_pagamento"`
	DueAt       string  `json:"data_vencimento"`
	RecordedAt  string  `json:"registrado_em"`
	RecordedVia string  `json:"origem"` // "manual" or "asaas"
}
