package model

// Plan represents a purchasable subscription tier as stored in the
// `planos` table.
//
// Fields:
//
//	ID            – primary key identifier.
//	Name          – plan name (planos.nome).
//	Description   – marketing description (planos.descricao).
//	Price         – monthly price in reais (planos.preco, DECIMAL(10,2)).
//	CheckinLimit  – allowed check-ins per month (planos.limite_checkins).
type Plan struct {
	ID           uint64  // planos.id
	Name         string  // planos.nome
	Description  string  // planos.descricao
	Price        float64 // planos.preco
	CheckinLimit int     // planos.limite_checkins
}
