package model

import "time"

// PlanStatus is the derived subscription state of a user.  It is computed
// from the plan assignment and the age of the most recent paid payment and
// stored denormalized on usuarios.status_plano.
type PlanStatus string

const (
	PlanNone      PlanStatus = "sem_plano" // no plan assigned
	PlanInactive  PlanStatus = "inativo"   // plan assigned but lapsed or never paid
	PlanLate      PlanStatus = "atrasado"  // last payment between 30 and 59 days old
	PlanActive    PlanStatus = "ativo"     // paid within the last 30 days
	PlanCancelled PlanStatus = "cancelado" // explicitly cancelled by staff
)

// Thresholds, in days since the last paid payment, at which the derived
// status degrades.
const (
	lateAfterDays     = 30
	inactiveAfterDays = 60
	dropPlanAfterDays = 90
)

// StatusDecision is the outcome of deriving a user's subscription state.
// ClearPlan indicates that the plan assignment itself must be removed
// (payment lapsed past the drop threshold).
type StatusDecision struct {
	PlanStatus    PlanStatus
	AccountStatus string
	ClearPlan     bool
}

// Derive computes the subscription state for a user from its plan
// assignment and the date of its most recent paid payment.  lastPaid is
// nil when the user never had a paid payment.  The function is pure so the
// threshold behavior can be tested without a database, and it is the only
// place where plan and account status are decided, keeping the two fields
// consistent by construction.
func Derive(hasPlan bool, lastPaid *time.Time, now time.Time) StatusDecision {
	if !hasPlan {
		return StatusDecision{PlanStatus: PlanNone, AccountStatus: AccountInactive}
	}
	if lastPaid == nil {
		return StatusDecision{PlanStatus: PlanInactive, AccountStatus: AccountInactive}
	}
	days := int(now.Sub(*lastPaid).Hours() / 24)
	switch {
	case days < lateAfterDays:
		return StatusDecision{PlanStatus: PlanActive, AccountStatus: AccountActive}
	case days < inactiveAfterDays:
		return StatusDecision{PlanStatus: PlanLate, AccountStatus: AccountInactive}
	case days < dropPlanAfterDays:
		return StatusDecision{PlanStatus: PlanInactive, AccountStatus: AccountInactive}
	default:
		return StatusDecision{PlanStatus: PlanNone, AccountStatus: AccountInactive, ClearPlan: true}
	}
}
