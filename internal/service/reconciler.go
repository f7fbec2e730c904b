package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/vittahq/vitta-api/internal/model"
)

var (
	// ErrNoPlan is returned by CancelPlan when the user has no active
	// plan assignment to cancel.
	ErrNoPlan = errors.New("usuário não possui plano ativo")
	// ErrNotCancelled is returned by ReactivatePlan when the
	// subscription is not in the cancelled state.
	ErrNotCancelled = errors.New("plano não está cancelado")
)

// StatusStore is the persistence surface the reconciler drives.  It is
// satisfied by repository.StatusRepo; tests substitute an in-memory fake.
// The tx parameter follows the repo convention: nil runs on the pool,
// non-nil joins the caller's transaction.
type StatusStore interface {
	ListUserIDs(ctx context.Context, tx *sql.Tx) ([]uint64, error)
	PlanAndLastPaid(ctx context.Context, tx *sql.Tx, id uint64) (*uint64, *time.Time, error)
	Apply(ctx context.Context, tx *sql.Tx, id uint64, d model.StatusDecision) error
	PlanState(ctx context.Context, tx *sql.Tx, id uint64) (*uint64, model.PlanStatus, error)
	MarkPlanCancelled(ctx context.Context, tx *sql.Tx, id uint64) error
	CancelPaidPayments(ctx context.Context, tx *sql.Tx, id uint64) error
	ReactivatePlan(ctx context.Context, tx *sql.Tx, id uint64) error
	RepayLatestPayment(ctx context.Context, tx *sql.Tx, id uint64) error
	ReactivateAssigned(ctx context.Context, tx *sql.Tx) (int64, error)
	DeactivateUnassigned(ctx context.Context, tx *sql.Tx) (int64, error)
}

// Reconciler recomputes the derived subscription state from payment
// history.  The columns usuarios.status_plano and usuarios.status are
// never written by handlers directly; every mutation funnels through
// here so the stored state always agrees with model.Derive.
type Reconciler struct {
	DB    *sql.DB
	Store StatusStore
	Now   func() time.Time
}

func NewReconciler(db *sql.DB, store StatusStore) *Reconciler {
	return &Reconciler{DB: db, Store: store, Now: time.Now}
}

// ReconcileUser recomputes one user's status on the pool.
func (s *Reconciler) ReconcileUser(ctx context.Context, id uint64) error {
	return s.reconcileOne(ctx, nil, id)
}

// ReconcileUserTx recomputes one user's status inside the caller's
// transaction, so a payment insert and the status it implies commit
// together.
func (s *Reconciler) ReconcileUserTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	return s.reconcileOne(ctx, tx, id)
}

func (s *Reconciler) reconcileOne(ctx context.Context, tx *sql.Tx, id uint64) error {
	planID, lastPaid, err := s.Store.PlanAndLastPaid(ctx, tx, id)
	if err != nil {
		return err
	}
	// A cancelled subscription stays cancelled until explicitly
	// reactivated; the age of the last payment is irrelevant to it.
	_, current, err := s.Store.PlanState(ctx, tx, id)
	if err != nil {
		return err
	}
	if current == model.PlanCancelled {
		return nil
	}
	d := model.Derive(planID != nil, lastPaid, s.Now())
	return s.Store.Apply(ctx, tx, id, d)
}

// ReconcileAll recomputes every user inside a single transaction and
// returns how many users were processed and how many individual
// failures were skipped.  One broken row must not abort the batch.
func (s *Reconciler) ReconcileAll(ctx context.Context) (updated, failed int, err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	updated, failed, err = s.reconcileBatch(ctx, tx)
	if err != nil {
		return 0, 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	return updated, failed, nil
}

func (s *Reconciler) reconcileBatch(ctx context.Context, tx *sql.Tx) (updated, failed int, err error) {
	ids, err := s.Store.ListUserIDs(ctx, tx)
	if err != nil {
		return 0, 0, err
	}
	for _, id := range ids {
		if err := s.reconcileOne(ctx, tx, id); err != nil {
			log.Printf("reconciler: usuário %d: %v", id, err)
			failed++
			continue
		}
		updated++
	}
	return updated, failed, nil
}

// CancelPlan marks the user's subscription as cancelled and flips their
// paid payments to cancelled, atomically.  The plan assignment itself is
// kept so ReactivatePlan can restore it.
func (s *Reconciler) CancelPlan(ctx context.Context, id uint64) error {
	planID, _, err := s.Store.PlanState(ctx, nil, id)
	if err != nil {
		return err
	}
	if planID == nil {
		return ErrNoPlan
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := s.Store.MarkPlanCancelled(ctx, tx, id); err != nil {
		return err
	}
	if err := s.Store.CancelPaidPayments(ctx, tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

// ReactivatePlan undoes a cancellation: the subscription goes back to
// active and the most recent payment is flipped back to paid.
func (s *Reconciler) ReactivatePlan(ctx context.Context, id uint64) error {
	_, status, err := s.Store.PlanState(ctx, nil, id)
	if err != nil {
		return err
	}
	if status != model.PlanCancelled {
		return ErrNotCancelled
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := s.Store.ReactivatePlan(ctx, tx, id); err != nil {
		return err
	}
	if err := s.Store.RepayLatestPayment(ctx, tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

// FixResult reports the two bulk repairs performed by FixInconsistent.
type FixResult struct {
	Reactivated int64 `json:"reativados"`
	Deactivated int64 `json:"ajustados"`
}

// FixInconsistent repairs rows whose plan assignment and derived status
// disagree: assigned users stuck as cancelled become active, unassigned
// users marked active become inactive.
func (s *Reconciler) FixInconsistent(ctx context.Context) (FixResult, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return FixResult{}, err
	}
	defer tx.Rollback()
	re, err := s.Store.ReactivateAssigned(ctx, tx)
	if err != nil {
		return FixResult{}, err
	}
	de, err := s.Store.DeactivateUnassigned(ctx, tx)
	if err != nil {
		return FixResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return FixResult{}, err
	}
	return FixResult{Reactivated: re, Deactivated: de}, nil
}
