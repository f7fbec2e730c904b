package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/vittahq/vitta-api/internal/model"
)

type fakeUser struct {
	planID   *uint64
	lastPaid *time.Time
	status   model.PlanStatus
	account  string
	broken   bool
}

type fakeStore struct {
	users map[uint64]*fakeUser
}

func newFakeStore() *fakeStore { return &fakeStore{users: make(map[uint64]*fakeUser)} }

func (f *fakeStore) ListUserIDs(_ context.Context, _ *sql.Tx) ([]uint64, error) {
	var ids []uint64
	for id := range f.users {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeStore) PlanAndLastPaid(_ context.Context, _ *sql.Tx, id uint64) (*uint64, *time.Time, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil, sql.ErrNoRows
	}
	if u.broken {
		return nil, nil, errors.New("linha corrompida")
	}
	return u.planID, u.lastPaid, nil
}

func (f *fakeStore) Apply(_ context.Context, _ *sql.Tx, id uint64, d model.StatusDecision) error {
	u := f.users[id]
	u.status = d.PlanStatus
	u.account = d.AccountStatus
	if d.ClearPlan {
		u.planID = nil
	}
	return nil
}

func (f *fakeStore) PlanState(_ context.Context, _ *sql.Tx, id uint64) (*uint64, model.PlanStatus, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, "", sql.ErrNoRows
	}
	return u.planID, u.status, nil
}

func (f *fakeStore) MarkPlanCancelled(_ context.Context, _ *sql.Tx, id uint64) error {
	f.users[id].status = model.PlanCancelled
	return nil
}

func (f *fakeStore) CancelPaidPayments(_ context.Context, _ *sql.Tx, _ uint64) error { return nil }

func (f *fakeStore) ReactivatePlan(_ context.Context, _ *sql.Tx, id uint64) error {
	f.users[id].status = model.PlanActive
	f.users[id].account = model.AccountActive
	return nil
}

func (f *fakeStore) RepayLatestPayment(_ context.Context, _ *sql.Tx, _ uint64) error { return nil }

func (f *fakeStore) ReactivateAssigned(_ context.Context, _ *sql.Tx) (int64, error)   { return 0, nil }
func (f *fakeStore) DeactivateUnassigned(_ context.Context, _ *sql.Tx) (int64, error) { return 0, nil }

func fixedNow() time.Time { return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC) }

func daysAgo(d int) *time.Time {
	t := fixedNow().AddDate(0, 0, -d)
	return &t
}

func planRef(id uint64) *uint64 { return &id }

func newTestReconciler(store *fakeStore) *Reconciler {
	return &Reconciler{Store: store, Now: fixedNow}
}

func TestReconcileUserRecentPayment(t *testing.T) {
	store := newFakeStore()
	store.users[1] = &fakeUser{planID: planRef(3), lastPaid: daysAgo(10)}
	r := newTestReconciler(store)

	if err := r.ReconcileUser(context.Background(), 1); err != nil {
		t.Fatalf("ReconcileUser: %v", err)
	}
	u := store.users[1]
	if u.status != model.PlanActive || u.account != model.AccountActive {
		t.Fatalf("got %s/%s, want ativo/active", u.status, u.account)
	}
	if u.planID == nil {
		t.Fatalf("plan cleared for an up-to-date user")
	}
}

func TestReconcileUserDropsStalePlan(t *testing.T) {
	store := newFakeStore()
	store.users[1] = &fakeUser{planID: planRef(3), lastPaid: daysAgo(95)}
	r := newTestReconciler(store)

	if err := r.ReconcileUser(context.Background(), 1); err != nil {
		t.Fatalf("ReconcileUser: %v", err)
	}
	u := store.users[1]
	if u.status != model.PlanNone {
		t.Fatalf("status = %s, want sem_plano", u.status)
	}
	if u.planID != nil {
		t.Fatalf("plan assignment not cleared after 90 days")
	}
	if u.account != model.AccountInactive {
		t.Fatalf("account = %s, want inativo", u.account)
	}
}

func TestReconcileUserIdempotent(t *testing.T) {
	store := newFakeStore()
	store.users[1] = &fakeUser{planID: planRef(3), lastPaid: daysAgo(45)}
	r := newTestReconciler(store)

	for i := 0; i < 2; i++ {
		if err := r.ReconcileUser(context.Background(), 1); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	u := store.users[1]
	if u.status != model.PlanLate {
		t.Fatalf("status = %s, want atrasado", u.status)
	}
}

func TestReconcileUserSkipsCancelled(t *testing.T) {
	store := newFakeStore()
	store.users[1] = &fakeUser{planID: planRef(3), lastPaid: daysAgo(200), status: model.PlanCancelled}
	r := newTestReconciler(store)

	if err := r.ReconcileUser(context.Background(), 1); err != nil {
		t.Fatalf("ReconcileUser: %v", err)
	}
	u := store.users[1]
	if u.status != model.PlanCancelled {
		t.Fatalf("cancelled subscription was reconciled to %s", u.status)
	}
	if u.planID == nil {
		t.Fatalf("cancelled subscription lost its plan assignment")
	}
}

func TestReconcileBatchSkipsFailures(t *testing.T) {
	store := newFakeStore()
	store.users[1] = &fakeUser{planID: planRef(3), lastPaid: daysAgo(10)}
	store.users[2] = &fakeUser{broken: true}
	store.users[3] = &fakeUser{planID: planRef(3), lastPaid: daysAgo(70)}
	r := newTestReconciler(store)

	updated, failed, err := r.reconcileBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("reconcileBatch: %v", err)
	}
	if updated != 2 || failed != 1 {
		t.Fatalf("updated=%d failed=%d, want 2/1", updated, failed)
	}
	if store.users[1].status != model.PlanActive {
		t.Fatalf("user 1 = %s, want ativo", store.users[1].status)
	}
	if store.users[3].status != model.PlanInactive {
		t.Fatalf("user 3 = %s, want inativo", store.users[3].status)
	}
}

func TestCancelPlanWithoutPlan(t *testing.T) {
	store := newFakeStore()
	store.users[1] = &fakeUser{status: model.PlanNone}
	r := newTestReconciler(store)

	if err := r.CancelPlan(context.Background(), 1); !errors.Is(err, ErrNoPlan) {
		t.Fatalf("err = %v, want ErrNoPlan", err)
	}
}

func TestReactivateNotCancelled(t *testing.T) {
	store := newFakeStore()
	store.users[1] = &fakeUser{planID: planRef(3), status: model.PlanActive}
	r := newTestReconciler(store)

	if err := r.ReactivatePlan(context.Background(), 1); !errors.Is(err, ErrNotCancelled) {
		t.Fatalf("err = %v, want ErrNotCancelled", err)
	}
}
