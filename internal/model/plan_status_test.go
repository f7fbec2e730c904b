package model

import (
	"testing"
	"time"
)

func daysAgo(now time.Time, d int) *time.Time {
	t := now.Add(-time.Duration(d) * 24 * time.Hour)
	return &t
}

func TestDeriveNoPlan(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// Payment history is irrelevant when no plan is assigned.
	for _, paid := range []*time.Time{nil, daysAgo(now, 5)} {
		d := Derive(false, paid, now)
		if d.PlanStatus != PlanNone {
			t.Fatalf("Derive(no plan) plan status = %q, want %q", d.PlanStatus, PlanNone)
		}
		if d.AccountStatus != AccountInactive {
			t.Fatalf("Derive(no plan) account status = %q, want %q", d.AccountStatus, AccountInactive)
		}
		if d.ClearPlan {
			t.Fatalf("Derive(no plan) must not set ClearPlan")
		}
	}
}

func TestDeriveNeverPaid(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := Derive(true, nil, now)
	if d.PlanStatus != PlanInactive || d.AccountStatus != AccountInactive || d.ClearPlan {
		t.Fatalf("Derive(plan, never paid) = %+v, want inativo/inativo", d)
	}
}

func TestDeriveThresholds(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		days      int
		want      PlanStatus
		account   string
		clearPlan bool
	}{
		{days: 0, want: PlanActive, account: AccountActive},
		{days: 10, want: PlanActive, account: AccountActive},
		{days: 29, want: PlanActive, account: AccountActive},
		{days: 30, want: PlanLate, account: AccountInactive},
		{days: 59, want: PlanLate, account: AccountInactive},
		{days: 60, want: PlanInactive, account: AccountInactive},
		{days: 89, want: PlanInactive, account: AccountInactive},
		{days: 90, want: PlanNone, account: AccountInactive, clearPlan: true},
		{days: 95, want: PlanNone, account: AccountInactive, clearPlan: true},
		{days: 400, want: PlanNone, account: AccountInactive, clearPlan: true},
	}
	for _, tt := range tests {
		d := Derive(true, daysAgo(now, tt.days), now)
		if d.PlanStatus != tt.want {
			t.Fatalf("Derive(%d days) plan status = %q, want %q", tt.days, d.PlanStatus, tt.want)
		}
		if d.AccountStatus != tt.account {
			t.Fatalf("Derive(%d days) account status = %q, want %q", tt.days, d.AccountStatus, tt.account)
		}
		if d.ClearPlan != tt.clearPlan {
			t.Fatalf("Derive(%d days) ClearPlan = %v, want %v", tt.days, d.ClearPlan, tt.clearPlan)
		}
	}
}

func TestDeriveUsesWholeDays(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// 29 days and 23 hours ago floors to 29 days: still active.
	paid := now.Add(-(29*24 + 23) * time.Hour)
	d := Derive(true, &paid, now)
	if d.PlanStatus != PlanActive {
		t.Fatalf("29d23h old payment derived %q, want %q", d.PlanStatus, PlanActive)
	}
}
