package repository

import (
	"context"
	"testing"
	"time"
)

func newMemoryStore(now *time.Time) *memoryResetCodes {
	return &memoryResetCodes{
		codes: make(map[string]memoryCode),
		now:   func() time.Time { return *now },
	}
}

func TestMemoryResetCodesLifecycle(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	s := newMemoryStore(&now)
	ctx := context.Background()

	if err := s.Set(ctx, "ana@vitta.fit", "123456"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	ok, err := s.Check(ctx, "ana@vitta.fit", "123456")
	if err != nil || !ok {
		t.Fatalf("Check(correct) = %v, %v; want true", ok, err)
	}
	ok, _ = s.Check(ctx, "ana@vitta.fit", "654321")
	if ok {
		t.Fatalf("wrong code accepted")
	}
	ok, _ = s.Check(ctx, "outro@vitta.fit", "123456")
	if ok {
		t.Fatalf("code accepted for unknown email")
	}

	if err := s.Delete(ctx, "ana@vitta.fit"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	ok, _ = s.Check(ctx, "ana@vitta.fit", "123456")
	if ok {
		t.Fatalf("code survived Delete")
	}
}

func TestMemoryResetCodesExpire(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	s := newMemoryStore(&now)
	ctx := context.Background()

	if err := s.Set(ctx, "ana@vitta.fit", "123456"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	now = now.Add(resetCodeTTL + time.Minute)
	ok, err := s.Check(ctx, "ana@vitta.fit", "123456")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if ok {
		t.Fatalf("expired code accepted")
	}
}
