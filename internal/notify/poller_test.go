package notify

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeCounter struct {
	checkins, payments, users int
	err                       error
}

func (f fakeCounter) RecentActivity(_ context.Context, _ time.Duration) (int, int, int, error) {
	return f.checkins, f.payments, f.users, f.err
}

func eventsOfType(evs []Event, eventType string) []Event {
	var out []Event
	for _, ev := range evs {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

func TestPollBroadcastsPerActivityKind(t *testing.T) {
	h := NewHub()
	c := &fakeConn{}
	h.Register(c)

	p := NewPoller(h, fakeCounter{checkins: 2, users: 1}, 3*time.Second, 5*time.Second)
	p.poll(context.Background())

	checkins := eventsOfType(c.sent, EventCheckinUpdate)
	if len(checkins) != 1 {
		t.Fatalf("got %d checkin events, want 1", len(checkins))
	}
	if got := checkins[0].Data["count"]; got != 2 {
		t.Fatalf("checkin count = %v, want 2", got)
	}
	if len(eventsOfType(c.sent, EventUserUpdate)) != 1 {
		t.Fatalf("user signup event missing")
	}
	if len(eventsOfType(c.sent, EventPaymentUpdate)) != 0 {
		t.Fatalf("payment event sent with zero payments")
	}
}

func TestPollQuietWindowSendsNothing(t *testing.T) {
	h := NewHub()
	c := &fakeConn{}
	h.Register(c)
	greeted := len(c.sent)

	p := NewPoller(h, fakeCounter{}, 3*time.Second, 5*time.Second)
	p.poll(context.Background())

	if len(c.sent) != greeted {
		t.Fatalf("events sent on a quiet window: %+v", c.sent[greeted:])
	}
}

func TestPollSkipsTickOnQueryError(t *testing.T) {
	h := NewHub()
	c := &fakeConn{}
	h.Register(c)
	greeted := len(c.sent)

	p := NewPoller(h, fakeCounter{checkins: 5, err: errors.New("conexão perdida")}, 3*time.Second, 5*time.Second)
	p.poll(context.Background())

	if len(c.sent) != greeted {
		t.Fatalf("events sent despite query error")
	}
	if h.ClientCount() != 1 {
		t.Fatalf("client dropped on query error")
	}
}
