package notify

import (
	"errors"
	"testing"
)

type fakeConn struct {
	sent   []Event
	fail   bool
	closed bool
}

func (c *fakeConn) Send(v any) error {
	if c.fail {
		return errors.New("conexão fechada")
	}
	c.sent = append(c.sent, v.(Event))
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func TestHubRegisterSendsGreeting(t *testing.T) {
	h := NewHub()
	c := &fakeConn{}
	h.Register(c)

	if h.ClientCount() != 1 {
		t.Fatalf("ClientCount = %d, want 1", h.ClientCount())
	}
	if len(c.sent) != 1 || c.sent[0].Type != EventConnection {
		t.Fatalf("greeting not sent: %+v", c.sent)
	}
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	h := NewHub()
	a, b := &fakeConn{}, &fakeConn{}
	h.Register(a)
	h.Register(b)

	h.Broadcast(NewEvent(EventManualUpdate, "Status atualizados", nil))

	for i, c := range []*fakeConn{a, b} {
		last := c.sent[len(c.sent)-1]
		if last.Type != EventManualUpdate {
			t.Fatalf("client %d last event = %s, want manual_update", i, last.Type)
		}
	}
}

func TestHubBroadcastPrunesDeadClients(t *testing.T) {
	h := NewHub()
	alive, dead := &fakeConn{}, &fakeConn{}
	h.Register(alive)
	h.Register(dead)
	dead.fail = true

	h.Broadcast(NewEvent(EventCheckinUpdate, "Novos checkins realizados", nil))

	if h.ClientCount() != 1 {
		t.Fatalf("ClientCount = %d, want 1 after prune", h.ClientCount())
	}
	if !dead.closed {
		t.Fatalf("dead connection not closed")
	}
	if alive.sent[len(alive.sent)-1].Type != EventCheckinUpdate {
		t.Fatalf("surviving client missed the broadcast")
	}
}

func TestHubUnregisterIsIdempotent(t *testing.T) {
	h := NewHub()
	c := &fakeConn{}
	h.Register(c)
	h.Unregister(c)
	h.Unregister(c)

	if h.ClientCount() != 0 {
		t.Fatalf("ClientCount = %d, want 0", h.ClientCount())
	}
}
