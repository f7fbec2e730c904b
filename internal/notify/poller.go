package notify

import (
	"context"
	"log"
	"time"
)

// ActivityCounter reports how many check-ins, payments and user signups
// happened in the last lookback window.  Satisfied by
// repository.ReportRepo.
type ActivityCounter interface {
	RecentActivity(ctx context.Context, lookback time.Duration) (checkins, payments, users int, err error)
}

// Poller watches the database for fresh activity and pushes an event per
// activity kind to the hub.  The lookback window is wider than the tick
// so a row written right at a tick boundary is never missed; the
// dashboard tolerates the occasional duplicate.
type Poller struct {
	Hub      *Hub
	Counter  ActivityCounter
	Tick     time.Duration
	Lookback time.Duration
}

func NewPoller(hub *Hub, counter ActivityCounter, tick, lookback time.Duration) *Poller {
	return &Poller{Hub: hub, Counter: counter, Tick: tick, Lookback: lookback}
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.Tick)
	defer ticker.Stop()
	log.Printf("notify: poller iniciado (tick=%s lookback=%s)", p.Tick, p.Lookback)
	for {
		select {
		case <-ctx.Done():
			log.Printf("notify: poller encerrado")
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	checkins, payments, users, err := p.Counter.RecentActivity(ctx, p.Lookback)
	if err != nil {
		// Skip this tick; the next one retries.
		log.Printf("notify: consulta de atividade falhou: %v", err)
		return
	}
	if checkins > 0 {
		p.Hub.Broadcast(NewEvent(EventCheckinUpdate, "Novos checkins realizados",
			map[string]any{"count": checkins}))
	}
	if payments > 0 {
		p.Hub.Broadcast(NewEvent(EventPaymentUpdate, "Novos pagamentos realizados",
			map[string]any{"count": payments}))
	}
	if users > 0 {
		p.Hub.Broadcast(NewEvent(EventUserUpdate, "Novos usuários cadastrados",
			map[string]any{"count": users}))
	}
}
