package audit

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Event struct {
	TenantID uint
	UserID   *uint
	Action   string
	Entity   string
	EntityID string
	Metadata any
}

type Sink interface {
	Log(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	sink   Sink
	logger *zap.Logger
	queue  chan Event
	done   chan struct{}
	once   sync.Once
}

func NewDispatcher(sink Sink, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		sink:   sink,
		logger: logger,
		queue:  make(chan Event, 100), // buffer seguro
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		if err := d.sink.Log(context.Background(), ev); err != nil {
			d.logger.Error("audit error",
				zap.String("action", ev.Action),
				zap.Uint("tenant_id", ev.TenantID),
				zap.Error(err),
			)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	select {
	case d.queue <- ev:
		// enviado
	default:
		// fila cheia → descartamos audit (nunca quebrar API)
		d.logger.Warn("audit queue full, dropping event",
			zap.String("action", ev.Action),
			zap.Uint("tenant_id", ev.TenantID),
		)
	}
}

// Close stops accepting events and waits for the queue to drain. Dispatch
// must not be called after Close.
func (d *Dispatcher) Close() {
	d.once.Do(func() { close(d.queue) })
	<-d.done
}
