package audit

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Dispatcher асинхронная доставка событий аудита по принципу best-effort:
// ошибки логируются и никогда не возвращаются вызывающему
type Dispatcher struct {
	sink    Sink
	timeout time.Duration
	log     Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher создает диспетчер. timeout ограничивает доставку одного события
func NewDispatcher(sink Sink, timeout time.Duration, log Logger) *Dispatcher {
	return &Dispatcher{sink: sink, timeout: timeout, log: log}
}

// Emit ставит событие на доставку и сразу возвращает управление.
// Доставка не зависит от отмены ctx запроса, после Close события отбрасываются
func (d *Dispatcher) Emit(ctx context.Context, event domain.AuditEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn("Audit dispatcher closed, event dropped: action=%s, reservation_id=%d", event.Action, event.ReservationID)
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		if err := d.sink.Publish(pubCtx, event); err != nil {
			d.log.Error("Failed to publish audit event: action=%s, reservation_id=%d, error=%v",
				event.Action, event.ReservationID, err)
		}
	}()
}

// Close дожидается доставки уже поставленных событий и закрывает sink
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	d.wg.Wait()
	return d.sink.Close()
}
