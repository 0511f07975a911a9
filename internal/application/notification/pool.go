package notification

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const sendTimeout = 30 * time.Second

// PoolDispatcher cola en memoria con workers que envían con el Sender.
// Si la cola está llena el mensaje se descarta y se registra en el log.
type PoolDispatcher struct {
	sender  Sender
	workers int
	jobs    chan Message

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewPoolDispatcher construye el pool; buffer es la capacidad de la cola.
func NewPoolDispatcher(sender Sender, workers, buffer int) *PoolDispatcher {
	if workers <= 0 {
		workers = 1
	}
	if buffer <= 0 {
		buffer = 64
	}
	return &PoolDispatcher{sender: sender, workers: workers, jobs: make(chan Message, buffer)}
}

// Start lanza los workers. ctx acota cada envío; Close drena la cola.
func (d *PoolDispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run(ctx, i)
	}
	log.Info().Int("workers", d.workers).Msg("notificaciones: pool iniciado")
}

// Dispatch encola sin bloquear.
func (d *PoolDispatcher) Dispatch(_ context.Context, msg Message) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		log.Warn().Str("tipo", msg.Kind).Msg("notificaciones: pool cerrado, mensaje descartado")
		return
	}
	select {
	case d.jobs <- msg:
	default:
		log.Warn().Str("tipo", msg.Kind).Strs("to", msg.To).Msg("notificaciones: cola llena, mensaje descartado")
	}
}

// Close deja de aceptar mensajes y espera a que los workers vacíen la cola.
func (d *PoolDispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *PoolDispatcher) run(ctx context.Context, id int) {
	defer d.wg.Done()
	for msg := range d.jobs {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
		err := d.sender.Send(sendCtx, msg)
		cancel()
		if err != nil {
			log.Error().Err(err).Int("worker", id).Str("tipo", msg.Kind).Strs("to", msg.To).Msg("notificaciones: envío fallido")
			continue
		}
		log.Debug().Int("worker", id).Str("tipo", msg.Kind).Msg("notificaciones: enviado")
	}
}
