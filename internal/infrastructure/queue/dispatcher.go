package queue

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/OptiGestion-api/internal/application/notification"
)

// QueueEmail lista de Redis con los correos pendientes.
const QueueEmail = "jobs:email"

const jobTypeEmail = "email"

var _ notification.Dispatcher = (*RedisDispatcher)(nil)

// Job sobre genérico de un trabajo encolado.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// pusher lo cumple *redis.Client.
type pusher interface {
	LPush(ctx context.Context, key string, values ...any) *redis.IntCmd
}

// RedisDispatcher encola correos en Redis para que los procese cualquier instancia.
type RedisDispatcher struct {
	rdb pusher
}

// NewRedisDispatcher construye el dispatcher.
func NewRedisDispatcher(rdb *redis.Client) *RedisDispatcher {
	return &RedisDispatcher{rdb: rdb}
}

// Dispatch encola el correo. Un fallo de Redis se registra y el mensaje se pierde.
// El encolado no hereda la cancelación de ctx: la petición HTTP puede haber terminado.
func (d *RedisDispatcher) Dispatch(ctx context.Context, msg notification.Message) {
	if err := enqueue(context.WithoutCancel(ctx), d.rdb, QueueEmail, Job{Type: jobTypeEmail}, msg); err != nil {
		log.Error().Err(err).Str("tipo", msg.Kind).Strs("to", msg.To).Msg("notificaciones: no se pudo encolar")
	}
}

func enqueue(ctx context.Context, rdb pusher, queue string, job Job, payload any) error {
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		job.Payload = data
	}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}
