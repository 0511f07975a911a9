package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/OptiGestion-api/internal/application/notification"
)

const (
	maxAttempts = 3
	popTimeout  = 5 * time.Second
	sendTimeout = 30 * time.Second
)

// Workers consume QueueEmail con BRPOP y envían con el Sender.
type Workers struct {
	rdb    *redis.Client
	sender notification.Sender
	wg     sync.WaitGroup
}

// StartWorkers lanza n goroutines; cada una bloquea en BRPOP (sin consumo de CPU en reposo).
// Se detienen al cancelar ctx; Wait espera a que terminen.
func StartWorkers(ctx context.Context, rdb *redis.Client, sender notification.Sender, n int) *Workers {
	if n <= 0 {
		n = 1
	}
	w := &Workers{rdb: rdb, sender: sender}
	for i := 0; i < n; i++ {
		w.wg.Add(1)
		go w.run(ctx, i)
	}
	log.Info().Int("workers", n).Str("queue", QueueEmail).Msg("notificaciones: workers de Redis iniciados")
	return w
}

// Wait bloquea hasta que todos los workers salen.
func (w *Workers) Wait() { w.wg.Wait() }

func (w *Workers) run(ctx context.Context, id int) {
	defer w.wg.Done()
	for {
		if ctx.Err() != nil {
			log.Info().Int("worker", id).Msg("notificaciones: worker detenido")
			return
		}
		// Espera hasta popTimeout y vuelve a mirar ctx.
		result, err := w.rdb.BRPop(ctx, popTimeout, QueueEmail).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Error().Err(err).Int("worker", id).Msg("notificaciones: BRPOP")
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		processJob(context.WithoutCancel(ctx), w.rdb, w.sender, result[0], result[1])
	}
}

// processJob envía el correo del trabajo. Si falla, lo reencola con un intento más
// o lo mueve a la DLQ al llegar a maxAttempts. Un mensaje sin destinatario no se reintenta.
func processJob(ctx context.Context, rdb pusher, sender notification.Sender, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("notificaciones: trabajo ilegible")
		quoted, _ := json.Marshal(raw)
		sendToDLQ(ctx, rdb, queue, Job{Type: "desconocido", Payload: quoted}, "json inválido: "+err.Error())
		return
	}
	if job.Type != jobTypeEmail {
		sendToDLQ(ctx, rdb, queue, job, "tipo de trabajo desconocido")
		return
	}
	var msg notification.Message
	if err := json.Unmarshal(job.Payload, &msg); err != nil {
		sendToDLQ(ctx, rdb, queue, job, "payload inválido: "+err.Error())
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	err := sender.Send(sendCtx, msg)
	cancel()
	if err == nil {
		log.Debug().Str("tipo", msg.Kind).Strs("to", msg.To).Msg("notificaciones: enviado")
		return
	}

	job.Attempts++
	if errors.Is(err, notification.ErrNoRecipient) || job.Attempts >= maxAttempts {
		sendToDLQ(ctx, rdb, queue, job, err.Error())
		return
	}
	log.Warn().Err(err).Str("tipo", msg.Kind).Int("intento", job.Attempts).Msg("notificaciones: envío fallido, reintento")
	if err := enqueue(ctx, rdb, queue, job, nil); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("notificaciones: no se pudo reencolar")
	}
}
