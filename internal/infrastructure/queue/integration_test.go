//go:build integration

package queue_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/jhoicas/OptiGestion-api/internal/application/notification"
	"github.com/jhoicas/OptiGestion-api/internal/infrastructure/queue"
)

type chanSender struct {
	mu   sync.Mutex
	got  []notification.Message
	done chan struct{}
}

func (s *chanSender) Send(_ context.Context, msg notification.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, msg)
	if len(s.got) == 1 {
		close(s.done)
	}
	return nil
}

func TestIntegration_ColaRedisDeExtremoAExtremo(t *testing.T) {
	ctx := context.Background()
	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	url, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)
	rdb, err := queue.NewRedis(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	sender := &chanSender{done: make(chan struct{})}
	wctx, cancel := context.WithCancel(ctx)
	workers := queue.StartWorkers(wctx, rdb, sender, 2)

	queue.NewRedisDispatcher(rdb).Dispatch(ctx, notification.Message{
		Kind: "stock_bajo", To: []string{"compras@optica.test"}, Subject: "Stock bajo",
	})

	select {
	case <-sender.done:
	case <-time.After(10 * time.Second):
		t.Fatal("el worker no procesó el mensaje")
	}
	cancel()
	workers.Wait()

	assert.Equal(t, "stock_bajo", sender.got[0].Kind)
	n, err := queue.DLQLength(ctx, rdb, queue.QueueEmail)
	require.NoError(t, err)
	assert.Zero(t, n)
}
