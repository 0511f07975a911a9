package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/OptiGestion-api/internal/application/notification"
)

// memList simula LPUSH sobre listas de Redis.
type memList struct {
	mu    sync.Mutex
	lists map[string][]string
}

func newMemList() *memList { return &memList{lists: map[string][]string{}} }

func (m *memList) LPush(ctx context.Context, key string, values ...any) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range values {
		var s string
		switch x := v.(type) {
		case []byte:
			s = string(x)
		case string:
			s = x
		}
		m.lists[key] = append([]string{s}, m.lists[key]...)
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(int64(len(m.lists[key])))
	return cmd
}

func (m *memList) pop(t *testing.T, key string) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	l := m.lists[key]
	require.NotEmpty(t, l, "lista %s vacía", key)
	last := l[len(l)-1]
	m.lists[key] = l[:len(l)-1]
	return last
}

type stubSender struct {
	err  error
	sent []notification.Message
}

func (s *stubSender) Send(_ context.Context, msg notification.Message) error {
	s.sent = append(s.sent, msg)
	return s.err
}

var sampleMsg = notification.Message{Kind: "bienvenida", To: []string{"ana@correo.test"}, Subject: "Hola", HTML: "<p>Hola</p>"}

func TestRedisDispatcher_EncolaJobConMensaje(t *testing.T) {
	rdb := newMemList()
	d := &RedisDispatcher{rdb: rdb}

	d.Dispatch(context.Background(), sampleMsg)

	var job Job
	require.NoError(t, json.Unmarshal([]byte(rdb.pop(t, QueueEmail)), &job))
	assert.Equal(t, jobTypeEmail, job.Type)
	assert.Zero(t, job.Attempts)
	var msg notification.Message
	require.NoError(t, json.Unmarshal(job.Payload, &msg))
	assert.Equal(t, sampleMsg, msg)
}

func TestRedisDispatcher_ContextoCanceladoIgualEncola(t *testing.T) {
	rdb := newMemList()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	(&RedisDispatcher{rdb: rdb}).Dispatch(ctx, sampleMsg)
	assert.Len(t, rdb.lists[QueueEmail], 1)
}

func encodedJob(t *testing.T, attempts int) string {
	t.Helper()
	payload, err := json.Marshal(sampleMsg)
	require.NoError(t, err)
	b, err := json.Marshal(Job{Type: jobTypeEmail, Payload: payload, Attempts: attempts})
	require.NoError(t, err)
	return string(b)
}

func TestProcessJob_EnvioExitoso(t *testing.T) {
	rdb := newMemList()
	sender := &stubSender{}
	processJob(context.Background(), rdb, sender, QueueEmail, encodedJob(t, 0))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, sampleMsg, sender.sent[0])
	assert.Empty(t, rdb.lists)
}

func TestProcessJob_FalloReencolaConIntento(t *testing.T) {
	rdb := newMemList()
	sender := &stubSender{err: errors.New("smtp caído")}
	processJob(context.Background(), rdb, sender, QueueEmail, encodedJob(t, 0))

	var job Job
	require.NoError(t, json.Unmarshal([]byte(rdb.pop(t, QueueEmail)), &job))
	assert.Equal(t, 1, job.Attempts)
	assert.Empty(t, rdb.lists[DLQPrefix+QueueEmail])
}

func TestProcessJob_UltimoIntentoVaALaDLQ(t *testing.T) {
	rdb := newMemList()
	sender := &stubSender{err: errors.New("smtp caído")}
	processJob(context.Background(), rdb, sender, QueueEmail, encodedJob(t, maxAttempts-1))

	assert.Empty(t, rdb.lists[QueueEmail])
	var entry DLQEntry
	require.NoError(t, json.Unmarshal([]byte(rdb.pop(t, DLQPrefix+QueueEmail)), &entry))
	assert.Equal(t, QueueEmail, entry.OriginalQueue)
	assert.Equal(t, maxAttempts, entry.Attempts)
	assert.Equal(t, "smtp caído", entry.Reason)
}

func TestProcessJob_SinDestinatarioNoSeReintenta(t *testing.T) {
	rdb := newMemList()
	sender := &stubSender{err: notification.ErrNoRecipient}
	processJob(context.Background(), rdb, sender, QueueEmail, encodedJob(t, 0))

	assert.Empty(t, rdb.lists[QueueEmail])
	assert.Len(t, rdb.lists[DLQPrefix+QueueEmail], 1)
}

func TestProcessJob_JSONInvalidoVaALaDLQ(t *testing.T) {
	rdb := newMemList()
	sender := &stubSender{}
	processJob(context.Background(), rdb, sender, QueueEmail, "{no es json")

	assert.Empty(t, sender.sent)
	assert.Len(t, rdb.lists[DLQPrefix+QueueEmail], 1)
}
