package email

import (
	"context"
	"errors"
	"io"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/OptiGestion-api/internal/application/notification"
	"github.com/jhoicas/OptiGestion-api/pkg/config"
)

type sendFunc func(ctx context.Context, addr string, auth smtp.Auth, e *email.Email) error

func newTestSender(send sendFunc) *SMTPSender {
	s := NewSMTPSender(config.EmailConfig{
		SMTPHost: "smtp.test", SMTPPort: 587, SMTPUser: "user", SMTPPassword: "secret",
		From: "OptiGestión <no-reply@optica.test>",
	})
	s.send = send
	return s
}

func TestSMTPSender_ArmaElCorreo(t *testing.T) {
	var (
		got     *email.Email
		gotAddr string
	)
	s := newTestSender(func(_ context.Context, addr string, _ smtp.Auth, e *email.Email) error {
		got, gotAddr = e, addr
		return nil
	})

	err := s.Send(context.Background(), notification.Message{
		Kind: "bienvenida", To: []string{"ana@correo.test"}, Subject: "Hola", HTML: "<p>Hola</p>", Text: "Hola",
	})
	require.NoError(t, err)
	assert.Equal(t, "smtp.test:587", gotAddr)
	assert.Equal(t, "OptiGestión <no-reply@optica.test>", got.From)
	assert.Equal(t, []string{"ana@correo.test"}, got.To)
	assert.Equal(t, "<p>Hola</p>", string(got.HTML))
	assert.Equal(t, "Hola", string(got.Text))
}

func TestSMTPSender_SinDestinatario(t *testing.T) {
	s := newTestSender(func(context.Context, string, smtp.Auth, *email.Email) error {
		t.Fatal("no debe enviarse")
		return nil
	})
	err := s.Send(context.Background(), notification.Message{Kind: "bienvenida"})
	assert.ErrorIs(t, err, notification.ErrNoRecipient)
}

func TestSMTPSender_ErrorDelServidor(t *testing.T) {
	boom := errors.New("535 auth failed")
	s := newTestSender(func(context.Context, string, smtp.Auth, *email.Email) error { return boom })
	err := s.Send(context.Background(), notification.Message{Kind: "recordatorio", To: []string{"a@b.test"}})
	assert.ErrorIs(t, err, boom)
}

// ─── Servidor SMTP de prueba ───────────────────────────────────────────────────

// fakeSMTP servidor SMTP mínimo (sin STARTTLS ni AUTH) que guarda el último DATA.
type fakeSMTP struct {
	ln     net.Listener
	mu     sync.Mutex
	from   string
	rcpts  []string
	data   string
	closed chan struct{}
}

func startFakeSMTP(t *testing.T, silent bool) *fakeSMTP {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	f := &fakeSMTP{ln: ln, closed: make(chan struct{})}
	t.Cleanup(func() { ln.Close() })
	go f.serve(silent)
	return f
}

func (f *fakeSMTP) addr() string { return f.ln.Addr().String() }

func (f *fakeSMTP) serve(silent bool) {
	conn, err := f.ln.Accept()
	if err != nil {
		return
	}
	defer close(f.closed)
	defer conn.Close()
	if silent {
		// No responde nunca; solo espera a que el cliente corte.
		_, _ = io.Copy(io.Discard, conn)
		return
	}
	tp := textproto.NewConn(conn)
	_ = tp.PrintfLine("220 smtp.test ESMTP")
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		cmd := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
			_ = tp.PrintfLine("250-smtp.test")
			_ = tp.PrintfLine("250 HELP")
		case strings.HasPrefix(cmd, "MAIL FROM:"):
			f.mu.Lock()
			f.from = line[len("MAIL FROM:"):]
			f.mu.Unlock()
			_ = tp.PrintfLine("250 OK")
		case strings.HasPrefix(cmd, "RCPT TO:"):
			f.mu.Lock()
			f.rcpts = append(f.rcpts, line[len("RCPT TO:"):])
			f.mu.Unlock()
			_ = tp.PrintfLine("250 OK")
		case cmd == "DATA":
			_ = tp.PrintfLine("354 fin con .")
			b, err := tp.ReadDotBytes()
			if err != nil {
				return
			}
			f.mu.Lock()
			f.data = string(b)
			f.mu.Unlock()
			_ = tp.PrintfLine("250 encolado")
		case cmd == "QUIT":
			_ = tp.PrintfLine("221 adiós")
			return
		default:
			_ = tp.PrintfLine("502 no implementado")
		}
	}
}

func senderTo(addr string) *SMTPSender {
	host, port, _ := net.SplitHostPort(addr)
	s := NewSMTPSender(config.EmailConfig{SMTPHost: host, From: "OptiGestión <no-reply@optica.test>"})
	s.addr = net.JoinHostPort(host, port)
	return s
}

func TestSMTPSender_EntregaCompleta(t *testing.T) {
	srv := startFakeSMTP(t, false)
	s := senderTo(srv.addr())

	err := s.Send(context.Background(), notification.Message{
		Kind: "bienvenida", To: []string{"Ana <ana@correo.test>"}, Subject: "Bienvenida", HTML: "<p>Hola Ana</p>",
	})
	require.NoError(t, err)
	<-srv.closed

	srv.mu.Lock()
	defer srv.mu.Unlock()
	assert.Equal(t, "<no-reply@optica.test>", srv.from)
	assert.Equal(t, []string{"<ana@correo.test>"}, srv.rcpts)
	assert.Contains(t, srv.data, "Subject: Bienvenida")
	assert.Contains(t, srv.data, "Hola Ana")
}

// Un servidor que no responde no deja el envío vivo tras el plazo: la conexión se
// cierra antes de volver, así que un reintento posterior no duplica el correo.
func TestSMTPSender_PlazoVencidoCortaLaConexion(t *testing.T) {
	srv := startFakeSMTP(t, true)
	s := senderTo(srv.addr())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	err := s.Send(ctx, notification.Message{Kind: "recordatorio", To: []string{"a@b.test"}})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)

	select {
	case <-srv.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("la conexión SMTP siguió abierta después del plazo")
	}
}

func TestSMTPSender_SinDeadlineUsaTimeoutPropio(t *testing.T) {
	srv := startFakeSMTP(t, true)
	s := senderTo(srv.addr())
	s.timeout = 50 * time.Millisecond

	err := s.Send(context.Background(), notification.Message{Kind: "recordatorio", To: []string{"a@b.test"}})
	require.Error(t, err)
	var ne net.Error
	assert.True(t, errors.As(err, &ne) && ne.Timeout())
}

func TestNewSender_SinSMTPUsaLog(t *testing.T) {
	s := NewSender(config.EmailConfig{})
	_, ok := s.(LogSender)
	assert.True(t, ok)
	assert.NoError(t, s.Send(context.Background(), notification.Message{To: []string{"a@b.test"}}))
}
