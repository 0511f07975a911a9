// Package email envío de correos por SMTP (jordan-wright/email) o solo a log en desarrollo.
package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/OptiGestion-api/internal/application/notification"
	"github.com/jhoicas/OptiGestion-api/pkg/config"
)

var (
	_ notification.Sender = (*SMTPSender)(nil)
	_ notification.Sender = LogSender{}
)

// SMTPSender envía correos HTML con alternativa en texto plano.
type SMTPSender struct {
	host     string
	user     string
	password string
	from     string
	addr     string
	timeout  time.Duration
	send     func(ctx context.Context, addr string, auth smtp.Auth, e *email.Email) error
}

// defaultSMTPTimeout tope de una entrega completa cuando ctx no trae deadline.
const defaultSMTPTimeout = 30 * time.Second

// NewSMTPSender construye el sender con la configuración SMTP.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	from := cfg.From
	if from == "" {
		from = cfg.SMTPUser
	}
	s := &SMTPSender{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     from,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		timeout:  defaultSMTPTimeout,
	}
	s.send = s.deliver
	return s
}

// Send envía msg dentro del plazo de ctx. Al vencer se corta la conexión: no queda
// ningún envío en curso que pueda completarse después de devolver el error.
func (s *SMTPSender) Send(ctx context.Context, msg notification.Message) error {
	if len(msg.To) == 0 {
		return notification.ErrNoRecipient
	}
	e := email.NewEmail()
	e.From = s.from
	e.To = msg.To
	e.Subject = msg.Subject
	e.HTML = []byte(msg.HTML)
	if msg.Text != "" {
		e.Text = []byte(msg.Text)
	}

	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.password, s.host)
	}

	if err := s.send(ctx, s.addr, auth, e); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("smtp: enviar %s: %w", msg.Kind, ctxErr)
		}
		return fmt.Errorf("smtp: enviar %s: %w", msg.Kind, err)
	}
	log.Debug().Str("tipo", msg.Kind).Strs("para", msg.To).Msg("correo enviado")
	return nil
}

// deliver conversación SMTP sobre una conexión con deadline (el de ctx o s.timeout).
// El mensaje MIME lo arma jordan-wright/email; STARTTLS y AUTH si el servidor los anuncia.
func (s *SMTPSender) deliver(ctx context.Context, addr string, auth smtp.Auth, e *email.Email) error {
	deadline := time.Now().Add(s.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	dialer := &net.Dialer{Deadline: deadline}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := conn.SetDeadline(deadline); err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	host, _, _ := net.SplitHostPort(addr)
	c, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	if auth != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(auth); err != nil {
				return err
			}
		}
	}

	from, err := mail.ParseAddress(e.From)
	if err != nil {
		return fmt.Errorf("remitente %q: %w", e.From, err)
	}
	if err := c.Mail(from.Address); err != nil {
		return err
	}
	rcpts := append(append(append([]string{}, e.To...), e.Cc...), e.Bcc...)
	if len(rcpts) == 0 {
		return errors.New("sin destinatarios")
	}
	for _, r := range rcpts {
		to, err := mail.ParseAddress(r)
		if err != nil {
			return fmt.Errorf("destinatario %q: %w", r, err)
		}
		if err := c.Rcpt(to.Address); err != nil {
			return err
		}
	}

	raw, err := e.Bytes()
	if err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// LogSender registra el correo en el log sin enviarlo (SMTP_HOST vacío).
type LogSender struct{}

// Send escribe asunto y destinatarios en el log.
func (LogSender) Send(_ context.Context, msg notification.Message) error {
	if len(msg.To) == 0 {
		return notification.ErrNoRecipient
	}
	log.Info().
		Str("tipo", msg.Kind).
		Strs("para", msg.To).
		Str("asunto", msg.Subject).
		Msg("correo no enviado: SMTP sin configurar")
	return nil
}

// NewSender SMTPSender si hay servidor configurado; LogSender en caso contrario.
func NewSender(cfg config.EmailConfig) notification.Sender {
	if cfg.Enabled() {
		return NewSMTPSender(cfg)
	}
	log.Warn().Msg("SMTP_HOST vacío: los correos solo se registran en el log")
	return LogSender{}
}
