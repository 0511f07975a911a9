// Package notification correos transaccionales: bienvenida, recordatorio de cita y alerta de stock bajo.
package notification

import (
	"context"
	"errors"
)

// ErrNoRecipient el mensaje no tiene destinatarios.
var ErrNoRecipient = errors.New("notification: sin destinatario")

// Message correo listo para enviar.
type Message struct {
	Kind    string   `json:"kind"` // bienvenida | recordatorio | stock_bajo
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

// Sender envía un correo de forma síncrona.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher encola un correo para envío en segundo plano.
// Nunca bloquea al caller y nunca devuelve el error del envío.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg Message)
}
