package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

var weekdays = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

var months = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// LongDate fecha larga en español: "lunes, 11 de mayo de 2026".
func LongDate(t time.Time) string {
	return fmt.Sprintf("%s, %d de %s de %d", weekdays[t.Weekday()], t.Day(), months[t.Month()-1], t.Year())
}

const layoutHead = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1.0">
<style>
body{font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Arial,sans-serif;line-height:1.6;color:#333;max-width:600px;margin:0 auto;padding:20px}
.header{color:#fff;padding:40px 20px;border-radius:10px;text-align:center;margin-bottom:30px}
.content{background:#f9fafb;padding:30px;border-radius:10px;margin-bottom:20px}
.box{background:#fff;border-left:4px solid #10b981;padding:20px;margin:20px 0;border-radius:5px}
.footer{text-align:center;color:#6b7280;font-size:14px;margin-top:30px}
</style></head><body>`

const layoutFoot = `<div class="footer">
<p>Este es un correo automático, por favor no respondas a este mensaje.</p>
<p>© {{.Year}} OptiGestión. Todos los derechos reservados.</p>
</div></body></html>`

var welcomeTmpl = template.Must(template.New("bienvenida").Parse(layoutHead + `
<div class="header" style="background:#667eea"><h1>OptiGestión</h1><p>Tu Óptica de Confianza</p></div>
<div class="content">
<h2>¡Hola {{.FirstName}} {{.LastName}}!</h2>
<p>Nos complace darte la bienvenida a nuestra familia de clientes.</p>
<p>Tu registro ha sido completado exitosamente. Ahora podrás disfrutar de:</p>
<ul>
<li>Gestión de tus citas oftalmológicas</li>
<li>Historial de recetas y graduaciones</li>
<li>Recordatorios automáticos de citas</li>
<li>Atención personalizada y profesional</li>
</ul>
<p>Si tienes alguna pregunta o necesitas agendar una cita, no dudes en contactarnos.</p>
<p><strong>¡Gracias por confiar en nosotros!</strong></p>
</div>` + layoutFoot))

var reminderTmpl = template.Must(template.New("recordatorio").Parse(layoutHead + `
<div class="header" style="background:#10b981"><h1>Recordatorio de Cita</h1><p>OptiGestión</p></div>
<div class="content">
<h2>¡Hola {{.FirstName}} {{.LastName}}!</h2>
<p>Te recordamos que <strong>mañana</strong> tienes una cita programada en nuestra óptica.</p>
<div class="box">
<h3>Detalles de tu Cita</h3>
<p><strong>Fecha:</strong> {{.Date}}</p>
<p><strong>Hora:</strong> {{.Time}}</p>
{{if .Reason}}<p><strong>Motivo:</strong> {{.Reason}}</p>{{end}}
</div>
<p><strong>Importante:</strong> Si no puedes asistir, por favor avísanos con anticipación para reprogramar tu cita.</p>
<p><strong>¡Te esperamos!</strong></p>
</div>` + layoutFoot))

var lowStockTmpl = template.Must(template.New("stock_bajo").Parse(layoutHead + `
<div class="header" style="background:#f59e0b"><h1>Stock bajo</h1><p>OptiGestión</p></div>
<div class="content">
<p>El producto <strong>{{.Name}}</strong>{{if .Brand}} ({{.Brand}}){{end}} quedó en su stock mínimo o por debajo.</p>
<div class="box">
<p><strong>Stock actual:</strong> {{.Stock}}</p>
<p><strong>Stock mínimo:</strong> {{.Minimum}}</p>
<p><strong>Cantidad sugerida de pedido:</strong> {{.Suggested}}</p>
</div>
</div>` + layoutFoot))

// WelcomeData datos del correo de bienvenida.
type WelcomeData struct {
	FirstName string
	LastName  string
	Email     string
	Year      int
}

// ReminderData datos del recordatorio. Date es la fecha larga ya formateada.
type ReminderData struct {
	FirstName string
	LastName  string
	Email     string
	Date      string
	Time      string
	Reason    string
	Year      int
}

// LowStockData datos de la alerta de stock bajo.
type LowStockData struct {
	Name      string
	Brand     string
	Stock     int
	Minimum   int
	Suggested int
	Year      int
}

// WelcomeMessage correo de bienvenida a un cliente nuevo.
func WelcomeMessage(d WelcomeData, now time.Time) (Message, error) {
	d.Year = now.Year()
	html, err := render(welcomeTmpl, d)
	if err != nil {
		return Message{}, err
	}
	return Message{
		Kind:    "bienvenida",
		To:      []string{d.Email},
		Subject: "¡Bienvenido a OptiGestión!",
		HTML:    html,
		Text:    fmt.Sprintf("Hola %s %s, te damos la bienvenida a OptiGestión.", d.FirstName, d.LastName),
	}, nil
}

// ReminderMessage recordatorio de cita del día siguiente.
func ReminderMessage(d ReminderData, now time.Time) (Message, error) {
	d.Year = now.Year()
	html, err := render(reminderTmpl, d)
	if err != nil {
		return Message{}, err
	}
	text := fmt.Sprintf("Hola %s %s, te recordamos tu cita de mañana %s a las %s.", d.FirstName, d.LastName, d.Date, d.Time)
	return Message{
		Kind:    "recordatorio",
		To:      []string{d.Email},
		Subject: "Recordatorio: Tienes una cita mañana - " + d.Date,
		HTML:    html,
		Text:    text,
	}, nil
}

// LowStockMessage alerta interna de stock bajo.
func LowStockMessage(d LowStockData, to []string, now time.Time) (Message, error) {
	d.Year = now.Year()
	html, err := render(lowStockTmpl, d)
	if err != nil {
		return Message{}, err
	}
	return Message{
		Kind:    "stock_bajo",
		To:      to,
		Subject: "Stock bajo: " + d.Name,
		HTML:    html,
		Text:    fmt.Sprintf("%s: stock %d, mínimo %d, pedir %d.", d.Name, d.Stock, d.Minimum, d.Suggested),
	}, nil
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("plantilla %s: %w", t.Name(), err)
	}
	return strings.TrimSpace(buf.String()), nil
}
