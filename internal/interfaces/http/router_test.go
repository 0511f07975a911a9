package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/OptiGestion-api/internal/application/dto"
	apphttp "github.com/jhoicas/OptiGestion-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeEmail struct {
	welcome   []dto.WelcomeEmailRequest
	reminders []dto.AppointmentReminderRequest
	err       error
}

func (f *fakeEmail) SendWelcome(_ context.Context, in dto.WelcomeEmailRequest) error {
	f.welcome = append(f.welcome, in)
	return f.err
}

func (f *fakeEmail) SendReminder(_ context.Context, in dto.AppointmentReminderRequest) error {
	f.reminders = append(f.reminders, in)
	return f.err
}

type fakeReminders struct {
	calls int
	out   *dto.ReminderRunResponse
	err   error
}

func (f *fakeReminders) SendTomorrowReminders(context.Context, time.Time) (*dto.ReminderRunResponse, error) {
	f.calls++
	return f.out, f.err
}

const testCronSecret = "cron-secret-de-prueba"

// buildRouterApp monta el router completo. Los casos de uso no usados quedan en nil:
// los tests solo ejercitan rutas que responden antes de llegar a ellos.
func buildRouterApp(email *fakeEmail, reminders *fakeReminders) *fiber.App {
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Email:      email,
		Reminders:  reminders,
		Roles:      newTestRoles(),
		JWTSecret:  testJWTSecret,
		CronSecret: testCronSecret,
	})
	return app
}

func send(t *testing.T, app *fiber.App, method, path, authHeader, body string) *http.Response {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Cron de recordatorios
// ──────────────────────────────────────────────────────────────────────────────

func TestCronRecordatorios_DevuelveResumen(t *testing.T) {
	reminders := &fakeReminders{out: &dto.ReminderRunResponse{
		Success:               true,
		Message:               "Recordatorios procesados",
		CitasEncontradas:      3,
		RecordatoriosEnviados: 2,
		Fallidos:              1,
	}}
	app := buildRouterApp(&fakeEmail{}, reminders)

	resp := send(t, app, http.MethodGet, "/cron/appointment-reminders", "Bearer "+testCronSecret, "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body dto.ReminderRunResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 3, body.CitasEncontradas)
	assert.Equal(t, 2, body.RecordatoriosEnviados)
	assert.Equal(t, 1, body.Fallidos)
	assert.Equal(t, 1, reminders.calls)
}

func TestCronRecordatorios_SinSecretNoEjecuta(t *testing.T) {
	reminders := &fakeReminders{out: &dto.ReminderRunResponse{Success: true}}
	app := buildRouterApp(&fakeEmail{}, reminders)

	resp := send(t, app, http.MethodGet, "/cron/appointment-reminders", "Bearer otro", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, reminders.calls, "sin autorización no se consultan citas")
}

func TestCronRecordatorios_ErrorDeConsultaRetorna500(t *testing.T) {
	reminders := &fakeReminders{err: errors.New("conexión perdida")}
	app := buildRouterApp(&fakeEmail{}, reminders)

	resp := send(t, app, http.MethodGet, "/cron/appointment-reminders", "Bearer "+testCronSecret, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Correo directo
// ──────────────────────────────────────────────────────────────────────────────

func TestEmailBienvenida_Enviado(t *testing.T) {
	email := &fakeEmail{}
	app := buildRouterApp(email, &fakeReminders{})

	resp := send(t, app, http.MethodPost, "/email/welcome", tokenForRole(t, "empleado"),
		`{"nombre":"Ana","apellido":"Pérez","email":"ana@example.com"}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body dto.EmailResultResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	require.Len(t, email.welcome, 1)
	assert.Equal(t, "ana@example.com", email.welcome[0].Email)
}

func TestEmailBienvenida_SinToken401(t *testing.T) {
	email := &fakeEmail{}
	app := buildRouterApp(email, &fakeReminders{})

	resp := send(t, app, http.MethodPost, "/email/welcome", "",
		`{"nombre":"Ana","apellido":"Pérez","email":"ana@example.com"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, email.welcome)
}

func TestEmailBienvenida_FaltanDatos400(t *testing.T) {
	email := &fakeEmail{}
	app := buildRouterApp(email, &fakeReminders{})

	resp := send(t, app, http.MethodPost, "/email/welcome", tokenForRole(t, "empleado"),
		`{"nombre":"Ana","email":"ana@example.com"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body dto.EmailResultResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "Faltan datos requeridos", body.Error)
	assert.Empty(t, email.welcome, "no se envía nada si faltan campos")
}

func TestEmailRecordatorio_FalloDelProveedor502(t *testing.T) {
	email := &fakeEmail{err: errors.New("smtp: 550 mailbox unavailable")}
	app := buildRouterApp(email, &fakeReminders{})

	resp := send(t, app, http.MethodPost, "/email/appointment-reminder", tokenForRole(t, "empleado"),
		`{"clienteNombre":"Ana","clienteApellido":"Pérez","clienteEmail":"ana@example.com","fecha":"2024-03-15","hora":"10:30"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	var body dto.EmailResultResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Contains(t, body.Error, "550")
	require.Len(t, email.reminders, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Permisos y validación en rutas de la API
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_EmpleadoNoRegistraMovimientos(t *testing.T) {
	app := buildRouterApp(&fakeEmail{}, &fakeReminders{})

	resp := send(t, app, http.MethodPost, "/api/inventory/movements", tokenForRole(t, "empleado"),
		`{"producto_id":"00000000-0000-0000-0000-0000000000aa","tipo":"entrada","cantidad":5}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	var body dto.AccessDeniedResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "empleado", body.Role)
}

func TestRouter_DuenoNoAdministraUsuarios(t *testing.T) {
	app := buildRouterApp(&fakeEmail{}, &fakeReminders{})

	resp := send(t, app, http.MethodGet, "/api/users", tokenForRole(t, "dueño"), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_RutaProtegidaSinToken(t *testing.T) {
	app := buildRouterApp(&fakeEmail{}, &fakeReminders{})

	resp := send(t, app, http.MethodGet, "/api/dashboard/summary", "", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_CobroConCuerpoInvalido422(t *testing.T) {
	app := buildRouterApp(&fakeEmail{}, &fakeReminders{})

	resp := send(t, app, http.MethodPost, "/api/sales", tokenForRole(t, "empleado"),
		`{"metodo_pago":"cheque","items":[]}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Equal(t, "oneof", body.Fields["MetodoPago"])
	assert.Equal(t, "min", body.Fields["Items"])
}

func TestRouter_CobroConJSONMalformado400(t *testing.T) {
	app := buildRouterApp(&fakeEmail{}, &fakeReminders{})

	resp := send(t, app, http.MethodPost, "/api/sales", tokenForRole(t, "empleado"), `{"items":`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_MovimientoConCantidadNegativa422(t *testing.T) {
	app := buildRouterApp(&fakeEmail{}, &fakeReminders{})

	resp := send(t, app, http.MethodPost, "/api/inventory/movements", tokenForRole(t, "dueño"),
		`{"producto_id":"00000000-0000-0000-0000-0000000000aa","tipo":"salida","cantidad":-3}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "gte", body.Fields["Cantidad"])
}

func TestRouter_ProductoConPrecioNegativo422(t *testing.T) {
	app := buildRouterApp(&fakeEmail{}, &fakeReminders{})

	resp := send(t, app, http.MethodPost, "/api/products", tokenForRole(t, "dueño"),
		`{"nombre":"Armazón","precio":"-10.50"}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "gte", body.Fields["Precio"])
}
