package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/OptiGestion-api/internal/application/dto"
	"github.com/jhoicas/OptiGestion-api/internal/domain"
	"github.com/jhoicas/OptiGestion-api/internal/domain/authz"
	apphttp "github.com/jhoicas/OptiGestion-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/OptiGestion-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testEmail     = "optometrista@optica.test"
	testIssuer    = "optigestion-test"
	testExpMin    = 60
)

// fakeRoles perfiles en memoria: userID -> rol vigente.
type fakeRoles struct {
	byUser map[string]authz.Role
	err    error
}

func (f *fakeRoles) CurrentRole(_ context.Context, userID string) (authz.Role, error) {
	if f.err != nil {
		return 0, f.err
	}
	r, ok := f.byUser[userID]
	if !ok {
		return 0, domain.ErrUserNotFound
	}
	return r, nil
}

// userIDFor un usuario de prueba por rol, para que token y perfil coincidan.
func userIDFor(role string) string { return "usuario-" + role }

// newTestRoles un perfil por rol con el mismo rol que su token.
func newTestRoles() *fakeRoles {
	f := &fakeRoles{byUser: map[string]authz.Role{}}
	for _, r := range authz.Roles() {
		f.byUser[userIDFor(r.String())] = r
	}
	return f
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - RequirePermission para autorizar (módulo, acción)
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(module authz.Module, action authz.Action) *fiber.App {
	return buildTestAppWithRoles(module, action, newTestRoles())
}

func buildTestAppWithRoles(module authz.Module, action authz.Action, roles apphttp.RoleSource) *fiber.App {
	app := fiber.New(fiber.Config{
		// Silenciar errores internos en los tests
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, roles),
		apphttp.RequirePermission(module, action),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c).String(),
			})
		},
	)
	return app
}

// tokenForRole genera un JWT con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userIDFor(role), testEmail, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequirePermission
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: el rol tiene el permiso → HTTP 200.
func TestRequirePermission_DesarrolladorAccedeConfiguracion(t *testing.T) {
	app := buildTestApp(authz.ModuleSettings, authz.ActionUsers)
	resp := doRequest(t, app, tokenForRole(t, "desarrollador"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"desarrollador debe poder acceder a configuración")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"], "la respuesta debe incluir ok:true")
	assert.Equal(t, "desarrollador", body["role"])
}

// Caso 1b: permiso compartido por varios roles → HTTP 200.
func TestRequirePermission_DuenoRegistraMovimientos(t *testing.T) {
	app := buildTestApp(authz.ModuleInventory, authz.ActionMovements)
	resp := doRequest(t, app, tokenForRole(t, "dueño"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"dueño debe poder registrar movimientos de inventario")
}

// Caso 2: rol sin permiso → 403 con rol actual y roles requeridos.
func TestRequirePermission_EmpleadoBloqueadoEnMovimientos(t *testing.T) {
	app := buildTestApp(authz.ModuleInventory, authz.ActionMovements)
	resp := doRequest(t, app, tokenForRole(t, "empleado"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"empleado no debe poder registrar movimientos")

	var body dto.AccessDeniedResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "FORBIDDEN", body.Code)
	assert.Equal(t, "empleado", body.Role)
	assert.Equal(t, "inventario", body.Module)
	assert.Equal(t, "movimientos", body.Action)
	assert.ElementsMatch(t, []string{"desarrollador", "dueño"}, body.RequiredRoles)
}

// Caso 2b: dueño bloqueado en configuración (solo desarrollador).
func TestRequirePermission_DuenoBloqueadoEnConfiguracion(t *testing.T) {
	app := buildTestApp(authz.ModuleSettings, authz.ActionRoles)
	resp := doRequest(t, app, tokenForRole(t, "dueño"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// Caso 2c: par (módulo, acción) fuera de la tabla → denegado para todos.
func TestRequirePermission_AccionInexistenteDenegada(t *testing.T) {
	app := buildTestApp(authz.ModuleSales, authz.ActionDelete)
	resp := doRequest(t, app, tokenForRole(t, "desarrollador"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"lo que no está en la tabla de permisos está denegado")
}

// Caso 3: token sin claim de rol → HTTP 401 MISSING_ROLE.
func TestRequirePermission_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp(authz.ModuleDashboard, authz.ActionView)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testEmail, "", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
		"token sin rol debe retornar 401")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE",
		"la respuesta debe indicar el código MISSING_ROLE")
}

// Caso 3b: rol desconocido en el token → 401, nunca se trata como un rol válido.
func TestRequirePermission_RolDesconocido_Retorna401(t *testing.T) {
	app := buildTestApp(authz.ModuleDashboard, authz.ActionView)
	resp := doRequest(t, app, tokenForRole(t, "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_ROLE")
}

// Caso 4: sin header Authorization → HTTP 401.
func TestRequirePermission_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(authz.ModuleDashboard, authz.ActionView)
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Caso 5: token inválido / malformado → HTTP 401.
func TestRequirePermission_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(authz.ModuleDashboard, authz.ActionView)
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware — extracción de claims del token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtractaClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret, newTestRoles()), func(c *fiber.Ctx) error {
		actor := apphttp.GetActor(c)
		return c.JSON(fiber.Map{
			"user_id": actor.UserID,
			"email":   actor.Email,
			"role":    actor.Role.String(),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, "dueño"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, userIDFor("dueño"), body["user_id"])
	assert.Equal(t, testEmail, body["email"])
	assert.Equal(t, "dueño", body["role"])
}

// Un dueño degradado a empleado pierde el permiso en la siguiente petición,
// aunque su token siga vigente con el rol anterior.
func TestAuthMiddleware_RolDegradadoAplicaSinEsperarExpiracion(t *testing.T) {
	roles := newTestRoles()
	app := buildTestAppWithRoles(authz.ModuleInventory, authz.ActionMovements, roles)
	token := tokenForRole(t, "dueño")

	resp := doRequest(t, app, token)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	roles.byUser[userIDFor("dueño")] = authz.RoleEmployee

	resp = doRequest(t, app, token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	var body dto.AccessDeniedResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "empleado", body.Role)
}

func TestAuthMiddleware_PerfilEliminado_Retorna401(t *testing.T) {
	roles := newTestRoles()
	delete(roles.byUser, userIDFor("desarrollador"))
	app := buildTestAppWithRoles(authz.ModuleDashboard, authz.ActionView, roles)

	resp := doRequest(t, app, tokenForRole(t, "desarrollador"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(b), "USER_NOT_FOUND")
}

func TestAuthMiddleware_FalloAlLeerPerfil_Retorna500(t *testing.T) {
	app := buildTestAppWithRoles(authz.ModuleDashboard, authz.ActionView, &fakeRoles{err: errors.New("pool cerrado")})

	resp := doRequest(t, app, tokenForRole(t, "dueño"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests CronAuth
// ──────────────────────────────────────────────────────────────────────────────

func cronApp(secret string) *fiber.App {
	app := fiber.New()
	app.Get("/cron", apphttp.CronAuth(secret), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func cronStatus(t *testing.T, app *fiber.App, authHeader string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/cron", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestCronAuth_SecretCorrecto(t *testing.T) {
	assert.Equal(t, http.StatusOK, cronStatus(t, cronApp("s3cr3t"), "Bearer s3cr3t"))
}

func TestCronAuth_SecretIncorrectoOAusente(t *testing.T) {
	app := cronApp("s3cr3t")
	assert.Equal(t, http.StatusUnauthorized, cronStatus(t, app, "Bearer otro"))
	assert.Equal(t, http.StatusUnauthorized, cronStatus(t, app, ""))
	assert.Equal(t, http.StatusUnauthorized, cronStatus(t, app, "s3cr3t"))
}

// Con CRON_SECRET vacío no hay valor por defecto: todo se rechaza.
func TestCronAuth_SecretVacioRechazaTodo(t *testing.T) {
	app := cronApp("")
	assert.Equal(t, http.StatusUnauthorized, cronStatus(t, app, "Bearer "))
	assert.Equal(t, http.StatusUnauthorized, cronStatus(t, app, "Bearer dev-secret-key"))
	assert.Equal(t, http.StatusUnauthorized, cronStatus(t, app, ""))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests JWT pkg — integridad del generate/parse con role
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse_ConRole(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testEmail, "empleado", testIssuer, testExpMin)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, email, role, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)

	assert.Equal(t, testUserID, userID)
	assert.Equal(t, testEmail, email)
	assert.Equal(t, "empleado", role)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	// Token con expiración -1 minuto (ya expirado)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testEmail, "dueño", testIssuer, -1)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testEmail, "dueño", testIssuer, testExpMin)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}
