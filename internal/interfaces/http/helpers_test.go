package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/OptiGestion-api/internal/application/dto"
	"github.com/jhoicas/OptiGestion-api/internal/application/sales"
	"github.com/jhoicas/OptiGestion-api/internal/domain"
	"github.com/jhoicas/OptiGestion-api/internal/domain/authz"
)

func statusFor(t *testing.T, err error) (int, dto.ErrorResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return writeError(c, err) })
	resp, reqErr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, reqErr)
	defer resp.Body.Close()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestWriteError_MapeoDeErroresDeDominio(t *testing.T) {
	cases := []struct {
		err  error
		code int
		body string
	}{
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("producto x: %w", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("%w: cantidad", domain.ErrInvalidInput), http.StatusBadRequest, "VALIDATION"},
		{domain.ErrEmptyCart, http.StatusBadRequest, "EMPTY_CART"},
		{fmt.Errorf("Armazón: %w", domain.ErrInsufficientStock), http.StatusConflict, "INSUFFICIENT_STOCK"},
		{domain.ErrConflict, http.StatusConflict, "CONFLICT"},
		{domain.ErrDuplicate, http.StatusConflict, "DUPLICATE"},
		{domain.ErrEmailAlreadyExists, http.StatusConflict, "EMAIL_EXISTS"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{sales.ErrArchiveDisabled, http.StatusNotImplemented, "ARCHIVE_DISABLED"},
		{errors.New("pgx: conexión rechazada"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		code, body := statusFor(t, tc.err)
		assert.Equal(t, tc.code, code, tc.err.Error())
		assert.Equal(t, tc.body, body.Code, tc.err.Error())
	}
}

func TestWriteError_ErrorInternoNoExponeDetalle(t *testing.T) {
	_, body := statusFor(t, errors.New("password=secreta host=db"))
	assert.NotContains(t, body.Message, "secreta")
}

func TestWriteError_AccesoDenegadoIncluyeRoles(t *testing.T) {
	err := authz.Require(authz.RoleEmployee, authz.ModuleProducts, authz.ActionPrices)
	require.Error(t, err)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return writeError(c, err) })
	resp, reqErr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, reqErr)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	var body dto.AccessDeniedResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "empleado", body.Role)
	assert.Equal(t, "productos", body.Module)
	assert.Equal(t, "precios", body.Action)
	assert.ElementsMatch(t, []string{"desarrollador", "dueño"}, body.RequiredRoles)
}
