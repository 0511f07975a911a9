package http

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/OptiGestion-api/internal/application/dto"
	"github.com/jhoicas/OptiGestion-api/internal/domain"
	"github.com/jhoicas/OptiGestion-api/internal/domain/authz"
	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
	"github.com/jhoicas/OptiGestion-api/pkg/jwt"
)

// Locals keys para los datos de la sesión en Fiber.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
	LocalRole   = "role"
)

// RoleSource rol vigente del perfil. Un cambio de rol aplica desde la siguiente petición,
// sin esperar a que expire el token.
type RoleSource interface {
	CurrentRole(ctx context.Context, userID string) (authz.Role, error)
}

// AuthMiddleware valida el Bearer Token JWT y guarda UserID, email y rol en c.Locals.
// Un token sin rol o con un rol desconocido se rechaza con 401. El rol guardado es el
// del perfil en ese momento; un perfil inexistente también es 401.
func AuthMiddleware(jwtSecret string, roles RoleSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, errResp := bearerToken(c)
		if errResp != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(errResp)
		}
		userID, email, roleName, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if strings.TrimSpace(roleName) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		if _, err := authz.ParseRole(roleName); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_ROLE", Message: "rol desconocido en el token"})
		}
		role, err := roles.CurrentRole(c.Context(), userID)
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: "el usuario del token ya no existe"})
		}
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalEmail, email)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// RequirePermission autoriza (módulo, acción) con la tabla de permisos. Debe ir después de AuthMiddleware.
// 403 incluye el rol del usuario y los roles requeridos.
func RequirePermission(module authz.Module, action authz.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(authz.Role)
		if !ok || !role.Valid() {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "sesión sin rol"})
		}
		if err := authz.Require(role, module, action); err != nil {
			return writeError(c, err)
		}
		return c.Next()
	}
}

// CronAuth protege los endpoints programados con "Authorization: Bearer <CRON_SECRET>".
// Con secret vacío rechaza todas las peticiones.
func CronAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok, errResp := bearerToken(c)
		if secret == "" || errResp != nil || subtle.ConstantTimeCompare([]byte(tok), []byte(secret)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "No autorizado"})
		}
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, *dto.ErrorResponse) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", &dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"}
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", &dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"}
	}
	tok := strings.TrimSpace(parts[1])
	if tok == "" {
		return "", &dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"}
	}
	return tok, nil
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetEmail devuelve el email de la sesión.
func GetEmail(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalEmail).(string)
	return s
}

// GetRole devuelve el rol de la sesión; valor cero si no hay sesión.
func GetRole(c *fiber.Ctx) authz.Role {
	r, _ := c.Locals(LocalRole).(authz.Role)
	return r
}

// GetActor arma el actor de la sesión para los casos de uso.
func GetActor(c *fiber.Ctx) entity.Actor {
	return entity.Actor{UserID: GetUserID(c), Email: GetEmail(c), Role: GetRole(c)}
}
