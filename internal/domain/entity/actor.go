package entity

import "github.com/jhoicas/OptiGestion-api/internal/domain/authz"

// Actor identifica al usuario autenticado que ejecuta una operación.
type Actor struct {
	UserID string
	Email  string
	Role   authz.Role
}

// Label devuelve el texto que se guarda como usuario en movimientos y ventas.
func (a Actor) Label() string {
	if a.Email != "" {
		return a.Email
	}
	return a.UserID
}
