package entity

import (
	"time"

	"github.com/jhoicas/OptiGestion-api/internal/domain/authz"
)

// User perfil de usuario del sistema (tabla profiles).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt
	Name         string
	Company      string
	Role         authz.Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor construye el actor autenticado a partir del perfil.
func (u *User) Actor() Actor {
	return Actor{UserID: u.ID, Email: u.Email, Role: u.Role}
}
