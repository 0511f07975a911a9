package dto

import "time"

// RegisterRequest registro de usuario. El rol inicial es siempre empleado.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Nombre   string `json:"nombre" validate:"omitempty,max=200"`
	Empresa  string `json:"empresa" validate:"omitempty,max=200"`
}

// LoginRequest credenciales.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse perfil de usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Nombre    string    `json:"nombre"`
	Empresa   string    `json:"empresa"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse token JWT y perfil.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// MeResponse perfil de la sesión; Profile es null si no se pudo cargar.
type MeResponse struct {
	Profile *UserResponse `json:"profile"`
}

// ChangeRoleRequest cambio de rol de un usuario.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=desarrollador dueño empleado"`
}
