// Package authz contiene la tabla estática de permisos por rol, módulo y acción.
// Todo lo que no aparece en la tabla está denegado.
package authz

import (
	"fmt"
	"strings"
)

// Role es el rol de un perfil de usuario. El valor cero no es un rol válido.
type Role uint8

const (
	RoleDeveloper Role = iota + 1
	RoleOwner
	RoleEmployee
)

var roleNames = map[Role]string{
	RoleDeveloper: "desarrollador",
	RoleOwner:     "dueño",
	RoleEmployee:  "empleado",
}

// Roles devuelve los roles válidos en orden de privilegio.
func Roles() []Role {
	return []Role{RoleDeveloper, RoleOwner, RoleEmployee}
}

// String devuelve el nombre persistido del rol ("desarrollador", "dueño", "empleado").
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// Valid indica si r es uno de los tres roles conocidos.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// ParseRole convierte el nombre persistido en Role. Acepta "dueno" sin tilde.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "desarrollador":
		return RoleDeveloper, nil
	case "dueño", "dueno":
		return RoleOwner, nil
	case "empleado":
		return RoleEmployee, nil
	}
	return 0, fmt.Errorf("authz: rol desconocido %q", s)
}

// MarshalText serializa el rol con su nombre persistido.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("authz: rol inválido %d", uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText acepta solo los tres nombres conocidos.
func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
