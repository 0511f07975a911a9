package authz

import (
	"fmt"

	"github.com/jhoicas/OptiGestion-api/internal/domain"
)

// Module es una sección funcional del sistema.
type Module string

const (
	ModuleDashboard     Module = "dashboard"
	ModuleInventory     Module = "inventario"
	ModuleProducts      Module = "productos"
	ModuleClients       Module = "clientes"
	ModuleAppointments  Module = "citas"
	ModuleSales         Module = "ventas"
	ModulePrescriptions Module = "recetas"
	ModuleSettings      Module = "configuracion"
)

// Action es una operación dentro de un módulo.
type Action string

const (
	ActionView       Action = "view"
	ActionCreate     Action = "create"
	ActionEdit       Action = "edit"
	ActionDelete     Action = "delete"
	ActionMovements  Action = "movimientos"
	ActionStatistics Action = "estadisticas"
	ActionPrices     Action = "precios"
	ActionHistory    Action = "historial"
	ActionUsers      Action = "usuarios"
	ActionRoles      Action = "roles"
)

// roleSet es un conjunto de roles como máscara de bits.
type roleSet uint8

func setOf(roles ...Role) roleSet {
	var s roleSet
	for _, r := range roles {
		s |= 1 << r
	}
	return s
}

func (s roleSet) has(r Role) bool { return r.Valid() && s&(1<<r) != 0 }

var (
	everyone  = setOf(RoleDeveloper, RoleOwner, RoleEmployee)
	managers  = setOf(RoleDeveloper, RoleOwner)
	developer = setOf(RoleDeveloper)
)

var permissions = map[Module]map[Action]roleSet{
	ModuleDashboard: {
		ActionView: everyone,
	},
	ModuleInventory: {
		ActionView:       everyone,
		ActionEdit:       managers,
		ActionMovements:  managers,
		ActionStatistics: managers,
	},
	ModuleProducts: {
		ActionView:   everyone,
		ActionCreate: managers,
		ActionEdit:   managers,
		ActionDelete: managers,
		ActionPrices: managers,
	},
	ModuleClients: {
		ActionView:       everyone,
		ActionCreate:     everyone,
		ActionEdit:       everyone,
		ActionDelete:     managers,
		ActionHistory:    everyone,
		ActionStatistics: managers,
	},
	ModuleAppointments: {
		ActionView:   everyone,
		ActionCreate: everyone,
		ActionEdit:   everyone,
		ActionDelete: managers,
	},
	ModuleSales: {
		ActionView:   everyone,
		ActionCreate: everyone,
	},
	ModulePrescriptions: {
		ActionView:   everyone,
		ActionCreate: everyone,
	},
	ModuleSettings: {
		ActionView:  developer,
		ActionUsers: developer,
		ActionRoles: developer,
	},
}

// HasPermission indica si role puede ejecutar action sobre module.
// Rol inválido, módulo o acción fuera de la tabla: false.
func HasPermission(role Role, module Module, action Action) bool {
	actions, ok := permissions[module]
	if !ok {
		return false
	}
	set, ok := actions[action]
	if !ok {
		return false
	}
	return set.has(role)
}

// AllowedRoles devuelve los roles con permiso para (module, action); vacío si el par no existe.
func AllowedRoles(module Module, action Action) []Role {
	set := permissions[module][action]
	var out []Role
	for _, r := range Roles() {
		if set.has(r) {
			out = append(out, r)
		}
	}
	return out
}

// DeniedError describe un acceso denegado: rol real frente a roles requeridos.
type DeniedError struct {
	Role     Role
	Module   Module
	Action   Action
	Required []Role
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("acceso denegado: rol %s sin permiso %s.%s", e.Role, e.Module, e.Action)
}

// Unwrap permite errors.Is(err, domain.ErrForbidden).
func (e *DeniedError) Unwrap() error { return domain.ErrForbidden }

// Require devuelve nil si el rol tiene permiso y *DeniedError en caso contrario.
func Require(role Role, module Module, action Action) error {
	if HasPermission(role, module, action) {
		return nil
	}
	return &DeniedError{Role: role, Module: module, Action: action, Required: AllowedRoles(module, action)}
}
