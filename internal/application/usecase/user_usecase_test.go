package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/OptiGestion-api/internal/application/dto"
	"github.com/jhoicas/OptiGestion-api/internal/domain"
	"github.com/jhoicas/OptiGestion-api/internal/domain/authz"
	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
	"github.com/jhoicas/OptiGestion-api/internal/domain/repository"
)

type fakeUsers struct {
	repository.UserRepository
	byID map[string]*entity.User
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) UpdateRole(_ context.Context, id string, role authz.Role) error {
	f.byID[id].Role = role
	return nil
}

func TestUserCurrentRole_ReflejaCambioDeRol(t *testing.T) {
	users := &fakeUsers{byID: map[string]*entity.User{
		"dev":   {ID: "dev", Role: authz.RoleDeveloper},
		"dueno": {ID: "dueno", Role: authz.RoleOwner},
	}}
	uc := NewUserUseCase(users)
	ctx := context.Background()

	role, err := uc.CurrentRole(ctx, "dueno")
	require.NoError(t, err)
	assert.Equal(t, authz.RoleOwner, role)

	dev := entity.Actor{UserID: "dev", Role: authz.RoleDeveloper}
	_, err = uc.ChangeRole(ctx, dev, "dueno", dto.ChangeRoleRequest{Role: "empleado"})
	require.NoError(t, err)

	role, err = uc.CurrentRole(ctx, "dueno")
	require.NoError(t, err)
	assert.Equal(t, authz.RoleEmployee, role)
}

func TestUserCurrentRole_PerfilInexistente(t *testing.T) {
	uc := NewUserUseCase(&fakeUsers{byID: map[string]*entity.User{}})

	_, err := uc.CurrentRole(context.Background(), "nadie")
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}

func TestUserChangeRole_SoloDesarrolladorYNoElPropio(t *testing.T) {
	users := &fakeUsers{byID: map[string]*entity.User{
		"dev":   {ID: "dev", Role: authz.RoleDeveloper},
		"dueno": {ID: "dueno", Role: authz.RoleOwner},
	}}
	uc := NewUserUseCase(users)
	ctx := context.Background()

	owner := entity.Actor{UserID: "dueno", Role: authz.RoleOwner}
	_, err := uc.ChangeRole(ctx, owner, "dev", dto.ChangeRoleRequest{Role: "empleado"})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	dev := entity.Actor{UserID: "dev", Role: authz.RoleDeveloper}
	_, err = uc.ChangeRole(ctx, dev, "dev", dto.ChangeRoleRequest{Role: "empleado"})
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Equal(t, authz.RoleDeveloper, users.byID["dev"].Role)
}
