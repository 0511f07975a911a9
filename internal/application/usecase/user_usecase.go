package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/OptiGestion-api/internal/application/dto"
	"github.com/jhoicas/OptiGestion-api/internal/domain"
	"github.com/jhoicas/OptiGestion-api/internal/domain/authz"
	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
	"github.com/jhoicas/OptiGestion-api/internal/domain/repository"
)

// UserUseCase administración de perfiles y roles.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// List perfiles registrados.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, dto.FromUser(u))
	}
	return out, nil
}

// CurrentRole rol vigente del perfil. Perfil inexistente: domain.ErrUserNotFound.
func (uc *UserUseCase) CurrentRole(ctx context.Context, userID string) (authz.Role, error) {
	user, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, domain.ErrUserNotFound
	}
	return user.Role, nil
}

// ChangeRole asigna un rol. Solo desarrollador; nadie cambia su propio rol.
func (uc *UserUseCase) ChangeRole(ctx context.Context, actor entity.Actor, id string, in dto.ChangeRoleRequest) (*dto.UserResponse, error) {
	if err := authz.Require(actor.Role, authz.ModuleSettings, authz.ActionRoles); err != nil {
		return nil, err
	}
	role, err := authz.ParseRole(in.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if id == actor.UserID {
		return nil, fmt.Errorf("%w: no se puede cambiar el rol propio", domain.ErrConflict)
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := uc.repo.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}
	log.Info().Str("user_id", id).Str("rol", role.String()).Str("por", actor.Label()).Msg("rol actualizado")
	user.Role = role
	out := dto.FromUser(user)
	return &out, nil
}
