package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/OptiGestion-api/internal/application/dto"
	"github.com/jhoicas/OptiGestion-api/internal/domain"
	"github.com/jhoicas/OptiGestion-api/internal/domain/authz"
	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
	"github.com/jhoicas/OptiGestion-api/internal/domain/repository"
	"github.com/jhoicas/OptiGestion-api/pkg/jwt"
)

// Carga del perfil de la sesión: 5 s por intento y un reintento.
const (
	profileTimeout  = 5 * time.Second
	profileAttempts = 2
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y perfil de la sesión.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// RegisterUser crea un usuario con rol empleado: hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email ya está registrado.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.Nombre
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Company:      in.Empresa,
		Role:         authz.RoleEmployee,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if err == domain.ErrDuplicate {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, err
	}
	out := dto.FromUser(user)
	return &out, nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Role.Valid() {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, user.Role.String(), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  dto.FromUser(user),
	}, nil
}

// Me carga el perfil de la sesión. Si la carga falla o excede el tiempo dos veces,
// devuelve profile null en lugar de error: la sesión sigue siendo válida.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) *dto.MeResponse {
	var lastErr error
	for attempt := 1; attempt <= profileAttempts; attempt++ {
		user, err := uc.fetchProfile(ctx, userID)
		if err == nil {
			if user == nil {
				return &dto.MeResponse{}
			}
			out := dto.FromUser(user)
			return &dto.MeResponse{Profile: &out}
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	log.Warn().Err(lastErr).Str("user_id", userID).Msg("perfil no disponible")
	return &dto.MeResponse{}
}

func (uc *AuthUseCase) fetchProfile(ctx context.Context, userID string) (*entity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, profileTimeout)
	defer cancel()
	return uc.userRepo.GetByID(ctx, userID)
}
