// seed prepara una base nueva: aplica migraciones, crea (o promueve) el usuario desarrollador
// y carga las categorías base de la óptica si la tabla está vacía.
//
// Uso: go run ./cmd/seed <email> <password>
// La conexión se toma de DATABASE_URL / DB_* igual que la API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/OptiGestion-api/internal/domain"
	"github.com/jhoicas/OptiGestion-api/internal/domain/authz"
	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
	"github.com/jhoicas/OptiGestion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/OptiGestion-api/pkg/config"
	"github.com/jhoicas/OptiGestion-api/pkg/logger"
)

var baseCategories = []entity.Category{
	{Name: "Armazones", Description: "Monturas oftálmicas y de sol"},
	{Name: "Lentes oftálmicos", Description: "Micas monofocales, bifocales y progresivas"},
	{Name: "Lentes de contacto", Description: "Blandos, tóricos y cosméticos"},
	{Name: "Soluciones", Description: "Soluciones y gotas para lentes de contacto"},
	{Name: "Accesorios", Description: "Estuches, paños y cordones"},
}

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "uso: seed <email> <password>")
		os.Exit(2)
	}
	email := strings.ToLower(strings.TrimSpace(os.Args[1]))
	password := os.Args[2]
	if len(password) < 8 {
		fmt.Fprintln(os.Stderr, "el password debe tener al menos 8 caracteres")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	userRepo := postgres.NewUserRepository(pool)
	existing, err := userRepo.GetByEmail(ctx, email)
	if err != nil {
		log.Fatal().Err(err).Msg("buscar usuario")
	}
	if existing != nil {
		if err := userRepo.UpdateRole(ctx, existing.ID, authz.RoleDeveloper); err != nil {
			log.Fatal().Err(err).Msg("promover usuario")
		}
		log.Info().Str("email", email).Msg("usuario existente promovido a desarrollador")
	} else {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal().Err(err).Msg("hash de password")
		}
		now := time.Now()
		user := &entity.User{
			ID:           uuid.New().String(),
			Email:        email,
			PasswordHash: string(hash),
			Name:         email,
			Role:         authz.RoleDeveloper,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatal().Err(err).Msg("crear usuario")
		}
		log.Info().Str("email", email).Str("id", user.ID).Msg("usuario desarrollador creado")
	}

	categoryRepo := postgres.NewCategoryRepository(pool)
	current, err := categoryRepo.List(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("listar categorías")
	}
	if len(current) > 0 {
		log.Info().Int("categorias", len(current)).Msg("categorías ya cargadas, se omiten")
		return
	}
	for _, c := range baseCategories {
		c.ID = uuid.New().String()
		c.CreatedAt = time.Now()
		if err := categoryRepo.Create(ctx, &c); err != nil && !errors.Is(err, domain.ErrDuplicate) {
			log.Fatal().Err(err).Str("categoria", c.Name).Msg("crear categoría")
		}
	}
	log.Info().Int("categorias", len(baseCategories)).Msg("categorías base creadas")
}
