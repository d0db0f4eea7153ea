// seed crea el primer superusuario y las categorías iniciales.
//
// Uso: go run ./cmd/seed --email admin@tienda.com --password secreto123 --categories "1:Tubos,2:Perfiles"
// La conexión se toma de la misma configuración que la API (DATABASE_URL, DB_HOST, ...).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/jhoicas/retail-admin-api/internal/application/auth"
	"github.com/jhoicas/retail-admin-api/internal/application/dto"
	"github.com/jhoicas/retail-admin-api/internal/application/usecase"
	"github.com/jhoicas/retail-admin-api/internal/domain"
	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
	"github.com/jhoicas/retail-admin-api/internal/infrastructure/postgres"
	"github.com/jhoicas/retail-admin-api/pkg/config"
	"github.com/jhoicas/retail-admin-api/pkg/logger"
)

func main() {
	email := pflag.String("email", "", "email del superusuario")
	password := pflag.String("password", "", "contraseña del superusuario (mínimo 8 caracteres)")
	name := pflag.String("name", "Superusuario", "nombre visible")
	categories := pflag.String("categories", "", "categorías id:nombre separadas por coma")
	migrate := pflag.Bool("migrate", true, "aplicar migraciones antes de sembrar")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")

	cats, err := parseCategories(*categories)
	if err != nil {
		log.Fatal().Err(err).Msg("categorías")
	}

	if *migrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if *email != "" {
		authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), postgres.NewStoreRepository(pool), auth.JWTConfig{
			Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer,
		})
		u, err := authUC.RegisterUser(ctx, dto.RegisterRequest{
			Email:    *email,
			Password: *password,
			Name:     *name,
			Role:     entity.RoleSuperuser,
		})
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			log.Info().Str("email", *email).Msg("superusuario ya existe")
		case err != nil:
			log.Fatal().Err(err).Msg("crear superusuario")
		default:
			log.Info().Str("id", u.ID).Str("email", u.Email).Msg("superusuario creado")
		}
	}

	productUC := usecase.NewProductUseCase(postgres.NewProductRepository(pool), postgres.NewCategoryRepository(pool))
	for _, c := range cats {
		_, err := productUC.CreateCategory(ctx, c)
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			log.Info().Int("id", c.ID).Msg("categoría ya existe")
		case err != nil:
			log.Fatal().Err(err).Int("id", c.ID).Msg("crear categoría")
		default:
			log.Info().Int("id", c.ID).Str("name", c.Name).Msg("categoría creada")
		}
	}
}

// parseCategories interpreta "1:Tubos,2:Perfiles".
func parseCategories(raw string) ([]dto.CreateCategoryRequest, error) {
	var out []dto.CreateCategoryRequest
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idStr, name, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("categoría %q: se espera id:nombre", part)
		}
		id, err := strconv.Atoi(strings.TrimSpace(idStr))
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("categoría %q: id inválido", part)
		}
		out = append(out, dto.CreateCategoryRequest{ID: id, Name: strings.TrimSpace(name)})
	}
	return out, nil
}
