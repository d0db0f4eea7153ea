package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-admin-api/internal/application/auth"
	"github.com/jhoicas/retail-admin-api/internal/application/dto"
	"github.com/jhoicas/retail-admin-api/internal/domain"
	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
	"github.com/jhoicas/retail-admin-api/internal/testutil/memdb"
	"github.com/jhoicas/retail-admin-api/pkg/jwt"
)

const testSecret = "test-secret"

func newAuth(t *testing.T) (*auth.AuthUseCase, string) {
	t.Helper()
	db := memdb.New()
	storeID := uuid.New().String()
	require.NoError(t, db.Stores().Create(context.Background(), &entity.Store{ID: storeID, Name: "Centro"}))
	uc := auth.NewAuthUseCase(db.Users(), db.Stores(), auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "retail-admin"})
	return uc, storeID
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	uc, storeID := newAuth(t)

	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "Vendedor@Tienda.com", Password: "secreto123", StoreID: storeID})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleSeller, user.Role)
	assert.Equal(t, "vendedor@tienda.com", user.Email)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "vendedor@tienda.com", Password: "otro12345", StoreID: storeID})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "vendedor@tienda.com", Password: "secreto123"})
	require.NoError(t, err)
	userID, gotStore, role, err := jwt.Parse(testSecret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, storeID, gotStore)
	assert.Equal(t, entity.RoleSeller, role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "vendedor@tienda.com", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@tienda.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRegister_Tienda(t *testing.T) {
	ctx := context.Background()
	uc, _ := newAuth(t)

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@b.com", Password: "secreto123", StoreID: uuid.New().String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@b.com", Password: "secreto123", Role: entity.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	su, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "root@b.com", Password: "secreto123", Role: entity.RoleSuperuser})
	require.NoError(t, err)
	assert.Empty(t, su.StoreID)
}
