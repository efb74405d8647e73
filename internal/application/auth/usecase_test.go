package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/FernandoLelis/multivendas-backend/internal/application/auth"
	"github.com/FernandoLelis/multivendas-backend/internal/application/dto"
	"github.com/FernandoLelis/multivendas-backend/internal/domain"
	"github.com/FernandoLelis/multivendas-backend/internal/infrastructure/memory"
	"github.com/FernandoLelis/multivendas-backend/pkg/jwt"
)

const secret = "test-secret-key-for-unit-tests"

func newAuth() *auth.AuthUseCase {
	store := memory.NewStore()
	return auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "multivendas-test"}).
		WithBcryptCost(bcrypt.MinCost)
}

func TestRegisterYLogin_TokenConTenant(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()

	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: " Ana@Loja.com ", Password: "segredo123", Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "ana@loja.com", user.Email)
	assert.Equal(t, user.ID, user.TenantID)

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@loja.com", Password: "segredo123"})
	require.NoError(t, err)
	id, err := jwt.Parse(secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.TenantID)
	assert.Equal(t, "ana@loja.com", id.Email)
}

func TestRegister_Rechazos(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ana@loja.com", Password: "segredo123"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ANA@loja.com", Password: "outra-senha"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "sem-arroba", Password: "segredo123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "bia@loja.com", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ana@loja.com", Password: "segredo123"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@loja.com", Password: "errada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@loja.com", Password: "segredo123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
