package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-calzado/internal/application/dto"
	"github.com/jhoicas/catalogo-calzado/internal/domain"
	"github.com/jhoicas/catalogo-calzado/pkg/jwt"
)

var testJWT = JWTConfig{Secret: "s3cret", ExpMinutes: 15, Issuer: "catalogo-test"}

func TestVerify_OK(t *testing.T) {
	uc, err := NewAdminAuthUseCase("admin123", testJWT)
	require.NoError(t, err)

	resp, err := uc.Verify(dto.VerifyRequest{Password: "admin123"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NoError(t, uc.ParseToken("Bearer "+resp.Token))
	assert.NoError(t, uc.ParseToken(resp.Token))
}

func TestVerify_WrongPassword(t *testing.T) {
	uc, err := NewAdminAuthUseCase("admin123", testJWT)
	require.NoError(t, err)

	_, err = uc.Verify(dto.VerifyRequest{Password: "nope"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCheckPassword_Disabled(t *testing.T) {
	uc, err := NewAdminAuthUseCase("", testJWT)
	require.NoError(t, err)
	assert.ErrorIs(t, uc.CheckPassword(""), domain.ErrUnauthorized)
	assert.ErrorIs(t, uc.CheckPassword("x"), domain.ErrUnauthorized)
}

func TestParseToken_Rejects(t *testing.T) {
	uc, err := NewAdminAuthUseCase("admin123", testJWT)
	require.NoError(t, err)

	assert.ErrorIs(t, uc.ParseToken(""), domain.ErrUnauthorized)
	assert.ErrorIs(t, uc.ParseToken("Bearer basura"), domain.ErrUnauthorized)

	other, _, err := jwt.Generate("s3cret", "x", "vendedor", "catalogo-test", 5)
	require.NoError(t, err)
	assert.ErrorIs(t, uc.ParseToken(other), domain.ErrUnauthorized)
}
