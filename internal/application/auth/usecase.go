package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/catalogo-calzado/internal/application/dto"
	"github.com/jhoicas/catalogo-calzado/internal/domain"
	"github.com/jhoicas/catalogo-calzado/pkg/jwt"
)

const adminSubject = "admin-panel"

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AdminAuthUseCase valida la contraseña compartida del panel y emite sesiones JWT.
// La contraseña solo se conserva como hash bcrypt.
type AdminAuthUseCase struct {
	passwordHash []byte
	jwtCfg       JWTConfig
}

// NewAdminAuthUseCase hashea la contraseña de administrador. Una contraseña vacía deshabilita el panel.
func NewAdminAuthUseCase(adminPassword string, jwtCfg JWTConfig) (*AdminAuthUseCase, error) {
	uc := &AdminAuthUseCase{jwtCfg: jwtCfg}
	if adminPassword == "" {
		return uc, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashear contraseña de administrador: %w", err)
	}
	uc.passwordHash = hash
	return uc, nil
}

// CheckPassword devuelve ErrUnauthorized si la contraseña no coincide.
func (uc *AdminAuthUseCase) CheckPassword(password string) error {
	if len(uc.passwordHash) == 0 || password == "" {
		return domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(uc.passwordHash, []byte(password)); err != nil {
		return domain.ErrUnauthorized
	}
	return nil
}

// Verify intercambia la contraseña por un token de sesión de administrador.
func (uc *AdminAuthUseCase) Verify(in dto.VerifyRequest) (*dto.VerifyResponse, error) {
	if err := uc.CheckPassword(in.Password); err != nil {
		return nil, err
	}
	token, exp, err := jwt.Generate(uc.jwtCfg.Secret, adminSubject, jwt.RoleAdmin, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.VerifyResponse{Success: true, Token: token, ExpiresAt: exp}, nil
}

// ParseToken acepta el token crudo o con prefijo "Bearer ". Solo el rol admin es válido.
func (uc *AdminAuthUseCase) ParseToken(raw string) error {
	token := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Bearer "))
	if token == "" {
		return domain.ErrUnauthorized
	}
	claims, err := jwt.Parse(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, token)
	if err != nil || claims.Role != jwt.RoleAdmin {
		return domain.ErrUnauthorized
	}
	return nil
}
