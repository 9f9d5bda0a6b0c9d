package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-calzado/internal/application/auth"
	apphttp "github.com/jhoicas/catalogo-calzado/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/catalogo-calzado/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "catalogo-test"
	testPassword  = "clave-admin"
	testExpMin    = 60
)

func newAuthUC(t *testing.T) *auth.AdminAuthUseCase {
	t.Helper()
	uc, err := auth.NewAdminAuthUseCase(testPassword, auth.JWTConfig{Secret: testJWTSecret, Issuer: testIssuer, ExpMinutes: testExpMin})
	require.NoError(t, err)
	return uc
}

// buildAuthApp app mínima con una ruta protegida que devuelve el método de autenticación.
func buildAuthApp(t *testing.T) *fiber.App {
	app := fiber.New()
	app.Post("/protected", apphttp.RequireAdmin(newAuthUC(t)), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true, "method": apphttp.GetAuthMethod(c)})
	})
	return app
}

func doAuthRequest(t *testing.T, app *fiber.App, authHeader, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/protected", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func adminToken(t *testing.T, role string, exp int) string {
	t.Helper()
	tok, _, err := pkgjwt.Generate(testJWTSecret, "admin-panel", role, testIssuer, exp)
	require.NoError(t, err)
	return "Bearer " + tok
}

// expiredAdminToken firma un token de administrador que venció hace una hora.
func expiredAdminToken(t *testing.T) string {
	t.Helper()
	past := time.Now().Add(-time.Hour)
	claims := pkgjwt.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   "admin-panel",
			IssuedAt:  jwt.NewNumericDate(past.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(past),
		},
		Role: pkgjwt.RoleAdmin,
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestRequireAdmin_BearerToken(t *testing.T) {
	resp := doAuthRequest(t, buildAuthApp(t), adminToken(t, pkgjwt.RoleAdmin, testExpMin), "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "token", body["method"])
}

func TestRequireAdmin_BodyPassword(t *testing.T) {
	resp := doAuthRequest(t, buildAuthApp(t), "", `{"password":"clave-admin","updates":[]}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "password", body["method"])
}

func TestRequireAdmin_Rejections(t *testing.T) {
	app := buildAuthApp(t)
	cases := []struct {
		name   string
		header string
		body   string
	}{
		{"sin credenciales", "", ""},
		{"contraseña incorrecta", "", `{"password":"otra"}`},
		{"cuerpo no JSON", "", `password=clave-admin`},
		{"esquema no Bearer", "Basic abc", ""},
		{"token malformado", "Bearer token.invalido.aqui", ""},
		{"rol distinto", adminToken(t, "vendedor", testExpMin), ""},
		{"token expirado", expiredAdminToken(t), ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doAuthRequest(t, app, tc.header, tc.body)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			raw, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(raw), "UNAUTHORIZED")
		})
	}
}

// Un token inválido no cae al respaldo por contraseña aunque el cuerpo la traiga.
func TestRequireAdmin_InvalidTokenDoesNotFallBackToPassword(t *testing.T) {
	resp := doAuthRequest(t, buildAuthApp(t), "Bearer basura", `{"password":"clave-admin"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
