package http

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-calzado/internal/domain"
)

// adminAuthenticator contrato mínimo del caso de uso de autenticación.
type adminAuthenticator interface {
	CheckPassword(password string) error
	ParseToken(raw string) error
}

// LocalAuthMethod guarda cómo se autenticó la petición ("token" o "password").
const LocalAuthMethod = "auth_method"

// RequireAdmin autoriza las rutas de administración.
// Acepta "Authorization: Bearer <token>" emitido por /api/admin/verify o, por compatibilidad
// con el panel anterior, el campo "password" del cuerpo JSON.
func RequireAdmin(auth adminAuthenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if header := c.Get(fiber.HeaderAuthorization); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return writeError(c, domain.ErrUnauthorized)
			}
			if err := auth.ParseToken(strings.TrimSpace(parts[1])); err != nil {
				return writeError(c, err)
			}
			c.Locals(LocalAuthMethod, "token")
			return c.Next()
		}

		if err := auth.CheckPassword(bodyPassword(c.Body())); err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalAuthMethod, "password")
		return c.Next()
	}
}

func bodyPassword(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var in struct {
		Password string `json:"password"`
	}
	if err := json.Unmarshal(body, &in); err != nil {
		return ""
	}
	return in.Password
}

// GetAuthMethod devuelve el método de autenticación (después de RequireAdmin).
func GetAuthMethod(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalAuthMethod).(string)
	return s
}
