package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/application/ports"
	"github.com/jhoicas/Inventario-dashboard/pkg/jwt"
)

// Locals keys con los datos de la sesión local.
const (
	LocalUserID    = "user_id"
	LocalCompanyID = "company_id"
	LocalRole      = "role"
	LocalSession   = "session"
)

// SessionMiddleware carga en c.Locals los claims del token de sesión local, si hay.
// No bloquea: sin sesión las vistas se sirven en estado idle.
func SessionMiddleware(store ports.SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := store.Token()
		c.Locals(LocalSession, ok)
		if !ok {
			return c.Next()
		}
		// Un token opaco no tiene claims; se ignora el error.
		if claims, err := jwt.Inspect(token, time.Now()); err == nil {
			c.Locals(LocalUserID, claims.UserID)
			c.Locals(LocalCompanyID, claims.CompanyID)
			c.Locals(LocalRole, claims.Role)
		}
		return c.Next()
	}
}

// RequireSession corta con 401 las acciones que consultarían el backend sin sesión.
// Debe ir después de SessionMiddleware.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !HasSession(c) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code: "NO_SESSION", Message: "no hay sesión activa; inicie sesión en el backend",
			})
		}
		return c.Next()
	}
}

// HasSession indica si SessionMiddleware encontró un token vigente.
func HasSession(c *fiber.Ctx) bool {
	ok, _ := c.Locals(LocalSession).(bool)
	return ok
}

// GetUserID devuelve el UserID del token (vacío si no hay o es opaco).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetCompanyID devuelve el CompanyID del token.
func GetCompanyID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalCompanyID).(string)
	return s
}

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}
