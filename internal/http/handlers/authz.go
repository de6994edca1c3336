package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "mirage/internal/log"
	"mirage/internal/services"
)

// RequireLogin redirects anonymous requests to the login page.
func RequireLogin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Redirect("/accounts/login/")
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			return c.Redirect("/accounts/login/")
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// RequireRole gates a management operation. Evaluation order: anonymous
// callers go to login; superusers are always allowed; non-staff users are
// forbidden; staff need at least one of the allowed roles.
func RequireRole(auth *services.AuthService, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Redirect("/accounts/login/")
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			return c.Redirect("/accounts/login/")
		}
		c.Locals("user", u)

		if u.IsSuperuser {
			return c.Next()
		}
		if !u.IsStaff {
			applog.Security(c, "access.denied.staff", map[string]any{"user": u.Username})
			return forbidden(c, "Admins only.")
		}
		if u.HasAnyRole(roles...) {
			return c.Next()
		}
		applog.Security(c, "access.denied.role", map[string]any{"user": u.Username, "required": roles})
		return forbidden(c, "Insufficient role.")
	}
}
