package handlers

import (
	"github.com/gofiber/fiber/v2"

	"mirage/internal/domain"
	applog "mirage/internal/log"
	"mirage/internal/validate"
)

// GET /manage/users/
func (h *ManageHandler) UsersList(c *fiber.Ctx) error {
	users, err := h.Users.List()
	if err != nil {
		applog.Error(c, "manage.users.list.fail", err, nil)
		return fiber.ErrInternalServerError
	}
	return render(c, "manage_users", fiber.Map{"Users": users})
}

// GET /manage/users/:id/edit/
func (h *ManageHandler) UserEdit(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "User not found")
	}
	u, err := h.Users.ByID(id)
	if err != nil {
		return notFound(c, "User not found")
	}
	return render(c, "manage_user_form", fiber.Map{"Account": u})
}

// POST /manage/users/:id/edit/
func (h *ManageHandler) UserUpdate(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "User not found")
	}
	u, err := h.Users.ByID(id)
	if err != nil {
		return notFound(c, "User not found")
	}

	var errs []string
	username, okU := validate.Username(c.FormValue("username"))
	if !okU {
		errs = append(errs, "username must be 3-30 chars (letters, digits, . _ -)")
	}
	email, okE := validate.Email(c.FormValue("email"))
	if !okE {
		errs = append(errs, "enter a valid email address")
	}
	firstName, _ := validate.Label(c.FormValue("first_name"), 50)
	lastName, _ := validate.Label(c.FormValue("last_name"), 50)

	var roles []string
	for _, role := range c.Request().PostArgs().PeekMulti("roles") {
		switch string(role) {
		case domain.RoleOwner, domain.RoleEmployee:
			roles = append(roles, string(role))
		default:
			errs = append(errs, "unknown role")
		}
	}

	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).Render("manage_user_form", fiber.Map{
			"Account": u, "Errors": errs,
		})
	}

	u.Username = username
	u.Email = email
	u.FirstName = firstName
	u.LastName = lastName
	u.IsActive = c.FormValue("is_active") == "on"
	u.IsStaff = c.FormValue("is_staff") == "on"
	u.Roles = roles

	if err := h.Users.UpdateAccount(*u); err != nil {
		applog.Error(c, "manage.users.update.fail", err, map[string]any{"user_id": id})
		return c.Status(fiber.StatusBadRequest).Render("manage_user_form", fiber.Map{
			"Account": u, "Errors": []string{"could not save; the username may be taken"},
		})
	}
	applog.Audit(c, "manage.users.update", map[string]any{"user_id": id})
	setFlash(c, "User updated.")
	return c.Redirect("/manage/users/")
}

// POST /manage/users/:id/delete/
// Superuser accounts and the acting user's own account cannot be removed.
func (h *ManageHandler) UserDelete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "User not found")
	}
	target, err := h.Users.ByID(id)
	if err != nil {
		return notFound(c, "User not found")
	}

	actor := currentUser(c)
	if target.IsSuperuser {
		applog.Security(c, "manage.users.delete.denied", map[string]any{"user_id": id, "reason": "superuser"})
		setFlash(c, "Superuser accounts cannot be deleted.")
		return c.Redirect("/manage/users/")
	}
	if actor != nil && actor.ID == target.ID {
		applog.Security(c, "manage.users.delete.denied", map[string]any{"user_id": id, "reason": "self"})
		setFlash(c, "You cannot delete your own account.")
		return c.Redirect("/manage/users/")
	}

	if err := h.Users.Delete(id); err != nil {
		applog.Error(c, "manage.users.delete.fail", err, map[string]any{"user_id": id})
		setFlash(c, "Could not delete the user; they may have orders on record.")
		return c.Redirect("/manage/users/")
	}
	applog.Audit(c, "manage.users.delete", map[string]any{"user_id": id})
	setFlash(c, "User deleted.")
	return c.Redirect("/manage/users/")
}
