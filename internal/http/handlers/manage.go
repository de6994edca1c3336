package handlers

import (
	"github.com/gofiber/fiber/v2"

	"mirage/internal/repos"
)

// ManageHandler is the role-gated management surface over items,
// categories and site users. Route-level RequireRole middleware decides
// who gets in; handlers assume an authorized caller.
type ManageHandler struct {
	Items *repos.ItemRepo
	Cats  *repos.CategoryRepo
	Users *repos.UserRepo
}

// GET /manage/
func (h *ManageHandler) Panel(c *fiber.Ctx) error {
	return render(c, "manage_panel", fiber.Map{})
}
