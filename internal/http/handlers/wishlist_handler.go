package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "mirage/internal/log"
	"mirage/internal/services"
)

type WishlistHandler struct {
	Wish *services.WishlistService
}

// Toggle flips wishlist membership for the logged-in user.
func (h *WishlistHandler) Toggle(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Redirect("/accounts/login/")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "This item is no longer available")
	}

	added, err := h.Wish.Toggle(u.ID, id)
	if err != nil {
		applog.Error(c, "wishlist.toggle.fail", err, map[string]any{"item": id})
		return notFound(c, "This item is no longer available")
	}
	applog.Audit(c, "wishlist.toggle", map[string]any{"item": id, "added": added})

	if added {
		setFlash(c, "Added to your wishlist.")
	} else {
		setFlash(c, "Removed from your wishlist.")
	}
	back := c.Get("Referer")
	if back == "" {
		back = "/accounts/dashboard/"
	}
	return c.Redirect(back)
}
