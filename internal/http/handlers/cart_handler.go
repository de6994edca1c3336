package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	applog "mirage/internal/log"
	"mirage/internal/services"
)

type CartHandler struct {
	Cart  *services.CartService
	Order *services.OrderService
}

// RedirectToCart handles GET hits on the mutating cart endpoints: no
// side effects, just back to the cart page.
func (h *CartHandler) RedirectToCart(c *fiber.Ctx) error {
	return c.Redirect("/cart/")
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cv, err := h.Cart.View(sid)
	if err != nil {
		applog.Error(c, "cart.view.fail", err, nil)
		return fiber.ErrInternalServerError
	}
	return render(c, "cart", fiber.Map{"Cart": cv})
}

// Add puts one more of the item into the cart. Asynchronous callers get
// an empty success response; everyone else goes back where they came from.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "This item is no longer available")
	}
	if err := h.Cart.Add(sid, id); err != nil {
		applog.Error(c, "cart.add.fail", err, map[string]any{"item": id})
		return notFound(c, "This item is no longer available")
	}
	applog.Audit(c, "cart.add", map[string]any{"item": id})

	if c.Get("X-Requested-With") == "XMLHttpRequest" {
		return c.Status(fiber.StatusNoContent).Send(nil)
	}
	back := c.Get("Referer")
	if back == "" {
		back = "/cart/"
	}
	return c.Redirect(back)
}

func (h *CartHandler) Decrement(c *fiber.Ctx) error {
	sid := ensureSID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/cart/")
	}
	if err := h.Cart.Decrement(sid, id); err != nil {
		applog.Error(c, "cart.decrement.fail", err, map[string]any{"item": id})
	}
	return c.Redirect("/cart/")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return c.Redirect("/cart/")
	}
	if err := h.Cart.Remove(sid, id); err != nil {
		applog.Error(c, "cart.remove.fail", err, map[string]any{"item": id})
	}
	return c.Redirect("/cart/")
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	sid := ensureSID(c)
	if err := h.Cart.Clear(sid); err != nil {
		applog.Error(c, "cart.clear.fail", err, nil)
	}
	return c.Redirect("/cart/")
}

// Checkout materializes the cart into an order and sends the buyer to
// the confirmation page. An empty cart bounces back with a notice.
func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	u := currentUser(c)
	if u == nil {
		return c.Redirect("/accounts/login/")
	}

	orderID, total, err := h.Order.Checkout(sid, u.ID)
	if err != nil {
		if err == services.ErrEmptyCart {
			setFlash(c, "Your cart is empty.")
			return c.Redirect("/cart/")
		}
		applog.Error(c, "checkout.fail", err, nil)
		setFlash(c, "Could not complete checkout. Please try again.")
		return c.Redirect("/cart/")
	}

	applog.Audit(c, "checkout", map[string]any{
		"order_id": orderID,
		"total":    total.StringFixed(2),
		"user":     u.Username,
	})
	return c.Redirect("/accounts/orders/" + strconv.FormatInt(orderID, 10) + "/")
}
