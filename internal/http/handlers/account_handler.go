package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	applog "mirage/internal/log"
	"mirage/internal/repos"
	"mirage/internal/services"
	"mirage/internal/validate"
)

type AccountHandler struct {
	Auth  *services.AuthService
	Users *repos.UserRepo
	Wish  *services.WishlistService
	Cart  *services.CartService
	Order *services.OrderService
}

func (h *AccountHandler) RegisterForm(c *fiber.Ctx) error {
	return render(c, "register", fiber.Map{})
}

func (h *AccountHandler) Register(c *fiber.Ctx) error {
	sid := ensureSID(c)

	username, okU := validate.Username(c.FormValue("username"))
	email, okE := validate.Email(c.FormValue("email"))
	password := c.FormValue("password")

	if !okU || !okE || !validate.Password(password) {
		return c.Status(fiber.StatusBadRequest).Render("register", fiber.Map{
			"Err":      "Check the form: username 3-30 chars, valid email, password at least 8 chars.",
			"Username": c.FormValue("username"),
			"Email":    c.FormValue("email"),
		})
	}

	u, err := h.Auth.Register(sid, username, email, password)
	if err != nil {
		msg := "Could not create the account."
		if err == services.ErrUsernameTaken {
			msg = "That username is already taken."
		}
		applog.Security(c, "register.fail", map[string]any{"username": username})
		return c.Status(fiber.StatusBadRequest).Render("register", fiber.Map{
			"Err": msg, "Username": username, "Email": email,
		})
	}

	applog.Audit(c, "register", map[string]any{"user": u.Username})
	setFlash(c, "Account created. You are now logged in.")
	return c.Redirect("/accounts/dashboard/")
}

func (h *AccountHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{})
}

func (h *AccountHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	username := c.FormValue("username")
	password := c.FormValue("password")

	u, err := h.Auth.Login(sid, username, password)
	if err != nil {
		applog.Security(c, "login.fail", map[string]any{"username": username})
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{
			"Err": "Invalid username or password.",
		})
	}

	applog.Audit(c, "login", map[string]any{"user": u.Username})
	setFlash(c, "Welcome back, "+u.Username+"!")
	return c.Redirect("/accounts/dashboard/")
}

func (h *AccountHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	applog.Audit(c, "logout", nil)
	setFlash(c, "You have been logged out.")
	return c.Redirect("/")
}

func (h *AccountHandler) Profile(c *fiber.Ctx) error {
	return render(c, "profile", fiber.Map{})
}

func (h *AccountHandler) UpdateProfile(c *fiber.Ctx) error {
	u := currentUser(c)

	email, okE := validate.Email(c.FormValue("email"))
	firstName, _ := validate.Label(c.FormValue("first_name"), 50)
	lastName, _ := validate.Label(c.FormValue("last_name"), 50)
	if !okE {
		return c.Status(fiber.StatusBadRequest).Render("profile", fiber.Map{
			"User": u, "Err": "Enter a valid email address.",
		})
	}

	if err := h.Users.UpdateProfile(u.ID, email, firstName, lastName); err != nil {
		applog.Error(c, "profile.update.fail", err, nil)
		return c.Status(fiber.StatusBadRequest).Render("profile", fiber.Map{
			"User": u, "Err": "Could not update the profile.",
		})
	}

	applog.Audit(c, "profile.update", map[string]any{"user": u.Username})
	setFlash(c, "Profile updated.")
	return c.Redirect("/accounts/profile/")
}

// Dashboard aggregates the user's wishlist and the current session cart.
func (h *AccountHandler) Dashboard(c *fiber.Ctx) error {
	sid := ensureSID(c)
	u := currentUser(c)

	wishlist, err := h.Wish.List(u.ID)
	if err != nil {
		applog.Error(c, "dashboard.wishlist.fail", err, nil)
		return fiber.ErrInternalServerError
	}
	cart, err := h.Cart.View(sid)
	if err != nil {
		applog.Error(c, "dashboard.cart.fail", err, nil)
		return fiber.ErrInternalServerError
	}
	orders, err := h.Order.History(u.ID)
	if err != nil {
		applog.Error(c, "dashboard.orders.fail", err, nil)
		return fiber.ErrInternalServerError
	}

	return render(c, "dashboard", fiber.Map{
		"Wishlist": wishlist,
		"Cart":     cart,
		"Orders":   orders,
	})
}

// OrderDetail shows one order; only the owning user may see it.
func (h *AccountHandler) OrderDetail(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "Order not found")
	}

	o, items, err := h.Order.Get(id)
	if err != nil {
		return notFound(c, "Order not found")
	}
	if o.UserID != u.ID {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": id, "user": u.Username})
		return notFound(c, "Order not found")
	}

	return render(c, "order", fiber.Map{"Order": o, "Items": items})
}
