package main

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/joho/godotenv"

	"mirage/internal/config"
	"mirage/internal/domain"
	"mirage/internal/http/handlers"
	applog "mirage/internal/log"
	"mirage/internal/repos"
	"mirage/internal/services"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// Optional file logging
	var extra []io.Writer
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			extra = append(extra, f)
		}
	}
	applog.Setup(cfg.LogLevel, extra...)

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	sessRepo := repos.NewSessionRepo(db)
	authSvc := services.NewAuthService(userRepo, sessRepo)

	// Templates & app
	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach user to context if logged in (for templates/headers)
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/static/")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	})

	// ---------- Static assets ----------
	app.Static("/static", cfg.StaticDir)

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, cfg, authSvc)

	// Public pages
	app.Get("/", deps.CatalogueHandler.Home)
	app.Get("/catalogue/", deps.CatalogueHandler.Catalogue)
	app.Get("/item/:id/", deps.CatalogueHandler.Detail)

	// Wishlist
	app.Post("/wishlist/toggle/:id/", deps.WishlistHandler.Toggle)
	app.Get("/wishlist/toggle/:id/", func(c *fiber.Ctx) error { return c.Redirect("/") })

	// Cart: mutations are POST-only; GET hits redirect without side effects
	app.Get("/cart/", deps.CartHandler.View)
	app.Post("/cart/add/:id/", deps.CartHandler.Add)
	app.Post("/cart/decrement/:id/", deps.CartHandler.Decrement)
	app.Post("/cart/remove/:id/", deps.CartHandler.Remove)
	app.Post("/cart/clear/", deps.CartHandler.Clear)
	app.Post("/cart/checkout/", deps.CartHandler.Checkout)
	for _, p := range []string{"/cart/add/:id/", "/cart/decrement/:id/", "/cart/remove/:id/", "/cart/clear/", "/cart/checkout/"} {
		app.Get(p, deps.CartHandler.RedirectToCart)
	}

	// Accounts (login throttled)
	acc := deps.AccountHandler
	app.Get("/accounts/register/", acc.RegisterForm)
	app.Post("/accounts/register/", acc.Register)
	app.Get("/accounts/login/", acc.LoginForm)
	app.Post("/accounts/login/", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), acc.Login)
	app.Post("/accounts/logout/", acc.Logout)

	authed := app.Group("/accounts", handlers.RequireLogin(authSvc))
	authed.Get("/profile/", acc.Profile)
	authed.Post("/profile/", acc.UpdateProfile)
	authed.Get("/dashboard/", acc.Dashboard)
	authed.Get("/orders/:id/", acc.OrderDetail)

	// Management surface: items are Owner+Employee, categories and users
	// are Owner only. The role gate runs per route, like the decorator it
	// replaces.
	mng := deps.ManageHandler
	staffOnly := handlers.RequireRole(authSvc, domain.RoleOwner, domain.RoleEmployee)
	ownerOnly := handlers.RequireRole(authSvc, domain.RoleOwner)

	manage := app.Group("/manage")
	manage.Get("/", staffOnly, mng.Panel)
	manage.Get("/items/", staffOnly, mng.ItemsList)
	manage.Get("/items/new/", staffOnly, mng.ItemNew)
	manage.Post("/items/new/", staffOnly, mng.ItemCreate)
	manage.Get("/items/:id/edit/", staffOnly, mng.ItemEdit)
	manage.Post("/items/:id/edit/", staffOnly, mng.ItemUpdate)
	manage.Post("/items/:id/delete/", staffOnly, mng.ItemDelete)

	manage.Get("/categories/", ownerOnly, mng.CategoriesList)
	manage.Get("/categories/new/", ownerOnly, mng.CategoryNew)
	manage.Post("/categories/new/", ownerOnly, mng.CategoryCreate)
	manage.Get("/categories/:id/edit/", ownerOnly, mng.CategoryEdit)
	manage.Post("/categories/:id/edit/", ownerOnly, mng.CategoryUpdate)
	manage.Post("/categories/:id/delete/", ownerOnly, mng.CategoryDelete)
	manage.Post("/categories/:id/subcategories/", ownerOnly, mng.SubCategoryCreate)
	manage.Post("/subcategories/:id/delete/", ownerOnly, mng.SubCategoryDelete)
	manage.Get("/users/", ownerOnly, mng.UsersList)
	manage.Get("/users/:id/edit/", ownerOnly, mng.UserEdit)
	manage.Post("/users/:id/edit/", ownerOnly, mng.UserUpdate)
	manage.Post("/users/:id/delete/", ownerOnly, mng.UserDelete)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
