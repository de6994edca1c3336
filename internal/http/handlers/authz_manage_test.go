package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"mirage/internal/domain"
	"mirage/internal/http/handlers"
	"mirage/internal/repos"
	"mirage/internal/services"
)

// newManageApp wires the management routes with the role gate, the way
// main does, minus the rate limiting and CSRF layers.
func newManageApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	userRepo := repos.NewUserRepo(db)
	sessRepo := repos.NewSessionRepo(db)
	authSvc := services.NewAuthService(userRepo, sessRepo)

	engine := html.New("../../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(requestid.New())
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})

	deps := handlers.NewDeps(db, testConfig(), authSvc)
	mng := deps.ManageHandler
	staffOnly := handlers.RequireRole(authSvc, domain.RoleOwner, domain.RoleEmployee)
	ownerOnly := handlers.RequireRole(authSvc, domain.RoleOwner)

	manage := app.Group("/manage")
	manage.Get("/", staffOnly, mng.Panel)
	manage.Get("/items/", staffOnly, mng.ItemsList)
	manage.Get("/categories/", ownerOnly, mng.CategoriesList)
	manage.Get("/users/", ownerOnly, mng.UsersList)
	manage.Post("/users/:id/delete/", ownerOnly, mng.UserDelete)
	manage.Post("/categories/:id/delete/", ownerOnly, mng.CategoryDelete)

	// Seeded users: 1 admin (superuser), 2 morgana (Owner), 3 caspian
	// (Employee), 4 wren (no roles, not staff)
	for sid, id := range map[string]int64{
		"sid-admin": 1, "sid-owner": 2, "sid-employee": 3, "sid-customer": 4,
	} {
		if err := sessRepo.Bind(sid, id); err != nil {
			t.Fatalf("bind %s: %v", sid, err)
		}
	}

	return app, db
}

func get(t *testing.T, app *fiber.App, path, sid string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestManageAnonymousRedirectsToLogin(t *testing.T) {
	app, _ := newManageApp(t)

	resp := get(t, app, "/manage/", "")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/accounts/login/" {
		t.Fatalf("expected login redirect, got %q", loc)
	}
}

func TestManageNonStaffForbidden(t *testing.T) {
	app, _ := newManageApp(t)

	for _, path := range []string{"/manage/", "/manage/items/", "/manage/categories/", "/manage/users/"} {
		resp := get(t, app, path, "sid-customer")
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("%s: expected 403 for non-staff, got %d", path, resp.StatusCode)
		}
	}
}

func TestManageRoleSets(t *testing.T) {
	app, _ := newManageApp(t)

	// Employee: items yes, categories/users no
	if resp := get(t, app, "/manage/items/", "sid-employee"); resp.StatusCode != http.StatusOK {
		t.Fatalf("employee items: expected 200, got %d", resp.StatusCode)
	}
	if resp := get(t, app, "/manage/categories/", "sid-employee"); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("employee categories: expected 403, got %d", resp.StatusCode)
	}
	if resp := get(t, app, "/manage/users/", "sid-employee"); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("employee users: expected 403, got %d", resp.StatusCode)
	}

	// Owner: everything
	for _, path := range []string{"/manage/", "/manage/items/", "/manage/categories/", "/manage/users/"} {
		if resp := get(t, app, path, "sid-owner"); resp.StatusCode != http.StatusOK {
			t.Fatalf("owner %s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}

func TestManageSuperuserBypassesRoles(t *testing.T) {
	app, _ := newManageApp(t)

	// The superuser holds no roles at all yet passes every gate
	for _, path := range []string{"/manage/", "/manage/items/", "/manage/categories/", "/manage/users/"} {
		if resp := get(t, app, path, "sid-admin"); resp.StatusCode != http.StatusOK {
			t.Fatalf("superuser %s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}
