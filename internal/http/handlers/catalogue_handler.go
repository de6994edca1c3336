package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "mirage/internal/log"
	"mirage/internal/services"
)

type CatalogueHandler struct {
	Catalog *services.CatalogService
}

// Home shows the newest items as the featured grid.
func (h *CatalogueHandler) Home(c *fiber.Ctx) error {
	items, err := h.Catalog.Featured(12)
	if err != nil {
		applog.Error(c, "home.load.fail", err, nil)
		return fiber.ErrInternalServerError
	}
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		applog.Error(c, "home.load.fail", err, nil)
		return fiber.ErrInternalServerError
	}
	return render(c, "home", fiber.Map{"Items": items, "Categories": cats})
}

// Catalogue renders the filterable grid. Every filter is optional;
// malformed price bounds are dropped rather than rejected.
func (h *CatalogueHandler) Catalogue(c *fiber.Ctx) error {
	q := c.Query("q")
	category := c.Query("category")
	subcategory := c.Query("subcategory")
	rarity := c.Query("rarity")
	minPrice := c.Query("min_price")
	maxPrice := c.Query("max_price")

	items, err := h.Catalog.Search(q, category, subcategory, rarity, minPrice, maxPrice)
	if err != nil {
		applog.Error(c, "catalogue.search.fail", err, map[string]any{"q": q})
		return fiber.ErrInternalServerError
	}

	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return fiber.ErrInternalServerError
	}
	subcats, err := h.Catalog.ListSubCategories()
	if err != nil {
		return fiber.ErrInternalServerError
	}

	return render(c, "catalogue", fiber.Map{
		"Items":         items,
		"Count":         len(items),
		"Categories":    cats,
		"SubCategories": subcats,
		"Q":             q,
		"Category":      category,
		"SubCategory":   subcategory,
		"Rarity":        rarity,
		"MinPrice":      minPrice,
		"MaxPrice":      maxPrice,
	})
}

// Detail shows a single item page.
func (h *CatalogueHandler) Detail(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "This item is no longer available")
	}
	it, err := h.Catalog.GetItem(id)
	if err != nil {
		return notFound(c, "This item is no longer available")
	}
	return render(c, "item", fiber.Map{"Item": it})
}
