package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"mirage/internal/domain"
	applog "mirage/internal/log"
	"mirage/internal/validate"
)

// itemForm binds and validates the item create/edit form. It returns the
// populated item and a list of field errors; type coercion failures on
// required fields become errors, never panics.
func itemForm(c *fiber.Ctx) (domain.Item, []string) {
	var it domain.Item
	var errs []string

	label, ok := validate.Label(c.FormValue("label"), 100)
	if !ok {
		errs = append(errs, "label is required (max 100 chars)")
	}
	it.Label = label

	catID, err := strconv.ParseInt(c.FormValue("category_id"), 10, 64)
	if err != nil || catID <= 0 {
		errs = append(errs, "category is required")
	}
	it.CategoryID = catID

	subID, err := strconv.ParseInt(c.FormValue("subcategory_id"), 10, 64)
	if err != nil || subID <= 0 {
		errs = append(errs, "subcategory is required")
	}
	it.SubCategoryID = subID

	price, ok := validate.Price(c.FormValue("price"))
	if !ok {
		errs = append(errs, "price must be a positive amount with at most 2 decimals")
	}
	it.Price = price

	rarity, ok := validate.Rarity(c.FormValue("rarity"))
	if !ok {
		errs = append(errs, "rarity must be common, rare or legendary")
	}
	it.Rarity = rarity

	it.Description = strings.TrimSpace(c.FormValue("description"))
	it.Element = strings.TrimSpace(c.FormValue("element"))
	it.RealityFragment = strings.TrimSpace(c.FormValue("reality_fragment"))
	it.ImagePath = strings.TrimSpace(c.FormValue("image_path"))

	return it, errs
}

func (h *ManageHandler) itemFormData(c *fiber.Ctx, it domain.Item, errs []string) fiber.Map {
	cats, _ := h.Cats.List()
	subcats, _ := h.Cats.ListSubCategories()
	return fiber.Map{
		"Item":          it,
		"Categories":    cats,
		"SubCategories": subcats,
		"Errors":        errs,
	}
}

// GET /manage/items/
func (h *ManageHandler) ItemsList(c *fiber.Ctx) error {
	items, err := h.Items.List()
	if err != nil {
		applog.Error(c, "manage.items.list.fail", err, nil)
		return fiber.ErrInternalServerError
	}
	return render(c, "manage_items", fiber.Map{"Items": items})
}

// GET /manage/items/new/
func (h *ManageHandler) ItemNew(c *fiber.Ctx) error {
	return render(c, "manage_item_form", h.itemFormData(c, domain.Item{}, nil))
}

// POST /manage/items/new/
func (h *ManageHandler) ItemCreate(c *fiber.Ctx) error {
	it, errs := itemForm(c)
	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).Render("manage_item_form", h.itemFormData(c, it, errs))
	}
	id, err := h.Items.Create(it)
	if err != nil {
		applog.Error(c, "manage.items.create.fail", err, nil)
		return c.Status(fiber.StatusBadRequest).Render("manage_item_form",
			h.itemFormData(c, it, []string{"could not save the item"}))
	}
	applog.Audit(c, "manage.items.create", map[string]any{"item": id, "label": it.Label})
	setFlash(c, "Item created.")
	return c.Redirect("/manage/items/")
}

// GET /manage/items/:id/edit/
func (h *ManageHandler) ItemEdit(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "Item not found")
	}
	it, err := h.Items.Get(id)
	if err != nil {
		return notFound(c, "Item not found")
	}
	return render(c, "manage_item_form", h.itemFormData(c, it, nil))
}

// POST /manage/items/:id/edit/
func (h *ManageHandler) ItemUpdate(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "Item not found")
	}
	if _, err := h.Items.Get(id); err != nil {
		return notFound(c, "Item not found")
	}

	it, errs := itemForm(c)
	it.ID = id
	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).Render("manage_item_form", h.itemFormData(c, it, errs))
	}
	if err := h.Items.Update(it); err != nil {
		applog.Error(c, "manage.items.update.fail", err, map[string]any{"item": id})
		return c.Status(fiber.StatusBadRequest).Render("manage_item_form",
			h.itemFormData(c, it, []string{"could not save the item"}))
	}
	applog.Audit(c, "manage.items.update", map[string]any{"item": id})
	setFlash(c, "Item updated.")
	return c.Redirect("/manage/items/")
}

// POST /manage/items/:id/delete/
func (h *ManageHandler) ItemDelete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "Item not found")
	}
	if err := h.Items.Delete(id); err != nil {
		applog.Error(c, "manage.items.delete.fail", err, map[string]any{"item": id})
		setFlash(c, "Could not delete the item; it may be referenced by orders.")
		return c.Redirect("/manage/items/")
	}
	applog.Audit(c, "manage.items.delete", map[string]any{"item": id})
	setFlash(c, "Item deleted.")
	return c.Redirect("/manage/items/")
}
