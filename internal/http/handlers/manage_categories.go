package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	applog "mirage/internal/log"
	"mirage/internal/validate"
)

func categoryForm(c *fiber.Ctx) (label, slug string, errs []string) {
	var ok bool
	label, ok = validate.Label(c.FormValue("label"), 50)
	if !ok {
		errs = append(errs, "label is required (max 50 chars)")
	}
	slug, ok = validate.Slug(c.FormValue("slug"))
	if !ok {
		errs = append(errs, "slug must be lowercase letters, digits and hyphens")
	}
	return label, slug, errs
}

// GET /manage/categories/
func (h *ManageHandler) CategoriesList(c *fiber.Ctx) error {
	cats, err := h.Cats.List()
	if err != nil {
		applog.Error(c, "manage.categories.list.fail", err, nil)
		return fiber.ErrInternalServerError
	}
	return render(c, "manage_categories", fiber.Map{"Categories": cats})
}

// GET /manage/categories/new/
func (h *ManageHandler) CategoryNew(c *fiber.Ctx) error {
	return render(c, "manage_category_form", fiber.Map{})
}

// POST /manage/categories/new/
func (h *ManageHandler) CategoryCreate(c *fiber.Ctx) error {
	label, slug, errs := categoryForm(c)
	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).Render("manage_category_form", fiber.Map{
			"Label": label, "Slug": slug, "Errors": errs,
		})
	}
	id, err := h.Cats.Create(label, slug)
	if err != nil {
		applog.Error(c, "manage.categories.create.fail", err, nil)
		return c.Status(fiber.StatusBadRequest).Render("manage_category_form", fiber.Map{
			"Label": label, "Slug": slug, "Errors": []string{"could not save; the slug may be taken"},
		})
	}
	applog.Audit(c, "manage.categories.create", map[string]any{"category": id, "slug": slug})
	setFlash(c, "Category created.")
	return c.Redirect("/manage/categories/")
}

// GET /manage/categories/:id/edit/
func (h *ManageHandler) CategoryEdit(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "Category not found")
	}
	cat, err := h.Cats.Get(id)
	if err != nil {
		return notFound(c, "Category not found")
	}
	subcats, err := h.Cats.SubCategories(id)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return render(c, "manage_category_form", fiber.Map{
		"Category": cat, "Label": cat.Label, "Slug": cat.Slug, "SubCategories": subcats,
	})
}

// POST /manage/categories/:id/edit/
func (h *ManageHandler) CategoryUpdate(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "Category not found")
	}
	cat, err := h.Cats.Get(id)
	if err != nil {
		return notFound(c, "Category not found")
	}

	label, slug, errs := categoryForm(c)
	if len(errs) > 0 {
		subcats, _ := h.Cats.SubCategories(id)
		return c.Status(fiber.StatusBadRequest).Render("manage_category_form", fiber.Map{
			"Category": cat, "Label": label, "Slug": slug, "SubCategories": subcats, "Errors": errs,
		})
	}
	if err := h.Cats.Update(id, label, slug); err != nil {
		applog.Error(c, "manage.categories.update.fail", err, map[string]any{"category": id})
		setFlash(c, "Could not save the category; the slug may be taken.")
		return c.Redirect("/manage/categories/")
	}
	applog.Audit(c, "manage.categories.update", map[string]any{"category": id})
	setFlash(c, "Category updated.")
	return c.Redirect("/manage/categories/")
}

// POST /manage/categories/:id/delete/
// Deletion is refused while items still reference the category;
// subcategories go with it via cascade.
func (h *ManageHandler) CategoryDelete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "Category not found")
	}
	n, err := h.Cats.ItemCount(id)
	if err != nil {
		applog.Error(c, "manage.categories.delete.fail", err, map[string]any{"category": id})
		return fiber.ErrInternalServerError
	}
	if n > 0 {
		setFlash(c, "Cannot delete: "+strconv.Itoa(n)+" item(s) still use this category.")
		return c.Redirect("/manage/categories/")
	}
	if err := h.Cats.Delete(id); err != nil {
		applog.Error(c, "manage.categories.delete.fail", err, map[string]any{"category": id})
		setFlash(c, "Could not delete the category.")
		return c.Redirect("/manage/categories/")
	}
	applog.Audit(c, "manage.categories.delete", map[string]any{"category": id})
	setFlash(c, "Category deleted.")
	return c.Redirect("/manage/categories/")
}

// POST /manage/categories/:id/subcategories/
func (h *ManageHandler) SubCategoryCreate(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "Category not found")
	}
	if _, err := h.Cats.Get(id); err != nil {
		return notFound(c, "Category not found")
	}
	label, slug, errs := categoryForm(c)
	if len(errs) > 0 {
		setFlash(c, "Subcategory needs a label and a valid slug.")
		return c.Redirect("/manage/categories/" + strconv.FormatInt(id, 10) + "/edit/")
	}
	if _, err := h.Cats.CreateSubCategory(id, label, slug); err != nil {
		applog.Error(c, "manage.subcategories.create.fail", err, map[string]any{"category": id})
		setFlash(c, "Could not add the subcategory; the slug may be taken.")
	} else {
		applog.Audit(c, "manage.subcategories.create", map[string]any{"category": id, "slug": slug})
		setFlash(c, "Subcategory added.")
	}
	return c.Redirect("/manage/categories/" + strconv.FormatInt(id, 10) + "/edit/")
}

// POST /manage/subcategories/:id/delete/
func (h *ManageHandler) SubCategoryDelete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c, "Subcategory not found")
	}
	sc, err := h.Cats.GetSubCategory(id)
	if err != nil {
		return notFound(c, "Subcategory not found")
	}
	if err := h.Cats.DeleteSubCategory(id); err != nil {
		applog.Error(c, "manage.subcategories.delete.fail", err, map[string]any{"subcategory": id})
		setFlash(c, "Could not delete the subcategory; items may still use it.")
	} else {
		applog.Audit(c, "manage.subcategories.delete", map[string]any{"subcategory": id})
		setFlash(c, "Subcategory deleted.")
	}
	return c.Redirect("/manage/categories/" + strconv.FormatInt(sc.CategoryID, 10) + "/edit/")
}
