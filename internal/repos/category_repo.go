package repos

import (
	"mirage/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List() ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.Select(&out, `SELECT id, label, slug FROM categories ORDER BY label`)
	return out, err
}

func (r *CategoryRepo) Get(id int64) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `SELECT id, label, slug FROM categories WHERE id = ?`, id)
	return c, err
}

func (r *CategoryRepo) Create(label, slug string) (int64, error) {
	res, err := r.db.Exec(`INSERT INTO categories(label, slug) VALUES(?, ?)`, label, slug)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *CategoryRepo) Update(id int64, label, slug string) error {
	_, err := r.db.Exec(`UPDATE categories SET label = ?, slug = ? WHERE id = ?`, label, slug, id)
	return err
}

// ItemCount reports how many items still reference the category; a
// category with live items must not be deleted.
func (r *CategoryRepo) ItemCount(id int64) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM items WHERE category_id = ?`, id)
	return n, err
}

// Delete removes the category; subcategories cascade with it.
func (r *CategoryRepo) Delete(id int64) error {
	_, err := r.db.Exec(`DELETE FROM categories WHERE id = ?`, id)
	return err
}

func (r *CategoryRepo) SubCategories(categoryID int64) ([]domain.SubCategory, error) {
	var out []domain.SubCategory
	err := r.db.Select(&out, `
	  SELECT id, category_id, label, slug
	  FROM subcategories WHERE category_id = ? ORDER BY label
	`, categoryID)
	return out, err
}

func (r *CategoryRepo) ListSubCategories() ([]domain.SubCategory, error) {
	var out []domain.SubCategory
	err := r.db.Select(&out, `SELECT id, category_id, label, slug FROM subcategories ORDER BY label`)
	return out, err
}

func (r *CategoryRepo) GetSubCategory(id int64) (domain.SubCategory, error) {
	var sc domain.SubCategory
	err := r.db.Get(&sc, `SELECT id, category_id, label, slug FROM subcategories WHERE id = ?`, id)
	return sc, err
}

func (r *CategoryRepo) CreateSubCategory(categoryID int64, label, slug string) (int64, error) {
	res, err := r.db.Exec(`INSERT INTO subcategories(category_id, label, slug) VALUES(?, ?, ?)`,
		categoryID, label, slug)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *CategoryRepo) DeleteSubCategory(id int64) error {
	_, err := r.db.Exec(`DELETE FROM subcategories WHERE id = ?`, id)
	return err
}
