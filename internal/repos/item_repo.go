package repos

import (
	"mirage/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type ItemRepo struct{ db *sqlx.DB }

func NewItemRepo(db *sqlx.DB) *ItemRepo { return &ItemRepo{db: db} }

const itemCols = `
  id, label, category_id, subcategory_id, description, price,
  element, reality_fragment, rarity, image_path, created_at`

func (r *ItemRepo) Get(id int64) (domain.Item, error) {
	var it domain.Item
	err := r.db.Get(&it, `SELECT `+itemCols+` FROM items WHERE id = ?`, id)
	return it, err
}

// ByIDs resolves a batch of item ids in one query. Missing ids are simply
// absent from the result; callers tolerate stale references that way.
func (r *ItemRepo) ByIDs(ids []int64) ([]domain.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT `+itemCols+` FROM items WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var out []domain.Item
	err = r.db.Select(&out, query, args...)
	return out, err
}

func (r *ItemRepo) ListNewest(limit int) ([]domain.Item, error) {
	if limit <= 0 {
		limit = 12
	}
	var out []domain.Item
	err := r.db.Select(&out, `
	  SELECT `+itemCols+` FROM items
	  ORDER BY datetime(created_at) DESC, id DESC
	  LIMIT ?
	`, limit)
	return out, err
}

// SearchFilter narrows the catalogue; zero values mean "no filter".
// Query is expected pre-normalized (trimmed, truncated, lowercased).
type SearchFilter struct {
	Query           string
	CategorySlug    string
	SubCategorySlug string
	Rarity          string
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
}

// Search returns items newest-first, with all present filters ANDed.
// The free-text query matches label, description, element, reality
// fragment and the category/subcategory labels, case-insensitively.
func (r *ItemRepo) Search(f SearchFilter) ([]domain.Item, error) {
	where := `1=1`
	args := []any{}

	if f.Query != "" {
		where += ` AND (LOWER(i.label) LIKE ? OR LOWER(i.description) LIKE ?
		  OR LOWER(i.element) LIKE ? OR LOWER(i.reality_fragment) LIKE ?
		  OR LOWER(c.label) LIKE ? OR LOWER(sc.label) LIKE ?)`
		pat := "%" + f.Query + "%"
		args = append(args, pat, pat, pat, pat, pat, pat)
	}
	if f.CategorySlug != "" {
		where += ` AND c.slug = ?`
		args = append(args, f.CategorySlug)
	}
	if f.SubCategorySlug != "" {
		where += ` AND sc.slug = ?`
		args = append(args, f.SubCategorySlug)
	}
	if f.Rarity != "" {
		where += ` AND i.rarity = ?`
		args = append(args, f.Rarity)
	}
	if f.MinPrice != nil {
		where += ` AND i.price >= ?`
		args = append(args, f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		where += ` AND i.price <= ?`
		args = append(args, f.MaxPrice.String())
	}

	var out []domain.Item
	err := r.db.Select(&out, `
	  SELECT i.id, i.label, i.category_id, i.subcategory_id, i.description, i.price,
	         i.element, i.reality_fragment, i.rarity, i.image_path, i.created_at
	  FROM items i
	  JOIN categories c     ON c.id = i.category_id
	  JOIN subcategories sc ON sc.id = i.subcategory_id
	  WHERE `+where+`
	  ORDER BY datetime(i.created_at) DESC, i.id DESC
	`, args...)
	return out, err
}

func (r *ItemRepo) List() ([]domain.Item, error) {
	var out []domain.Item
	err := r.db.Select(&out, `
	  SELECT `+itemCols+` FROM items
	  ORDER BY datetime(created_at) DESC, id DESC
	`)
	return out, err
}

func (r *ItemRepo) Create(it domain.Item) (int64, error) {
	res, err := r.db.Exec(`
	  INSERT INTO items(label, category_id, subcategory_id, description, price,
	    element, reality_fragment, rarity, image_path)
	  VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, it.Label, it.CategoryID, it.SubCategoryID, it.Description, it.Price.String(),
		it.Element, it.RealityFragment, it.Rarity, it.ImagePath)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *ItemRepo) Update(it domain.Item) error {
	_, err := r.db.Exec(`
	  UPDATE items SET label = ?, category_id = ?, subcategory_id = ?, description = ?,
	    price = ?, element = ?, reality_fragment = ?, rarity = ?, image_path = ?
	  WHERE id = ?
	`, it.Label, it.CategoryID, it.SubCategoryID, it.Description, it.Price.String(),
		it.Element, it.RealityFragment, it.Rarity, it.ImagePath, it.ID)
	return err
}

func (r *ItemRepo) Delete(id int64) error {
	_, err := r.db.Exec(`DELETE FROM items WHERE id = ?`, id)
	return err
}

func (r *ItemRepo) UpdatePrice(id int64, price decimal.Decimal) error {
	_, err := r.db.Exec(`UPDATE items SET price = ? WHERE id = ?`, price.String(), id)
	return err
}
