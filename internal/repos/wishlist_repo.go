package repos

import (
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type WishlistRepo struct{ db *sqlx.DB }

func NewWishlistRepo(db *sqlx.DB) *WishlistRepo { return &WishlistRepo{db: db} }

func (r *WishlistRepo) Exists(userID, itemID int64) (bool, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM wishlist_items WHERE user_id = ? AND item_id = ?`, userID, itemID)
	return n > 0, err
}

func (r *WishlistRepo) Add(userID, itemID int64) error {
	_, err := r.db.Exec(`
	  INSERT INTO wishlist_items(user_id, item_id, created_at)
	  VALUES(?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(user_id, item_id) DO NOTHING
	`, userID, itemID)
	return err
}

func (r *WishlistRepo) Remove(userID, itemID int64) error {
	_, err := r.db.Exec(`DELETE FROM wishlist_items WHERE user_id = ? AND item_id = ?`, userID, itemID)
	return err
}

type WishlistRow struct {
	ItemID    int64           `db:"item_id"`
	Label     string          `db:"label"`
	Rarity    string          `db:"rarity"`
	Price     decimal.Decimal `db:"price"`
	ImagePath string          `db:"image_path"`
	CreatedAt string          `db:"created_at"`
}

func (r *WishlistRepo) ListByUser(userID int64) ([]WishlistRow, error) {
	var out []WishlistRow
	err := r.db.Select(&out, `
	  SELECT wi.item_id, i.label, i.rarity, i.price, i.image_path, wi.created_at
	  FROM wishlist_items wi
	  JOIN items i ON i.id = wi.item_id
	  WHERE wi.user_id = ?
	  ORDER BY datetime(wi.created_at) DESC, wi.id DESC
	`, userID)
	return out, err
}
