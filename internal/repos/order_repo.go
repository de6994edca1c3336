package repos

import (
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"mirage/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// OrderLine is one cart entry resolved at checkout time; Price is the
// item's live price, frozen into price_at_purchase.
type OrderLine struct {
	ItemID   int64
	Quantity int
	Price    decimal.Decimal
}

// CreateWithItems materializes an order in a single transaction: header
// with a placeholder total, one row per line, the accumulated total
// written back, and the originating session's cart reset. A failure
// mid-loop rolls the whole order back with the cart untouched. An empty
// sid skips the cart reset.
func (r *OrderRepo) CreateWithItems(userID int64, sid string, lines []OrderLine) (int64, decimal.Decimal, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, decimal.Zero, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`INSERT INTO orders(user_id, status, total) VALUES(?, 'completed', 0)`, userID)
	if err != nil {
		return 0, decimal.Zero, err
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return 0, decimal.Zero, err
	}

	total := decimal.Zero
	for _, ln := range lines {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id, item_id, quantity, price_at_purchase)
		  VALUES(?, ?, ?, ?)
		`, orderID, ln.ItemID, ln.Quantity, ln.Price.String()); err != nil {
			return 0, decimal.Zero, err
		}
		total = total.Add(ln.Price.Mul(decimal.NewFromInt(int64(ln.Quantity))))
	}

	if _, err := tx.Exec(`UPDATE orders SET total = ? WHERE id = ?`, total.String(), orderID); err != nil {
		return 0, decimal.Zero, err
	}

	if sid != "" {
		if _, err := tx.Exec(`
		  UPDATE sessions SET cart_json = '{}', last_seen = CURRENT_TIMESTAMP WHERE id = ?
		`, sid); err != nil {
			return 0, decimal.Zero, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, decimal.Zero, err
	}
	return orderID, total, nil
}

func (r *OrderRepo) Get(orderID int64) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `SELECT id, user_id, status, total, created_at FROM orders WHERE id = ?`, orderID)
	return o, err
}

type OrderItemRow struct {
	ItemID          int64           `db:"item_id"`
	Label           string          `db:"label"`
	Quantity        int             `db:"quantity"`
	PriceAtPurchase decimal.Decimal `db:"price_at_purchase"`
	Subtotal        decimal.Decimal `db:"subtotal"`
}

func (r *OrderRepo) Items(orderID int64) ([]OrderItemRow, error) {
	var out []OrderItemRow
	err := r.db.Select(&out, `
	  SELECT oi.item_id, i.label, oi.quantity, oi.price_at_purchase,
	         (oi.quantity * oi.price_at_purchase) AS subtotal
	  FROM order_items oi
	  JOIN items i ON i.id = oi.item_id
	  WHERE oi.order_id = ?
	  ORDER BY i.label
	`, orderID)
	return out, err
}

func (r *OrderRepo) ListByUser(userID int64) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
	  SELECT id, user_id, status, total, created_at
	  FROM orders WHERE user_id = ?
	  ORDER BY datetime(created_at) DESC, id DESC
	`, userID)
	return out, err
}
