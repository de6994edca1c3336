package domain

import "github.com/shopspring/decimal"

const (
	RarityCommon    = "common"
	RarityRare      = "rare"
	RarityLegendary = "legendary"
)

type Category struct {
	ID    int64  `db:"id"`
	Label string `db:"label"`
	Slug  string `db:"slug"`
}

type SubCategory struct {
	ID         int64  `db:"id"`
	CategoryID int64  `db:"category_id"`
	Label      string `db:"label"`
	Slug       string `db:"slug"`
}

type Item struct {
	ID            int64           `db:"id"`
	Label         string          `db:"label"`
	CategoryID    int64           `db:"category_id"`
	SubCategoryID int64           `db:"subcategory_id"`
	Description   string          `db:"description"`
	Price         decimal.Decimal `db:"price"`
	// Mirage flavour fields
	Element         string `db:"element"`
	RealityFragment string `db:"reality_fragment"`
	Rarity          string `db:"rarity"` // common | rare | legendary
	ImagePath       string `db:"image_path"`
	CreatedAt       string `db:"created_at"`
}

type Order struct {
	ID        int64           `db:"id"`
	UserID    int64           `db:"user_id"`
	Status    string          `db:"status"`
	Total     decimal.Decimal `db:"total"`
	CreatedAt string          `db:"created_at"`
}

type OrderItem struct {
	OrderID         int64           `db:"order_id"`
	ItemID          int64           `db:"item_id"`
	Quantity        int             `db:"quantity"`
	PriceAtPurchase decimal.Decimal `db:"price_at_purchase"`
}
