package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"mirage/internal/repos"
	"mirage/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func newCartService(db *sqlx.DB) *services.CartService {
	return services.NewCartService(repos.NewSessionRepo(db), repos.NewItemRepo(db))
}

// insertItem adds a catalogue row and returns its id. Price is passed as
// text to match form input.
func insertItem(t *testing.T, db *sqlx.DB, label, price string) int64 {
	t.Helper()
	res, err := db.Exec(`
	  INSERT INTO items(label, category_id, subcategory_id, description, price, rarity)
	  VALUES(?, 1, 1, '', ?, 'common')
	`, label, price)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func TestCartAddIncrementsQuantity(t *testing.T) {
	db := memdb(t)
	cart := newCartService(db)
	sid := "sid-add"

	id := insertItem(t, db, "Glass Lantern", "10.00")
	require.NoError(t, cart.Add(sid, id))
	require.NoError(t, cart.Add(sid, id))

	cv, err := cart.View(sid)
	require.NoError(t, err)
	require.Len(t, cv.Lines, 1)
	require.Equal(t, 2, cv.Lines[0].Quantity)
	require.Equal(t, 2, cv.Count)
}

func TestCartAddUnknownItemFails(t *testing.T) {
	db := memdb(t)
	cart := newCartService(db)

	require.Error(t, cart.Add("sid-unknown", 987654))

	cv, err := cart.View("sid-unknown")
	require.NoError(t, err)
	require.Empty(t, cv.Lines)
}

func TestCartQuantityNeverGoesNegative(t *testing.T) {
	db := memdb(t)
	cart := newCartService(db)
	sid := "sid-neg"

	id := insertItem(t, db, "Hollow Coin", "1.00")

	// Decrement and remove on an empty cart are no-ops
	require.NoError(t, cart.Decrement(sid, id))
	require.NoError(t, cart.Remove(sid, id))

	require.NoError(t, cart.Add(sid, id))
	require.NoError(t, cart.Decrement(sid, id)) // 1 -> entry removed
	require.NoError(t, cart.Decrement(sid, id)) // absent -> no-op

	cv, err := cart.View(sid)
	require.NoError(t, err)
	require.Empty(t, cv.Lines)
	require.Zero(t, cv.Count)

	// No entry with qty <= 0 may persist in the stored mapping
	stored, err := repos.NewSessionRepo(db).Cart(sid)
	require.NoError(t, err)
	for _, qty := range stored {
		require.Positive(t, qty)
	}
}

func TestCartViewSkipsDeletedItems(t *testing.T) {
	db := memdb(t)
	cart := newCartService(db)
	sid := "sid-stale"

	keep := insertItem(t, db, "Kept Trinket", "3.50")
	gone := insertItem(t, db, "Doomed Trinket", "7.00")
	require.NoError(t, cart.Add(sid, keep))
	require.NoError(t, cart.Add(sid, gone))

	_, err := db.Exec(`DELETE FROM items WHERE id = ?`, gone)
	require.NoError(t, err)

	cv, err := cart.View(sid)
	require.NoError(t, err)
	require.Len(t, cv.Lines, 1)
	require.Equal(t, keep, cv.Lines[0].Item.ID)
	require.Equal(t, "3.50", cv.Total.StringFixed(2))
}

func TestCartTotalsWorkedExample(t *testing.T) {
	db := memdb(t)
	cart := newCartService(db)
	sid := "sid-example"

	a := insertItem(t, db, "Tenfold Charm", "10.00")
	b := insertItem(t, db, "Fivefold Charm", "5.00")

	require.NoError(t, cart.Add(sid, a))
	require.NoError(t, cart.Add(sid, a))
	require.NoError(t, cart.Add(sid, b))

	cv, err := cart.View(sid)
	require.NoError(t, err)
	require.Len(t, cv.Lines, 2)
	require.Equal(t, "25.00", cv.Total.StringFixed(2))
	require.Equal(t, 3, cv.Count)
}

func TestCartClearEmptiesMapping(t *testing.T) {
	db := memdb(t)
	cart := newCartService(db)
	sid := "sid-clear"

	id := insertItem(t, db, "Clearing Stone", "2.00")
	require.NoError(t, cart.Add(sid, id))
	require.NoError(t, cart.Clear(sid))

	cv, err := cart.View(sid)
	require.NoError(t, err)
	require.Empty(t, cv.Lines)
	require.Zero(t, cv.Count)
}
