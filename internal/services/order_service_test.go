package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mirage/internal/repos"
	"mirage/internal/services"
)

func TestCheckoutMaterializesOrder(t *testing.T) {
	db := memdb(t)
	cart := newCartService(db)
	orders := services.NewOrderService(cart, repos.NewOrderRepo(db))
	sid := "sid-checkout"
	const userID = 4 // seeded customer

	a := insertItem(t, db, "Tenfold Charm", "10.00")
	b := insertItem(t, db, "Fivefold Charm", "5.00")
	require.NoError(t, cart.Add(sid, a))
	require.NoError(t, cart.Add(sid, a))
	require.NoError(t, cart.Add(sid, b))

	orderID, total, err := orders.Checkout(sid, userID)
	require.NoError(t, err)
	require.Equal(t, "25.00", total.StringFixed(2))

	o, items, err := orders.Get(orderID)
	require.NoError(t, err)
	require.Equal(t, "completed", o.Status)
	require.Equal(t, int64(userID), o.UserID)
	require.Equal(t, "25.00", o.Total.StringFixed(2))
	require.Len(t, items, 2)

	// Total equals the sum of quantity x price_at_purchase
	sum := items[0].Subtotal.Add(items[1].Subtotal)
	require.True(t, o.Total.Equal(sum), "total %s != sum %s", o.Total, sum)

	// Cart is empty afterwards
	cv, err := cart.View(sid)
	require.NoError(t, err)
	require.Empty(t, cv.Lines)
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := memdb(t)
	cart := newCartService(db)
	orders := services.NewOrderService(cart, repos.NewOrderRepo(db))

	_, _, err := orders.Checkout("sid-empty", 4)
	require.ErrorIs(t, err, services.ErrEmptyCart)

	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM orders`))
	require.Zero(t, n)
}

func TestCheckoutSkipsStaleCartEntries(t *testing.T) {
	db := memdb(t)
	cart := newCartService(db)
	orders := services.NewOrderService(cart, repos.NewOrderRepo(db))
	sid := "sid-stale-checkout"

	only := insertItem(t, db, "Sole Survivor", "9.99")
	gone := insertItem(t, db, "Vanishing Relic", "50.00")
	require.NoError(t, cart.Add(sid, only))
	require.NoError(t, cart.Add(sid, gone))

	_, err := db.Exec(`DELETE FROM items WHERE id = ?`, gone)
	require.NoError(t, err)

	orderID, total, err := orders.Checkout(sid, 4)
	require.NoError(t, err)
	require.Equal(t, "9.99", total.StringFixed(2))

	_, items, err := orders.Get(orderID)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestCheckoutFailureLeavesCartIntact(t *testing.T) {
	db := memdb(t)
	cart := newCartService(db)
	orderRepo := repos.NewOrderRepo(db)
	sid := "sid-atomic"

	id := insertItem(t, db, "Echoing Drum", "15.00")
	require.NoError(t, cart.Add(sid, id))

	// Duplicate item lines violate the order_items primary key; the
	// whole transaction must roll back, cart reset included.
	bad := []repos.OrderLine{
		{ItemID: id, Quantity: 1, Price: mustDecimal(t, "15.00")},
		{ItemID: id, Quantity: 2, Price: mustDecimal(t, "15.00")},
	}
	_, _, err := orderRepo.CreateWithItems(4, sid, bad)
	require.Error(t, err)

	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM orders`))
	require.Zero(t, n)

	cv, err := cart.View(sid)
	require.NoError(t, err)
	require.Len(t, cv.Lines, 1)
	require.Equal(t, 1, cv.Lines[0].Quantity)
}

func TestPriceAtPurchaseIsFrozen(t *testing.T) {
	db := memdb(t)
	cart := newCartService(db)
	itemRepo := repos.NewItemRepo(db)
	orders := services.NewOrderService(cart, repos.NewOrderRepo(db))
	sid := "sid-frozen"

	id := insertItem(t, db, "Shifting Bauble", "20.00")
	require.NoError(t, cart.Add(sid, id))

	orderID, _, err := orders.Checkout(sid, 4)
	require.NoError(t, err)

	// Raise the catalogue price after checkout
	it, err := itemRepo.Get(id)
	require.NoError(t, err)
	require.NoError(t, itemRepo.UpdatePrice(id, it.Price.Mul(it.Price)))

	_, items, err := orders.Get(orderID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "20.00", items[0].PriceAtPurchase.StringFixed(2))

	o, err := repos.NewOrderRepo(db).Get(orderID)
	require.NoError(t, err)
	require.Equal(t, "20.00", o.Total.StringFixed(2))
}
