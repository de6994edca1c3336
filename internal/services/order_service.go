package services

import (
	"errors"

	"github.com/shopspring/decimal"

	"mirage/internal/domain"
	"mirage/internal/repos"
)

var ErrEmptyCart = errors.New("cart is empty")

type OrderService struct {
	Cart   *CartService
	Orders *repos.OrderRepo
}

func NewOrderService(cart *CartService, orders *repos.OrderRepo) *OrderService {
	return &OrderService{Cart: cart, Orders: orders}
}

// Checkout materializes the session cart into a persisted order for the
// user: one order row, one line per resolvable cart entry with the item's
// current price frozen in, the accumulated total written back and the
// session cart cleared, all in one transaction.
func (s *OrderService) Checkout(sid string, userID int64) (int64, decimal.Decimal, error) {
	view, err := s.Cart.View(sid)
	if err != nil {
		return 0, decimal.Zero, err
	}
	if len(view.Lines) == 0 {
		return 0, decimal.Zero, ErrEmptyCart
	}

	lines := make([]repos.OrderLine, 0, len(view.Lines))
	for _, ln := range view.Lines {
		lines = append(lines, repos.OrderLine{
			ItemID:   ln.Item.ID,
			Quantity: ln.Quantity,
			Price:    ln.Item.Price,
		})
	}

	orderID, total, err := s.Orders.CreateWithItems(userID, sid, lines)
	if err != nil {
		return 0, decimal.Zero, err
	}
	return orderID, total, nil
}

func (s *OrderService) Get(orderID int64) (domain.Order, []repos.OrderItemRow, error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	items, err := s.Orders.Items(orderID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	return o, items, nil
}

func (s *OrderService) History(userID int64) ([]domain.Order, error) {
	return s.Orders.ListByUser(userID)
}
