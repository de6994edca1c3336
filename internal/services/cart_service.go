package services

import (
	"strconv"

	"github.com/shopspring/decimal"

	"mirage/internal/domain"
	"mirage/internal/repos"
)

// CartService mutates the session cart mapping (item id -> quantity).
// Every mutation loads the map, changes it, and persists it back through
// the session store; entries never drop to zero or below.
type CartService struct {
	Sessions *repos.SessionRepo
	Items    *repos.ItemRepo
}

func NewCartService(sessions *repos.SessionRepo, items *repos.ItemRepo) *CartService {
	return &CartService{Sessions: sessions, Items: items}
}

// Add increments the item's quantity by one, creating the entry at 1.
// The item must exist in the catalogue.
func (s *CartService) Add(sid string, itemID int64) error {
	if _, err := s.Items.Get(itemID); err != nil {
		return err
	}
	cart, err := s.Sessions.Cart(sid)
	if err != nil {
		return err
	}
	key := strconv.FormatInt(itemID, 10)
	cart[key]++
	return s.Sessions.SaveCart(sid, cart)
}

// Decrement lowers the quantity by one and removes the entry at zero.
// A missing entry is a no-op.
func (s *CartService) Decrement(sid string, itemID int64) error {
	cart, err := s.Sessions.Cart(sid)
	if err != nil {
		return err
	}
	key := strconv.FormatInt(itemID, 10)
	qty, ok := cart[key]
	if !ok {
		return nil
	}
	if qty > 1 {
		cart[key] = qty - 1
	} else {
		delete(cart, key)
	}
	return s.Sessions.SaveCart(sid, cart)
}

func (s *CartService) Remove(sid string, itemID int64) error {
	cart, err := s.Sessions.Cart(sid)
	if err != nil {
		return err
	}
	delete(cart, strconv.FormatInt(itemID, 10))
	return s.Sessions.SaveCart(sid, cart)
}

func (s *CartService) Clear(sid string) error {
	return s.Sessions.SaveCart(sid, map[string]int{})
}

type CartLine struct {
	Item      domain.Item
	Quantity  int
	LineTotal decimal.Decimal
}

type CartView struct {
	Lines []CartLine
	Total decimal.Decimal
	Count int
}

// View resolves the cart against the catalogue in one batch lookup.
// Entries with a non-positive quantity or whose item has since been
// deleted are skipped, not errors.
func (s *CartService) View(sid string) (CartView, error) {
	cart, err := s.Sessions.Cart(sid)
	if err != nil {
		return CartView{}, err
	}

	ids := make([]int64, 0, len(cart))
	for key, qty := range cart {
		if qty <= 0 {
			continue
		}
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	items, err := s.Items.ByIDs(ids)
	if err != nil {
		return CartView{}, err
	}

	view := CartView{Total: decimal.Zero}
	for _, it := range items {
		qty := cart[strconv.FormatInt(it.ID, 10)]
		if qty <= 0 {
			continue
		}
		line := CartLine{
			Item:      it,
			Quantity:  qty,
			LineTotal: it.Price.Mul(decimal.NewFromInt(int64(qty))),
		}
		view.Lines = append(view.Lines, line)
		view.Total = view.Total.Add(line.LineTotal)
		view.Count += qty
	}
	return view, nil
}
