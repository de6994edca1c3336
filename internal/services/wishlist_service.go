package services

import "mirage/internal/repos"

type WishlistService struct {
	Repo  *repos.WishlistRepo
	Items *repos.ItemRepo
}

func NewWishlistService(r *repos.WishlistRepo, items *repos.ItemRepo) *WishlistService {
	return &WishlistService{Repo: r, Items: items}
}

// Toggle flips the (user, item) membership and reports whether the item
// is now on the wishlist. Two toggles restore the original state.
func (s *WishlistService) Toggle(userID, itemID int64) (bool, error) {
	if _, err := s.Items.Get(itemID); err != nil {
		return false, err
	}
	exists, err := s.Repo.Exists(userID, itemID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, s.Repo.Remove(userID, itemID)
	}
	return true, s.Repo.Add(userID, itemID)
}

func (s *WishlistService) List(userID int64) ([]repos.WishlistRow, error) {
	return s.Repo.ListByUser(userID)
}
