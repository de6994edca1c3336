package handlers

import (
	"github.com/jmoiron/sqlx"

	"mirage/internal/config"
	"mirage/internal/repos"
	"mirage/internal/services"
)

type Deps struct {
	CatalogueHandler *CatalogueHandler
	CartHandler      *CartHandler
	WishlistHandler  *WishlistHandler
	AccountHandler   *AccountHandler
	ManageHandler    *ManageHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	itemRepo := repos.NewItemRepo(db)
	sessRepo := repos.NewSessionRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	wishRepo := repos.NewWishlistRepo(db)
	userRepo := repos.NewUserRepo(db)

	catalogSvc := services.NewCatalogService(catRepo, itemRepo)
	cartSvc := services.NewCartService(sessRepo, itemRepo)
	orderSvc := services.NewOrderService(cartSvc, orderRepo)
	wishSvc := services.NewWishlistService(wishRepo, itemRepo)

	return &Deps{
		CatalogueHandler: &CatalogueHandler{Catalog: catalogSvc},
		CartHandler:      &CartHandler{Cart: cartSvc, Order: orderSvc},
		WishlistHandler:  &WishlistHandler{Wish: wishSvc},
		AccountHandler:   &AccountHandler{Auth: auth, Users: userRepo, Wish: wishSvc, Cart: cartSvc, Order: orderSvc},
		ManageHandler:    &ManageHandler{Items: itemRepo, Cats: catRepo, Users: userRepo},
	}
}
