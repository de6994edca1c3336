package services

import (
	"mirage/internal/domain"
	"mirage/internal/repos"
	"mirage/internal/validate"
)

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Items *repos.ItemRepo
}

func NewCatalogService(cats *repos.CategoryRepo, items *repos.ItemRepo) *CatalogService {
	return &CatalogService{Cats: cats, Items: items}
}

func (s *CatalogService) ListCategories() ([]domain.Category, error) {
	return s.Cats.List()
}

func (s *CatalogService) ListSubCategories() ([]domain.SubCategory, error) {
	return s.Cats.ListSubCategories()
}

func (s *CatalogService) Featured(limit int) ([]domain.Item, error) {
	return s.Items.ListNewest(limit)
}

func (s *CatalogService) GetItem(id int64) (domain.Item, error) {
	return s.Items.Get(id)
}

// Search applies the catalogue filters. Bad numeric bounds and oversized
// queries are normalized away rather than rejected: the guard rules live
// in the validate package.
func (s *CatalogService) Search(q, categorySlug, subcategorySlug, rarity, minPrice, maxPrice string) ([]domain.Item, error) {
	f := repos.SearchFilter{
		Query:           validate.Query(q),
		CategorySlug:    categorySlug,
		SubCategorySlug: subcategorySlug,
		MinPrice:        validate.PriceBound(minPrice),
		MaxPrice:        validate.PriceBound(maxPrice),
	}
	if r, ok := validate.Rarity(rarity); ok {
		f.Rarity = r
	}
	return s.Items.Search(f)
}
