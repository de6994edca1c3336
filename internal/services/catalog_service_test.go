package services_test

import (
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"mirage/internal/repos"
	"mirage/internal/services"
)

func newCatalogService(db *sqlx.DB) *services.CatalogService {
	return services.NewCatalogService(repos.NewCategoryRepo(db), repos.NewItemRepo(db))
}

func TestSearchFreeTextMatchesFlavourFields(t *testing.T) {
	db := memdb(t)
	cat := newCatalogService(db)

	// Seeded: "Emberwreath Longbow" with element "fire" and fragment "Ash Veil"
	for _, q := range []string{"emberwreath", "FIRE", "ash veil", "weapons"} {
		items, err := cat.Search(q, "", "", "", "", "")
		require.NoError(t, err)
		require.NotEmpty(t, items, "query %q should match", q)
	}

	items, err := cat.Search("no such thing anywhere", "", "", "", "", "")
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestSearchFiltersAreConjunctive(t *testing.T) {
	db := memdb(t)
	cat := newCatalogService(db)

	items, err := cat.Search("", "weapons", "", "rare", "", "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Emberwreath Longbow", items[0].Label)

	// Same category, different rarity: no overlap
	items, err = cat.Search("", "weapons", "", "legendary", "", "")
	require.NoError(t, err)
	require.Empty(t, items)

	items, err = cat.Search("", "", "bows", "", "", "")
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestSearchPriceBounds(t *testing.T) {
	db := memdb(t)
	cat := newCatalogService(db)

	items, err := cat.Search("", "", "", "", "100", "")
	require.NoError(t, err)
	for _, it := range items {
		require.True(t, it.Price.IntPart() >= 100, "item %s under min price", it.Label)
	}

	items, err = cat.Search("", "", "", "", "", "50")
	require.NoError(t, err)
	for _, it := range items {
		require.True(t, it.Price.IntPart() <= 50, "item %s over max price", it.Label)
	}
}

func TestSearchOversizedPriceBoundIgnored(t *testing.T) {
	db := memdb(t)
	cat := newCatalogService(db)

	unbounded, err := cat.Search("", "", "", "", "", "")
	require.NoError(t, err)

	// 7-character input exceeds the bound guard and is dropped
	guarded, err := cat.Search("", "", "", "", "1000000", "")
	require.NoError(t, err)
	require.Equal(t, len(unbounded), len(guarded))

	// A parseable 6-character bound still applies
	bounded, err := cat.Search("", "", "", "", "100000", "")
	require.NoError(t, err)
	require.Empty(t, bounded)

	// Garbage bounds are dropped too
	garbage, err := cat.Search("", "", "", "", "abc", "")
	require.NoError(t, err)
	require.Equal(t, len(unbounded), len(garbage))
}

func TestSearchQueryTruncatedAtSixtyChars(t *testing.T) {
	db := memdb(t)
	cat := newCatalogService(db)

	prefix := strings.Repeat("z", 60)
	_, err := db.Exec(`
	  INSERT INTO items(label, category_id, subcategory_id, description, price, rarity)
	  VALUES('Murmuring Scroll', 1, 1, ?, '1.00', 'common')
	`, prefix)
	require.NoError(t, err)

	// Queries that differ only beyond character 60 behave identically
	a, err := cat.Search(prefix+"aaaa", "", "", "", "", "")
	require.NoError(t, err)
	b, err := cat.Search(prefix+"bbbb", "", "", "", "", "")
	require.NoError(t, err)
	require.Len(t, a, 1)
	require.Len(t, b, 1)
	require.Equal(t, a[0].ID, b[0].ID)
}

func TestSearchOrdersNewestFirst(t *testing.T) {
	db := memdb(t)
	cat := newCatalogService(db)

	newest := insertItem(t, db, "Latest Arrival", "5.00")

	items, err := cat.Search("", "", "", "", "", "")
	require.NoError(t, err)
	require.NotEmpty(t, items)
	require.Equal(t, newest, items[0].ID)
}
