package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mirage/internal/repos"
	"mirage/internal/services"
)

func TestWishlistDoubleToggleRestoresState(t *testing.T) {
	db := memdb(t)
	wish := services.NewWishlistService(repos.NewWishlistRepo(db), repos.NewItemRepo(db))
	const userID = 4

	id := insertItem(t, db, "Longing Mirror", "42.00")

	added, err := wish.Toggle(userID, id)
	require.NoError(t, err)
	require.True(t, added)

	rows, err := wish.List(userID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, id, rows[0].ItemID)

	added, err = wish.Toggle(userID, id)
	require.NoError(t, err)
	require.False(t, added)

	rows, err = wish.List(userID)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestWishlistToggleUnknownItem(t *testing.T) {
	db := memdb(t)
	wish := services.NewWishlistService(repos.NewWishlistRepo(db), repos.NewItemRepo(db))

	_, err := wish.Toggle(4, 987654)
	require.Error(t, err)
}

func TestWishlistUniquePerUserItem(t *testing.T) {
	db := memdb(t)
	repo := repos.NewWishlistRepo(db)

	id := insertItem(t, db, "Twice-Kept Token", "8.00")
	require.NoError(t, repo.Add(4, id))
	require.NoError(t, repo.Add(4, id)) // conflict ignored

	rows, err := repo.ListByUser(4)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
