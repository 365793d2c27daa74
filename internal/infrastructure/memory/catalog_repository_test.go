package memory_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	domain "github.com/EmmanuelOnyekachi21/MyShopAPI/internal/domain/catalog"
	"github.com/EmmanuelOnyekachi21/MyShopAPI/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestCategoryRepository_InsertIfAbsent(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCategoryRepository()

	first, err := domain.NewCategory("Electronics", "electronics", "", "")
	require.NoError(t, err)
	require.NoError(t, repo.Insert(ctx, first))

	second, err := domain.NewCategory("Electronics Again", "electronics", "", "")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Insert(ctx, second), domain.ErrSlugTaken)

	exists, err := repo.SlugExists(ctx, "electronics")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCategoryRepository_ConcurrentInsertSameSlug(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCategoryRepository()

	var wins atomic.Int32
	g := new(errgroup.Group)
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			category, err := domain.NewCategory("Shoes", "shoes", "", "")
			if err != nil {
				return err
			}
			if err := repo.Insert(ctx, category); err == nil {
				wins.Add(1)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), wins.Load(), "exactly one writer may reserve a slug")
}

func TestProductRepository_SlugConstraintAndLookups(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProductRepository()

	p1, err := domain.NewProduct("id-1", "Air Max", "air-max", "", 500, 3, "shoes")
	require.NoError(t, err)
	require.NoError(t, repo.Insert(ctx, p1))

	dup, err := domain.NewProduct("id-2", "Air Max Again", "air-max", "", 900, 1, "shoes")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Insert(ctx, dup), domain.ErrSlugTaken)

	got, err := repo.Get(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, int64(500), got.Price)

	_, err = repo.Get(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	bySlug, err := repo.FindBySlug(ctx, "shoes", "air-max")
	require.NoError(t, err)
	assert.Equal(t, "id-1", bySlug.ID)

	_, err = repo.FindBySlug(ctx, "hats", "air-max")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductRepository_ListAndSearchAvailable(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProductRepository()

	older, err := domain.NewProduct("id-1", "Air Max", "air-max", "", 500, 3, "shoes")
	require.NoError(t, err)
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	require.NoError(t, repo.Insert(ctx, older))

	newer, err := domain.NewProduct("id-2", "Air Zoom", "air-zoom", "", 700, 2, "shoes")
	require.NoError(t, err)
	require.NoError(t, repo.Insert(ctx, newer))

	hidden, err := domain.NewProduct("id-3", "Air Ghost", "air-ghost", "", 100, 0, "shoes")
	require.NoError(t, err)
	hidden.Available = false
	require.NoError(t, repo.Insert(ctx, hidden))

	other, err := domain.NewProduct("id-4", "Beanie", "beanie", "", 200, 9, "hats")
	require.NoError(t, err)
	require.NoError(t, repo.Insert(ctx, other))

	shoes, err := repo.ListAvailable(ctx, "shoes")
	require.NoError(t, err)
	require.Len(t, shoes, 2)
	assert.Equal(t, "air-zoom", shoes[0].Slug, "newest first")
	assert.Equal(t, "air-max", shoes[1].Slug)

	all, err := repo.ListAvailable(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	matches, err := repo.SearchAvailable(ctx, "air")
	require.NoError(t, err)
	assert.Len(t, matches, 2, "unavailable products stay hidden from search")
}
