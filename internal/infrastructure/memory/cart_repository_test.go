package memory_test

import (
	"context"
	"testing"

	domain "github.com/EmmanuelOnyekachi21/MyShopAPI/internal/domain/cart"
	"github.com/EmmanuelOnyekachi21/MyShopAPI/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestCartRepository_AddItemCreatesCartLazily(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCartRepository()

	_, err := repo.Get(ctx, "unknown")
	require.ErrorIs(t, err, domain.ErrNotFound)

	cart, err := repo.AddItem(ctx, "unknown", "p1", 1)
	require.NoError(t, err)
	assert.Equal(t, "unknown", cart.Code)
	assert.Len(t, cart.Items, 1)

	stored, err := repo.Get(ctx, "unknown")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.ItemCount())
}

func TestCartRepository_FailedAddLeavesNoCartBehind(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCartRepository()

	_, err := repo.AddItem(ctx, "c1", "p1", 0)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = repo.Get(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCartRepository_ConcurrentAddsMergeIntoOneLineItem(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCartRepository()

	const n = 100
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, err := repo.AddItem(gctx, "c1", "p1", 1)
			return err
		})
	}
	require.NoError(t, g.Wait())

	cart, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1, "concurrent adds must not create duplicate rows")
	assert.Equal(t, n, cart.Items[0].Quantity, "no increment may be lost")
}

func TestCartRepository_RemoveItem(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCartRepository()

	_, err := repo.RemoveItem(ctx, "missing", "p1")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.AddItem(ctx, "c1", "p1", 2)
	require.NoError(t, err)

	_, err = repo.RemoveItem(ctx, "c1", "p2")
	require.ErrorIs(t, err, domain.ErrItemNotFound)

	cart, err := repo.RemoveItem(ctx, "c1", "p1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartRepository_MarkPaidOnce(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCartRepository()

	_, err := repo.AddItem(ctx, "c1", "p1", 1)
	require.NoError(t, err)

	cart, err := repo.MarkPaid(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, cart.Paid)

	_, err = repo.MarkPaid(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrCartPaid)

	_, err = repo.AddItem(ctx, "c1", "p1", 1)
	assert.ErrorIs(t, err, domain.ErrCartPaid)
}
