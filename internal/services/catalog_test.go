package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/services"
	"storefront_back_end/internal/testutil"
)

func TestCategoryLifecycle(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)

	c, err := services.CreateCategory(ctx, store, services.NamedInput{Name: ptr(" Shoes ")})
	require.NoError(t, err)
	assert.Equal(t, "Shoes", c.Name)

	_, err = services.CreateCategory(ctx, store, services.NamedInput{Name: ptr("Shoes")})
	assert.Equal(t, 400, apperr.Status(err))

	c, err = services.UpdateCategory(ctx, store, c.ID, services.NamedInput{Image: ptr("shoes.png")})
	require.NoError(t, err)
	assert.Equal(t, "Shoes", c.Name)
	assert.Equal(t, "shoes.png", c.Image)

	require.NoError(t, services.DeleteCategory(ctx, store, c.ID))
	_, err = services.GetCategory(ctx, store.DB(), c.ID)
	assert.Equal(t, 404, apperr.Status(err))
}

func TestCatalogDeleteBlockedByProducts(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	p := testutil.Product(t, store, "Boot")

	err := services.DeleteCategory(ctx, store, p.CategoryID)
	assert.Equal(t, 400, apperr.Status(err))
	err = services.DeleteBrand(ctx, store, p.BrandID)
	assert.Equal(t, 400, apperr.Status(err))

	_, err = database.GetBrand(ctx, store.DB(), p.BrandID)
	assert.NoError(t, err)
}

func TestFeedbackRefreshesRating(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	p := testutil.Product(t, store, "Lamp")
	u := testutil.User(t, store, "rater@example.com", models.RoleUser)

	_, err := services.CreateFeedback(ctx, store, u.ID, services.FeedbackInput{ProductID: p.ID, Star: 6})
	assert.Equal(t, 400, apperr.Status(err))
	assert.Contains(t, err.Error(), "star must be at most 5")

	_, err = services.CreateFeedback(ctx, store, u.ID, services.FeedbackInput{ProductID: p.ID + 100, Star: 3})
	assert.Equal(t, 400, apperr.Status(err))

	for _, star := range []int{4, 5} {
		_, err := services.CreateFeedback(ctx, store, u.ID, services.FeedbackInput{ProductID: p.ID, Star: star})
		require.NoError(t, err)
	}
	got, err := database.GetProduct(ctx, store.DB(), p.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, got.TotalRatings, 0.001)

	// Un avis bloque la suppression du produit.
	err = services.DeleteProduct(ctx, store, p.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Feedback")
}

func TestProductIDsOfCatalogEntries(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	first := testutil.Product(t, store, "Kettle")

	second := &models.Product{Name: "Teapot", BrandID: first.BrandID, CategoryID: first.CategoryID}
	require.NoError(t, database.InsertProduct(ctx, store.DB(), second))
	testutil.Product(t, store, "Other")

	ids, err := database.ProductIDsInCategory(ctx, store.DB(), first.CategoryID)
	require.NoError(t, err)
	assert.Equal(t, []int64{first.ID, second.ID}, ids)

	ids, err = database.ProductIDsOfBrand(ctx, store.DB(), first.BrandID)
	require.NoError(t, err)
	assert.Equal(t, []int64{first.ID, second.ID}, ids)

	brandID, _ := testutil.Catalog(t, store)
	ids, err = database.ProductIDsOfBrand(ctx, store.DB(), brandID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
