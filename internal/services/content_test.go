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

func TestBannerDetailsBlockProductDeletion(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	p := testutil.Product(t, store, "Featured")

	bad := models.BannerStatus(9)
	_, err := services.CreateBanner(ctx, store, services.BannerInput{Name: ptr("Bad"), Status: &bad})
	assert.Equal(t, 400, apperr.Status(err))

	banner, err := services.CreateBanner(ctx, store, services.BannerInput{Name: ptr("Summer")})
	require.NoError(t, err)

	in := services.BannerDetailInput{BannerID: banner.ID, ProductID: p.ID}
	_, err = services.CreateBannerDetail(ctx, store, in)
	require.NoError(t, err)
	_, err = services.CreateBannerDetail(ctx, store, in)
	assert.Equal(t, 409, apperr.Status(err))

	err = services.DeleteProduct(ctx, store, p.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BannerDetail")

	// Supprimer la bannière retire aussi ses liens : le produit redevient supprimable.
	require.NoError(t, services.DeleteBanner(ctx, store, banner.ID))
	details, err := database.ListBannerDetails(ctx, store.DB(), banner.ID)
	require.NoError(t, err)
	assert.Empty(t, details)
	require.NoError(t, services.DeleteProduct(ctx, store, p.ID))
}

func TestNewsDetailsBlockProductDeletion(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	p := testutil.Product(t, store, "Reviewed")

	_, err := services.CreateNews(ctx, store, services.NewsInput{Title: ptr("  ")})
	assert.Equal(t, 400, apperr.Status(err))

	news, err := services.CreateNews(ctx, store, services.NewsInput{Title: ptr("Launch"), Content: ptr("...")})
	require.NoError(t, err)

	_, err = services.CreateNewsDetail(ctx, store, services.NewsDetailInput{NewsID: news.ID, ProductID: p.ID + 50})
	assert.Equal(t, 400, apperr.Status(err))

	d, err := services.CreateNewsDetail(ctx, store, services.NewsDetailInput{NewsID: news.ID, ProductID: p.ID})
	require.NoError(t, err)

	err = services.DeleteProduct(ctx, store, p.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NewsDetail")

	require.NoError(t, services.DeleteNewsDetail(ctx, store, d.ID))
	require.NoError(t, services.DeleteProduct(ctx, store, p.ID))
}
