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

func TestCreateCartOwnership(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	u := testutil.User(t, store, "owner@example.com", models.RoleUser)

	_, err := services.CreateCart(ctx, store, services.CartInput{})
	assert.Equal(t, 400, apperr.Status(err))

	_, err = services.CreateCart(ctx, store, services.CartInput{UserID: &u.ID, SessionID: ptr("abc")})
	assert.Equal(t, 400, apperr.Status(err))

	cart, err := services.CreateCart(ctx, store, services.CartInput{UserID: &u.ID})
	require.NoError(t, err)
	assert.Equal(t, u.ID, *cart.UserID)
	assert.Nil(t, cart.SessionID)

	_, err = services.CreateCart(ctx, store, services.CartInput{UserID: &u.ID})
	assert.Equal(t, 409, apperr.Status(err))

	_, err = services.CreateCart(ctx, store, services.CartInput{UserID: ptr(int64(999))})
	assert.Equal(t, 400, apperr.Status(err))
}

func TestCreateCartGeneratesSession(t *testing.T) {
	store := testutil.NewStore(t)

	cart, err := services.CreateCart(context.Background(), store, services.CartInput{SessionID: ptr(services.NewSessionKeyword)})
	require.NoError(t, err)
	require.NotNil(t, cart.SessionID)
	assert.NotEqual(t, services.NewSessionKeyword, *cart.SessionID)
	assert.Len(t, *cart.SessionID, 36)
}

func TestUpsertCartItem(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	p := testutil.Product(t, store, "Scarf")
	v := testutil.Variant(t, store, p.ID, "12", 4)
	cart := testutil.SessionCart(t, store, nil)

	in := services.CartItemInput{CartID: cart.ID, ProductVariantID: v.ID}

	in.Quantity = 0
	_, _, err := services.UpsertCartItem(ctx, store, in)
	assert.Equal(t, 400, apperr.Status(err), "quantité nulle sur un nouvel article")

	in.Quantity = 5
	_, _, err = services.UpsertCartItem(ctx, store, in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only 4 left")

	in.Quantity = 2
	item, outcome, err := services.UpsertCartItem(ctx, store, in)
	require.NoError(t, err)
	assert.Equal(t, services.CartItemCreated, outcome)
	assert.Equal(t, 2, item.Quantity)

	in.Quantity = 3
	item, outcome, err = services.UpsertCartItem(ctx, store, in)
	require.NoError(t, err)
	assert.Equal(t, services.CartItemUpdated, outcome)
	assert.Equal(t, 3, item.Quantity, "la quantité est remplacée, pas additionnée")

	detail, err := services.GetCartDetail(ctx, store.DB(), cart.ID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "Scarf", detail.Items[0].ProductName)
	require.NotNil(t, detail.Items[0].ProductVariant)
	assert.Equal(t, v.ID, detail.Items[0].ProductVariant.ID)

	in.Quantity = 0
	item, outcome, err = services.UpsertCartItem(ctx, store, in)
	require.NoError(t, err)
	assert.Equal(t, services.CartItemRemoved, outcome)
	assert.Nil(t, item)

	items, err := database.CartItems(ctx, store.DB(), cart.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestUpsertCartItemUnknownReferences(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	cart := testutil.SessionCart(t, store, nil)

	_, _, err := services.UpsertCartItem(ctx, store, services.CartItemInput{CartID: cart.ID, ProductVariantID: 77, Quantity: 1})
	assert.Equal(t, 400, apperr.Status(err))

	_, _, err = services.UpsertCartItem(ctx, store, services.CartItemInput{CartID: 77, ProductVariantID: 1, Quantity: 1})
	assert.Equal(t, 400, apperr.Status(err))
}

func TestDeleteCartRemovesItems(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	p := testutil.Product(t, store, "Belt")
	v := testutil.Variant(t, store, p.ID, "20", 3)
	cart := testutil.SessionCart(t, store, map[int64]int{v.ID: 1})

	require.NoError(t, services.DeleteCart(ctx, store, cart.ID))
	items, err := database.CartItems(ctx, store.DB(), cart.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.Equal(t, 404, apperr.Status(services.DeleteCart(ctx, store, cart.ID)))
}
