package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/services"
	"storefront_back_end/internal/testutil"
	"storefront_back_end/internal/utils"
)

func checkoutInput(cartID int64) services.CheckoutInput {
	return services.CheckoutInput{CartID: cartID, Phone: "0123456789", Address: "12 rue des Lilas"}
}

func TestCheckoutSuccess(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	p := testutil.Product(t, store, "Tee")
	v := testutil.Variant(t, store, p.ID, "10", 10)
	cart := testutil.SessionCart(t, store, map[int64]int{v.ID: 2})

	res, err := services.Checkout(ctx, store, checkoutInput(cart.ID))
	require.NoError(t, err)

	assert.Equal(t, models.OrderPending, res.Order.Status)
	assert.True(t, res.Order.Total.Equal(decimal.NewFromInt(20)), res.Order.Total.String())
	assert.Equal(t, cart.SessionID, res.Order.SessionID)
	require.Len(t, res.OrderDetails, 1)
	assert.True(t, res.OrderDetails[0].Price.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 2, res.OrderDetails[0].Quantity)
	assert.Equal(t, []int64{p.ID}, res.ProductIDs)

	sum := decimal.Zero
	for _, d := range res.OrderDetails {
		sum = sum.Add(d.LineTotal())
	}
	assert.True(t, sum.Equal(res.Order.Total))

	after, err := database.GetProductVariantValue(ctx, store.DB(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, after.Stock)

	_, err = database.GetCart(ctx, store.DB(), cart.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
	items, err := database.CartItems(ctx, store.DB(), cart.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	product, err := database.GetProduct(ctx, store.DB(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, product.TotalSold)

	// Le prix de la ligne reste figé même si le SKU change ensuite.
	_, err = store.DB().Exec("UPDATE product_variant_values SET price = 99 WHERE id = ?", v.ID)
	require.NoError(t, err)
	details, err := database.OrderDetails(ctx, store.DB(), res.Order.ID)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.True(t, details[0].Price.Equal(decimal.NewFromInt(10)))
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	p := testutil.Product(t, store, "Mug")
	v := testutil.Variant(t, store, p.ID, "4.50", 5)
	cart := testutil.SessionCart(t, store, map[int64]int{v.ID: 2})

	require.NoError(t, database.UpdateVariantStock(ctx, store.DB(), v.ID, -4))

	_, err := services.Checkout(ctx, store, checkoutInput(cart.ID))
	require.Error(t, err)
	assert.Equal(t, 400, apperr.Status(err))
	assert.Contains(t, err.Error(), "remaining 1")

	after, err := database.GetProductVariantValue(ctx, store.DB(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.Stock)

	_, err = database.GetCart(ctx, store.DB(), cart.ID)
	assert.NoError(t, err)

	orders, total, err := database.ListOrders(ctx, store.DB(), database.CartFilter{Page: models.Page{Number: 1, Size: 10}, SessionID: *cart.SessionID})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, orders)
}

func TestCheckoutLaterItemFailureUndoesEarlierDecrements(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	p := testutil.Product(t, store, "Sock")
	first := testutil.Variant(t, store, p.ID, "3", 10)
	second := testutil.Variant(t, store, p.ID, "3", 1)
	cart := testutil.SessionCart(t, store, map[int64]int{first.ID: 1})
	require.NoError(t, database.InsertCartItem(ctx, store.DB(), &models.CartItem{CartID: cart.ID, ProductVariantID: second.ID, Quantity: 1}))
	require.NoError(t, database.UpdateVariantStock(ctx, store.DB(), second.ID, -1))

	_, err := services.Checkout(ctx, store, checkoutInput(cart.ID))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remaining 0")

	after, err := database.GetProductVariantValue(ctx, store.DB(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, after.Stock)
}

func TestCheckoutRejectsMissingOrEmptyCart(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)

	_, err := services.Checkout(ctx, store, checkoutInput(999))
	require.Error(t, err)
	assert.Equal(t, 400, apperr.Status(err))

	empty := testutil.SessionCart(t, store, nil)
	_, err = services.Checkout(ctx, store, checkoutInput(empty.ID))
	require.Error(t, err)
	assert.Equal(t, 400, apperr.Status(err))
	assert.Contains(t, err.Error(), "empty")
}

func TestCheckoutValidatesContact(t *testing.T) {
	store := testutil.NewStore(t)

	in := checkoutInput(1)
	in.Phone = "12-34"
	_, err := services.Checkout(context.Background(), store, in)
	assert.Equal(t, 400, apperr.Status(err))

	in = checkoutInput(1)
	in.Address = "   "
	_, err = services.Checkout(context.Background(), store, in)
	assert.Equal(t, 400, apperr.Status(err))
}

func TestCheckoutClientTotalOverridesComputed(t *testing.T) {
	store := testutil.NewStore(t)
	p := testutil.Product(t, store, "Cap")
	v := testutil.Variant(t, store, p.ID, "10", 10)
	cart := testutil.SessionCart(t, store, map[int64]int{v.ID: 1})

	in := checkoutInput(cart.ID)
	total := decimal.RequireFromString("7.5")
	in.Total = &total

	res, err := services.Checkout(context.Background(), store, in)
	require.NoError(t, err)
	assert.True(t, res.Order.Total.Equal(total), res.Order.Total.String())
}

func TestCheckoutFractionalPricesSumExactly(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	p := testutil.Product(t, store, "Socks")
	a := testutil.Variant(t, store, p.ID, "19.99", 5)
	b := testutil.Variant(t, store, p.ID, "0.10", 10)
	c := testutil.Variant(t, store, p.ID, "4.45", 1)
	cart := testutil.SessionCart(t, store, map[int64]int{a.ID: 3, b.ID: 7, c.ID: 1})

	res, err := services.Checkout(ctx, store, checkoutInput(cart.ID))
	require.NoError(t, err)

	want := decimal.RequireFromString("65.12")
	assert.True(t, res.Order.Total.Equal(want), res.Order.Total.String())
	require.Len(t, res.OrderDetails, 3)

	stored, err := database.GetOrder(ctx, store.DB(), res.Order.ID)
	require.NoError(t, err)
	assert.True(t, stored.Total.Equal(want), stored.Total.String())

	details, err := database.OrderDetails(ctx, store.DB(), res.Order.ID)
	require.NoError(t, err)
	require.Len(t, details, 3)
	sum := decimal.Zero
	for _, d := range details {
		sum = sum.Add(d.LineTotal())
	}
	assert.True(t, sum.Equal(stored.Total), sum.String())

	product, err := database.GetProduct(ctx, store.DB(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 11, product.TotalSold)
}

func TestCheckoutDetailsCarryVariantName(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	p := testutil.Product(t, store, "Hat")
	v := testutil.Variant(t, store, p.ID, "12.50", 3)
	cart := testutil.SessionCart(t, store, map[int64]int{v.ID: 1})

	res, err := services.Checkout(ctx, store, checkoutInput(cart.ID))
	require.NoError(t, err)
	require.Len(t, res.OrderDetails, 1)

	loaded, err := database.GetProductVariantValue(ctx, store.DB(), v.ID)
	require.NoError(t, err)
	require.NotEmpty(t, loaded.Name)

	d := res.OrderDetails[0]
	require.NotNil(t, d.ProductVariant)
	assert.Equal(t, v.ID, d.ProductVariant.ID)
	assert.Equal(t, loaded.Name, d.ProductVariant.Name)
	assert.Equal(t, 2, d.ProductVariant.Stock)

	html, err := utils.OrderConfirmationHTML(res.Order, res.OrderDetails)
	require.NoError(t, err)
	assert.Contains(t, html, loaded.Name)
	assert.NotContains(t, html, "Variant #")
}

func TestCheckoutRoundsClientTotal(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	p := testutil.Product(t, store, "Scarf")
	v := testutil.Variant(t, store, p.ID, "10", 10)
	cart := testutil.SessionCart(t, store, map[int64]int{v.ID: 1})

	in := checkoutInput(cart.ID)
	total := decimal.RequireFromString("7.555")
	in.Total = &total

	res, err := services.Checkout(ctx, store, in)
	require.NoError(t, err)
	want := decimal.RequireFromString("7.56")
	assert.True(t, res.Order.Total.Equal(want), res.Order.Total.String())

	stored, err := database.GetOrder(ctx, store.DB(), res.Order.ID)
	require.NoError(t, err)
	assert.True(t, stored.Total.Equal(want), stored.Total.String())
}

func TestCheckoutFieldErrorsNameTheField(t *testing.T) {
	in := services.CheckoutInput{Phone: "12ab", Address: "  "}
	_, err := services.Checkout(context.Background(), testutil.NewStore(t), in)
	require.Error(t, err)
	assert.Equal(t, 400, apperr.Status(err))
	assert.Contains(t, err.Error(), "cart_id is required")
	assert.Contains(t, err.Error(), "phone must contain only digits")
	assert.Contains(t, err.Error(), "address is required")
}
