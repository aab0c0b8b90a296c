package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/services"
	"storefront_back_end/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

func matrix(values map[string][]string, skus ...string) services.VariantMatrix {
	m := services.VariantMatrix{
		Variants:             []services.VariantDef{},
		VariantValues:        []services.VariantValueDef{},
		ProductVariantValues: []services.SKUDef{},
	}
	for _, variant := range []string{"Color", "Size"} {
		if _, ok := values[variant]; !ok {
			continue
		}
		m.Variants = append(m.Variants, services.VariantDef{Name: variant})
		for _, v := range values[variant] {
			m.VariantValues = append(m.VariantValues, services.VariantValueDef{VariantName: variant, Value: v})
		}
	}
	for _, s := range skus {
		m.ProductVariantValues = append(m.ProductVariantValues, services.SKUDef{Name: s, Price: decimal.NewFromInt(15), Stock: 3})
	}
	return m
}

func newProduct(t *testing.T, store *database.Store, name string, m services.VariantMatrix, attrs ...models.AttributeEntry) *models.ProductDetail {
	t.Helper()
	brandID, categoryID := testutil.Catalog(t, store)
	d, err := services.CreateProduct(context.Background(), store, services.ProductInput{
		Name:          ptr(name),
		BrandID:       ptr(brandID),
		CategoryID:    ptr(categoryID),
		Attributes:    attrs,
		VariantMatrix: m,
	})
	require.NoError(t, err)
	return d
}

func valueCount(t *testing.T, store *database.Store, value string) int {
	t.Helper()
	var n int
	require.NoError(t, store.DB().Get(&n, "SELECT COUNT(*) FROM variant_values WHERE value = ?", value))
	return n
}

func valueID(t *testing.T, store *database.Store, value string) int64 {
	t.Helper()
	var id int64
	require.NoError(t, store.DB().Get(&id, "SELECT id FROM variant_values WHERE value = ?", value))
	return id
}

func TestCreateProductComposesSKUs(t *testing.T) {
	store := testutil.NewStore(t)
	d := newProduct(t, store, "Hoodie",
		matrix(map[string][]string{"Color": {"Red", "Blue"}, "Size": {"L"}}, "Red L", "Blue L"),
		models.AttributeEntry{Name: "Material", Value: "Cotton"})

	require.Len(t, d.ProductVariantValues, 2)
	red := d.ProductVariantValues[0]
	assert.Equal(t, "Red L", red.Name)
	assert.Equal(t, fmt.Sprintf("%d-%d", valueID(t, store, "Red"), valueID(t, store, "L")), red.SKU)
	assert.True(t, red.Price.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, 3, red.Stock)
	assert.Equal(t, "Blue L", d.ProductVariantValues[1].Name)

	assert.Equal(t, []models.AttributeEntry{{Name: "Material", Value: "Cotton"}}, d.Attributes)
	require.NotNil(t, d.Brand)
	require.NotNil(t, d.Category)
	assert.Empty(t, d.Images)
}

func TestCreateProductTwoDimensionSKUs(t *testing.T) {
	store := testutil.NewStore(t)
	d := newProduct(t, store, "Jacket",
		matrix(map[string][]string{"Color": {"Red", "Blue"}, "Size": {"L", "M"}}, "Red L", "Blue M"))

	require.Len(t, d.ProductVariantValues, 2)
	assert.Equal(t, fmt.Sprintf("%d-%d", valueID(t, store, "Red"), valueID(t, store, "L")), d.ProductVariantValues[0].SKU)
	assert.Equal(t, fmt.Sprintf("%d-%d", valueID(t, store, "Blue"), valueID(t, store, "M")), d.ProductVariantValues[1].SKU)

	_, err := services.UpdateProduct(context.Background(), store, d.ID, services.ProductInput{
		VariantMatrix: matrix(map[string][]string{"Size": {"S", "XL"}}, "S XL"),
	})
	require.NoError(t, err)

	// Plus aucune valeur Color : la dimension elle-même disparaît.
	var colors int
	require.NoError(t, store.DB().Get(&colors, "SELECT COUNT(*) FROM variants WHERE name = 'Color'"))
	assert.Zero(t, colors)
}

func TestCreateProductRejectsPartialMatrix(t *testing.T) {
	store := testutil.NewStore(t)
	brandID, categoryID := testutil.Catalog(t, store)

	_, err := services.CreateProduct(context.Background(), store, services.ProductInput{
		Name:       ptr("Partial"),
		BrandID:    ptr(brandID),
		CategoryID: ptr(categoryID),
		VariantMatrix: services.VariantMatrix{
			Variants: []services.VariantDef{{Name: "Color"}},
		},
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperr.Status(err))
}

func TestCreateProductUnknownTokenRollsBack(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	brandID, categoryID := testutil.Catalog(t, store)

	_, err := services.CreateProduct(ctx, store, services.ProductInput{
		Name:          ptr("Ghost"),
		BrandID:       ptr(brandID),
		CategoryID:    ptr(categoryID),
		VariantMatrix: matrix(map[string][]string{"Color": {"Red"}, "Size": {"L"}}, "Purple L"),
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperr.Status(err))
	assert.Contains(t, err.Error(), `"Purple"`)

	taken, err := database.ProductNameTaken(ctx, store.DB(), "Ghost", 0)
	require.NoError(t, err)
	assert.False(t, taken)
	assert.Zero(t, valueCount(t, store, "Red"))
}

func TestCreateProductRejectsDuplicateName(t *testing.T) {
	store := testutil.NewStore(t)
	newProduct(t, store, "Twin", services.VariantMatrix{})
	brandID, categoryID := testutil.Catalog(t, store)

	_, err := services.CreateProduct(context.Background(), store, services.ProductInput{
		Name: ptr("Twin"), BrandID: ptr(brandID), CategoryID: ptr(categoryID),
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperr.Status(err))
}

func TestUpdateProductReplacesVariantsAndPrunesOrphans(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	a := newProduct(t, store, "A", matrix(map[string][]string{"Color": {"Red", "Blue"}, "Size": {"L"}}, "Red L", "Blue L"))
	newProduct(t, store, "B", matrix(map[string][]string{"Color": {"Red"}, "Size": {"M"}}, "Red M"))
	redID := valueID(t, store, "Red")

	d, err := services.UpdateProduct(ctx, store, a.ID, services.ProductInput{
		VariantMatrix: matrix(map[string][]string{"Color": {"Green"}, "Size": {"L"}}, "Green L"),
	})
	require.NoError(t, err)
	require.Len(t, d.ProductVariantValues, 1)
	assert.Equal(t, "Green L", d.ProductVariantValues[0].Name)

	// Blue n'était utilisé que par A ; Red reste pour B avec le même id.
	assert.Zero(t, valueCount(t, store, "Blue"))
	assert.Equal(t, 1, valueCount(t, store, "Red"))
	assert.Equal(t, redID, valueID(t, store, "Red"))

	var skus int
	require.NoError(t, store.DB().Get(&skus, "SELECT COUNT(*) FROM product_variant_values WHERE product_id = ?", a.ID))
	assert.Equal(t, 1, skus)
}

func TestUpdateProductKeepsVariantsWithoutSKUs(t *testing.T) {
	store := testutil.NewStore(t)
	a := newProduct(t, store, "Keep", matrix(map[string][]string{"Color": {"Red"}, "Size": {"L"}}, "Red L"))

	d, err := services.UpdateProduct(context.Background(), store, a.ID, services.ProductInput{
		Description: ptr("new"),
		VariantMatrix: services.VariantMatrix{
			Variants:             []services.VariantDef{},
			VariantValues:        []services.VariantValueDef{},
			ProductVariantValues: []services.SKUDef{},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "new", d.Description)
	require.Len(t, d.ProductVariantValues, 1)
	assert.Equal(t, a.ProductVariantValues[0].ID, d.ProductVariantValues[0].ID)
}

func TestUpdateProductVariantsBlockedWhenInCart(t *testing.T) {
	store := testutil.NewStore(t)
	a := newProduct(t, store, "Busy", matrix(map[string][]string{"Color": {"Red"}, "Size": {"L"}}, "Red L"))
	testutil.SessionCart(t, store, map[int64]int{a.ProductVariantValues[0].ID: 1})

	_, err := services.UpdateProduct(context.Background(), store, a.ID, services.ProductInput{
		VariantMatrix: matrix(map[string][]string{"Color": {"Blue"}, "Size": {"L"}}, "Blue L"),
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperr.Status(err))
	assert.Contains(t, err.Error(), "CartItem")
}

func TestUpdateProductNotFound(t *testing.T) {
	store := testutil.NewStore(t)
	_, err := services.UpdateProduct(context.Background(), store, 42, services.ProductInput{Description: ptr("x")})
	assert.Equal(t, 404, apperr.Status(err))
}

func TestDeleteProductBlockedByOrderDetail(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	a := newProduct(t, store, "Sold", matrix(map[string][]string{"Color": {"Red"}, "Size": {"L"}}, "Red L"))

	order := &models.Order{Status: models.OrderPending, Total: decimal.NewFromInt(15), Phone: "0123456789", Address: "x"}
	require.NoError(t, database.InsertOrder(ctx, store.DB(), order))
	require.NoError(t, database.InsertOrderDetail(ctx, store.DB(), &models.OrderDetail{
		OrderID: order.ID, ProductVariantID: a.ProductVariantValues[0].ID, Price: decimal.NewFromInt(15), Quantity: 1,
	}))

	err := services.DeleteProduct(ctx, store, a.ID)
	require.Error(t, err)
	assert.Equal(t, 400, apperr.Status(err))
	assert.Contains(t, err.Error(), "OrderDetail")

	_, err = database.GetProduct(ctx, store.DB(), a.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, valueCount(t, store, "Red"))
}

func TestDeleteProductCleansUp(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	a := newProduct(t, store, "Gone", matrix(map[string][]string{"Color": {"Red"}, "Size": {"L"}}, "Red L"),
		models.AttributeEntry{Name: "Material", Value: "Wool"},
		models.AttributeEntry{Name: "Origin", Value: "FR"})
	newProduct(t, store, "Stays", services.VariantMatrix{}, models.AttributeEntry{Name: "Origin", Value: "IT"})
	require.NoError(t, database.InsertProductImage(ctx, store.DB(), &models.ProductImage{ProductID: a.ID, ImageURL: "a.png"}))

	require.NoError(t, services.DeleteProduct(ctx, store, a.ID))

	_, err := database.GetProduct(ctx, store.DB(), a.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.Zero(t, valueCount(t, store, "Red"))

	var n int
	require.NoError(t, store.DB().Get(&n, "SELECT COUNT(*) FROM product_images"))
	assert.Zero(t, n)
	require.NoError(t, store.DB().Get(&n, "SELECT COUNT(*) FROM variants"))
	assert.Zero(t, n)

	// Material n'avait qu'une valeur : supprimé. Origin est encore utilisé.
	var names []string
	require.NoError(t, store.DB().Select(&names, "SELECT name FROM attributes ORDER BY name"))
	assert.Equal(t, []string{"Origin"}, names)
}

func TestDeleteProductNotFound(t *testing.T) {
	store := testutil.NewStore(t)
	err := services.DeleteProduct(context.Background(), store, 7)
	assert.Equal(t, 404, apperr.Status(err))
}
