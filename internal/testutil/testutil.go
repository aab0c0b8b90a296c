// Package testutil monte une base SQLite en mémoire avec le schéma de production.
package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/sku"
)

// NewStore ouvre une base isolée par test. Une seule connexion : la base
// mémoire partagée disparaît avec elle.
func NewStore(t *testing.T) *database.Store {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1"
	db, err := sqlx.Open("sqlite3", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.EnsureSchema(context.Background(), db))
	return database.NewStore(db)
}

// Catalog crée une marque et une catégorie et renvoie leurs ids.
func Catalog(t *testing.T, store *database.Store) (brandID, categoryID int64) {
	t.Helper()
	ctx := context.Background()
	brand := &models.Brand{Name: "Brand " + uuid.NewString()[:8]}
	require.NoError(t, database.InsertBrand(ctx, store.DB(), brand))
	category := &models.Category{Name: "Category " + uuid.NewString()[:8]}
	require.NoError(t, database.InsertCategory(ctx, store.DB(), category))
	return brand.ID, category.ID
}

// Product insère un produit nu.
func Product(t *testing.T, store *database.Store, name string) *models.Product {
	t.Helper()
	brandID, categoryID := Catalog(t, store)
	p := &models.Product{Name: name, BrandID: brandID, CategoryID: categoryID}
	require.NoError(t, database.InsertProduct(context.Background(), store.DB(), p))
	return p
}

// Variant insère un SKU Color × Size avec des valeurs fraîches.
func Variant(t *testing.T, store *database.Store, productID int64, price string, stock int) *models.ProductVariantValue {
	t.Helper()
	ctx := context.Background()
	variantID, err := database.FindOrCreateVariant(ctx, store.DB(), "Color")
	require.NoError(t, err)
	colorID, err := database.FindOrCreateVariantValue(ctx, store.DB(), variantID, "c-"+uuid.NewString()[:8], nil)
	require.NoError(t, err)
	sizeVariantID, err := database.FindOrCreateVariant(ctx, store.DB(), "Size")
	require.NoError(t, err)
	sizeID, err := database.FindOrCreateVariantValue(ctx, store.DB(), sizeVariantID, "s-"+uuid.NewString()[:8], nil)
	require.NoError(t, err)

	v := &models.ProductVariantValue{
		ProductID: productID,
		Price:     decimal.RequireFromString(price),
		Stock:     stock,
	}
	require.NoError(t, database.InsertProductVariantValue(ctx, store.DB(), v, sku.Options{colorID, sizeID}))
	return v
}

// SessionCart crée un panier invité contenant les articles donnés (variant id → quantité).
func SessionCart(t *testing.T, store *database.Store, items map[int64]int) *models.Cart {
	t.Helper()
	ctx := context.Background()
	session := uuid.NewString()
	cart := &models.Cart{SessionID: &session}
	require.NoError(t, database.InsertCart(ctx, store.DB(), cart))
	for variantID, quantity := range items {
		it := &models.CartItem{CartID: cart.ID, ProductVariantID: variantID, Quantity: quantity}
		require.NoError(t, database.InsertCartItem(ctx, store.DB(), it))
	}
	return cart
}

// User insère un utilisateur avec le rôle donné.
func User(t *testing.T, store *database.Store, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Email: &email, Password: "x", Name: "Test", Role: role}
	require.NoError(t, database.InsertUser(context.Background(), store.DB(), u))
	return u
}
