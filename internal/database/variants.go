package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/sku"
)

const variantValueColumns = "id, product_id, price, old_price, stock, sku"

// ProductVariantValues renvoie les SKUs d'un produit avec leur libellé d'affichage.
func ProductVariantValues(ctx context.Context, q sqlx.ExtContext, productID int64) ([]models.ProductVariantValue, error) {
	var out []models.ProductVariantValue
	if err := selectAll(ctx, q, &out, "SELECT "+variantValueColumns+" FROM product_variant_values WHERE product_id = ? ORDER BY id", productID); err != nil {
		return nil, fmt.Errorf("failed to load product variants: %w", err)
	}
	if err := fillVariantNames(ctx, q, out); err != nil {
		return nil, err
	}
	return out, nil
}

func GetProductVariantValue(ctx context.Context, q sqlx.ExtContext, id int64) (*models.ProductVariantValue, error) {
	var v models.ProductVariantValue
	if err := get(ctx, q, &v, "SELECT "+variantValueColumns+" FROM product_variant_values WHERE id = ?", id); err != nil {
		return nil, err
	}
	one := []models.ProductVariantValue{v}
	if err := fillVariantNames(ctx, q, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// ProductVariantValuesByIDs charge plusieurs SKUs en une seule requête.
func ProductVariantValuesByIDs(ctx context.Context, q sqlx.ExtContext, ids []int64) ([]models.ProductVariantValue, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []models.ProductVariantValue
	if err := selectIn(ctx, q, &out, "SELECT "+variantValueColumns+" FROM product_variant_values WHERE id IN (?)", ids); err != nil {
		return nil, fmt.Errorf("failed to load product variants: %w", err)
	}
	if err := fillVariantNames(ctx, q, out); err != nil {
		return nil, err
	}
	return out, nil
}

// fillVariantNames reconstruit "Red L" depuis les options ordonnées.
func fillVariantNames(ctx context.Context, q sqlx.ExtContext, variants []models.ProductVariantValue) error {
	if len(variants) == 0 {
		return nil
	}
	ids := make([]int64, len(variants))
	for i, v := range variants {
		ids[i] = v.ID
	}

	var rows []struct {
		VariantID int64  `db:"product_variant_value_id"`
		Value     string `db:"value"`
	}
	err := selectIn(ctx, q, &rows, `SELECT o.product_variant_value_id, vv.value
		FROM product_variant_value_options o
		JOIN variant_values vv ON vv.id = o.variant_value_id
		WHERE o.product_variant_value_id IN (?)
		ORDER BY o.product_variant_value_id, o.position`, ids)
	if err != nil {
		return fmt.Errorf("failed to load variant names: %w", err)
	}

	names := make(map[int64][]string, len(variants))
	for _, r := range rows {
		names[r.VariantID] = append(names[r.VariantID], r.Value)
	}
	for i := range variants {
		variants[i].Name = strings.Join(names[variants[i].ID], " ")
	}
	return nil
}

// InsertProductVariantValue écrit le SKU et ses options.
func InsertProductVariantValue(ctx context.Context, q sqlx.ExtContext, v *models.ProductVariantValue, options sku.Options) error {
	v.SKU = options.String()
	id, err := insert(ctx, q, "INSERT INTO product_variant_values (product_id, price, old_price, stock, sku) VALUES (?, ?, ?, ?, ?)",
		v.ProductID, v.Price, v.OldPrice, v.Stock, v.SKU)
	if err != nil {
		return fmt.Errorf("failed to insert product variant: %w", err)
	}
	v.ID = id

	for pos, valueID := range options {
		if _, err := exec(ctx, q, "INSERT INTO product_variant_value_options (product_variant_value_id, position, variant_value_id) VALUES (?, ?, ?)",
			id, pos, valueID); err != nil {
			return fmt.Errorf("failed to insert variant option: %w", err)
		}
	}
	return nil
}

// UpdateVariantStock ajuste le stock d'un SKU de delta (négatif pour décrémenter).
func UpdateVariantStock(ctx context.Context, q sqlx.ExtContext, id int64, delta int) error {
	_, err := exec(ctx, q, "UPDATE product_variant_values SET stock = stock + ? WHERE id = ?", delta, id)
	if err != nil {
		return fmt.Errorf("failed to update stock of variant %d: %w", id, err)
	}
	return nil
}

func ProductVariantIDs(ctx context.Context, q sqlx.ExtContext, productID int64) ([]int64, error) {
	var ids []int64
	if err := selectAll(ctx, q, &ids, "SELECT id FROM product_variant_values WHERE product_id = ?", productID); err != nil {
		return nil, fmt.Errorf("failed to load variant ids: %w", err)
	}
	return ids, nil
}

// VariantValueIDsOfProduct renvoie les VariantValues utilisées par les SKUs du produit.
func VariantValueIDsOfProduct(ctx context.Context, q sqlx.ExtContext, productID int64) ([]int64, error) {
	var ids []int64
	err := selectAll(ctx, q, &ids, `SELECT DISTINCT o.variant_value_id
		FROM product_variant_value_options o
		JOIN product_variant_values pvv ON pvv.id = o.product_variant_value_id
		WHERE pvv.product_id = ?`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load variant values of product: %w", err)
	}
	return ids, nil
}

// VariantValueIDsUsedElsewhere filtre ids sur celles encore référencées par un autre produit.
func VariantValueIDsUsedElsewhere(ctx context.Context, q sqlx.ExtContext, productID int64, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var used []int64
	err := selectIn(ctx, q, &used, `SELECT DISTINCT o.variant_value_id
		FROM product_variant_value_options o
		JOIN product_variant_values pvv ON pvv.id = o.product_variant_value_id
		WHERE pvv.product_id <> ? AND o.variant_value_id IN (?)`, productID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count variant value references: %w", err)
	}
	return used, nil
}

// DeleteProductVariantValues supprime les SKUs d'un produit et leurs options.
func DeleteProductVariantValues(ctx context.Context, q sqlx.ExtContext, productID int64) error {
	if _, err := exec(ctx, q, `DELETE FROM product_variant_value_options WHERE product_variant_value_id IN
		(SELECT id FROM product_variant_values WHERE product_id = ?)`, productID); err != nil {
		return fmt.Errorf("failed to delete variant options: %w", err)
	}
	if _, err := exec(ctx, q, "DELETE FROM product_variant_values WHERE product_id = ?", productID); err != nil {
		return fmt.Errorf("failed to delete product variants: %w", err)
	}
	return nil
}

// DeleteVariantValues supprime les valeurs puis les Variants restés sans valeur.
func DeleteVariantValues(ctx context.Context, q sqlx.ExtContext, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	var parents []int64
	if err := selectIn(ctx, q, &parents, "SELECT DISTINCT variant_id FROM variant_values WHERE id IN (?)", ids); err != nil {
		return fmt.Errorf("failed to load parent variants: %w", err)
	}
	if _, err := execIn(ctx, q, "DELETE FROM variant_values WHERE id IN (?)", ids); err != nil {
		return fmt.Errorf("failed to delete variant values: %w", err)
	}
	if len(parents) == 0 {
		return nil
	}
	if _, err := execIn(ctx, q, `DELETE FROM variants WHERE id IN (?)
		AND NOT EXISTS (SELECT 1 FROM variant_values vv WHERE vv.variant_id = variants.id)`, parents); err != nil {
		return fmt.Errorf("failed to delete empty variants: %w", err)
	}
	return nil
}

func FindOrCreateVariant(ctx context.Context, q sqlx.ExtContext, name string) (int64, error) {
	var id int64
	err := get(ctx, q, &id, "SELECT id FROM variants WHERE name = ?", name)
	if err == nil {
		return id, nil
	}
	if err != ErrNotFound {
		return 0, fmt.Errorf("failed to find variant %q: %w", name, err)
	}
	id, err = insert(ctx, q, "INSERT INTO variants (name) VALUES (?)", name)
	if err != nil {
		return 0, fmt.Errorf("failed to create variant %q: %w", name, err)
	}
	return id, nil
}

// FindOrCreateVariantValue cherche (variant_id, value) ; l'image ne sert qu'à la création.
func FindOrCreateVariantValue(ctx context.Context, q sqlx.ExtContext, variantID int64, value string, image *string) (int64, error) {
	var id int64
	err := get(ctx, q, &id, "SELECT id FROM variant_values WHERE variant_id = ? AND value = ?", variantID, value)
	if err == nil {
		return id, nil
	}
	if err != ErrNotFound {
		return 0, fmt.Errorf("failed to find variant value %q: %w", value, err)
	}
	id, err = insert(ctx, q, "INSERT INTO variant_values (variant_id, value, image) VALUES (?, ?, ?)", variantID, value, image)
	if err != nil {
		return 0, fmt.Errorf("failed to create variant value %q: %w", value, err)
	}
	return id, nil
}
