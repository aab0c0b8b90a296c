package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"storefront_back_end/internal/models"
)

const productColumns = "id, name, description, brand_id, category_id, stock, total_ratings, total_sold, created_at, updated_at"

// ProductFilter décrit les paramètres de GET /products.
type ProductFilter struct {
	Page       models.Page
	CategoryID int64
	BrandID    int64
	Search     string
	SortBy     string
	Order      string
}

var productSortColumns = map[string]string{
	"id":            "id",
	"name":          "name",
	"created_at":    "created_at",
	"createdAt":     "created_at",
	"total_sold":    "total_sold",
	"total_ratings": "total_ratings",
}

// orderBy n'accepte que des colonnes connues ; le reste retombe sur id ASC.
func (f ProductFilter) orderBy() string {
	col, ok := productSortColumns[f.SortBy]
	if !ok {
		col = "id"
	}
	dir := "ASC"
	if strings.EqualFold(f.Order, "DESC") {
		dir = "DESC"
	}
	return col + " " + dir
}

func GetProduct(ctx context.Context, q sqlx.ExtContext, id int64) (*models.Product, error) {
	var p models.Product
	if err := get(ctx, q, &p, "SELECT "+productColumns+" FROM products WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &p, nil
}

func ProductNameTaken(ctx context.Context, q sqlx.ExtContext, name string, excludeID int64) (bool, error) {
	return nameTaken(ctx, q, "products", name, excludeID)
}

func InsertProduct(ctx context.Context, q sqlx.ExtContext, p *models.Product) error {
	p.CreatedAt, p.UpdatedAt = now(), now()
	id, err := insert(ctx, q, `INSERT INTO products (name, description, brand_id, category_id, stock, total_ratings, total_sold, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Description, p.BrandID, p.CategoryID, p.Stock, p.TotalRatings, p.TotalSold, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	p.ID = id
	return nil
}

func UpdateProduct(ctx context.Context, q sqlx.ExtContext, p *models.Product) error {
	p.UpdatedAt = now()
	_, err := exec(ctx, q, `UPDATE products SET name = ?, description = ?, brand_id = ?, category_id = ?, stock = ?,
		total_ratings = ?, total_sold = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.Description, p.BrandID, p.CategoryID, p.Stock, p.TotalRatings, p.TotalSold, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

func DeleteProductRow(ctx context.Context, q sqlx.ExtContext, id int64) error {
	if _, err := exec(ctx, q, "DELETE FROM products WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func ListProducts(ctx context.Context, q sqlx.ExtContext, f ProductFilter) ([]models.Product, int, error) {
	var w where
	if f.CategoryID > 0 {
		w.add("category_id = ?", f.CategoryID)
	}
	if f.BrandID > 0 {
		w.add("brand_id = ?", f.BrandID)
	}
	if f.Search != "" {
		w.add("LOWER(name) LIKE ?", likePattern(f.Search))
	}

	total, err := count(ctx, q, "SELECT COUNT(*) FROM products"+w.String(), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var out []models.Product
	query := "SELECT " + productColumns + " FROM products" + w.String() + " ORDER BY " + f.orderBy() + " LIMIT ? OFFSET ?"
	args := append(append([]any{}, w.args...), f.Page.Size, f.Page.Offset())
	if err := selectAll(ctx, q, &out, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return out, total, nil
}

// SearchProductsByName est le repli SQL de la recherche Elasticsearch.
func SearchProductsByName(ctx context.Context, q sqlx.ExtContext, name string, limit int) ([]models.Product, error) {
	var out []models.Product
	err := selectAll(ctx, q, &out, "SELECT "+productColumns+" FROM products WHERE LOWER(name) LIKE ? ORDER BY id LIMIT ?",
		likePattern(name), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return out, nil
}

func ProductsByIDs(ctx context.Context, q sqlx.ExtContext, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []models.Product
	if err := selectIn(ctx, q, &out, "SELECT "+productColumns+" FROM products WHERE id IN (?)", ids); err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return out, nil
}

// RefreshProductRating recalcule la note moyenne depuis les feedbacks.
func RefreshProductRating(ctx context.Context, q sqlx.ExtContext, productID int64) error {
	_, err := exec(ctx, q, `UPDATE products SET total_ratings =
		COALESCE((SELECT AVG(star) FROM feedbacks WHERE product_id = ?), 0), updated_at = ? WHERE id = ?`,
		productID, now(), productID)
	if err != nil {
		return fmt.Errorf("failed to refresh rating: %w", err)
	}
	return nil
}

// AddProductSold incrémente total_sold après une commande.
func AddProductSold(ctx context.Context, q sqlx.ExtContext, productID int64, quantity int) error {
	_, err := exec(ctx, q, "UPDATE products SET total_sold = total_sold + ? WHERE id = ?", quantity, productID)
	return err
}

// --- Images produit ---

func ListProductImages(ctx context.Context, q sqlx.ExtContext, productID int64) ([]models.ProductImage, error) {
	var out []models.ProductImage
	var w where
	if productID > 0 {
		w.add("product_id = ?", productID)
	}
	if err := selectAll(ctx, q, &out, "SELECT id, product_id, image_url, created_at FROM product_images"+w.String()+" ORDER BY id", w.args...); err != nil {
		return nil, fmt.Errorf("failed to list product images: %w", err)
	}
	return out, nil
}

func GetProductImage(ctx context.Context, q sqlx.ExtContext, id int64) (*models.ProductImage, error) {
	var img models.ProductImage
	if err := get(ctx, q, &img, "SELECT id, product_id, image_url, created_at FROM product_images WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &img, nil
}

func InsertProductImage(ctx context.Context, q sqlx.ExtContext, img *models.ProductImage) error {
	img.CreatedAt = now()
	id, err := insert(ctx, q, "INSERT INTO product_images (product_id, image_url, created_at) VALUES (?, ?, ?)",
		img.ProductID, img.ImageURL, img.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert product image: %w", err)
	}
	img.ID = id
	return nil
}

func DeleteProductImage(ctx context.Context, q sqlx.ExtContext, id int64) error {
	_, err := exec(ctx, q, "DELETE FROM product_images WHERE id = ?", id)
	return err
}

func DeleteProductImages(ctx context.Context, q sqlx.ExtContext, productID int64) error {
	_, err := exec(ctx, q, "DELETE FROM product_images WHERE product_id = ?", productID)
	return err
}

// --- Attributs ---

func ProductAttributes(ctx context.Context, q sqlx.ExtContext, productID int64) ([]models.AttributeEntry, error) {
	var out []models.AttributeEntry
	err := selectAll(ctx, q, &out, `SELECT a.name, pav.value FROM product_attribute_values pav
		JOIN attributes a ON a.id = pav.attribute_id WHERE pav.product_id = ? ORDER BY pav.id`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attributes: %w", err)
	}
	return out, nil
}

// FindOrCreateAttribute renvoie l'id de l'attribut, en le créant si besoin.
func FindOrCreateAttribute(ctx context.Context, q sqlx.ExtContext, name string) (int64, error) {
	var id int64
	err := get(ctx, q, &id, "SELECT id FROM attributes WHERE name = ?", name)
	if err == nil {
		return id, nil
	}
	if err != ErrNotFound {
		return 0, fmt.Errorf("failed to find attribute %q: %w", name, err)
	}
	id, err = insert(ctx, q, "INSERT INTO attributes (name) VALUES (?)", name)
	if err != nil {
		return 0, fmt.Errorf("failed to create attribute %q: %w", name, err)
	}
	return id, nil
}

// UpsertProductAttributeValue garde une seule valeur par (produit, attribut).
func UpsertProductAttributeValue(ctx context.Context, q sqlx.ExtContext, productID, attributeID int64, value string) error {
	n, err := exec(ctx, q, "UPDATE product_attribute_values SET value = ? WHERE product_id = ? AND attribute_id = ?",
		value, productID, attributeID)
	if err != nil {
		return fmt.Errorf("failed to update attribute value: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := insert(ctx, q, "INSERT INTO product_attribute_values (product_id, attribute_id, value) VALUES (?, ?, ?)",
		productID, attributeID, value); err != nil {
		return fmt.Errorf("failed to insert attribute value: %w", err)
	}
	return nil
}

// SoleAttributeIDs renvoie les attributs du produit qui n'ont qu'une seule valeur
// au total, c'est-à-dire celle de ce produit.
func SoleAttributeIDs(ctx context.Context, q sqlx.ExtContext, productID int64) ([]int64, error) {
	var ids []int64
	err := selectAll(ctx, q, &ids, `SELECT pav.attribute_id FROM product_attribute_values pav
		WHERE pav.product_id = ?
		AND (SELECT COUNT(*) FROM product_attribute_values other WHERE other.attribute_id = pav.attribute_id) = 1`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to count attribute references: %w", err)
	}
	return ids, nil
}

func DeleteProductAttributeValues(ctx context.Context, q sqlx.ExtContext, productID int64) error {
	_, err := exec(ctx, q, "DELETE FROM product_attribute_values WHERE product_id = ?", productID)
	return err
}

func DeleteAttributes(ctx context.Context, q sqlx.ExtContext, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := execIn(ctx, q, "DELETE FROM attributes WHERE id IN (?)", ids)
	return err
}
