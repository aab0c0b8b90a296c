package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"storefront_back_end/internal/models"
)

// Catégories et marques partagent la même forme : name unique + image.

func listNamed(ctx context.Context, q sqlx.ExtContext, table string, dest any, page models.Page, search string) (int, error) {
	var w where
	if search != "" {
		w.add("LOWER(name) LIKE ?", likePattern(search))
	}
	total, err := count(ctx, q, "SELECT COUNT(*) FROM "+table+w.String(), w.args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	query := "SELECT id, name, image, created_at, updated_at FROM " + table + w.String() + " ORDER BY id LIMIT ? OFFSET ?"
	args := append(append([]any{}, w.args...), page.Size, page.Offset())
	if err := selectAll(ctx, q, dest, query, args...); err != nil {
		return 0, fmt.Errorf("failed to list %s: %w", table, err)
	}
	return total, nil
}

func nameTaken(ctx context.Context, q sqlx.ExtContext, table, name string, excludeID int64) (bool, error) {
	n, err := count(ctx, q, "SELECT COUNT(*) FROM "+table+" WHERE name = ? AND id <> ?", name, excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check %s name: %w", table, err)
	}
	return n > 0, nil
}

func ListCategories(ctx context.Context, q sqlx.ExtContext, page models.Page, search string) ([]models.Category, int, error) {
	var out []models.Category
	total, err := listNamed(ctx, q, "categories", &out, page, search)
	return out, total, err
}

func GetCategory(ctx context.Context, q sqlx.ExtContext, id int64) (*models.Category, error) {
	var c models.Category
	if err := get(ctx, q, &c, "SELECT id, name, image, created_at, updated_at FROM categories WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &c, nil
}

func CategoryNameTaken(ctx context.Context, q sqlx.ExtContext, name string, excludeID int64) (bool, error) {
	return nameTaken(ctx, q, "categories", name, excludeID)
}

func InsertCategory(ctx context.Context, q sqlx.ExtContext, c *models.Category) error {
	c.CreatedAt, c.UpdatedAt = now(), now()
	id, err := insert(ctx, q, "INSERT INTO categories (name, image, created_at, updated_at) VALUES (?, ?, ?, ?)",
		c.Name, c.Image, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	c.ID = id
	return nil
}

func UpdateCategory(ctx context.Context, q sqlx.ExtContext, c *models.Category) error {
	c.UpdatedAt = now()
	if _, err := exec(ctx, q, "UPDATE categories SET name = ?, image = ?, updated_at = ? WHERE id = ?",
		c.Name, c.Image, c.UpdatedAt, c.ID); err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

func DeleteCategory(ctx context.Context, q sqlx.ExtContext, id int64) error {
	if _, err := exec(ctx, q, "DELETE FROM categories WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

func CountProductsInCategory(ctx context.Context, q sqlx.ExtContext, id int64) (int, error) {
	return count(ctx, q, "SELECT COUNT(*) FROM products WHERE category_id = ?", id)
}

func ProductIDsInCategory(ctx context.Context, q sqlx.ExtContext, id int64) ([]int64, error) {
	var ids []int64
	if err := selectAll(ctx, q, &ids, "SELECT id FROM products WHERE category_id = ? ORDER BY id", id); err != nil {
		return nil, fmt.Errorf("failed to list products of category: %w", err)
	}
	return ids, nil
}

func ListBrands(ctx context.Context, q sqlx.ExtContext, page models.Page, search string) ([]models.Brand, int, error) {
	var out []models.Brand
	total, err := listNamed(ctx, q, "brands", &out, page, search)
	return out, total, err
}

func GetBrand(ctx context.Context, q sqlx.ExtContext, id int64) (*models.Brand, error) {
	var b models.Brand
	if err := get(ctx, q, &b, "SELECT id, name, image, created_at, updated_at FROM brands WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &b, nil
}

func BrandNameTaken(ctx context.Context, q sqlx.ExtContext, name string, excludeID int64) (bool, error) {
	return nameTaken(ctx, q, "brands", name, excludeID)
}

func InsertBrand(ctx context.Context, q sqlx.ExtContext, b *models.Brand) error {
	b.CreatedAt, b.UpdatedAt = now(), now()
	id, err := insert(ctx, q, "INSERT INTO brands (name, image, created_at, updated_at) VALUES (?, ?, ?, ?)",
		b.Name, b.Image, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert brand: %w", err)
	}
	b.ID = id
	return nil
}

func UpdateBrand(ctx context.Context, q sqlx.ExtContext, b *models.Brand) error {
	b.UpdatedAt = now()
	if _, err := exec(ctx, q, "UPDATE brands SET name = ?, image = ?, updated_at = ? WHERE id = ?",
		b.Name, b.Image, b.UpdatedAt, b.ID); err != nil {
		return fmt.Errorf("failed to update brand: %w", err)
	}
	return nil
}

func DeleteBrand(ctx context.Context, q sqlx.ExtContext, id int64) error {
	if _, err := exec(ctx, q, "DELETE FROM brands WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete brand: %w", err)
	}
	return nil
}

func CountProductsOfBrand(ctx context.Context, q sqlx.ExtContext, id int64) (int, error) {
	return count(ctx, q, "SELECT COUNT(*) FROM products WHERE brand_id = ?", id)
}

func ProductIDsOfBrand(ctx context.Context, q sqlx.ExtContext, id int64) ([]int64, error) {
	var ids []int64
	if err := selectAll(ctx, q, &ids, "SELECT id FROM products WHERE brand_id = ? ORDER BY id", id); err != nil {
		return nil, fmt.Errorf("failed to list products of brand: %w", err)
	}
	return ids, nil
}
