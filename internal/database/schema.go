package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Les tables sont créées au démarrage si elles n'existent pas.
// {{pk}} est remplacé par la clé auto-incrémentée propre au driver.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id {{pk}},
		email TEXT UNIQUE,
		phone TEXT UNIQUE,
		password TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		role INTEGER NOT NULL DEFAULT 1,
		avatar TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		is_locked BOOLEAN NOT NULL DEFAULT FALSE,
		password_changed_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id {{pk}},
		name TEXT NOT NULL UNIQUE,
		image TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS brands (
		id {{pk}},
		name TEXT NOT NULL UNIQUE,
		image TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id {{pk}},
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		brand_id BIGINT NOT NULL REFERENCES brands(id),
		category_id BIGINT NOT NULL REFERENCES categories(id),
		stock INTEGER NOT NULL DEFAULT 0,
		total_ratings DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_sold INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS product_images (
		id {{pk}},
		product_id BIGINT NOT NULL REFERENCES products(id),
		image_url TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS attributes (
		id {{pk}},
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS product_attribute_values (
		id {{pk}},
		product_id BIGINT NOT NULL REFERENCES products(id),
		attribute_id BIGINT NOT NULL REFERENCES attributes(id),
		value TEXT NOT NULL,
		UNIQUE (product_id, attribute_id)
	)`,
	`CREATE TABLE IF NOT EXISTS variants (
		id {{pk}},
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS variant_values (
		id {{pk}},
		variant_id BIGINT NOT NULL REFERENCES variants(id),
		value TEXT NOT NULL,
		image TEXT,
		UNIQUE (variant_id, value)
	)`,
	`CREATE TABLE IF NOT EXISTS product_variant_values (
		id {{pk}},
		product_id BIGINT NOT NULL REFERENCES products(id),
		price NUMERIC(12,2) NOT NULL,
		old_price NUMERIC(12,2),
		stock INTEGER NOT NULL DEFAULT 0,
		sku TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS product_variant_value_options (
		product_variant_value_id BIGINT NOT NULL REFERENCES product_variant_values(id),
		position INTEGER NOT NULL,
		variant_value_id BIGINT NOT NULL REFERENCES variant_values(id),
		PRIMARY KEY (product_variant_value_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS carts (
		id {{pk}},
		user_id BIGINT UNIQUE REFERENCES users(id),
		session_id TEXT UNIQUE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		id {{pk}},
		cart_id BIGINT NOT NULL REFERENCES carts(id),
		product_variant_id BIGINT NOT NULL REFERENCES product_variant_values(id),
		quantity INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		UNIQUE (cart_id, product_variant_id)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id {{pk}},
		user_id BIGINT REFERENCES users(id),
		session_id TEXT,
		status INTEGER NOT NULL DEFAULT 1,
		total NUMERIC(10,2) NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL,
		address TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_details (
		id {{pk}},
		order_id BIGINT NOT NULL REFERENCES orders(id),
		product_variant_id BIGINT NOT NULL REFERENCES product_variant_values(id),
		price NUMERIC(12,2) NOT NULL,
		quantity INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS banners (
		id {{pk}},
		name TEXT NOT NULL UNIQUE,
		image TEXT NOT NULL DEFAULT '',
		status INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS banner_details (
		id {{pk}},
		banner_id BIGINT NOT NULL REFERENCES banners(id),
		product_id BIGINT NOT NULL REFERENCES products(id),
		UNIQUE (banner_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS news (
		id {{pk}},
		title TEXT NOT NULL,
		image TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS news_details (
		id {{pk}},
		news_id BIGINT NOT NULL REFERENCES news(id),
		product_id BIGINT NOT NULL REFERENCES products(id),
		UNIQUE (news_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS feedbacks (
		id {{pk}},
		product_id BIGINT NOT NULL REFERENCES products(id),
		user_id BIGINT NOT NULL REFERENCES users(id),
		star INTEGER NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pvv_product ON product_variant_values (product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_pvv_options_value ON product_variant_value_options (variant_value_id)`,
	`CREATE INDEX IF NOT EXISTS idx_order_details_variant ON order_details (product_variant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_session ON orders (session_id)`,
}

func primaryKey(driver string) string {
	if driver == "sqlite3" {
		return "INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	return "BIGSERIAL PRIMARY KEY"
}

// EnsureSchema crée les tables manquantes.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	pk := primaryKey(db.DriverName())
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, strings.ReplaceAll(stmt, "{{pk}}", pk)); err != nil {
			return fmt.Errorf("création du schéma: %w", err)
		}
	}
	return nil
}
