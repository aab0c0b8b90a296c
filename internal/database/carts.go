package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"storefront_back_end/internal/models"
)

const (
	cartColumns     = "id, user_id, session_id, created_at, updated_at"
	cartItemColumns = "id, cart_id, product_variant_id, quantity, created_at, updated_at"
)

// CartFilter restreint une liste de paniers / commandes à une identité.
type CartFilter struct {
	Page      models.Page
	UserID    int64
	SessionID string
}

func (f CartFilter) where() *where {
	w := &where{}
	if f.UserID > 0 {
		w.add("user_id = ?", f.UserID)
	}
	if f.SessionID != "" {
		w.add("session_id = ?", f.SessionID)
	}
	return w
}

func ListCarts(ctx context.Context, q sqlx.ExtContext, f CartFilter) ([]models.Cart, int, error) {
	w := f.where()
	total, err := count(ctx, q, "SELECT COUNT(*) FROM carts"+w.String(), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count carts: %w", err)
	}
	var out []models.Cart
	args := append(append([]any{}, w.args...), f.Page.Size, f.Page.Offset())
	if err := selectAll(ctx, q, &out, "SELECT "+cartColumns+" FROM carts"+w.String()+" ORDER BY id LIMIT ? OFFSET ?", args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list carts: %w", err)
	}
	return out, total, nil
}

func GetCart(ctx context.Context, q sqlx.ExtContext, id int64) (*models.Cart, error) {
	var c models.Cart
	if err := get(ctx, q, &c, "SELECT "+cartColumns+" FROM carts WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindCartByOwner cherche le panier d'un utilisateur ou d'une session.
func FindCartByOwner(ctx context.Context, q sqlx.ExtContext, userID *int64, sessionID *string) (*models.Cart, error) {
	var c models.Cart
	var err error
	switch {
	case userID != nil:
		err = get(ctx, q, &c, "SELECT "+cartColumns+" FROM carts WHERE user_id = ?", *userID)
	case sessionID != nil:
		err = get(ctx, q, &c, "SELECT "+cartColumns+" FROM carts WHERE session_id = ?", *sessionID)
	default:
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func InsertCart(ctx context.Context, q sqlx.ExtContext, c *models.Cart) error {
	c.CreatedAt, c.UpdatedAt = now(), now()
	id, err := insert(ctx, q, "INSERT INTO carts (user_id, session_id, created_at, updated_at) VALUES (?, ?, ?, ?)",
		c.UserID, c.SessionID, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert cart: %w", err)
	}
	c.ID = id
	return nil
}

// DeleteCart supprime les articles puis le panier.
func DeleteCart(ctx context.Context, q sqlx.ExtContext, id int64) error {
	if err := DeleteCartItems(ctx, q, id); err != nil {
		return err
	}
	if _, err := exec(ctx, q, "DELETE FROM carts WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete cart %d: %w", id, err)
	}
	return nil
}

// --- Articles ---

func CartItems(ctx context.Context, q sqlx.ExtContext, cartID int64) ([]models.CartItem, error) {
	var out []models.CartItem
	if err := selectAll(ctx, q, &out, "SELECT "+cartItemColumns+" FROM cart_items WHERE cart_id = ? ORDER BY id", cartID); err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}
	return out, nil
}

func ListCartItems(ctx context.Context, q sqlx.ExtContext, page models.Page, cartID int64) ([]models.CartItem, int, error) {
	var w where
	if cartID > 0 {
		w.add("cart_id = ?", cartID)
	}
	total, err := count(ctx, q, "SELECT COUNT(*) FROM cart_items"+w.String(), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count cart items: %w", err)
	}
	var out []models.CartItem
	args := append(append([]any{}, w.args...), page.Size, page.Offset())
	if err := selectAll(ctx, q, &out, "SELECT "+cartItemColumns+" FROM cart_items"+w.String()+" ORDER BY id LIMIT ? OFFSET ?", args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list cart items: %w", err)
	}
	return out, total, nil
}

func GetCartItem(ctx context.Context, q sqlx.ExtContext, id int64) (*models.CartItem, error) {
	var it models.CartItem
	if err := get(ctx, q, &it, "SELECT "+cartItemColumns+" FROM cart_items WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &it, nil
}

func FindCartItem(ctx context.Context, q sqlx.ExtContext, cartID, variantID int64) (*models.CartItem, error) {
	var it models.CartItem
	if err := get(ctx, q, &it, "SELECT "+cartItemColumns+" FROM cart_items WHERE cart_id = ? AND product_variant_id = ?", cartID, variantID); err != nil {
		return nil, err
	}
	return &it, nil
}

func InsertCartItem(ctx context.Context, q sqlx.ExtContext, it *models.CartItem) error {
	it.CreatedAt, it.UpdatedAt = now(), now()
	id, err := insert(ctx, q, "INSERT INTO cart_items (cart_id, product_variant_id, quantity, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		it.CartID, it.ProductVariantID, it.Quantity, it.CreatedAt, it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert cart item: %w", err)
	}
	it.ID = id
	return nil
}

func UpdateCartItem(ctx context.Context, q sqlx.ExtContext, it *models.CartItem) error {
	it.UpdatedAt = now()
	if _, err := exec(ctx, q, "UPDATE cart_items SET product_variant_id = ?, quantity = ?, updated_at = ? WHERE id = ?",
		it.ProductVariantID, it.Quantity, it.UpdatedAt, it.ID); err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	return nil
}

func DeleteCartItem(ctx context.Context, q sqlx.ExtContext, id int64) error {
	if _, err := exec(ctx, q, "DELETE FROM cart_items WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return nil
}

func DeleteCartItems(ctx context.Context, q sqlx.ExtContext, cartID int64) error {
	if _, err := exec(ctx, q, "DELETE FROM cart_items WHERE cart_id = ?", cartID); err != nil {
		return fmt.Errorf("failed to delete items of cart %d: %w", cartID, err)
	}
	return nil
}
