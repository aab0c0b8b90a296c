package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"storefront_back_end/internal/models"
)

const (
	orderColumns       = "id, user_id, session_id, status, total, note, phone, address, created_at, updated_at"
	orderDetailColumns = "id, order_id, product_variant_id, price, quantity, created_at, updated_at"
)

func InsertOrder(ctx context.Context, q sqlx.ExtContext, o *models.Order) error {
	o.CreatedAt, o.UpdatedAt = now(), now()
	id, err := insert(ctx, q, `INSERT INTO orders (user_id, session_id, status, total, note, phone, address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.UserID, o.SessionID, o.Status, o.Total, o.Note, o.Phone, o.Address, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	o.ID = id
	return nil
}

func GetOrder(ctx context.Context, q sqlx.ExtContext, id int64) (*models.Order, error) {
	var o models.Order
	if err := get(ctx, q, &o, "SELECT "+orderColumns+" FROM orders WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &o, nil
}

func ListOrders(ctx context.Context, q sqlx.ExtContext, f CartFilter) ([]models.Order, int, error) {
	w := f.where()
	total, err := count(ctx, q, "SELECT COUNT(*) FROM orders"+w.String(), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}
	var out []models.Order
	args := append(append([]any{}, w.args...), f.Page.Size, f.Page.Offset())
	if err := selectAll(ctx, q, &out, "SELECT "+orderColumns+" FROM orders"+w.String()+" ORDER BY id DESC LIMIT ? OFFSET ?", args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return out, total, nil
}

func UpdateOrder(ctx context.Context, q sqlx.ExtContext, o *models.Order) error {
	o.UpdatedAt = now()
	_, err := exec(ctx, q, "UPDATE orders SET status = ?, total = ?, note = ?, phone = ?, address = ?, updated_at = ? WHERE id = ?",
		o.Status, o.Total, o.Note, o.Phone, o.Address, o.UpdatedAt, o.ID)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	return nil
}

func CountOrdersOfUser(ctx context.Context, q sqlx.ExtContext, userID int64) (int, error) {
	return count(ctx, q, "SELECT COUNT(*) FROM orders WHERE user_id = ?", userID)
}

// --- Lignes de commande ---

func InsertOrderDetail(ctx context.Context, q sqlx.ExtContext, d *models.OrderDetail) error {
	d.CreatedAt, d.UpdatedAt = now(), now()
	id, err := insert(ctx, q, `INSERT INTO order_details (order_id, product_variant_id, price, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		d.OrderID, d.ProductVariantID, d.Price, d.Quantity, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order detail: %w", err)
	}
	d.ID = id
	return nil
}

func OrderDetails(ctx context.Context, q sqlx.ExtContext, orderID int64) ([]models.OrderDetail, error) {
	var out []models.OrderDetail
	if err := selectAll(ctx, q, &out, "SELECT "+orderDetailColumns+" FROM order_details WHERE order_id = ? ORDER BY id", orderID); err != nil {
		return nil, fmt.Errorf("failed to load order details: %w", err)
	}
	return out, nil
}

func ListOrderDetails(ctx context.Context, q sqlx.ExtContext, page models.Page, orderID int64) ([]models.OrderDetail, int, error) {
	var w where
	if orderID > 0 {
		w.add("order_id = ?", orderID)
	}
	total, err := count(ctx, q, "SELECT COUNT(*) FROM order_details"+w.String(), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count order details: %w", err)
	}
	var out []models.OrderDetail
	args := append(append([]any{}, w.args...), page.Size, page.Offset())
	if err := selectAll(ctx, q, &out, "SELECT "+orderDetailColumns+" FROM order_details"+w.String()+" ORDER BY id LIMIT ? OFFSET ?", args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list order details: %w", err)
	}
	return out, total, nil
}

func GetOrderDetail(ctx context.Context, q sqlx.ExtContext, id int64) (*models.OrderDetail, error) {
	var d models.OrderDetail
	if err := get(ctx, q, &d, "SELECT "+orderDetailColumns+" FROM order_details WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &d, nil
}

func UpdateOrderDetail(ctx context.Context, q sqlx.ExtContext, d *models.OrderDetail) error {
	d.UpdatedAt = now()
	_, err := exec(ctx, q, "UPDATE order_details SET product_variant_id = ?, price = ?, quantity = ?, updated_at = ? WHERE id = ?",
		d.ProductVariantID, d.Price, d.Quantity, d.UpdatedAt, d.ID)
	if err != nil {
		return fmt.Errorf("failed to update order detail: %w", err)
	}
	return nil
}

func DeleteOrderDetail(ctx context.Context, q sqlx.ExtContext, id int64) error {
	if _, err := exec(ctx, q, "DELETE FROM order_details WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete order detail: %w", err)
	}
	return nil
}
