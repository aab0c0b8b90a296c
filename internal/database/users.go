package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"storefront_back_end/internal/models"
)

const userColumns = "id, email, phone, password, name, role, avatar, address, is_locked, password_changed_at, created_at, updated_at"

func GetUser(ctx context.Context, q sqlx.ExtContext, id int64) (*models.User, error) {
	var u models.User
	if err := get(ctx, q, &u, "SELECT "+userColumns+" FROM users WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &u, nil
}

func FindUserByEmail(ctx context.Context, q sqlx.ExtContext, email string) (*models.User, error) {
	var u models.User
	if err := get(ctx, q, &u, "SELECT "+userColumns+" FROM users WHERE email = ?", email); err != nil {
		return nil, err
	}
	return &u, nil
}

func FindUserByPhone(ctx context.Context, q sqlx.ExtContext, phone string) (*models.User, error) {
	var u models.User
	if err := get(ctx, q, &u, "SELECT "+userColumns+" FROM users WHERE phone = ?", phone); err != nil {
		return nil, err
	}
	return &u, nil
}

// ContactTaken vérifie l'unicité d'un email ou d'un téléphone (column = "email" | "phone").
func ContactTaken(ctx context.Context, q sqlx.ExtContext, column, value string, excludeID int64) (bool, error) {
	if column != "email" && column != "phone" {
		return false, fmt.Errorf("unknown contact column %q", column)
	}
	n, err := count(ctx, q, "SELECT COUNT(*) FROM users WHERE "+column+" = ? AND id <> ?", value, excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", column, err)
	}
	return n > 0, nil
}

func ListUsers(ctx context.Context, q sqlx.ExtContext, page models.Page, search string) ([]models.User, int, error) {
	var w where
	if search != "" {
		p := likePattern(search)
		w.add("(LOWER(name) LIKE ? OR LOWER(COALESCE(email, '')) LIKE ?)", p, p)
	}
	total, err := count(ctx, q, "SELECT COUNT(*) FROM users"+w.String(), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}
	var out []models.User
	args := append(append([]any{}, w.args...), page.Size, page.Offset())
	if err := selectAll(ctx, q, &out, "SELECT "+userColumns+" FROM users"+w.String()+" ORDER BY id LIMIT ? OFFSET ?", args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return out, total, nil
}

func InsertUser(ctx context.Context, q sqlx.ExtContext, u *models.User) error {
	u.CreatedAt, u.UpdatedAt = now(), now()
	if u.Role == 0 {
		u.Role = models.RoleUser
	}
	id, err := insert(ctx, q, `INSERT INTO users (email, phone, password, name, role, avatar, address, is_locked, password_changed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Email, u.Phone, u.Password, u.Name, u.Role, u.Avatar, u.Address, u.IsLocked, u.PasswordChangedAt, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	u.ID = id
	return nil
}

func UpdateUser(ctx context.Context, q sqlx.ExtContext, u *models.User) error {
	u.UpdatedAt = now()
	_, err := exec(ctx, q, `UPDATE users SET email = ?, phone = ?, password = ?, name = ?, role = ?, avatar = ?, address = ?,
		is_locked = ?, password_changed_at = ?, updated_at = ? WHERE id = ?`,
		u.Email, u.Phone, u.Password, u.Name, u.Role, u.Avatar, u.Address, u.IsLocked, u.PasswordChangedAt, u.UpdatedAt, u.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// DeleteUser retire aussi le panier de l'utilisateur.
func DeleteUser(ctx context.Context, q sqlx.ExtContext, id int64) error {
	if cart, err := FindCartByOwner(ctx, q, &id, nil); err == nil {
		if err := DeleteCart(ctx, q, cart.ID); err != nil {
			return err
		}
	} else if err != ErrNotFound {
		return err
	}
	if _, err := exec(ctx, q, "DELETE FROM feedbacks WHERE user_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete feedbacks of user: %w", err)
	}
	if _, err := exec(ctx, q, "DELETE FROM users WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
