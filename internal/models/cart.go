package models

import "time"

// Cart appartient soit à un utilisateur, soit à une session invitée, jamais aux deux.
type Cart struct {
	ID        int64     `json:"id" db:"id"`
	UserID    *int64    `json:"user_id" db:"user_id"`
	SessionID *string   `json:"session_id" db:"session_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Items []CartItem `json:"cart_items,omitempty" db:"-"`
}

type CartItem struct {
	ID               int64     `json:"id" db:"id"`
	CartID           int64     `json:"cart_id" db:"cart_id"`
	ProductVariantID int64     `json:"product_variant_id" db:"product_variant_id"`
	Quantity         int       `json:"quantity" db:"quantity"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`

	ProductVariant *ProductVariantValue `json:"product_variant,omitempty" db:"-"`
	ProductName    string               `json:"product_name,omitempty" db:"-"`
}
