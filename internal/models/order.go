package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus int

const (
	OrderPending    OrderStatus = 1
	OrderProcessing OrderStatus = 2
	OrderShipped    OrderStatus = 3
	OrderCompleted  OrderStatus = 4
	OrderCancelled  OrderStatus = 5
	OrderRefunded   OrderStatus = 6
	OrderFailed     OrderStatus = 7
)

var orderStatusNames = map[OrderStatus]string{
	OrderPending:    "PENDING",
	OrderProcessing: "PROCESSING",
	OrderShipped:    "SHIPPED",
	OrderCompleted:  "COMPLETED",
	OrderCancelled:  "CANCELLED",
	OrderRefunded:   "REFUNDED",
	OrderFailed:     "FAILED",
}

func (s OrderStatus) Valid() bool {
	_, ok := orderStatusNames[s]
	return ok
}

func (s OrderStatus) String() string {
	if name, ok := orderStatusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

type Order struct {
	ID        int64           `json:"id" db:"id"`
	UserID    *int64          `json:"user_id" db:"user_id"`
	SessionID *string         `json:"session_id" db:"session_id"`
	Status    OrderStatus     `json:"status" db:"status"`
	Total     decimal.Decimal `json:"total" db:"total"`
	Note      string          `json:"note" db:"note"`
	Phone     string          `json:"phone" db:"phone"`
	Address   string          `json:"address" db:"address"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`

	Details []OrderDetail `json:"order_details,omitempty" db:"-"`
}

// OrderDetail fige le prix du SKU au moment de l'achat.
type OrderDetail struct {
	ID               int64           `json:"id" db:"id"`
	OrderID          int64           `json:"order_id" db:"order_id"`
	ProductVariantID int64           `json:"product_variant_id" db:"product_variant_id"`
	Price            decimal.Decimal `json:"price" db:"price"`
	Quantity         int             `json:"quantity" db:"quantity"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`

	ProductVariant *ProductVariantValue `json:"product_variant,omitempty" db:"-"`
}

// LineTotal = price × quantity.
func (d OrderDetail) LineTotal() decimal.Decimal {
	return d.Price.Mul(decimal.NewFromInt(int64(d.Quantity)))
}
