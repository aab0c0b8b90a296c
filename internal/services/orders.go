package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/utils"
)

// GetOrderDetail renvoie la commande avec ses lignes et le libellé de chaque SKU.
func GetOrderDetail(ctx context.Context, q sqlx.ExtContext, id int64) (*models.Order, error) {
	order, err := database.GetOrder(ctx, q, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFound("order %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	details, err := database.OrderDetails(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if order.Details, err = attachOrderVariants(ctx, q, details); err != nil {
		return nil, err
	}
	return order, nil
}

func attachOrderVariants(ctx context.Context, q sqlx.ExtContext, details []models.OrderDetail) ([]models.OrderDetail, error) {
	if len(details) == 0 {
		return []models.OrderDetail{}, nil
	}
	ids := make([]int64, len(details))
	for i, d := range details {
		ids[i] = d.ProductVariantID
	}
	variants, err := database.ProductVariantValuesByIDs(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]models.ProductVariantValue, len(variants))
	for _, v := range variants {
		byID[v.ID] = v
	}
	for i := range details {
		if v, ok := byID[details[i].ProductVariantID]; ok {
			details[i].ProductVariant = &v
		}
	}
	return details, nil
}

// OrderUpdate est le corps de PUT /orders/:id.
type OrderUpdate struct {
	Status  *models.OrderStatus `json:"status"`
	Total   *decimal.Decimal    `json:"total"`
	Note    *string             `json:"note"`
	Phone   *string             `json:"phone" binding:"omitempty,number,min=10,max=11"`
	Address *string             `json:"address"`
}

// UpdateOrder applique une modification administrative. Le booléen indique un changement de statut.
func UpdateOrder(ctx context.Context, store *database.Store, id int64, in OrderUpdate) (*models.Order, bool, error) {
	if in.Status != nil && !in.Status.Valid() {
		return nil, false, apperr.Validation("invalid order status %d", int(*in.Status))
	}
	if err := utils.ValidateStruct(in); err != nil {
		return nil, false, err
	}
	if in.Address != nil && strings.TrimSpace(*in.Address) == "" {
		return nil, false, apperr.Validation("address must not be empty")
	}
	if in.Total != nil && in.Total.IsNegative() {
		return nil, false, apperr.Validation("total must not be negative")
	}

	var (
		order         *models.Order
		statusChanged bool
	)
	err := store.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		order, err = database.GetOrder(ctx, tx, id)
		if errors.Is(err, database.ErrNotFound) {
			return apperr.NotFound("order %d not found", id)
		} else if err != nil {
			return err
		}
		if in.Status != nil && *in.Status != order.Status {
			order.Status = *in.Status
			statusChanged = true
		}
		if in.Total != nil {
			order.Total = *in.Total
		}
		if in.Note != nil {
			order.Note = *in.Note
		}
		if in.Phone != nil {
			order.Phone = *in.Phone
		}
		if in.Address != nil {
			order.Address = strings.TrimSpace(*in.Address)
		}
		return database.UpdateOrder(ctx, tx, order)
	})
	if err != nil {
		return nil, false, err
	}
	return order, statusChanged, nil
}

// CancelOrder est la suppression logique : la commande passe en FAILED.
func CancelOrder(ctx context.Context, store *database.Store, id int64) (*models.Order, error) {
	failed := models.OrderFailed
	order, _, err := UpdateOrder(ctx, store, id, OrderUpdate{Status: &failed})
	return order, err
}

type OrderDetailInput struct {
	OrderID          int64            `json:"order_id" binding:"min=0"`
	ProductVariantID int64            `json:"product_variant_id" binding:"min=0"`
	Price            *decimal.Decimal `json:"price"`
	Quantity         int              `json:"quantity" binding:"min=0"`
}

// CreateOrderDetail ajoute une ligne ; sans prix, celui du SKU est figé.
func CreateOrderDetail(ctx context.Context, store *database.Store, in OrderDetailInput) (*models.OrderDetail, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}
	if in.Quantity == 0 {
		return nil, apperr.Validation("quantity must be positive")
	}
	d := &models.OrderDetail{OrderID: in.OrderID, ProductVariantID: in.ProductVariantID, Quantity: in.Quantity}
	err := store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := database.GetOrder(ctx, tx, in.OrderID); errors.Is(err, database.ErrNotFound) {
			return apperr.Validation("order %d does not exist", in.OrderID)
		} else if err != nil {
			return err
		}
		variant, err := database.GetProductVariantValue(ctx, tx, in.ProductVariantID)
		if errors.Is(err, database.ErrNotFound) {
			return apperr.Validation("product variant %d does not exist", in.ProductVariantID)
		} else if err != nil {
			return err
		}
		d.Price = variant.Price
		if in.Price != nil {
			d.Price = *in.Price
		}
		return database.InsertOrderDetail(ctx, tx, d)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func UpdateOrderDetail(ctx context.Context, store *database.Store, id int64, in OrderDetailInput) (*models.OrderDetail, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}
	var d *models.OrderDetail
	err := store.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		d, err = database.GetOrderDetail(ctx, tx, id)
		if errors.Is(err, database.ErrNotFound) {
			return apperr.NotFound("order detail %d not found", id)
		} else if err != nil {
			return err
		}
		if in.ProductVariantID > 0 && in.ProductVariantID != d.ProductVariantID {
			if _, err := database.GetProductVariantValue(ctx, tx, in.ProductVariantID); errors.Is(err, database.ErrNotFound) {
				return apperr.Validation("product variant %d does not exist", in.ProductVariantID)
			} else if err != nil {
				return err
			}
			d.ProductVariantID = in.ProductVariantID
		}
		if in.Quantity > 0 {
			d.Quantity = in.Quantity
		}
		if in.Price != nil {
			d.Price = *in.Price
		}
		return database.UpdateOrderDetail(ctx, tx, d)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func DeleteOrderDetail(ctx context.Context, store *database.Store, id int64) error {
	return store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := database.GetOrderDetail(ctx, tx, id); errors.Is(err, database.ErrNotFound) {
			return apperr.NotFound("order detail %d not found", id)
		} else if err != nil {
			return err
		}
		return database.DeleteOrderDetail(ctx, tx, id)
	})
}
