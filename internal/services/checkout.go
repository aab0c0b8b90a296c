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

// CheckoutInput est le corps de POST /carts/checkout.
type CheckoutInput struct {
	CartID  int64            `json:"cart_id" binding:"required,gt=0"`
	Total   *decimal.Decimal `json:"total"`
	Note    string           `json:"note"`
	Phone   string           `json:"phone" binding:"required,number,min=10,max=11"`
	Address string           `json:"address" binding:"required"`
}

func (in CheckoutInput) validate() error {
	if err := utils.ValidateStruct(in); err != nil {
		return err
	}
	if in.Total != nil && in.Total.IsNegative() {
		return apperr.Validation("total must not be negative")
	}
	return nil
}

type CheckoutResult struct {
	Order        models.Order         `json:"order"`
	OrderDetails []models.OrderDetail `json:"orderDetails"`

	// ProductIDs liste les produits dont le stock a bougé.
	ProductIDs []int64 `json:"-"`
}

// Checkout transforme un panier en commande dans une seule transaction :
// contrôle du stock, décrément, création de la commande et de ses lignes,
// suppression du panier. Toute erreur annule l'ensemble.
func Checkout(ctx context.Context, store *database.Store, in CheckoutInput) (*CheckoutResult, error) {
	in.Address = strings.TrimSpace(in.Address)
	if err := in.validate(); err != nil {
		return nil, err
	}

	var result *CheckoutResult
	err := store.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		result, err = checkoutTx(ctx, tx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func checkoutTx(ctx context.Context, q sqlx.ExtContext, in CheckoutInput) (*CheckoutResult, error) {
	cart, err := database.GetCart(ctx, q, in.CartID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.Validation("cart %d does not exist or is empty", in.CartID)
	}
	if err != nil {
		return nil, err
	}

	items, err := database.CartItems(ctx, q, cart.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperr.Validation("cart %d does not exist or is empty", in.CartID)
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductVariantID)
	}
	variants, err := database.ProductVariantValuesByIDs(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*models.ProductVariantValue, len(variants))
	for i := range variants {
		byID[variants[i].ID] = &variants[i]
	}

	computed := decimal.Zero
	sold := make(map[int64]int)
	var productIDs []int64
	for _, it := range items {
		v, ok := byID[it.ProductVariantID]
		if !ok {
			return nil, apperr.Validation("product variant %d in cart does not exist", it.ProductVariantID)
		}
		if it.Quantity > v.Stock {
			return nil, apperr.Validation("requested quantity %d of %s exceeds stock, remaining %d",
				it.Quantity, describeVariant(*v), v.Stock)
		}
		computed = computed.Add(v.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		v.Stock -= it.Quantity
		if err := database.UpdateVariantStock(ctx, q, v.ID, -it.Quantity); err != nil {
			return nil, err
		}
		if _, seen := sold[v.ProductID]; !seen {
			productIDs = append(productIDs, v.ProductID)
		}
		sold[v.ProductID] += it.Quantity
	}
	for _, productID := range productIDs {
		if err := database.AddProductSold(ctx, q, productID, sold[productID]); err != nil {
			return nil, err
		}
	}

	// Le total stocké a deux décimales.
	total := computed
	if in.Total != nil {
		total = in.Total.Round(2)
	}

	order := models.Order{
		UserID:    cart.UserID,
		SessionID: cart.SessionID,
		Status:    models.OrderPending,
		Total:     total,
		Note:      in.Note,
		Phone:     in.Phone,
		Address:   in.Address,
	}
	if err := database.InsertOrder(ctx, q, &order); err != nil {
		return nil, err
	}

	details := make([]models.OrderDetail, 0, len(items))
	for _, it := range items {
		variant := *byID[it.ProductVariantID]
		d := models.OrderDetail{
			OrderID:          order.ID,
			ProductVariantID: it.ProductVariantID,
			Price:            variant.Price,
			Quantity:         it.Quantity,
		}
		if err := database.InsertOrderDetail(ctx, q, &d); err != nil {
			return nil, err
		}
		d.ProductVariant = &variant
		details = append(details, d)
	}

	if err := database.DeleteCart(ctx, q, cart.ID); err != nil {
		return nil, err
	}

	return &CheckoutResult{Order: order, OrderDetails: details, ProductIDs: productIDs}, nil
}
