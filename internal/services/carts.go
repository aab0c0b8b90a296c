package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/utils"
)

// NewSessionKeyword demande au serveur de générer l'identifiant de session invitée.
const NewSessionKeyword = "new"

type CartInput struct {
	UserID    *int64  `json:"user_id"`
	SessionID *string `json:"session_id"`
}

// CreateCart ouvre un panier pour exactement une identité (utilisateur XOR session).
func CreateCart(ctx context.Context, store *database.Store, in CartInput) (*models.Cart, error) {
	if in.SessionID != nil && strings.TrimSpace(*in.SessionID) == "" {
		in.SessionID = nil
	}
	if (in.UserID == nil) == (in.SessionID == nil) {
		return nil, apperr.Validation("exactly one of user_id or session_id must be provided")
	}
	if in.SessionID != nil && *in.SessionID == NewSessionKeyword {
		generated := uuid.NewString()
		in.SessionID = &generated
	}

	cart := &models.Cart{UserID: in.UserID, SessionID: in.SessionID}
	err := store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if in.UserID != nil {
			if _, err := database.GetUser(ctx, tx, *in.UserID); errors.Is(err, database.ErrNotFound) {
				return apperr.Validation("user %d does not exist", *in.UserID)
			} else if err != nil {
				return err
			}
		}
		if _, err := database.FindCartByOwner(ctx, tx, in.UserID, in.SessionID); err == nil {
			return apperr.Conflict("a cart already exists for this user or session")
		} else if !errors.Is(err, database.ErrNotFound) {
			return err
		}
		return database.InsertCart(ctx, tx, cart)
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// GetCartDetail renvoie le panier avec ses articles, leur SKU et le nom du produit.
func GetCartDetail(ctx context.Context, q sqlx.ExtContext, id int64) (*models.Cart, error) {
	cart, err := database.GetCart(ctx, q, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFound("cart %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	items, err := database.CartItems(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if cart.Items, err = attachCartVariants(ctx, q, items); err != nil {
		return nil, err
	}
	return cart, nil
}

// attachCartVariants complète chaque article avec son SKU et le nom du produit.
func attachCartVariants(ctx context.Context, q sqlx.ExtContext, items []models.CartItem) ([]models.CartItem, error) {
	if len(items) == 0 {
		return []models.CartItem{}, nil
	}
	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ProductVariantID
	}
	variants, err := database.ProductVariantValuesByIDs(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]models.ProductVariantValue, len(variants))
	productIDs := make([]int64, 0, len(variants))
	for _, v := range variants {
		byID[v.ID] = v
		productIDs = append(productIDs, v.ProductID)
	}
	products, err := database.ProductsByIDs(ctx, q, productIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	for i := range items {
		if v, ok := byID[items[i].ProductVariantID]; ok {
			items[i].ProductVariant = &v
			items[i].ProductName = names[v.ProductID]
		}
	}
	return items, nil
}

func DeleteCart(ctx context.Context, store *database.Store, id int64) error {
	return store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := database.GetCart(ctx, tx, id); errors.Is(err, database.ErrNotFound) {
			return apperr.NotFound("cart %d not found", id)
		} else if err != nil {
			return err
		}
		return database.DeleteCart(ctx, tx, id)
	})
}

type CartItemInput struct {
	CartID           int64 `json:"cart_id" binding:"min=0"`
	ProductVariantID int64 `json:"product_variant_id" binding:"min=0"`
	Quantity         int   `json:"quantity" binding:"min=0"`
}

// CartItemOutcome décrit l'effet d'un upsert d'article.
type CartItemOutcome int

const (
	CartItemCreated CartItemOutcome = iota
	CartItemUpdated
	CartItemRemoved
)

// UpsertCartItem fixe la quantité d'un SKU dans un panier.
// Une quantité nulle retire l'article existant et est refusée pour un nouvel article.
func UpsertCartItem(ctx context.Context, store *database.Store, in CartItemInput) (*models.CartItem, CartItemOutcome, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, 0, err
	}

	var (
		item    *models.CartItem
		outcome CartItemOutcome
	)
	err := store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := database.GetCart(ctx, tx, in.CartID); errors.Is(err, database.ErrNotFound) {
			return apperr.Validation("cart %d does not exist", in.CartID)
		} else if err != nil {
			return err
		}
		variant, err := database.GetProductVariantValue(ctx, tx, in.ProductVariantID)
		if errors.Is(err, database.ErrNotFound) {
			return apperr.Validation("product variant %d does not exist", in.ProductVariantID)
		} else if err != nil {
			return err
		}

		existing, err := database.FindCartItem(ctx, tx, in.CartID, in.ProductVariantID)
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			return err
		}

		switch {
		case existing != nil && in.Quantity == 0:
			outcome = CartItemRemoved
			return database.DeleteCartItem(ctx, tx, existing.ID)
		case in.Quantity == 0:
			return apperr.Validation("cannot add an item with quantity 0")
		case in.Quantity > variant.Stock:
			return apperr.Validation("requested quantity exceeds stock, only %d left", variant.Stock)
		case existing != nil:
			existing.Quantity = in.Quantity
			item, outcome = existing, CartItemUpdated
			return database.UpdateCartItem(ctx, tx, existing)
		default:
			item = &models.CartItem{CartID: in.CartID, ProductVariantID: in.ProductVariantID, Quantity: in.Quantity}
			outcome = CartItemCreated
			return database.InsertCartItem(ctx, tx, item)
		}
	})
	if err != nil {
		return nil, 0, err
	}
	return item, outcome, nil
}

// UpdateCartItem modifie un article existant (administration).
func UpdateCartItem(ctx context.Context, store *database.Store, id int64, in CartItemInput) (*models.CartItem, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}
	if in.Quantity == 0 {
		return nil, apperr.Validation("quantity must be positive")
	}
	var item *models.CartItem
	err := store.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		item, err = database.GetCartItem(ctx, tx, id)
		if errors.Is(err, database.ErrNotFound) {
			return apperr.NotFound("cart item %d not found", id)
		} else if err != nil {
			return err
		}
		if in.ProductVariantID > 0 {
			item.ProductVariantID = in.ProductVariantID
		}
		variant, err := database.GetProductVariantValue(ctx, tx, item.ProductVariantID)
		if errors.Is(err, database.ErrNotFound) {
			return apperr.Validation("product variant %d does not exist", item.ProductVariantID)
		} else if err != nil {
			return err
		}
		if in.Quantity > variant.Stock {
			return apperr.Validation("requested quantity exceeds stock, only %d left", variant.Stock)
		}
		item.Quantity = in.Quantity
		return database.UpdateCartItem(ctx, tx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func DeleteCartItem(ctx context.Context, store *database.Store, id int64) error {
	return store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := database.GetCartItem(ctx, tx, id); errors.Is(err, database.ErrNotFound) {
			return apperr.NotFound("cart item %d not found", id)
		} else if err != nil {
			return err
		}
		return database.DeleteCartItem(ctx, tx, id)
	})
}
