package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
)

type ProductImageInput struct {
	ProductID int64  `json:"product_id"`
	ImageURL  string `json:"image_url"`
}

func GetProductImage(ctx context.Context, q sqlx.ExtContext, id int64) (*models.ProductImage, error) {
	img, err := database.GetProductImage(ctx, q, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFound("product image %d not found", id)
	}
	return img, err
}

func CreateProductImage(ctx context.Context, store *database.Store, in ProductImageInput) (*models.ProductImage, error) {
	if strings.TrimSpace(in.ImageURL) == "" {
		return nil, apperr.Validation("image_url is required")
	}
	img := &models.ProductImage{ProductID: in.ProductID, ImageURL: strings.TrimSpace(in.ImageURL)}
	err := store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireProduct(ctx, tx, in.ProductID); err != nil {
			return err
		}
		return database.InsertProductImage(ctx, tx, img)
	})
	if err != nil {
		return nil, err
	}
	return img, nil
}

// DeleteProductImage renvoie l'image supprimée pour que l'appelant invalide le cache produit.
func DeleteProductImage(ctx context.Context, store *database.Store, id int64) (*models.ProductImage, error) {
	var img *models.ProductImage
	err := store.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		if img, err = GetProductImage(ctx, tx, id); err != nil {
			return err
		}
		return database.DeleteProductImage(ctx, tx, id)
	})
	if err != nil {
		return nil, err
	}
	return img, nil
}
