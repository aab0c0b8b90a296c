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

// ProductInput est le corps de POST /products et PUT /products/:id.
// Les champs nil ne sont pas modifiés lors d'une mise à jour.
type ProductInput struct {
	Name         *string                 `json:"name"`
	Description  *string                 `json:"description"`
	BrandID      *int64                  `json:"brand_id"`
	CategoryID   *int64                  `json:"category_id"`
	Stock        *int                    `json:"stock"`
	TotalRatings *float64                `json:"total_ratings"`
	TotalSold    *int                    `json:"total_sold"`
	Attributes   []models.AttributeEntry `json:"attributes"`
	VariantMatrix
}

// GetProductDetail assemble un produit avec ses relations.
func GetProductDetail(ctx context.Context, q sqlx.ExtContext, id int64) (*models.ProductDetail, error) {
	p, err := database.GetProduct(ctx, q, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFound("product %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return composeProduct(ctx, q, *p)
}

// ComposeProducts assemble une liste de produits.
func ComposeProducts(ctx context.Context, q sqlx.ExtContext, products []models.Product) ([]models.ProductDetail, error) {
	out := make([]models.ProductDetail, 0, len(products))
	for _, p := range products {
		d, err := composeProduct(ctx, q, p)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

func composeProduct(ctx context.Context, q sqlx.ExtContext, p models.Product) (*models.ProductDetail, error) {
	d := &models.ProductDetail{Product: p}

	if c, err := database.GetCategory(ctx, q, p.CategoryID); err == nil {
		d.Category = c
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}
	if b, err := database.GetBrand(ctx, q, p.BrandID); err == nil {
		d.Brand = b
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	var err error
	if d.Images, err = database.ListProductImages(ctx, q, p.ID); err != nil {
		return nil, err
	}
	if d.Attributes, err = database.ProductAttributes(ctx, q, p.ID); err != nil {
		return nil, err
	}
	if d.ProductVariantValues, err = database.ProductVariantValues(ctx, q, p.ID); err != nil {
		return nil, err
	}
	if d.Images == nil {
		d.Images = []models.ProductImage{}
	}
	if d.Attributes == nil {
		d.Attributes = []models.AttributeEntry{}
	}
	if d.ProductVariantValues == nil {
		d.ProductVariantValues = []models.ProductVariantValue{}
	}
	return d, nil
}

// CreateProduct crée le produit, ses attributs et sa matrice de variantes.
func CreateProduct(ctx context.Context, store *database.Store, in ProductInput) (*models.ProductDetail, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, apperr.Validation("name is required")
	}
	if in.BrandID == nil || in.CategoryID == nil {
		return nil, apperr.Validation("brand_id and category_id are required")
	}
	withVariants, err := in.VariantMatrix.Supplied()
	if err != nil {
		return nil, err
	}

	var p models.Product
	err = store.WithTx(ctx, func(tx *sqlx.Tx) error {
		applyProductFields(&p, in)
		if err := checkProductFields(ctx, tx, &p); err != nil {
			return err
		}
		if err := database.InsertProduct(ctx, tx, &p); err != nil {
			return err
		}
		if err := applyAttributes(ctx, tx, p.ID, in.Attributes); err != nil {
			return err
		}
		if withVariants {
			if _, err := ReplaceVariants(ctx, tx, p.ID, in.VariantMatrix); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return GetProductDetail(ctx, store.DB(), p.ID)
}

// UpdateProduct applique les champs fournis ; la matrice de variantes n'est
// remplacée que si product_variant_values est non vide.
func UpdateProduct(ctx context.Context, store *database.Store, id int64, in ProductInput) (*models.ProductDetail, error) {
	withVariants, err := in.VariantMatrix.Supplied()
	if err != nil {
		return nil, err
	}

	err = store.WithTx(ctx, func(tx *sqlx.Tx) error {
		p, err := database.GetProduct(ctx, tx, id)
		if errors.Is(err, database.ErrNotFound) {
			return apperr.NotFound("product %d not found", id)
		}
		if err != nil {
			return err
		}

		applyProductFields(p, in)
		if err := checkProductFields(ctx, tx, p); err != nil {
			return err
		}
		if err := database.UpdateProduct(ctx, tx, p); err != nil {
			return err
		}
		if len(in.Attributes) > 0 {
			if err := applyAttributes(ctx, tx, p.ID, in.Attributes); err != nil {
				return err
			}
		}
		if withVariants && len(in.ProductVariantValues) > 0 {
			if _, err := ReplaceVariants(ctx, tx, p.ID, in.VariantMatrix); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return GetProductDetail(ctx, store.DB(), id)
}

// DeleteProduct supprime un produit s'il n'est référencé nulle part.
func DeleteProduct(ctx context.Context, store *database.Store, id int64) error {
	return store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := database.GetProduct(ctx, tx, id); errors.Is(err, database.ErrNotFound) {
			return apperr.NotFound("product %d not found", id)
		} else if err != nil {
			return err
		}

		variantIDs, err := database.ProductVariantIDs(ctx, tx, id)
		if err != nil {
			return err
		}
		refs, err := database.ProductReferences(ctx, tx, id, variantIDs)
		if err != nil {
			return err
		}
		if blocking := blockingNames(refs); len(blocking) > 0 {
			return apperr.Validation("cannot delete product %d, it is referenced by: %s", id, strings.Join(blocking, ", "))
		}

		// Un attribut n'est supprimé que s'il n'avait qu'une seule valeur, celle de ce produit.
		sole, err := database.SoleAttributeIDs(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := database.DeleteProductAttributeValues(ctx, tx, id); err != nil {
			return err
		}
		if err := database.DeleteAttributes(ctx, tx, sole); err != nil {
			return err
		}

		if err := pruneProductVariants(ctx, tx, id); err != nil {
			return err
		}
		if err := database.DeleteProductImages(ctx, tx, id); err != nil {
			return err
		}
		return database.DeleteProductRow(ctx, tx, id)
	})
}

func applyProductFields(p *models.Product, in ProductInput) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.BrandID != nil {
		p.BrandID = *in.BrandID
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.TotalRatings != nil {
		p.TotalRatings = *in.TotalRatings
	}
	if in.TotalSold != nil {
		p.TotalSold = *in.TotalSold
	}
}

func checkProductFields(ctx context.Context, q sqlx.ExtContext, p *models.Product) error {
	if p.Name == "" {
		return apperr.Validation("name is required")
	}
	if p.Stock < 0 {
		return apperr.Validation("stock must not be negative")
	}
	taken, err := database.ProductNameTaken(ctx, q, p.Name, p.ID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Validation("product name %q already exists", p.Name)
	}
	if _, err := database.GetBrand(ctx, q, p.BrandID); errors.Is(err, database.ErrNotFound) {
		return apperr.Validation("brand %d does not exist", p.BrandID)
	} else if err != nil {
		return err
	}
	if _, err := database.GetCategory(ctx, q, p.CategoryID); errors.Is(err, database.ErrNotFound) {
		return apperr.Validation("category %d does not exist", p.CategoryID)
	} else if err != nil {
		return err
	}
	return nil
}

// applyAttributes crée les attributs manquants et fixe la valeur du produit.
// Les entrées sans nom ou sans valeur sont ignorées.
func applyAttributes(ctx context.Context, q sqlx.ExtContext, productID int64, attrs []models.AttributeEntry) error {
	for _, a := range attrs {
		name, value := strings.TrimSpace(a.Name), strings.TrimSpace(a.Value)
		if name == "" || value == "" {
			continue
		}
		attrID, err := database.FindOrCreateAttribute(ctx, q, name)
		if err != nil {
			return err
		}
		if err := database.UpsertProductAttributeValue(ctx, q, productID, attrID, value); err != nil {
			return err
		}
	}
	return nil
}
