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

// NamedInput est le corps commun des catégories et des marques.
type NamedInput struct {
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

// namedOps regroupe les accès propres à une table "name + image".
type namedOps struct {
	label     string
	nameTaken func(ctx context.Context, q sqlx.ExtContext, name string, excludeID int64) (bool, error)
	products  func(ctx context.Context, q sqlx.ExtContext, id int64) (int, error)
}

var (
	categoryOps = namedOps{label: "category", nameTaken: database.CategoryNameTaken, products: database.CountProductsInCategory}
	brandOps    = namedOps{label: "brand", nameTaken: database.BrandNameTaken, products: database.CountProductsOfBrand}
)

// apply recopie les champs fournis après contrôle d'unicité du nom.
func (ops namedOps) apply(ctx context.Context, q sqlx.ExtContext, id int64, name, image *string, in NamedInput) error {
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		if trimmed == "" {
			return apperr.Validation("%s name must not be empty", ops.label)
		}
		taken, err := ops.nameTaken(ctx, q, trimmed, id)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Validation("%s name %q already exists", ops.label, trimmed)
		}
		*name = trimmed
	}
	if in.Image != nil {
		*image = *in.Image
	}
	return nil
}

func (ops namedOps) checkUnused(ctx context.Context, q sqlx.ExtContext, id int64) error {
	n, err := ops.products(ctx, q, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperr.Validation("cannot delete %s %d, it is referenced by %d product(s)", ops.label, id, n)
	}
	return nil
}

func GetCategory(ctx context.Context, q sqlx.ExtContext, id int64) (*models.Category, error) {
	c, err := database.GetCategory(ctx, q, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFound("category %d not found", id)
	}
	return c, err
}

func CreateCategory(ctx context.Context, store *database.Store, in NamedInput) (*models.Category, error) {
	if in.Name == nil {
		return nil, apperr.Validation("name is required")
	}
	c := &models.Category{}
	err := store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := categoryOps.apply(ctx, tx, 0, &c.Name, &c.Image, in); err != nil {
			return err
		}
		return database.InsertCategory(ctx, tx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func UpdateCategory(ctx context.Context, store *database.Store, id int64, in NamedInput) (*models.Category, error) {
	var c *models.Category
	err := store.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		if c, err = GetCategory(ctx, tx, id); err != nil {
			return err
		}
		if err := categoryOps.apply(ctx, tx, id, &c.Name, &c.Image, in); err != nil {
			return err
		}
		return database.UpdateCategory(ctx, tx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func DeleteCategory(ctx context.Context, store *database.Store, id int64) error {
	return store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := GetCategory(ctx, tx, id); err != nil {
			return err
		}
		if err := categoryOps.checkUnused(ctx, tx, id); err != nil {
			return err
		}
		return database.DeleteCategory(ctx, tx, id)
	})
}

func GetBrand(ctx context.Context, q sqlx.ExtContext, id int64) (*models.Brand, error) {
	b, err := database.GetBrand(ctx, q, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFound("brand %d not found", id)
	}
	return b, err
}

func CreateBrand(ctx context.Context, store *database.Store, in NamedInput) (*models.Brand, error) {
	if in.Name == nil {
		return nil, apperr.Validation("name is required")
	}
	b := &models.Brand{}
	err := store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := brandOps.apply(ctx, tx, 0, &b.Name, &b.Image, in); err != nil {
			return err
		}
		return database.InsertBrand(ctx, tx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func UpdateBrand(ctx context.Context, store *database.Store, id int64, in NamedInput) (*models.Brand, error) {
	var b *models.Brand
	err := store.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		if b, err = GetBrand(ctx, tx, id); err != nil {
			return err
		}
		if err := brandOps.apply(ctx, tx, id, &b.Name, &b.Image, in); err != nil {
			return err
		}
		return database.UpdateBrand(ctx, tx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func DeleteBrand(ctx context.Context, store *database.Store, id int64) error {
	return store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := GetBrand(ctx, tx, id); err != nil {
			return err
		}
		if err := brandOps.checkUnused(ctx, tx, id); err != nil {
			return err
		}
		return database.DeleteBrand(ctx, tx, id)
	})
}
