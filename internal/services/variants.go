package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/sku"
)

type VariantDef struct {
	Name string `json:"name"`
}

type VariantValueDef struct {
	VariantName string  `json:"variant_name"`
	Value       string  `json:"value"`
	Image       *string `json:"image"`
}

// SKUDef décrit un SKU par son libellé d'affichage ("Red L").
type SKUDef struct {
	Name     string              `json:"name"`
	Price    decimal.Decimal     `json:"price"`
	OldPrice decimal.NullDecimal `json:"old_price"`
	Stock    int                 `json:"stock"`
}

// VariantMatrix regroupe les trois listes qui décrivent les variantes d'un produit.
type VariantMatrix struct {
	Variants             []VariantDef      `json:"variants"`
	VariantValues        []VariantValueDef `json:"variant_values"`
	ProductVariantValues []SKUDef          `json:"product_variant_values"`
}

// Supplied vaut true quand les trois listes sont fournies ; une fourniture
// partielle est une erreur de validation.
func (m VariantMatrix) Supplied() (bool, error) {
	n := 0
	for _, present := range []bool{m.Variants != nil, m.VariantValues != nil, m.ProductVariantValues != nil} {
		if present {
			n++
		}
	}
	switch n {
	case 0:
		return false, nil
	case 3:
		return true, nil
	default:
		return false, apperr.Validation("variants, variant_values and product_variant_values must be provided together or not at all")
	}
}

// ReplaceVariants remplace la matrice de variantes d'un produit dans la transaction q.
//
// Les VariantValues de l'ancienne matrice que plus aucun produit n'utilise sont
// supprimées, ainsi que leur Variant s'il n'a plus de valeur.
func ReplaceVariants(ctx context.Context, q sqlx.ExtContext, productID int64, m VariantMatrix) ([]models.ProductVariantValue, error) {
	if err := guardVariantReferences(ctx, q, productID); err != nil {
		return nil, err
	}
	if err := pruneProductVariants(ctx, q, productID); err != nil {
		return nil, err
	}

	variantIDs := make(map[string]int64, len(m.Variants))
	for _, v := range m.Variants {
		name := strings.TrimSpace(v.Name)
		if name == "" {
			return nil, apperr.Validation("variant name is required")
		}
		id, err := database.FindOrCreateVariant(ctx, q, name)
		if err != nil {
			return nil, err
		}
		variantIDs[name] = id
	}

	// Indexé par valeur : c'est ce que contiennent les libellés des SKUs.
	valueIDs := make(map[string]int64, len(m.VariantValues))
	for _, vv := range m.VariantValues {
		variantID, ok := variantIDs[strings.TrimSpace(vv.VariantName)]
		if !ok {
			return nil, apperr.Validation("variant %q of value %q is not declared in variants", vv.VariantName, vv.Value)
		}
		value := strings.TrimSpace(vv.Value)
		if value == "" {
			return nil, apperr.Validation("variant value is required for variant %q", vv.VariantName)
		}
		id, err := database.FindOrCreateVariantValue(ctx, q, variantID, value, vv.Image)
		if err != nil {
			return nil, err
		}
		valueIDs[value] = id
	}

	created := make([]models.ProductVariantValue, 0, len(m.ProductVariantValues))
	for _, def := range m.ProductVariantValues {
		options, err := sku.Resolve(def.Name, valueIDs)
		if err != nil {
			return nil, apperr.Validation("%s", err.Error())
		}
		if def.Price.IsNegative() {
			return nil, apperr.Validation("price of %q must not be negative", def.Name)
		}
		if def.Stock < 0 {
			return nil, apperr.Validation("stock of %q must not be negative", def.Name)
		}
		pvv := models.ProductVariantValue{
			ProductID: productID,
			Price:     def.Price,
			OldPrice:  def.OldPrice,
			Stock:     def.Stock,
			Name:      strings.Join(strings.Fields(def.Name), " "),
		}
		if err := database.InsertProductVariantValue(ctx, q, &pvv, options); err != nil {
			return nil, err
		}
		created = append(created, pvv)
	}
	return created, nil
}

// pruneProductVariants supprime les SKUs du produit puis les VariantValues devenues orphelines.
func pruneProductVariants(ctx context.Context, q sqlx.ExtContext, productID int64) error {
	current, err := database.VariantValueIDsOfProduct(ctx, q, productID)
	if err != nil {
		return err
	}
	shared, err := database.VariantValueIDsUsedElsewhere(ctx, q, productID, current)
	if err != nil {
		return err
	}
	if err := database.DeleteProductVariantValues(ctx, q, productID); err != nil {
		return err
	}
	return database.DeleteVariantValues(ctx, q, difference(current, shared))
}

// guardVariantReferences refuse de remplacer des SKUs déjà commandés ou en panier.
func guardVariantReferences(ctx context.Context, q sqlx.ExtContext, productID int64) error {
	ids, err := database.ProductVariantIDs(ctx, q, productID)
	if err != nil {
		return err
	}
	refs, err := database.VariantReferences(ctx, q, ids)
	if err != nil {
		return err
	}
	if blocking := blockingNames(refs); len(blocking) > 0 {
		return apperr.Validation("cannot replace variants of product %d, they are referenced by: %s", productID, strings.Join(blocking, ", "))
	}
	return nil
}

func blockingNames(refs []database.Reference) []string {
	var names []string
	for _, r := range refs {
		if r.Count > 0 {
			names = append(names, r.Collection)
		}
	}
	return names
}

func difference(all, remove []int64) []int64 {
	skip := make(map[int64]struct{}, len(remove))
	for _, id := range remove {
		skip[id] = struct{}{}
	}
	var out []int64
	for _, id := range all {
		if _, ok := skip[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func describeVariant(v models.ProductVariantValue) string {
	if v.Name != "" {
		return fmt.Sprintf("product variant %d (%s)", v.ID, v.Name)
	}
	return fmt.Sprintf("product variant %d", v.ID)
}
