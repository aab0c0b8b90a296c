package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Reference compte les lignes d'une collection qui pointent vers un produit.
type Reference struct {
	Collection string
	Count      int
}

// ProductReferences compte, dans l'ordre, les références qui empêchent la suppression d'un produit.
func ProductReferences(ctx context.Context, q sqlx.ExtContext, productID int64, variantIDs []int64) ([]Reference, error) {
	refs := make([]Reference, 0, 5)

	variantCount := func(table string) (int, error) {
		if len(variantIDs) == 0 {
			return 0, nil
		}
		return countIn(ctx, q, "SELECT COUNT(*) FROM "+table+" WHERE product_variant_id IN (?)", variantIDs)
	}
	productCount := func(table string) (int, error) {
		return count(ctx, q, "SELECT COUNT(*) FROM "+table+" WHERE product_id = ?", productID)
	}

	checks := []struct {
		collection string
		count      func(string) (int, error)
		table      string
	}{
		{"OrderDetail", variantCount, "order_details"},
		{"BannerDetail", productCount, "banner_details"},
		{"Feedback", productCount, "feedbacks"},
		{"NewsDetail", productCount, "news_details"},
		{"CartItem", variantCount, "cart_items"},
	}
	for _, c := range checks {
		n, err := c.count(c.table)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s references: %w", c.collection, err)
		}
		refs = append(refs, Reference{Collection: c.collection, Count: n})
	}
	return refs, nil
}

// VariantReferences compte les commandes et paniers qui utilisent des SKUs.
func VariantReferences(ctx context.Context, q sqlx.ExtContext, variantIDs []int64) ([]Reference, error) {
	if len(variantIDs) == 0 {
		return nil, nil
	}
	var refs []Reference
	for _, c := range []struct{ collection, table string }{
		{"OrderDetail", "order_details"},
		{"CartItem", "cart_items"},
	} {
		n, err := countIn(ctx, q, "SELECT COUNT(*) FROM "+c.table+" WHERE product_variant_id IN (?)", variantIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s references: %w", c.collection, err)
		}
		refs = append(refs, Reference{Collection: c.collection, Count: n})
	}
	return refs, nil
}
