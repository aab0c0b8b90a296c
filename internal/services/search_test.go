package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/services"
	"storefront_back_end/internal/testutil"
)

func TestSearchProductsFallsBackToSQL(t *testing.T) {
	store := testutil.NewStore(t)
	testutil.Product(t, store, "Blue Denim Jacket")
	testutil.Product(t, store, "Leather Jacket")
	testutil.Product(t, store, "Wool Hat")

	index := services.NewSearchIndex(nil)
	assert.False(t, index.Enabled())

	got, err := index.SearchProducts(context.Background(), store.DB(), "jacket")
	require.NoError(t, err)
	names := make([]string, 0, len(got))
	for _, p := range got {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"Blue Denim Jacket", "Leather Jacket"}, names)
}
