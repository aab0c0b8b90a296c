package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront_back_end/internal/models"
)

func TestOrderByIDs(t *testing.T) {
	products := []models.Product{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 3, Name: "c"}}

	got := orderByIDs(products, []int64{3, 9, 1})
	assert.Equal(t, []models.Product{{ID: 3, Name: "c"}, {ID: 1, Name: "a"}}, got)
}

func TestVariantMatrixSupplied(t *testing.T) {
	ok, err := VariantMatrix{}.Supplied()
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = VariantMatrix{Variants: []VariantDef{}, VariantValues: []VariantValueDef{}, ProductVariantValues: []SKUDef{}}.Supplied()
	assert.NoError(t, err)
	assert.True(t, ok)

	_, err = VariantMatrix{VariantValues: []VariantValueDef{}}.Supplied()
	assert.Error(t, err)
}

func TestDifference(t *testing.T) {
	assert.Equal(t, []int64{1, 3}, difference([]int64{1, 2, 3}, []int64{2}))
	assert.Nil(t, difference([]int64{2}, []int64{2}))
}
