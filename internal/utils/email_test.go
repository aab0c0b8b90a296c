package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/models"
)

func TestOrderConfirmationHTML(t *testing.T) {
	order := models.Order{ID: 7, Status: models.OrderPending, Total: decimal.RequireFromString("25"), Address: "1 <rue>", Phone: "0123456789"}
	details := []models.OrderDetail{
		{ProductVariantID: 3, Price: decimal.RequireFromString("12.5"), Quantity: 2,
			ProductVariant: &models.ProductVariantValue{Name: "Red L"}},
		{ProductVariantID: 4, Price: decimal.Zero, Quantity: 1},
	}

	body, err := OrderConfirmationHTML(order, details)
	require.NoError(t, err)
	assert.Contains(t, body, "Order #7 confirmed")
	assert.Contains(t, body, "PENDING")
	assert.Contains(t, body, "Red L")
	assert.Contains(t, body, "Variant #4")
	assert.Contains(t, body, "12.50")
	assert.Contains(t, body, "Total: 25.00")
	assert.Contains(t, body, "1 &lt;rue&gt;")
}

func TestMailerDisabledWithoutHost(t *testing.T) {
	var m *Mailer
	assert.False(t, m.Enabled())
	assert.NoError(t, m.Send("a@example.com", "x", "y"))
}
