package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage(t *testing.T) {
	p := Page{Number: 3, Size: 5}
	assert.Equal(t, 10, p.Offset())
	assert.Equal(t, 3, p.TotalPages(11))
	assert.Equal(t, 0, p.TotalPages(0))
	assert.Equal(t, 0, Page{Number: 0, Size: 5}.Offset())
}

func TestNewPaginatedNeverReturnsNullData(t *testing.T) {
	out := NewPaginated[Product]("Get products successfully", nil, Page{Number: 1, Size: 12}, 0)

	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"Get products successfully","data":[],"currentPage":1,"totalPages":0,"total":0}`, string(b))
}

func TestOrderStatus(t *testing.T) {
	assert.True(t, OrderShipped.Valid())
	assert.False(t, OrderStatus(0).Valid())
	assert.Equal(t, "FAILED", OrderFailed.String())
	assert.Equal(t, "UNKNOWN", OrderStatus(42).String())
}

func TestChangedPasswordAfter(t *testing.T) {
	issued := time.Now().Truncate(time.Second)
	u := &User{}
	assert.False(t, u.ChangedPasswordAfter(issued))

	same := issued.Add(300 * time.Millisecond)
	u.PasswordChangedAt = &same
	assert.False(t, u.ChangedPasswordAfter(issued), "même seconde que l'émission")

	later := issued.Add(2 * time.Second)
	u.PasswordChangedAt = &later
	assert.True(t, u.ChangedPasswordAfter(issued))
}
