package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/services"
	"storefront_back_end/internal/testutil"
	"storefront_back_end/internal/utils"
)

const (
	testSecret = "test-secret"
	testTTL    = time.Hour
)

func register(t *testing.T, store *database.Store, email string) *models.User {
	t.Helper()
	u, token, err := services.Register(context.Background(), store, testSecret, testTTL, services.RegisterInput{
		Name: "Alice", Email: ptr(email), Password: "secret1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	return u
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	u := register(t, store, "  Alice@Example.com ")

	assert.Equal(t, "alice@example.com", *u.Email)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.NotEqual(t, "secret1", u.Password)

	logged, token, err := services.Login(ctx, store, testSecret, testTTL, services.LoginInput{Email: "ALICE@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	claims, err := utils.ParseJWT(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.ID)

	_, _, err = services.Login(ctx, store, testSecret, testTTL, services.LoginInput{Email: "alice@example.com", Password: "wrong!"})
	assert.Equal(t, 401, apperr.Status(err))

	_, _, err = services.Login(ctx, store, testSecret, testTTL, services.LoginInput{Email: "nobody@example.com", Password: "secret1"})
	assert.Equal(t, 401, apperr.Status(err))
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	register(t, store, "bob@example.com")

	tests := []struct {
		name   string
		in     services.RegisterInput
		status int
	}{
		{"no contact", services.RegisterInput{Name: "Bob", Password: "secret1"}, 400},
		{"short password", services.RegisterInput{Name: "Bob", Email: ptr("b2@example.com"), Password: "123"}, 400},
		{"bad email", services.RegisterInput{Name: "Bob", Email: ptr("not-an-email"), Password: "secret1"}, 400},
		{"bad phone", services.RegisterInput{Name: "Bob", Phone: ptr("12ab"), Password: "secret1"}, 400},
		{"short phone", services.RegisterInput{Name: "Bob", Phone: ptr("012345"), Password: "secret1"}, 400},
		{"blank name", services.RegisterInput{Name: "  ", Email: ptr("b3@example.com"), Password: "secret1"}, 400},
		{"duplicate email", services.RegisterInput{Name: "Bob", Email: ptr("BOB@example.com"), Password: "secret1"}, 409},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := services.Register(ctx, store, testSecret, testTTL, tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.status, apperr.Status(err))
		})
	}
}

func TestLoginLockedAccount(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	u := register(t, store, "locked@example.com")

	_, err := services.UpdateUser(ctx, store, u.ID, services.UserUpdate{IsLocked: ptr(true)}, true)
	require.NoError(t, err)

	_, _, err = services.Login(ctx, store, testSecret, testTTL, services.LoginInput{Email: "locked@example.com", Password: "secret1"})
	assert.Equal(t, 403, apperr.Status(err))
}

func TestUpdateUserPrivilegedFields(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	u := register(t, store, "carol@example.com")

	admin := models.RoleAdmin
	_, err := services.UpdateUser(ctx, store, u.ID, services.UserUpdate{Role: &admin}, false)
	assert.Equal(t, 403, apperr.Status(err))

	updated, err := services.UpdateUser(ctx, store, u.ID, services.UserUpdate{Role: &admin}, true)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)

	updated, err = services.UpdateUser(ctx, store, u.ID, services.UserUpdate{Password: ptr("another1")}, false)
	require.NoError(t, err)
	require.NotNil(t, updated.PasswordChangedAt)

	_, _, err = services.Login(ctx, store, testSecret, testTTL, services.LoginInput{Email: "carol@example.com", Password: "another1"})
	assert.NoError(t, err)
}

func TestDeleteUserWithOrders(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	u := register(t, store, "dave@example.com")

	order := &models.Order{UserID: &u.ID, Status: models.OrderPending, Total: decimal.NewFromInt(1), Phone: "0123456789", Address: "x"}
	require.NoError(t, database.InsertOrder(ctx, store.DB(), order))

	err := services.DeleteUser(ctx, store, u.ID)
	assert.Equal(t, 400, apperr.Status(err))

	other := register(t, store, "erin@example.com")
	require.NoError(t, services.DeleteUser(ctx, store, other.ID))
	_, err = services.GetUser(ctx, store.DB(), other.ID)
	assert.Equal(t, 404, apperr.Status(err))
}

func TestUpdateUserValidatesFields(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	u := register(t, store, "frank@example.com")

	_, err := services.UpdateUser(ctx, store, u.ID, services.UserUpdate{Password: ptr("")}, false)
	require.Error(t, err)
	assert.Equal(t, 400, apperr.Status(err))
	assert.Contains(t, err.Error(), "password must contain at least 6 characters")

	_, err = services.UpdateUser(ctx, store, u.ID, services.UserUpdate{Phone: ptr("12ab")}, false)
	assert.Equal(t, 400, apperr.Status(err))
	assert.Contains(t, err.Error(), "phone must contain only digits")

	updated, err := services.UpdateUser(ctx, store, u.ID, services.UserUpdate{Email: ptr(" Frank@Example.org "), Phone: ptr("0123456789")}, false)
	require.NoError(t, err)
	assert.Equal(t, "frank@example.org", *updated.Email)
	assert.Equal(t, "0123456789", *updated.Phone)
}
