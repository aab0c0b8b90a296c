package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/testutil"
	"storefront_back_end/internal/utils"
)

const secret = "middleware-secret"

func newRouter(store *database.Store, roles ...models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthRequired(store, secret, roles...), func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": CurrentRole(c)})
	})
	r.GET("/users/:id", AuthRequired(store, secret), RequireSelfOrAdmin("id"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func get(t *testing.T, r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func tokenFor(t *testing.T, id int64) string {
	t.Helper()
	token, err := utils.GenerateJWT(secret, time.Hour, id)
	require.NoError(t, err)
	return token
}

func TestAuthRequired(t *testing.T) {
	store := testutil.NewStore(t)
	user := testutil.User(t, store, "user@example.com", models.RoleUser)
	admin := testutil.User(t, store, "admin@example.com", models.RoleAdmin)

	r := newRouter(store)
	adminOnly := newRouter(store, models.RoleAdmin)

	assert.Equal(t, http.StatusUnauthorized, get(t, r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(t, r, "/me", "garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, get(t, r, "/me", tokenFor(t, 999)).Code)

	w := get(t, r, "/me", tokenFor(t, user.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":`+itoa(user.ID)+`,"role":1}`, w.Body.String())

	assert.Equal(t, http.StatusForbidden, get(t, adminOnly, "/me", tokenFor(t, user.ID)).Code)
	assert.Equal(t, http.StatusOK, get(t, adminOnly, "/me", tokenFor(t, admin.ID)).Code)
}

func TestAuthRequiredRejectsLockedAndStaleTokens(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	user := testutil.User(t, store, "stale@example.com", models.RoleUser)
	r := newRouter(store)
	token := tokenFor(t, user.ID)

	changed := time.Now().Add(time.Hour)
	user.PasswordChangedAt = &changed
	require.NoError(t, database.UpdateUser(ctx, store.DB(), user))
	assert.Equal(t, http.StatusUnauthorized, get(t, r, "/me", token).Code)

	user.PasswordChangedAt = nil
	user.IsLocked = true
	require.NoError(t, database.UpdateUser(ctx, store.DB(), user))
	assert.Equal(t, http.StatusForbidden, get(t, r, "/me", token).Code)
}

func TestRequireSelfOrAdmin(t *testing.T) {
	store := testutil.NewStore(t)
	user := testutil.User(t, store, "self@example.com", models.RoleUser)
	other := testutil.User(t, store, "other@example.com", models.RoleUser)
	admin := testutil.User(t, store, "root@example.com", models.RoleAdmin)
	r := newRouter(store)

	assert.Equal(t, http.StatusOK, get(t, r, "/users/"+itoa(user.ID), tokenFor(t, user.ID)).Code)
	assert.Equal(t, http.StatusForbidden, get(t, r, "/users/"+itoa(other.ID), tokenFor(t, user.ID)).Code)
	assert.Equal(t, http.StatusOK, get(t, r, "/users/"+itoa(other.ID), tokenFor(t, admin.ID)).Code)
}
