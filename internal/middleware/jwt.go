package middleware

import (
	"errors"
	"log"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/utils"
)

// Clés posées dans le contexte gin après authentification.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// bearerToken extrait le jeton du header Authorization.
func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// AuthRequired vérifie le jeton, recharge l'utilisateur et contrôle son rôle.
// Sans rôle précisé, tout utilisateur authentifié passe.
func AuthRequired(store *database.Store, secret string, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "You are not logged in")
			return
		}

		claims, err := utils.ParseJWT(secret, token)
		if err != nil {
			log.Printf("❌ Jeton refusé: %v", err)
			abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		user, err := database.GetUser(c.Request.Context(), store.DB(), claims.ID)
		if errors.Is(err, database.ErrNotFound) {
			abort(c, http.StatusUnauthorized, "The user belonging to this token no longer exists")
			return
		}
		if err != nil {
			log.Printf("❌ Chargement utilisateur %d: %v", claims.ID, err)
			abort(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		if user.IsLocked {
			abort(c, http.StatusForbidden, "This account is locked")
			return
		}
		if claims.IssuedAt != nil && user.ChangedPasswordAfter(claims.IssuedAt.Time) {
			abort(c, http.StatusUnauthorized, "Password changed recently, please log in again")
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, user.Role) {
			abort(c, http.StatusForbidden, "You do not have permission to perform this action")
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextRole, user.Role)
		c.Next()
	}
}

// CurrentUserID renvoie l'utilisateur authentifié, s'il y en a un.
func CurrentUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func CurrentRole(c *gin.Context) models.Role {
	if v, ok := c.Get(ContextRole); ok {
		if role, ok := v.(models.Role); ok {
			return role
		}
	}
	return 0
}
