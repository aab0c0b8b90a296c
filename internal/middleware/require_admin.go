package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/models"
)

// RequireSelfOrAdmin laisse passer un administrateur ou l'utilisateur désigné par :param.
// À placer après AuthRequired.
func RequireSelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentRole(c) == models.RoleAdmin {
			c.Next()
			return
		}
		userID, ok := CurrentUserID(c)
		target, err := strconv.ParseInt(c.Param(param), 10, 64)
		if !ok || err != nil || userID != target {
			abort(c, http.StatusForbidden, "You do not have permission to perform this action")
			return
		}
		c.Next()
	}
}
