package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/utils"
)

// AuditWrites journalise les écritures réussies (POST, PUT, PATCH, DELETE).
func AuditWrites(auditor *utils.Auditor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			return
		}
		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		resource := strings.TrimPrefix(c.FullPath(), "/api/")
		action := utils.ActionAdminWrite + "." + strings.ToLower(c.Request.Method)
		auditor.LogAction(c, action, resource, c.Param("id"), nil)
	}
}
