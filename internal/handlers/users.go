package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/services"
	"storefront_back_end/internal/utils"
)

// Register : POST /users/register
func (h *Handler) Register(c *gin.Context) {
	var in services.RegisterInput
	if !h.bindJSON(c, &in) {
		return
	}
	user, token, err := services.Register(c.Request.Context(), h.store, h.cfg.JWTSecret, h.cfg.JWTTTL, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.auditor.LogAction(c, utils.ActionUserCreate, utils.ResourceUser, strconv.FormatInt(user.ID, 10), nil)
	c.JSON(http.StatusCreated, gin.H{"message": "Register successfully", "data": user, "token": token})
}

// Login : POST /users/login
func (h *Handler) Login(c *gin.Context) {
	var in services.LoginInput
	if !h.bindJSON(c, &in) {
		return
	}
	user, token, err := services.Login(c.Request.Context(), h.store, h.cfg.JWTSecret, h.cfg.JWTTTL, in)
	if err != nil {
		identity := in.Email
		if identity == "" {
			identity = in.Phone
		}
		h.auditor.LogFailedAction(c, utils.ActionLoginFailed, utils.ResourceAuth, identity, apperr.Message(err))
		h.respondError(c, err)
		return
	}
	c.Set(middleware.ContextUserID, user.ID)
	h.auditor.LogAction(c, utils.ActionLoginSuccess, utils.ResourceAuth, strconv.FormatInt(user.ID, 10), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Login successfully", "data": user, "token": token})
}

// ListUsers : GET /users (admin)
func (h *Handler) ListUsers(c *gin.Context) {
	page := pageFromQuery(c, pageSizeUsers)
	users, total, err := database.ListUsers(c.Request.Context(), h.store.DB(), page, strings.TrimSpace(c.Query("search")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	paginated(c, "Get users successfully", users, page, total)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	user, err := services.GetUser(c.Request.Context(), h.store.DB(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Get user successfully", user)
}

// UpdateUser : PUT /users/:id (soi-même ou admin)
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var in services.UserUpdate
	if !h.bindJSON(c, &in) {
		return
	}
	asAdmin := middleware.CurrentRole(c) == models.RoleAdmin
	user, err := services.UpdateUser(c.Request.Context(), h.store, id, in, asAdmin)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.auditor.LogAction(c, utils.ActionUserUpdate, utils.ResourceUser, strconv.FormatInt(id, 10), nil)
	respond(c, http.StatusOK, "Update user successfully", user)
}

// DeleteUser : DELETE /users/:id (admin)
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := services.DeleteUser(c.Request.Context(), h.store, id); err != nil {
		h.respondError(c, err)
		return
	}
	h.auditor.LogAction(c, utils.ActionUserDelete, utils.ResourceUser, strconv.FormatInt(id, 10), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Delete user successfully"})
}
