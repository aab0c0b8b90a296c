package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/services"
	"storefront_back_end/internal/utils"
)

// ListOrders : GET /orders?user_id=|session_id=
func (h *Handler) ListOrders(c *gin.Context) {
	userID, ok := h.queryID(c, "user_id")
	if !ok {
		return
	}
	f := database.CartFilter{
		Page:      pageFromQuery(c, pageSizeOrders),
		UserID:    userID,
		SessionID: strings.TrimSpace(c.Query("session_id")),
	}
	if f.UserID == 0 && f.SessionID == "" {
		h.respondError(c, apperr.Validation("user_id or session_id is required"))
		return
	}
	orders, total, err := database.ListOrders(c.Request.Context(), h.store.DB(), f)
	if err != nil {
		h.respondError(c, err)
		return
	}
	paginated(c, "Get orders successfully", orders, f.Page, total)
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	order, err := services.GetOrderDetail(c.Request.Context(), h.store.DB(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Get order successfully", order)
}

// UpdateOrder : PUT /orders/:id (admin). Un changement de statut prévient le client.
func (h *Handler) UpdateOrder(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var in services.OrderUpdate
	if !h.bindJSON(c, &in) {
		return
	}
	order, statusChanged, err := services.UpdateOrder(c.Request.Context(), h.store, id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.auditor.LogAction(c, utils.ActionOrderUpdate, utils.ResourceOrder, strconv.FormatInt(id, 10), order)
	if statusChanged {
		h.notifyOrderStatus(c, order)
	}
	respond(c, http.StatusOK, "Update order successfully", order)
}

// DeleteOrder : DELETE /orders/:id (admin), suppression logique en FAILED.
func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	order, err := services.CancelOrder(c.Request.Context(), h.store, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.auditor.LogAction(c, utils.ActionOrderCancel, utils.ResourceOrder, strconv.FormatInt(id, 10), nil)
	respond(c, http.StatusOK, "Delete order successfully", order)
}

func (h *Handler) notifyOrderStatus(c *gin.Context, order *models.Order) {
	if h.mailer == nil || order.UserID == nil {
		return
	}
	user, err := database.GetUser(c.Request.Context(), h.store.DB(), *order.UserID)
	if err != nil {
		log.Printf("⚠️ Email de statut non envoyé pour la commande %d: %v", order.ID, err)
		return
	}
	if user.Email != nil {
		h.mailer.SendOrderStatus(*user.Email, *order)
	}
}

// --- Lignes de commande ---

func (h *Handler) ListOrderDetails(c *gin.Context) {
	orderID, ok := h.queryID(c, "order_id")
	if !ok {
		return
	}
	page := pageFromQuery(c, pageSizeOrders)
	details, total, err := database.ListOrderDetails(c.Request.Context(), h.store.DB(), page, orderID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	paginated(c, "Get order details successfully", details, page, total)
}

func (h *Handler) GetOrderDetail(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	detail, err := database.GetOrderDetail(c.Request.Context(), h.store.DB(), id)
	if err != nil {
		h.respondError(c, notFound(err, "order detail", id))
		return
	}
	respond(c, http.StatusOK, "Get order detail successfully", detail)
}

func (h *Handler) CreateOrderDetail(c *gin.Context) {
	var in services.OrderDetailInput
	if !h.bindJSON(c, &in) {
		return
	}
	detail, err := services.CreateOrderDetail(c.Request.Context(), h.store, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Create order detail successfully", detail)
}

func (h *Handler) UpdateOrderDetail(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var in services.OrderDetailInput
	if !h.bindJSON(c, &in) {
		return
	}
	detail, err := services.UpdateOrderDetail(c.Request.Context(), h.store, id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Update order detail successfully", detail)
}

func (h *Handler) DeleteOrderDetail(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := services.DeleteOrderDetail(c.Request.Context(), h.store, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Delete order detail successfully"})
}
