package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/database"
	"storefront_back_end/internal/services"
	"storefront_back_end/internal/utils"
)

// ListCarts : GET /carts (admin)
func (h *Handler) ListCarts(c *gin.Context) {
	userID, ok := h.queryID(c, "user_id")
	if !ok {
		return
	}
	f := database.CartFilter{
		Page:      pageFromQuery(c, pageSizeCarts),
		UserID:    userID,
		SessionID: strings.TrimSpace(c.Query("session_id")),
	}
	carts, total, err := database.ListCarts(c.Request.Context(), h.store.DB(), f)
	if err != nil {
		h.respondError(c, err)
		return
	}
	paginated(c, "Get carts successfully", carts, f.Page, total)
}

func (h *Handler) GetCart(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	cart, err := services.GetCartDetail(c.Request.Context(), h.store.DB(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Get cart successfully", cart)
}

func (h *Handler) CreateCart(c *gin.Context) {
	var in services.CartInput
	if !h.bindJSON(c, &in) {
		return
	}
	cart, err := services.CreateCart(c.Request.Context(), h.store, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Create cart successfully", cart)
}

func (h *Handler) DeleteCart(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := services.DeleteCart(c.Request.Context(), h.store, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Delete cart successfully"})
}

// Checkout : POST /carts/checkout
// Transforme le panier en commande ; le stock, la commande et la suppression
// du panier sont validés ensemble ou pas du tout.
func (h *Handler) Checkout(c *gin.Context) {
	var in services.CheckoutInput
	if !h.bindJSON(c, &in) {
		return
	}
	ctx := c.Request.Context()
	result, err := services.Checkout(ctx, h.store, in)
	if err != nil {
		h.auditor.LogFailedAction(c, utils.ActionOrderCreate, utils.ResourceOrder, strconv.FormatInt(in.CartID, 10), err.Error())
		h.respondError(c, err)
		return
	}

	h.cache.Invalidate(ctx, result.ProductIDs...)
	h.auditor.LogAction(c, utils.ActionOrderCreate, utils.ResourceOrder, strconv.FormatInt(result.Order.ID, 10), result.Order)
	h.notifyOrderPlaced(c, result)

	c.JSON(http.StatusCreated, result)
}

// notifyOrderPlaced envoie la confirmation quand la commande appartient à un utilisateur avec email.
func (h *Handler) notifyOrderPlaced(c *gin.Context, result *services.CheckoutResult) {
	if h.mailer == nil || result.Order.UserID == nil {
		return
	}
	user, err := database.GetUser(c.Request.Context(), h.store.DB(), *result.Order.UserID)
	if err != nil {
		log.Printf("⚠️ Email de confirmation non envoyé pour la commande %d: %v", result.Order.ID, err)
		return
	}
	if user.Email == nil {
		return
	}
	h.mailer.SendOrderConfirmation(*user.Email, result.Order, result.OrderDetails)
}

// --- Articles du panier ---

func (h *Handler) ListCartItems(c *gin.Context) {
	cartID, ok := h.queryID(c, "cart_id")
	if !ok {
		return
	}
	page := pageFromQuery(c, pageSizeCarts)
	items, total, err := database.ListCartItems(c.Request.Context(), h.store.DB(), page, cartID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	paginated(c, "Get cart items successfully", items, page, total)
}

func (h *Handler) GetCartItem(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	item, err := database.GetCartItem(c.Request.Context(), h.store.DB(), id)
	if err != nil {
		h.respondError(c, notFound(err, "cart item", id))
		return
	}
	respond(c, http.StatusOK, "Get cart item successfully", item)
}

// UpsertCartItem : POST /cartitems fixe la quantité du SKU dans le panier.
func (h *Handler) UpsertCartItem(c *gin.Context) {
	var in services.CartItemInput
	if !h.bindJSON(c, &in) {
		return
	}
	item, outcome, err := services.UpsertCartItem(c.Request.Context(), h.store, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	switch outcome {
	case services.CartItemCreated:
		respond(c, http.StatusCreated, "Add item to cart successfully", item)
	case services.CartItemUpdated:
		respond(c, http.StatusOK, "Update cart item successfully", item)
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Remove item from cart successfully"})
	}
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var in services.CartItemInput
	if !h.bindJSON(c, &in) {
		return
	}
	item, err := services.UpdateCartItem(c.Request.Context(), h.store, id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Update cart item successfully", item)
}

func (h *Handler) DeleteCartItem(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := services.DeleteCartItem(c.Request.Context(), h.store, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Delete cart item successfully"})
}
