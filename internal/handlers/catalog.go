package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"storefront_back_end/internal/database"
	"storefront_back_end/internal/services"
)

// --- Catégories ---

func (h *Handler) ListCategories(c *gin.Context) {
	page := pageFromQuery(c, pageSizeCatalog)
	categories, total, err := database.ListCategories(c.Request.Context(), h.store.DB(), page, strings.TrimSpace(c.Query("search")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	paginated(c, "Get categories successfully", categories, page, total)
}

func (h *Handler) GetCategory(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	category, err := services.GetCategory(c.Request.Context(), h.store.DB(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Get category successfully", category)
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var in services.NamedInput
	if !h.bindJSON(c, &in) {
		return
	}
	category, err := services.CreateCategory(c.Request.Context(), h.store, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Create category successfully", category)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var in services.NamedInput
	if !h.bindJSON(c, &in) {
		return
	}
	category, err := services.UpdateCategory(c.Request.Context(), h.store, id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if in.Name != nil {
		h.invalidateProductsOf(c.Request.Context(), database.ProductIDsInCategory, id)
	}
	respond(c, http.StatusOK, "Update category successfully", category)
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := services.DeleteCategory(c.Request.Context(), h.store, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Delete category successfully"})
}

// --- Marques ---

func (h *Handler) ListBrands(c *gin.Context) {
	page := pageFromQuery(c, pageSizeCatalog)
	brands, total, err := database.ListBrands(c.Request.Context(), h.store.DB(), page, strings.TrimSpace(c.Query("search")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	paginated(c, "Get brands successfully", brands, page, total)
}

func (h *Handler) GetBrand(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	brand, err := services.GetBrand(c.Request.Context(), h.store.DB(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Get brand successfully", brand)
}

func (h *Handler) CreateBrand(c *gin.Context) {
	var in services.NamedInput
	if !h.bindJSON(c, &in) {
		return
	}
	brand, err := services.CreateBrand(c.Request.Context(), h.store, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Create brand successfully", brand)
}

func (h *Handler) UpdateBrand(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var in services.NamedInput
	if !h.bindJSON(c, &in) {
		return
	}
	brand, err := services.UpdateBrand(c.Request.Context(), h.store, id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if in.Name != nil {
		h.invalidateProductsOf(c.Request.Context(), database.ProductIDsOfBrand, id)
	}
	respond(c, http.StatusOK, "Update brand successfully", brand)
}

func (h *Handler) DeleteBrand(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := services.DeleteBrand(c.Request.Context(), h.store, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Delete brand successfully"})
}

// invalidateProductsOf vide le cache des produits qui embarquent le nom renommé.
func (h *Handler) invalidateProductsOf(ctx context.Context, list func(context.Context, sqlx.ExtContext, int64) ([]int64, error), id int64) {
	ids, err := list(ctx, h.store.DB(), id)
	if err != nil {
		log.Printf("⚠️ Invalidation cache produits: %v", err)
		return
	}
	h.cache.Invalidate(ctx, ids...)
}
