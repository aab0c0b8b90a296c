package handlers

import (
	"context"
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

// ListProducts : GET /products
func (h *Handler) ListProducts(c *gin.Context) {
	categoryID, ok := h.queryID(c, "category_id")
	if !ok {
		return
	}
	brandID, ok := h.queryID(c, "brand_id")
	if !ok {
		return
	}
	f := database.ProductFilter{
		Page:       pageFromQuery(c, pageSizeProducts),
		CategoryID: categoryID,
		BrandID:    brandID,
		Search:     strings.TrimSpace(c.Query("search")),
		SortBy:     c.Query("sortBy"),
		Order:      c.Query("order"),
	}

	ctx := c.Request.Context()
	products, total, err := database.ListProducts(ctx, h.store.DB(), f)
	if err != nil {
		h.respondError(c, err)
		return
	}
	details, err := services.ComposeProducts(ctx, h.store.DB(), products)
	if err != nil {
		h.respondError(c, err)
		return
	}
	paginated(c, "Get products successfully", details, f.Page, total)
}

// GetProduct : GET /products/:id, servi depuis Redis quand c'est possible.
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	product, err := h.cache.GetOrLoad(ctx, id, func(ctx context.Context, id int64) (*models.ProductDetail, error) {
		return services.GetProductDetail(ctx, h.store.DB(), id)
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Get product successfully", product)
}

// SearchProducts : GET /products/search?name=
func (h *Handler) SearchProducts(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		h.respondError(c, apperr.Validation("name is required"))
		return
	}
	ctx := c.Request.Context()
	products, err := h.search.SearchProducts(ctx, h.store.DB(), name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	details, err := services.ComposeProducts(ctx, h.store.DB(), products)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Search products successfully", details)
}

// CreateProduct : POST /products (admin)
func (h *Handler) CreateProduct(c *gin.Context) {
	var in services.ProductInput
	if !h.bindJSON(c, &in) {
		return
	}
	ctx := c.Request.Context()
	product, err := services.CreateProduct(ctx, h.store, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.search.IndexProduct(ctx, product.Product)
	h.auditor.LogAction(c, utils.ActionProductCreate, utils.ResourceProduct, strconv.FormatInt(product.ID, 10), product.Product)
	respond(c, http.StatusCreated, "Create product successfully", product)
}

// UpdateProduct : PUT /products/:id (admin)
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var in services.ProductInput
	if !h.bindJSON(c, &in) {
		return
	}
	ctx := c.Request.Context()
	product, err := services.UpdateProduct(ctx, h.store, id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.cache.Invalidate(ctx, id)
	h.search.IndexProduct(ctx, product.Product)
	h.auditor.LogAction(c, utils.ActionProductUpdate, utils.ResourceProduct, strconv.FormatInt(id, 10), product.Product)
	respond(c, http.StatusOK, "Update product successfully", product)
}

// DeleteProduct : DELETE /products/:id (admin), refusé si le produit est référencé.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := services.DeleteProduct(ctx, h.store, id); err != nil {
		h.auditor.LogFailedAction(c, utils.ActionProductDelete, utils.ResourceProduct, strconv.FormatInt(id, 10), apperr.Message(err))
		h.respondError(c, err)
		return
	}
	h.cache.Invalidate(ctx, id)
	h.search.DeleteProduct(ctx, id)
	h.auditor.LogAction(c, utils.ActionProductDelete, utils.ResourceProduct, strconv.FormatInt(id, 10), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Delete product successfully"})
}

// --- Images de produit ---

// ListProductImages : GET /productimages?product_id=
func (h *Handler) ListProductImages(c *gin.Context) {
	productID, ok := h.queryID(c, "product_id")
	if !ok {
		return
	}
	images, err := database.ListProductImages(c.Request.Context(), h.store.DB(), productID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Get product images successfully", images)
}

func (h *Handler) GetProductImage(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	img, err := services.GetProductImage(c.Request.Context(), h.store.DB(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Get product image successfully", img)
}

func (h *Handler) CreateProductImage(c *gin.Context) {
	var in services.ProductImageInput
	if !h.bindJSON(c, &in) {
		return
	}
	ctx := c.Request.Context()
	img, err := services.CreateProductImage(ctx, h.store, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.cache.Invalidate(ctx, img.ProductID)
	respond(c, http.StatusCreated, "Create product image successfully", img)
}

func (h *Handler) DeleteProductImage(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	img, err := services.DeleteProductImage(ctx, h.store, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.cache.Invalidate(ctx, img.ProductID)
	c.JSON(http.StatusOK, gin.H{"message": "Delete product image successfully"})
}
