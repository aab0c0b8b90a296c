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
)

// --- Bannières ---

func (h *Handler) ListBanners(c *gin.Context) {
	page := pageFromQuery(c, pageSizeContent)
	var status *models.BannerStatus
	if raw := c.Query("status"); raw != "" {
		n, err := strconv.Atoi(raw)
		s := models.BannerStatus(n)
		if err != nil || !s.Valid() {
			h.respondError(c, apperr.Validation("status must be between 0 and 3"))
			return
		}
		status = &s
	}
	banners, total, err := database.ListBanners(c.Request.Context(), h.store.DB(), page, status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	paginated(c, "Get banners successfully", banners, page, total)
}

func (h *Handler) GetBanner(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	banner, err := services.GetBanner(c.Request.Context(), h.store.DB(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Get banner successfully", banner)
}

func (h *Handler) CreateBanner(c *gin.Context) {
	var in services.BannerInput
	if !h.bindJSON(c, &in) {
		return
	}
	banner, err := services.CreateBanner(c.Request.Context(), h.store, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Create banner successfully", banner)
}

func (h *Handler) UpdateBanner(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var in services.BannerInput
	if !h.bindJSON(c, &in) {
		return
	}
	banner, err := services.UpdateBanner(c.Request.Context(), h.store, id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Update banner successfully", banner)
}

func (h *Handler) DeleteBanner(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := services.DeleteBanner(c.Request.Context(), h.store, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Delete banner successfully"})
}

func (h *Handler) ListBannerDetails(c *gin.Context) {
	bannerID, ok := h.queryID(c, "banner_id")
	if !ok {
		return
	}
	details, err := database.ListBannerDetails(c.Request.Context(), h.store.DB(), bannerID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Get banner details successfully", details)
}

func (h *Handler) CreateBannerDetail(c *gin.Context) {
	var in services.BannerDetailInput
	if !h.bindJSON(c, &in) {
		return
	}
	detail, err := services.CreateBannerDetail(c.Request.Context(), h.store, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Create banner detail successfully", detail)
}

func (h *Handler) DeleteBannerDetail(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := services.DeleteBannerDetail(c.Request.Context(), h.store, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Delete banner detail successfully"})
}

// --- Actualités ---

func (h *Handler) ListNews(c *gin.Context) {
	page := pageFromQuery(c, pageSizeContent)
	news, total, err := database.ListNews(c.Request.Context(), h.store.DB(), page, strings.TrimSpace(c.Query("search")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	paginated(c, "Get news successfully", news, page, total)
}

func (h *Handler) GetNews(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	news, err := services.GetNews(c.Request.Context(), h.store.DB(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Get news successfully", news)
}

func (h *Handler) CreateNews(c *gin.Context) {
	var in services.NewsInput
	if !h.bindJSON(c, &in) {
		return
	}
	news, err := services.CreateNews(c.Request.Context(), h.store, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Create news successfully", news)
}

func (h *Handler) UpdateNews(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var in services.NewsInput
	if !h.bindJSON(c, &in) {
		return
	}
	news, err := services.UpdateNews(c.Request.Context(), h.store, id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Update news successfully", news)
}

func (h *Handler) DeleteNews(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := services.DeleteNews(c.Request.Context(), h.store, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Delete news successfully"})
}

func (h *Handler) ListNewsDetails(c *gin.Context) {
	newsID, ok := h.queryID(c, "news_id")
	if !ok {
		return
	}
	details, err := database.ListNewsDetails(c.Request.Context(), h.store.DB(), newsID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Get news details successfully", details)
}

func (h *Handler) CreateNewsDetail(c *gin.Context) {
	var in services.NewsDetailInput
	if !h.bindJSON(c, &in) {
		return
	}
	detail, err := services.CreateNewsDetail(c.Request.Context(), h.store, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Create news detail successfully", detail)
}

func (h *Handler) DeleteNewsDetail(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := services.DeleteNewsDetail(c.Request.Context(), h.store, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Delete news detail successfully"})
}

// --- Avis ---

func (h *Handler) ListFeedbacks(c *gin.Context) {
	productID, ok := h.queryID(c, "product_id")
	if !ok {
		return
	}
	if productID == 0 {
		h.respondError(c, apperr.Validation("product_id is required"))
		return
	}
	feedbacks, err := database.ListFeedbacks(c.Request.Context(), h.store.DB(), productID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Get feedbacks successfully", feedbacks)
}

// CreateFeedback : POST /feedbacks (authentifié) ; l'auteur est l'utilisateur du jeton.
func (h *Handler) CreateFeedback(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		h.respondError(c, apperr.Unauthorized("You are not logged in"))
		return
	}
	var in services.FeedbackInput
	if !h.bindJSON(c, &in) {
		return
	}
	ctx := c.Request.Context()
	feedback, err := services.CreateFeedback(ctx, h.store, userID, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.cache.Invalidate(ctx, in.ProductID)
	respond(c, http.StatusCreated, "Create feedback successfully", feedback)
}
