package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/services"
)

// UploadImage : POST /images/upload (multipart, champ "image")
func (h *Handler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		h.respondError(c, apperr.Validation("image file is required"))
		return
	}
	if _, err := services.CheckImage(file); err != nil {
		h.respondError(c, err)
		return
	}
	name, err := h.images.Upload(c.Request.Context(), file)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Upload image successfully",
		"fileName": name,
		"url":      "/api/images/" + name,
	})
}

// ViewImage : GET /images/:fileName redirige vers une URL présignée.
func (h *Handler) ViewImage(c *gin.Context) {
	name := c.Param("fileName")
	if name == "" || strings.Contains(name, "/") {
		h.respondError(c, apperr.Validation("invalid file name"))
		return
	}
	url, err := h.images.PresignedURL(c.Request.Context(), name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

// DeleteImage : DELETE /images/delete {fileName}
func (h *Handler) DeleteImage(c *gin.Context) {
	var in struct {
		FileName string `json:"fileName"`
	}
	if !h.bindJSON(c, &in) {
		return
	}
	if strings.TrimSpace(in.FileName) == "" {
		h.respondError(c, apperr.Validation("fileName is required"))
		return
	}
	if err := h.images.Delete(c.Request.Context(), in.FileName); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Delete image successfully"})
}

// Health : GET /health
func (h *Handler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "message": "database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
