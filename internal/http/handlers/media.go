package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/techsrow/locationhubapi/internal/domain/models"
	"github.com/techsrow/locationhubapi/internal/services"
)

// MediaCollections lists every ordered media collection served by the API.
// Each gets identical list/create/delete/reorder endpoints under its own path.
var MediaCollections = []string{
	"sliders",
	"testimonials",
	"add-on-services",
	"setups",
	"props",
	"makeup-artists",
	"sets",
}

// MediaHandler serves one collection; the same implementation is mounted once
// per entry in MediaCollections.
type MediaHandler struct {
	Media      services.MediaService
	Collection string
}

type createMediaRequest struct {
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
}

type reorderMediaRequest struct {
	Items []models.MediaReorderItem `json:"items"`
}

// GET /api/{collection}
func (h MediaHandler) List(c *gin.Context) {
	items, err := h.Media.List(c.Request.Context(), h.Collection)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// POST /api/{collection}
func (h MediaHandler) Create(c *gin.Context) {
	var req createMediaRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	item, err := h.Media.Create(c.Request.Context(), h.Collection, req.Title, req.ImageURL)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// DELETE /api/{collection}/:id
func (h MediaHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid media id", err)
		return
	}
	if err := h.Media.Delete(c.Request.Context(), h.Collection, id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// PUT /api/{collection}/reorder
func (h MediaHandler) Reorder(c *gin.Context) {
	var req reorderMediaRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := h.Media.Reorder(c.Request.Context(), h.Collection, req.Items); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order updated"})
}
