package handler

import (
	"errors"
	"net/http"
	"strconv"

	"lendly/backend/internal/lending"
	"lendly/backend/internal/models"
	"lendly/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// ListItems returns catalog items filtered by the query string:
// category, available=true, q (substring search), offset, limit.
func (h *Handler) ListItems(c *gin.Context) {
	filter := storage.ItemFilter{
		Category:      c.Query("category"),
		AvailableOnly: c.Query("available") == "true",
		Search:        c.Query("q"),
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		filter.Offset = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		filter.Limit = v
	}

	items, err := h.Lending.ListItems(filter)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetItem returns one catalog item.
func (h *Handler) GetItem(c *gin.Context) {
	item, err := h.Lending.GetItem(c.Param("itemID"))
	if errors.Is(err, lending.ErrItemNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	c.JSON(http.StatusOK, item)
}

type createItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImageURL    string `json:"imageUrl"`
}

// CreateItem lists a new item owned by the caller.
func (h *Handler) CreateItem(c *gin.Context) {
	identity := CurrentIdentity(c)

	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item name is required"})
		return
	}

	item := &models.Item{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}
	if err := h.Lending.CreateItem(identity.UserID, identity.Name, item); err != nil {
		if errors.Is(err, lending.ErrInvalidItem) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	c.JSON(http.StatusCreated, item)
}

// MyItems returns the caller's own listings.
func (h *Handler) MyItems(c *gin.Context) {
	identity := CurrentIdentity(c)

	items, err := h.Lending.ItemsByOwner(identity.UserID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type availabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

// SetItemAvailability flips the lent-out flag on one of the caller's items.
func (h *Handler) SetItemAvailability(c *gin.Context) {
	identity := CurrentIdentity(c)

	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "available is required"})
		return
	}

	err := h.Lending.SetAvailability(identity.UserID, c.Param("itemID"), *req.Available)
	switch {
	case errors.Is(err, lending.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
	case errors.Is(err, lending.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not your item"})
	case err != nil:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
	default:
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// ProfileStats returns the caller's lending activity counters.
func (h *Handler) ProfileStats(c *gin.Context) {
	identity := CurrentIdentity(c)

	stats, err := h.Lending.Stats(identity.UserID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "stats unavailable"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
