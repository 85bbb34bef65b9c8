package handler

import (
	"errors"
	"net/http"

	"lendly/backend/internal/lending"

	"github.com/gin-gonic/gin"
)

type createRequestBody struct {
	ItemID  string `json:"itemId" binding:"required"`
	Message string `json:"message"`
}

// CreateBorrowRequest files a pending request by the caller against an item.
func (h *Handler) CreateBorrowRequest(c *gin.Context) {
	identity := CurrentIdentity(c)

	var body createRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itemId is required"})
		return
	}

	req, err := h.Lending.CreateRequest(identity.UserID, identity.Name, body.ItemID, body.Message)
	if errors.Is(err, lending.ErrItemNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "requests unavailable"})
		return
	}
	c.JSON(http.StatusCreated, req)
}

// MyBorrowRequests returns the requests the caller has made.
func (h *Handler) MyBorrowRequests(c *gin.Context) {
	identity := CurrentIdentity(c)

	requests, err := h.Lending.RequestsByBorrower(identity.UserID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "requests unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// MyLendingRequests returns the requests against the caller's items.
func (h *Handler) MyLendingRequests(c *gin.Context) {
	identity := CurrentIdentity(c)

	requests, err := h.Lending.RequestsByOwner(identity.UserID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "requests unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

type statusRequestBody struct {
	Status string `json:"status" binding:"required"`
}

// UpdateBorrowRequestStatus moves a request through its lifecycle.
func (h *Handler) UpdateBorrowRequestStatus(c *gin.Context) {
	identity := CurrentIdentity(c)

	var body statusRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	req, err := h.Lending.UpdateRequestStatus(identity.UserID, c.Param("requestID"), body.Status)
	switch {
	case errors.Is(err, lending.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "borrow request not found"})
	case errors.Is(err, lending.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed"})
	case errors.Is(err, lending.ErrBadTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "requests unavailable"})
	default:
		c.JSON(http.StatusOK, req)
	}
}
