package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListChatRooms returns a one-shot snapshot of the caller's conversations,
// most recent first.
func (h *Handler) ListChatRooms(c *gin.Context) {
	identity := CurrentIdentity(c)

	rooms, err := h.Chat.RoomList.Rooms(identity.UserID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "chat unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// UnreadCount returns the caller's unread message count for one room.
// Best-effort: a storage failure reads as zero rather than an error, since
// the badge must never block the conversation view.
func (h *Handler) UnreadCount(c *gin.Context) {
	identity := CurrentIdentity(c)
	roomID := c.Param("roomID")

	count, err := h.Chat.Reads.UnreadCount(roomID, identity.UserID)
	if err != nil {
		log.Printf("WARNING: Failed to count unread for room %s: %v", roomID, err)
		count = 0
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
