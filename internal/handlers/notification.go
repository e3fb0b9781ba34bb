package handlers

import (
	"net/http"

	"github.com/Sheetal-x-Sharma/LCC/internal/services"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notes *services.NotificationService
}

func NewNotificationHandler(notes *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notes: notes}
}

func (h *NotificationHandler) List(c *gin.Context) {
	page, err := h.notes.List(c.Request.Context(), currentUser(c), pageFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Unread 未读数 GET /api/notifications/unread-count
func (h *NotificationHandler) Unread(c *gin.Context) {
	n, err := h.notes.UnreadCount(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": n})
}

// Read 标记单条通知为已读
func (h *NotificationHandler) Read(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.notes.MarkRead(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	message(c, http.StatusOK, "Notification marked as read")
}

// ReadAll 全部标记为已读
func (h *NotificationHandler) ReadAll(c *gin.Context) {
	n, err := h.notes.MarkAllRead(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read", "updated": n})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.notes.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	message(c, http.StatusOK, "Notification deleted")
}

func (h *NotificationHandler) DeleteAll(c *gin.Context) {
	n, err := h.notes.DeleteAll(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications deleted", "deleted": n})
}
