package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListNotifications(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	unreadOnly := c.Query("unread") == "true"
	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	notifications, err := h.NotificationRepo.ListByUser(c.Request.Context(), userID, unreadOnly, limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	notifID, ok := paramID(c, "id")
	if !ok {
		return
	}

	updated, err := h.NotificationRepo.MarkRead(c.Request.Context(), notifID, userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if !updated {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": true})
}

func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	if err := h.NotificationRepo.MarkAllRead(c.Request.Context(), userID); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": true})
}
