package handlers

import (
	"errors"
	"net/http"

	"taskflow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

type AssignRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

// AssignUser adds one user to a task's assignee set, separate from the bulk
// set on PATCH.
func (h *Handler) AssignUser(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()

	level, t, err := h.Access.TaskLevel(ctx, userID, taskID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if level < service.LevelWrite {
		notFound(c)
		return
	}

	if _, err := h.UserRepo.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no such user"})
			return
		}
		respondErr(c, err)
		return
	}

	if err := h.TaskService.Assign(ctx, userID, t, req.UserID); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"assigned": true})
}

func (h *Handler) ListAssignees(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	level, _, err := h.Access.TaskLevel(ctx, userID, taskID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if level < service.LevelRead {
		notFound(c)
		return
	}

	assignees, err := h.TaskRepo.ListAssignees(ctx, taskID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignees": assignees})
}

func (h *Handler) UnassignUser(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()

	level, _, err := h.Access.TaskLevel(ctx, userID, taskID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if level < service.LevelWrite {
		notFound(c)
		return
	}

	if err := h.TaskService.Unassign(ctx, taskID, req.UserID); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}
