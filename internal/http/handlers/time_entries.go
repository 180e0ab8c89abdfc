package handlers

import (
	"net/http"
	"time"

	"taskflow/internal/service"

	"github.com/gin-gonic/gin"
)

type CreateTimeEntryRequest struct {
	StartTime time.Time  `json:"start_time" binding:"required"`
	EndTime   *time.Time `json:"end_time"`
}

func (h *Handler) CreateTimeEntry(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CreateTimeEntryRequest
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

	entry, err := h.TimeEntryService.Create(ctx, userID, taskID, req.StartTime, req.EndTime)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"time_entry": entry})
}

func (h *Handler) ListTimeEntries(c *gin.Context) {
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

	entries, err := h.TimeEntryRepo.ListByTask(ctx, taskID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"time_entries": entries})
}

func (h *Handler) GetTimeEntry(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}
	entryID, ok := paramID(c, "entryId")
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

	entry, err := h.TimeEntryRepo.GetByID(ctx, entryID)
	if err != nil || entry.TaskID != taskID {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"time_entry": entry})
}

type UpdateTimeEntryRequest struct {
	StartTime    *time.Time `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	ClearEndTime bool       `json:"clear_end_time"`
}

func (h *Handler) UpdateTimeEntry(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}
	entryID, ok := paramID(c, "entryId")
	if !ok {
		return
	}

	var req UpdateTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()

	entry, err := h.TimeEntryRepo.GetByID(ctx, entryID)
	if err != nil || entry.TaskID != taskID {
		notFound(c)
		return
	}
	// only the entry's owner edits it
	if entry.UserID != userID {
		notFound(c)
		return
	}

	updated, err := h.TimeEntryService.Update(ctx, entry, req.StartTime, req.EndTime, req.ClearEndTime)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"time_entry": updated})
}

func (h *Handler) DeleteTimeEntry(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}
	entryID, ok := paramID(c, "entryId")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	entry, err := h.TimeEntryRepo.GetByID(ctx, entryID)
	if err != nil || entry.TaskID != taskID {
		notFound(c)
		return
	}

	if entry.UserID != userID {
		level, _, err := h.Access.TaskLevel(ctx, userID, taskID)
		if err != nil {
			respondErr(c, err)
			return
		}
		if level < service.LevelAdmin {
			notFound(c)
			return
		}
	}

	if err := h.TimeEntryRepo.Delete(ctx, entryID); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
