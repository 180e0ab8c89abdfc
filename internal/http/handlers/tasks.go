package handlers

import (
	"net/http"
	"strconv"
	"time"

	"taskflow/internal/domain"
	"taskflow/internal/repository"
	"taskflow/internal/service"

	"github.com/gin-gonic/gin"
)

type CreateTaskRequest struct {
	Title           string               `json:"title" binding:"required"`
	Description     string               `json:"description"`
	Status          domain.TaskStatus    `json:"status"`
	Priority        domain.TaskPriority  `json:"priority"`
	SectionID       *int64               `json:"section_id"`
	Position        int                  `json:"position"`
	DueDate         *time.Time           `json:"due_date"`
	AssignedUserIDs []int64              `json:"assigned_user_ids"`
}

func (req *CreateTaskRequest) normalize() bool {
	if req.Status == "" {
		req.Status = domain.StatusTodo
	}
	if req.Priority == "" {
		req.Priority = domain.PriorityMedium
	}
	return req.Status.Valid() && req.Priority.Valid()
}

func (h *Handler) CreateTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if !req.normalize() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status or priority"})
		return
	}

	ctx := c.Request.Context()

	level, err := h.Access.ProjectLevel(ctx, userID, projectID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if level < service.LevelWrite {
		notFound(c)
		return
	}

	if req.SectionID != nil {
		s, err := h.SectionRepo.GetByID(ctx, *req.SectionID)
		if err != nil || s.ProjectID != projectID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "section does not belong to project"})
			return
		}
	}

	t := &domain.Task{
		ProjectID:   &projectID,
		SectionID:   req.SectionID,
		CreatorID:   userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Position:    req.Position,
		DueDate:     req.DueDate,
	}
	if t.Status == domain.StatusDone {
		now := time.Now()
		t.CompletedAt = &now
	}
	if err := h.TaskRepo.Create(ctx, t); err != nil {
		respondErr(c, err)
		return
	}

	if len(req.AssignedUserIDs) > 0 {
		ids := req.AssignedUserIDs
		if _, err := h.TaskService.Update(ctx, userID, t, service.TaskPatch{AssignedUserIDs: &ids}); err != nil {
			respondErr(c, err)
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{"task": t})
}

func (h *Handler) ListProjectTasks(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	level, err := h.Access.ProjectLevel(ctx, userID, projectID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if level < service.LevelRead {
		notFound(c)
		return
	}

	filter := repository.TaskFilter{}
	if v := c.Query("status"); v != "" {
		s := domain.TaskStatus(v)
		if !s.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		filter.Status = s
	}
	if v := c.Query("assignee_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignee_id"})
			return
		}
		filter.AssigneeID = id
	}
	if v := c.Query("section_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid section_id"})
			return
		}
		filter.SectionID = id
	}

	tasks, err := h.TaskRepo.ListByProject(ctx, projectID, filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *Handler) GetTask(c *gin.Context) {
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

	level, t, err := h.Access.TaskLevel(ctx, userID, taskID)
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
	subtasks, err := h.TaskRepo.ListSubtasks(ctx, taskID)
	if err != nil {
		respondErr(c, err)
		return
	}
	values, err := h.CustomFieldRepo.ListValuesByTask(ctx, taskID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"task":                &domain.TaskWithAssignees{Task: *t, AssignedUsers: assignees},
		"subtasks":            subtasks,
		"custom_field_values": values,
	})
}

type UpdateTaskRequest struct {
	Title           *string              `json:"title"`
	Description     *string              `json:"description"`
	Status          *domain.TaskStatus   `json:"status"`
	Priority        *domain.TaskPriority `json:"priority"`
	DueDate         *time.Time           `json:"due_date"`
	ClearDueDate    bool                 `json:"clear_due_date"`
	SectionID       *int64               `json:"section_id"`
	Position        *int                 `json:"position"`
	AssignedUserIDs *[]int64             `json:"assigned_user_ids"`
}

func (h *Handler) UpdateTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}
	if req.Priority != nil && !req.Priority.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority"})
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

	if req.SectionID != nil {
		s, err := h.SectionRepo.GetByID(ctx, *req.SectionID)
		if err != nil || t.ProjectID == nil || s.ProjectID != *t.ProjectID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "section does not belong to project"})
			return
		}
	}

	patch := service.TaskPatch{
		Title:           req.Title,
		Description:     req.Description,
		Status:          req.Status,
		Priority:        req.Priority,
		DueDate:         req.DueDate,
		ClearDue:        req.ClearDueDate,
		SectionID:       req.SectionID,
		Position:        req.Position,
		AssignedUserIDs: req.AssignedUserIDs,
	}
	updated, err := h.TaskService.Update(ctx, userID, t, patch)
	if err != nil {
		respondErr(c, err)
		return
	}

	assignees, err := h.TaskRepo.ListAssignees(ctx, taskID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": &domain.TaskWithAssignees{Task: *updated, AssignedUsers: assignees}})
}

func (h *Handler) DeleteTask(c *gin.Context) {
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
	if level < service.LevelAdmin {
		notFound(c)
		return
	}

	if err := h.TaskRepo.Delete(ctx, taskID); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) RecentTasks(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	tasks, err := h.TaskRepo.Recent(c.Request.Context(), userID, limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *Handler) CreateSubtask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	parentID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if !req.normalize() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status or priority"})
		return
	}

	ctx := c.Request.Context()

	level, parent, err := h.Access.TaskLevel(ctx, userID, parentID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if level < service.LevelWrite {
		notFound(c)
		return
	}
	// subtasks nest one level deep
	if parent.ParentTaskID != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot nest subtasks"})
		return
	}

	t := &domain.Task{
		ProjectID:    parent.ProjectID,
		ParentTaskID: &parent.ID,
		CreatorID:    userID,
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Priority:     req.Priority,
		Position:     req.Position,
		DueDate:      req.DueDate,
	}
	if t.Status == domain.StatusDone {
		now := time.Now()
		t.CompletedAt = &now
	}
	if err := h.TaskRepo.Create(ctx, t); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": t})
}
