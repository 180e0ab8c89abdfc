package handlers

import (
	"net/http"

	"taskflow/internal/domain"
	"taskflow/internal/service"

	"github.com/gin-gonic/gin"
)

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
	ClientID    *int64 `json:"client_id"`
}

func (h *Handler) CreateProject(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()

	if req.ClientID != nil {
		client, err := h.ClientRepo.GetByID(ctx, *req.ClientID)
		if err != nil || client.OwnerID != userID {
			notFound(c)
			return
		}
	}

	p := &domain.Project{
		OwnerID:     userID,
		ClientID:    req.ClientID,
		Name:        req.Name,
		Description: req.Description,
		Public:      req.Public,
	}
	if err := h.ProjectRepo.Create(ctx, p); err != nil {
		respondErr(c, err)
		return
	}

	// the owner is also a member row, role OWNER
	member := &domain.ProjectMember{ProjectID: p.ID, UserID: userID, Role: domain.RoleOwner}
	if err := h.ProjectRepo.AddMember(ctx, member); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": p})
}

func (h *Handler) ListProjects(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	projects, err := h.ProjectRepo.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *Handler) GetProject(c *gin.Context) {
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

	p, err := h.ProjectRepo.GetByID(ctx, projectID)
	if err != nil {
		respondErr(c, err)
		return
	}

	sections, err := h.SectionRepo.ListByProject(ctx, projectID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": p, "sections": sections})
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Public      *bool   `json:"public"`
	ClientID    *int64  `json:"client_id"`
}

func (h *Handler) UpdateProject(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
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

	p, err := h.ProjectRepo.GetByID(ctx, projectID)
	if err != nil {
		respondErr(c, err)
		return
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Public != nil {
		p.Public = *req.Public
	}
	if req.ClientID != nil {
		p.ClientID = req.ClientID
	}

	if err := h.ProjectRepo.Update(ctx, p); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

func (h *Handler) DeleteProject(c *gin.Context) {
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
	if level < service.LevelAdmin {
		notFound(c)
		return
	}

	if err := h.ProjectRepo.Delete(ctx, projectID); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) ProjectStats(c *gin.Context) {
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

	stats, err := h.ProjectRepo.Stats(ctx, projectID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
