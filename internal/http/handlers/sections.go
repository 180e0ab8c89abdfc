package handlers

import (
	"net/http"

	"taskflow/internal/domain"
	"taskflow/internal/service"

	"github.com/gin-gonic/gin"
)

type SectionRequest struct {
	Name     string `json:"name" binding:"required"`
	Position int    `json:"position"`
}

func (h *Handler) CreateSection(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req SectionRequest
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

	s := &domain.Section{ProjectID: projectID, Name: req.Name, Position: req.Position}
	if err := h.SectionRepo.Create(ctx, s); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"section": s})
}

func (h *Handler) UpdateSection(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	sectionID, ok := paramID(c, "sectionId")
	if !ok {
		return
	}

	var req SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()

	s, err := h.SectionRepo.GetByID(ctx, sectionID)
	if err != nil {
		respondErr(c, err)
		return
	}

	level, err := h.Access.ProjectLevel(ctx, userID, s.ProjectID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if level < service.LevelWrite {
		notFound(c)
		return
	}

	s.Name = req.Name
	s.Position = req.Position
	if err := h.SectionRepo.Update(ctx, s); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"section": s})
}

func (h *Handler) DeleteSection(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	sectionID, ok := paramID(c, "sectionId")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	s, err := h.SectionRepo.GetByID(ctx, sectionID)
	if err != nil {
		respondErr(c, err)
		return
	}

	level, err := h.Access.ProjectLevel(ctx, userID, s.ProjectID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if level < service.LevelWrite {
		notFound(c)
		return
	}

	if err := h.SectionRepo.Delete(ctx, sectionID); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
