package handlers

import (
	"errors"
	"net/http"

	"taskflow/internal/domain"
	"taskflow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

func (h *Handler) ListMembers(c *gin.Context) {
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

	members, err := h.ProjectRepo.ListMembers(ctx, projectID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

type AddMemberRequest struct {
	UserID int64             `json:"user_id" binding:"required"`
	Role   domain.MemberRole `json:"role"`
}

func (h *Handler) AddMember(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.Role == "" {
		req.Role = domain.RoleMember
	}
	if !req.Role.Valid() || req.Role == domain.RoleOwner {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
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

	if _, err := h.UserRepo.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no such user"})
			return
		}
		respondErr(c, err)
		return
	}

	if _, err := h.ProjectRepo.GetMember(ctx, projectID, req.UserID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "already a member"})
		return
	} else if !errors.Is(err, pgx.ErrNoRows) {
		respondErr(c, err)
		return
	}

	m := &domain.ProjectMember{ProjectID: projectID, UserID: req.UserID, Role: req.Role}
	if err := h.ProjectRepo.AddMember(ctx, m); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"member": m})
}

type UpdateMemberRequest struct {
	Role domain.MemberRole `json:"role" binding:"required"`
}

func (h *Handler) UpdateMemberRole(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}
	memberUserID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if !req.Role.Valid() || req.Role == domain.RoleOwner {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
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

	m, err := h.ProjectRepo.GetMember(ctx, projectID, memberUserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	// the owner row never changes role
	if m.Role == domain.RoleOwner {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot change owner role"})
		return
	}

	if err := h.ProjectRepo.UpdateMemberRole(ctx, projectID, memberUserID, req.Role); err != nil {
		respondErr(c, err)
		return
	}
	m.Role = req.Role
	c.JSON(http.StatusOK, gin.H{"member": m})
}

func (h *Handler) RemoveMember(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}
	memberUserID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	level, err := h.Access.ProjectLevel(ctx, userID, projectID)
	if err != nil {
		respondErr(c, err)
		return
	}
	// a member may remove themselves; anyone else needs admin
	if memberUserID != userID && level < service.LevelAdmin {
		notFound(c)
		return
	}

	m, err := h.ProjectRepo.GetMember(ctx, projectID, memberUserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if m.Role == domain.RoleOwner {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot remove owner"})
		return
	}

	if err := h.ProjectRepo.RemoveMember(ctx, projectID, memberUserID); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}
