package handlers

import (
	"net/http"

	"taskflow/internal/service"

	"github.com/gin-gonic/gin"
)

type CreateCommentRequest struct {
	Content  string  `json:"content" binding:"required"`
	Mentions []int64 `json:"mentions"`
}

func (h *Handler) CreateComment(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CreateCommentRequest
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

	comment, err := h.CommentService.Create(ctx, userID, t, req.Content, req.Mentions)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

func (h *Handler) ListComments(c *gin.Context) {
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

	comments, err := h.CommentRepo.ListByTask(ctx, taskID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handler) UpdateComment(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	commentID, ok := paramID(c, "commentId")
	if !ok {
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()

	comment, err := h.CommentRepo.GetByID(ctx, commentID)
	if err != nil {
		respondErr(c, err)
		return
	}
	// only the author edits their comment
	if comment.AuthorID != userID {
		notFound(c)
		return
	}

	comment.Content = req.Content
	if err := h.CommentRepo.Update(ctx, comment); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

func (h *Handler) DeleteComment(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	commentID, ok := paramID(c, "commentId")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	comment, err := h.CommentRepo.GetByID(ctx, commentID)
	if err != nil {
		respondErr(c, err)
		return
	}

	if comment.AuthorID != userID {
		// task admins may remove any comment
		level, _, err := h.Access.TaskLevel(ctx, userID, comment.TaskID)
		if err != nil {
			respondErr(c, err)
			return
		}
		if level < service.LevelAdmin {
			notFound(c)
			return
		}
	}

	if err := h.CommentRepo.Delete(ctx, commentID); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
