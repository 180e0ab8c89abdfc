package handlers

import (
	"net/http"

	"taskflow/internal/domain"

	"github.com/gin-gonic/gin"
)

type ClientRequest struct {
	Name    string  `json:"name" binding:"required"`
	Email   *string `json:"email"`
	Company *string `json:"company"`
	Notes   string  `json:"notes"`
}

func (h *Handler) CreateClient(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	client := &domain.Client{
		OwnerID: userID,
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Notes:   req.Notes,
	}
	if err := h.ClientRepo.Create(c.Request.Context(), client); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"client": client})
}

func (h *Handler) ListClients(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	clients, err := h.ClientRepo.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

// getOwnedClient loads a client and hides it from non-owners.
func (h *Handler) getOwnedClient(c *gin.Context) (*domain.Client, bool) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return nil, false
	}
	clientID, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}

	client, err := h.ClientRepo.GetByID(c.Request.Context(), clientID)
	if err != nil || client.OwnerID != userID {
		notFound(c)
		return nil, false
	}
	return client, true
}

func (h *Handler) GetClient(c *gin.Context) {
	client, ok := h.getOwnedClient(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": client})
}

func (h *Handler) UpdateClient(c *gin.Context) {
	client, ok := h.getOwnedClient(c)
	if !ok {
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	client.Name = req.Name
	client.Email = req.Email
	client.Company = req.Company
	client.Notes = req.Notes
	if err := h.ClientRepo.Update(c.Request.Context(), client); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": client})
}

func (h *Handler) DeleteClient(c *gin.Context) {
	client, ok := h.getOwnedClient(c)
	if !ok {
		return
	}

	if err := h.ClientRepo.Delete(c.Request.Context(), client.ID); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
