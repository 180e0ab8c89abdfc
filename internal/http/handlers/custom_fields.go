package handlers

import (
	"net/http"

	"taskflow/internal/domain"
	"taskflow/internal/service"

	"github.com/gin-gonic/gin"
)

type CreateFieldRequest struct {
	Name    string           `json:"name" binding:"required"`
	Type    domain.FieldType `json:"type" binding:"required"`
	Options []string         `json:"options"`
}

func (h *Handler) CreateCustomField(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CreateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if !req.Type.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid field type"})
		return
	}
	if req.Type == domain.FieldSelect && len(req.Options) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "select field requires options"})
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

	f := &domain.CustomField{ProjectID: projectID, Name: req.Name, Type: req.Type, Options: req.Options}
	if f.Options == nil {
		f.Options = []string{}
	}
	if err := h.CustomFieldRepo.Create(ctx, f); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"custom_field": f})
}

func (h *Handler) ListCustomFields(c *gin.Context) {
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

	fields, err := h.CustomFieldRepo.ListByProject(ctx, projectID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"custom_fields": fields})
}

func (h *Handler) DeleteCustomField(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	fieldID, ok := paramID(c, "fieldId")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	field, err := h.CustomFieldRepo.GetByID(ctx, fieldID)
	if err != nil {
		respondErr(c, err)
		return
	}

	level, err := h.Access.ProjectLevel(ctx, userID, field.ProjectID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if level < service.LevelAdmin {
		notFound(c)
		return
	}

	if err := h.CustomFieldRepo.Delete(ctx, fieldID); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// fieldForTask checks the field belongs to the task's project and resolves
// the requester's level on the task.
func (h *Handler) fieldForTask(c *gin.Context) (userID, taskID, fieldID int64, level service.AccessLevel, ok bool) {
	userID, idOK := getUserID(c)
	if !idOK {
		unauthorized(c)
		return 0, 0, 0, service.LevelNone, false
	}
	taskID, idOK = paramID(c, "id")
	if !idOK {
		return 0, 0, 0, service.LevelNone, false
	}
	fieldID, idOK = paramID(c, "fieldId")
	if !idOK {
		return 0, 0, 0, service.LevelNone, false
	}

	ctx := c.Request.Context()

	lvl, t, err := h.Access.TaskLevel(ctx, userID, taskID)
	if err != nil {
		respondErr(c, err)
		return 0, 0, 0, service.LevelNone, false
	}

	field, err := h.CustomFieldRepo.GetByID(ctx, fieldID)
	if err != nil || t.ProjectID == nil || field.ProjectID != *t.ProjectID {
		notFound(c)
		return 0, 0, 0, service.LevelNone, false
	}
	return userID, taskID, fieldID, lvl, true
}

func (h *Handler) GetFieldValue(c *gin.Context) {
	_, taskID, fieldID, level, ok := h.fieldForTask(c)
	if !ok {
		return
	}
	if level < service.LevelRead {
		notFound(c)
		return
	}

	v, err := h.CustomFieldRepo.GetValue(c.Request.Context(), taskID, fieldID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"value": v})
}

type PutFieldValueRequest struct {
	Value string `json:"value" binding:"required"`
}

func (h *Handler) PutFieldValue(c *gin.Context) {
	_, taskID, fieldID, level, ok := h.fieldForTask(c)
	if !ok {
		return
	}
	if level < service.LevelWrite {
		notFound(c)
		return
	}

	var req PutFieldValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	v := &domain.CustomFieldValue{TaskID: taskID, FieldID: fieldID, Value: req.Value}
	if err := h.CustomFieldRepo.UpsertValue(c.Request.Context(), v); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"value": v})
}

func (h *Handler) DeleteFieldValue(c *gin.Context) {
	_, taskID, fieldID, level, ok := h.fieldForTask(c)
	if !ok {
		return
	}
	if level < service.LevelAdmin {
		notFound(c)
		return
	}

	if err := h.CustomFieldRepo.DeleteValue(c.Request.Context(), taskID, fieldID); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
