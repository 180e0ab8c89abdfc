package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"taskflow/internal/logger"
	"taskflow/internal/repository"
	"taskflow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB *pgxpool.Pool

	UserRepo         *repository.UserRepository
	ProjectRepo      *repository.ProjectRepository
	SectionRepo      *repository.SectionRepository
	TaskRepo         *repository.TaskRepository
	CommentRepo      *repository.CommentRepository
	TimeEntryRepo    *repository.TimeEntryRepository
	CustomFieldRepo  *repository.CustomFieldRepository
	NotificationRepo *repository.NotificationRepository
	ClientRepo       *repository.ClientRepository

	Access           *service.Access
	TaskService      *service.TaskService
	CommentService   *service.CommentService
	TimeEntryService *service.TimeEntryService
}

func NewHandler(db *pgxpool.Pool) *Handler {
	return &Handler{
		DB:               db,
		UserRepo:         repository.NewUserRepository(db),
		ProjectRepo:      repository.NewProjectRepository(db),
		SectionRepo:      repository.NewSectionRepository(db),
		TaskRepo:         repository.NewTaskRepository(db),
		CommentRepo:      repository.NewCommentRepository(db),
		TimeEntryRepo:    repository.NewTimeEntryRepository(db),
		CustomFieldRepo:  repository.NewCustomFieldRepository(db),
		NotificationRepo: repository.NewNotificationRepository(db),
		ClientRepo:       repository.NewClientRepository(db),
		Access:           service.NewAccess(db),
		TaskService:      service.NewTaskService(db),
		CommentService:   service.NewCommentService(db),
		TimeEntryService: service.NewTimeEntryService(db),
	}
}

// paramID parses a positive int64 path parameter.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// getUserID reads the user id set by the JWT middleware.
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	uid, ok := uidVal.(int64)
	return uid, ok
}

func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
}

// notFound is the shared response for both missing entities and denied
// access.
func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

// respondErr maps service/storage errors onto the response taxonomy.
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, pgx.ErrNoRows):
		notFound(c)
	case errors.Is(err, service.ErrAlreadyAssigned):
		c.JSON(http.StatusConflict, gin.H{"error": "user already assigned"})
	case errors.Is(err, service.ErrOpenEntryExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": "an open time entry already exists"})
	case errors.Is(err, service.ErrEndBeforeStart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "end time must not precede start time"})
	default:
		logger.Error("internal error", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// bindError turns gin binding failures into a structured 400.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]gin.H, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, gin.H{"field": fe.Field(), "rule": fe.Tag()})
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": details})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}
