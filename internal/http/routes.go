package http

import (
	"os"
	"strconv"
	"time"

	"taskflow/internal/config"
	"taskflow/internal/http/handlers"
	"taskflow/internal/http/middleware"
	"taskflow/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, version string) {
	h := handlers.NewHandler(db)
	healthHandler := handlers.NewHealthHandler(db, version)

	// read limits from env, with safe defaults
	apiRateLimit := 60
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateLimit = n
		}
	}
	apiRateWindow := time.Minute
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateWindow = time.Duration(n) * time.Second
		}
	}

	authRateLimit := 10
	if v := os.Getenv("AUTH_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			authRateLimit = n
		}
	}
	authRateWindow := time.Minute
	if v := os.Getenv("AUTH_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			authRateWindow = time.Duration(n) * time.Second
		}
	}

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	mutationRL := middleware.UserRateLimit(
		cfg.MutationRateLimit,
		time.Duration(cfg.MutationRateWindow)*time.Second,
	)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))

	// Auth
	v1.POST("/auth/register", middleware.RedisRateLimit(authRateLimit, authRateWindow), h.Register)
	v1.POST("/auth/login", middleware.RedisRateLimit(authRateLimit, authRateWindow), h.Login)
	v1.GET("/me", middleware.JWT(), h.Me)
	v1.GET("/users/search", middleware.JWT(), h.SearchUsers)

	auth := v1.Group("")
	auth.Use(middleware.JWT())

	// Projects
	auth.POST("/projects", h.CreateProject)
	auth.GET("/projects", h.ListProjects)
	auth.GET("/projects/:id", h.GetProject)
	auth.PATCH("/projects/:id", h.UpdateProject)
	auth.DELETE("/projects/:id", h.DeleteProject)
	auth.GET("/projects/:id/stats", h.ProjectStats)

	// Members
	auth.GET("/projects/:id/members", h.ListMembers)
	auth.POST("/projects/:id/members", h.AddMember)
	auth.PATCH("/projects/:id/members/:userId", h.UpdateMemberRole)
	auth.DELETE("/projects/:id/members/:userId", h.RemoveMember)

	// Sections
	auth.POST("/projects/:id/sections", h.CreateSection)
	auth.PATCH("/sections/:sectionId", h.UpdateSection)
	auth.DELETE("/sections/:sectionId", h.DeleteSection)

	// Custom field definitions
	auth.GET("/projects/:id/custom-fields", h.ListCustomFields)
	auth.POST("/projects/:id/custom-fields", h.CreateCustomField)
	auth.DELETE("/custom-fields/:fieldId", h.DeleteCustomField)

	// Tasks
	auth.POST("/projects/:id/tasks", mutationRL, h.CreateTask)
	auth.GET("/projects/:id/tasks", h.ListProjectTasks)
	auth.GET("/tasks/recent", h.RecentTasks)
	auth.GET("/tasks/:id", h.GetTask)
	auth.PATCH("/tasks/:id", mutationRL, h.UpdateTask)
	auth.DELETE("/tasks/:id", mutationRL, h.DeleteTask)
	auth.POST("/tasks/:id/subtasks", mutationRL, h.CreateSubtask)

	// Single-user assignment path
	auth.POST("/tasks/:id/assign", mutationRL, h.AssignUser)
	auth.GET("/tasks/:id/assign", h.ListAssignees)
	auth.DELETE("/tasks/:id/assign", mutationRL, h.UnassignUser)

	// Comments
	auth.POST("/tasks/:id/comments", h.CreateComment)
	auth.GET("/tasks/:id/comments", h.ListComments)
	auth.PATCH("/comments/:commentId", h.UpdateComment)
	auth.DELETE("/comments/:commentId", h.DeleteComment)

	// Time entries
	auth.POST("/tasks/:id/time-entries", h.CreateTimeEntry)
	auth.GET("/tasks/:id/time-entries", h.ListTimeEntries)
	auth.GET("/tasks/:id/time-entries/:entryId", h.GetTimeEntry)
	auth.PATCH("/tasks/:id/time-entries/:entryId", h.UpdateTimeEntry)
	auth.DELETE("/tasks/:id/time-entries/:entryId", h.DeleteTimeEntry)

	// Custom field values per task
	auth.GET("/tasks/:id/custom-fields/:fieldId", h.GetFieldValue)
	auth.PUT("/tasks/:id/custom-fields/:fieldId", h.PutFieldValue)
	auth.DELETE("/tasks/:id/custom-fields/:fieldId", h.DeleteFieldValue)

	// Notifications
	auth.GET("/notifications", h.ListNotifications)
	auth.PATCH("/notifications/:id/read", h.MarkNotificationRead)
	auth.POST("/notifications/read-all", h.MarkAllNotificationsRead)

	// Clients
	auth.POST("/clients", h.CreateClient)
	auth.GET("/clients", h.ListClients)
	auth.GET("/clients/:id", h.GetClient)
	auth.PATCH("/clients/:id", h.UpdateClient)
	auth.DELETE("/clients/:id", h.DeleteClient)

	// Live notification stream
	hub := ws.NewHub()
	h.TaskService.SetNotifier(hub)
	h.CommentService.SetNotifier(hub)
	r.GET("/ws", h.WS(hub))
}
