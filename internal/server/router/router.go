package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brick/gearlist/internal/server/handlers"
)

const requestIDHeader = "X-Request-ID"

// Handlers groups the HTTP adapters the router mounts.
type Handlers struct {
	Checklist *handlers.ChecklistHandler
	History   *handlers.HistoryHandler
	Admin     *handlers.AdminHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	equipment := api.Group("/equipment")
	equipment.GET("", h.Checklist.List)
	equipment.POST("/refresh", h.Checklist.Refresh)
	equipment.POST("/reset", h.Checklist.Reset)
	equipment.POST("/:id/toggle", h.Checklist.Toggle)
	equipment.PUT("/:id/quantity", h.Checklist.SetQuantity)

	api.POST("/exports", h.Checklist.Export)

	logs := api.Group("/logs")
	logs.GET("", h.History.List)
	logs.PATCH("/:id/returns", h.History.CheckIn)
	logs.GET("/:id/document", h.History.Document)
	logs.DELETE("/:id", h.History.Delete)

	adminGroup := api.Group("/admin")
	adminGroup.POST("/session", h.Admin.Session)
	adminGroup.GET("/equipment", h.Admin.List)
	adminGroup.POST("/equipment", h.Admin.Add)
	adminGroup.PUT("/equipment/:id", h.Admin.Update)
	adminGroup.DELETE("/equipment/:id", h.Admin.Delete)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString("request_id")))
	}
}
