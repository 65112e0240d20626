package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/brick/gearlist/internal/auth"
	"github.com/brick/gearlist/internal/domain/models"
	"github.com/brick/gearlist/internal/service/history"
)

const dayLayout = "2006-01-02"

// HistoryService is the past-exports surface the handler drives.
type HistoryService interface {
	List(ctx context.Context, window history.Window) ([]models.LogEntry, error)
	CheckIn(ctx context.Context, id int64, marks []models.ReturnMark) (models.LogEntry, error)
	Regenerate(ctx context.Context, id int64) (models.Document, error)
	Delete(ctx context.Context, token auth.AccessToken, id int64) error
}

// HistoryHandler serves the history screen.
type HistoryHandler struct {
	svc     HistoryService
	notices NoticeSource
	logger  *zap.Logger
}

// NewHistoryHandler constructs the HTTP handler adapter.
func NewHistoryHandler(svc HistoryService, notices NoticeSource, logger *zap.Logger) *HistoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryHandler{svc: svc, notices: notices, logger: logger}
}

type checkInRequest struct {
	Items []models.ReturnMark `json:"items" binding:"required,dive"`
}

// List returns logs, optionally restricted with from/to (YYYY-MM-DD).
func (h *HistoryHandler) List(c *gin.Context) {
	var window history.Window
	for param, dst := range map[string]*time.Time{"from": &window.From, "to": &window.To} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		day, err := time.Parse(dayLayout, raw)
		if err != nil {
			respondJSON(c, h.notices, http.StatusBadRequest, gin.H{"error": param + " must be YYYY-MM-DD"})
			return
		}
		*dst = day
	}

	logs, err := h.svc.List(c.Request.Context(), window)
	if err != nil {
		respondError(c, h.notices, err)
		return
	}
	respondJSON(c, h.notices, http.StatusOK, gin.H{"logs": logs})
}

// CheckIn records returned items of a log.
func (h *HistoryHandler) CheckIn(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		respondJSON(c, h.notices, http.StatusBadRequest, gin.H{"error": "invalid log id"})
		return
	}

	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid check-in payload", zap.Error(err))
		respondJSON(c, h.notices, http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	entry, err := h.svc.CheckIn(c.Request.Context(), id, req.Items)
	if err != nil {
		respondError(c, h.notices, err)
		return
	}
	respondJSON(c, h.notices, http.StatusOK, gin.H{"log": entry})
}

// Document regenerates the document of a log.
func (h *HistoryHandler) Document(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		respondJSON(c, h.notices, http.StatusBadRequest, gin.H{"error": "invalid log id"})
		return
	}

	doc, err := h.svc.Regenerate(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.notices, err)
		return
	}
	sendDocument(c, doc)
}

// Delete removes a log. Requires a bearer token.
func (h *HistoryHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		respondJSON(c, h.notices, http.StatusBadRequest, gin.H{"error": "invalid log id"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), bearerToken(c), id); err != nil {
		respondError(c, h.notices, err)
		return
	}
	c.Status(http.StatusNoContent)
}
