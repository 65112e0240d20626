package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/brick/gearlist/internal/domain/models"
)

// ChecklistService is the reconciled-list surface the handler drives.
type ChecklistService interface {
	Items(ctx context.Context) []models.EquipmentRecord
	Progress(ctx context.Context) models.Progress
	FetchEquipment(ctx context.Context) []models.EquipmentRecord
	Toggle(ctx context.Context, id int64) (models.EquipmentRecord, error)
	AlterQuantityTaken(ctx context.Context, id int64, value int) (models.EquipmentRecord, error)
	ResetAll(ctx context.Context) []models.EquipmentRecord
	Export(ctx context.Context, submittedBy, jobLabel string) (models.Document, error)
}

// ChecklistHandler serves the checklist screen.
type ChecklistHandler struct {
	svc     ChecklistService
	notices NoticeSource
	logger  *zap.Logger
}

// NewChecklistHandler constructs the HTTP handler adapter.
func NewChecklistHandler(svc ChecklistService, notices NoticeSource, logger *zap.Logger) *ChecklistHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChecklistHandler{svc: svc, notices: notices, logger: logger}
}

type quantityRequest struct {
	QuantityTaken *int `json:"quantity_taken" binding:"required"`
}

type exportRequest struct {
	SubmittedBy string `json:"submitted_by"`
	JobLabel    string `json:"job_label"`
}

func (h *ChecklistHandler) listResponse(c *gin.Context, items []models.EquipmentRecord) {
	respondJSON(c, h.notices, http.StatusOK, gin.H{
		"items":    items,
		"progress": h.svc.Progress(c.Request.Context()),
	})
}

// List returns the current reconciled list.
func (h *ChecklistHandler) List(c *gin.Context) {
	h.listResponse(c, h.svc.Items(c.Request.Context()))
}

// Refresh runs a full fetch and returns its result.
func (h *ChecklistHandler) Refresh(c *gin.Context) {
	h.listResponse(c, h.svc.FetchEquipment(c.Request.Context()))
}

// Toggle flips one item's checkbox.
func (h *ChecklistHandler) Toggle(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		respondJSON(c, h.notices, http.StatusBadRequest, gin.H{"error": "invalid equipment id"})
		return
	}

	item, err := h.svc.Toggle(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.notices, err)
		return
	}
	respondJSON(c, h.notices, http.StatusOK, gin.H{"item": item, "progress": h.svc.Progress(c.Request.Context())})
}

// SetQuantity sets the quantity taken of one item.
func (h *ChecklistHandler) SetQuantity(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		respondJSON(c, h.notices, http.StatusBadRequest, gin.H{"error": "invalid equipment id"})
		return
	}

	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid quantity payload", zap.Error(err))
		respondJSON(c, h.notices, http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.svc.AlterQuantityTaken(c.Request.Context(), id, *req.QuantityTaken)
	if err != nil {
		respondError(c, h.notices, err)
		return
	}
	respondJSON(c, h.notices, http.StatusOK, gin.H{"item": item, "progress": h.svc.Progress(c.Request.Context())})
}

// Reset clears every selection.
func (h *ChecklistHandler) Reset(c *gin.Context) {
	h.listResponse(c, h.svc.ResetAll(c.Request.Context()))
}

// Export finalises the checklist and streams the document back.
func (h *ChecklistHandler) Export(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid export payload", zap.Error(err))
		respondJSON(c, h.notices, http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	doc, err := h.svc.Export(c.Request.Context(), req.SubmittedBy, req.JobLabel)
	if err != nil {
		h.logger.Warn("export rejected", zap.Error(err))
		respondError(c, h.notices, err)
		return
	}
	sendDocument(c, doc)
}
