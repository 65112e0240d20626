package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/brick/gearlist/internal/auth"
	"github.com/brick/gearlist/internal/domain/models"
)

// AdminService is the catalog editing surface the handler drives.
type AdminService interface {
	List(ctx context.Context, token auth.AccessToken) ([]models.EquipmentRecord, error)
	Add(ctx context.Context, token auth.AccessToken, rec models.EquipmentRecord) (models.EquipmentRecord, error)
	Update(ctx context.Context, token auth.AccessToken, id int64, rec models.EquipmentRecord) error
	Delete(ctx context.Context, token auth.AccessToken, id int64) error
}

// AccessGate exchanges the admin password for a token.
type AccessGate interface {
	RequireElevatedAccess(password string) (auth.AccessToken, error)
}

// AdminHandler serves the admin screen.
type AdminHandler struct {
	svc     AdminService
	gate    AccessGate
	notices NoticeSource
	logger  *zap.Logger
}

// NewAdminHandler constructs the HTTP handler adapter.
func NewAdminHandler(svc AdminService, gate AccessGate, notices NoticeSource, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{svc: svc, gate: gate, notices: notices, logger: logger}
}

type sessionRequest struct {
	Password string `json:"password" binding:"required"`
}

// equipmentRequest carries catalog fields only.
type equipmentRequest struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Condition   string `json:"condition"`
	Notes       string `json:"notes"`
}

func (r equipmentRequest) record() models.EquipmentRecord {
	return models.EquipmentRecord{
		Category:    r.Category,
		Description: r.Description,
		Quantity:    r.Quantity,
		Condition:   r.Condition,
		Notes:       r.Notes,
	}
}

// Session exchanges the password for an access token.
func (h *AdminHandler) Session(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondJSON(c, h.notices, http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token, err := h.gate.RequireElevatedAccess(req.Password)
	if err != nil {
		h.logger.Warn("admin access denied", zap.String("client_ip", c.ClientIP()))
		respondError(c, h.notices, err)
		return
	}
	respondJSON(c, h.notices, http.StatusOK, gin.H{"token": token})
}

// List returns the catalog.
func (h *AdminHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), bearerToken(c))
	if err != nil {
		respondError(c, h.notices, err)
		return
	}
	respondJSON(c, h.notices, http.StatusOK, gin.H{"items": items})
}

// Add creates a catalog entry.
func (h *AdminHandler) Add(c *gin.Context) {
	var req equipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondJSON(c, h.notices, http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := h.svc.Add(c.Request.Context(), bearerToken(c), req.record())
	if err != nil {
		respondError(c, h.notices, err)
		return
	}
	respondJSON(c, h.notices, http.StatusCreated, gin.H{"item": created})
}

// Update replaces the catalog fields of an entry.
func (h *AdminHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		respondJSON(c, h.notices, http.StatusBadRequest, gin.H{"error": "invalid equipment id"})
		return
	}

	var req equipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondJSON(c, h.notices, http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.Update(c.Request.Context(), bearerToken(c), id, req.record()); err != nil {
		respondError(c, h.notices, err)
		return
	}
	respondJSON(c, h.notices, http.StatusOK, gin.H{"id": id})
}

// Delete removes an entry.
func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		respondJSON(c, h.notices, http.StatusBadRequest, gin.H{"error": "invalid equipment id"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), bearerToken(c), id); err != nil {
		respondError(c, h.notices, err)
		return
	}
	c.Status(http.StatusNoContent)
}
