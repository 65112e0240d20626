package handlers

import (
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/brick/gearlist/internal/auth"
	"github.com/brick/gearlist/internal/domain/models"
	"github.com/brick/gearlist/internal/notify"
	"github.com/brick/gearlist/internal/repository/remote"
	"github.com/brick/gearlist/internal/service/admin"
	"github.com/brick/gearlist/internal/service/checklist"
	"github.com/brick/gearlist/internal/service/history"
)

// NoticeSource hands out the notices raised since the last response.
type NoticeSource interface {
	Drain() []notify.Notice
}

// respondJSON writes body plus the pending notices.
func respondJSON(c *gin.Context, notices NoticeSource, status int, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	if notices != nil {
		body["notices"] = notices.Drain()
	} else {
		body["notices"] = []notify.Notice{}
	}
	c.JSON(status, body)
}

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, admin.ErrInvalidEquipment),
		errors.Is(err, checklist.ErrMissingMetadata),
		errors.Is(err, checklist.ErrNothingSelected),
		errors.Is(err, history.ErrNoReturns):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrAccessDenied):
		return http.StatusUnauthorized
	case errors.Is(err, checklist.ErrUnknownEquipment),
		errors.Is(err, remote.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, remote.ErrUnavailable),
		errors.Is(err, remote.ErrRemoteWrite):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, notices NoticeSource, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	respondJSON(c, notices, status, gin.H{"error": message})
}

func sendDocument(c *gin.Context, doc models.Document) {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName})
	if disposition == "" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func bearerToken(c *gin.Context) auth.AccessToken {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return auth.AccessToken(strings.TrimSpace(token))
}
