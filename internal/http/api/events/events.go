// Package events receives login notifications from the membership site.
package events

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/recoveryfit/corpreport/internal/ratelimit"
	"github.com/recoveryfit/corpreport/internal/store"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RegisterEventRoutes registers the ingest endpoint. An empty token
// disables ingest entirely.
func RegisterEventRoutes(r *gin.Engine, src *store.GormSource, token string, limiter *ratelimit.Manager) {
	if r == nil || src == nil || token == "" {
		return
	}

	handler := &loginEventHandler{src: src, token: token, limiter: limiter}
	r.POST("/v0/events/login", handler.Record)
}

type loginEventHandler struct {
	src     *store.GormSource  // Write side for login attributes.
	token   string             // Shared ingest token.
	limiter *ratelimit.Manager // Per-member event throttle, nil disables.
}

// loginEventRequest captures one login notification.
type loginEventRequest struct {
	UserID uint64 `json:"user_id"` // Member who logged in.
	At     int64  `json:"at"`      // Unix timestamp, 0 means now.
}

// Record increments the member's login counter and stamps the last
// login.
func (h *loginEventHandler) Record(c *gin.Context) {
	if !h.authorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid ingest token"})
		return
	}

	var body loginEventRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	if h.limiter != nil {
		result, errAllow := h.limiter.Allow(c.Request.Context(), ratelimit.KeyForUser(body.UserID))
		if errAllow == nil && !result.Allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many login events"})
			return
		}
	}

	at := time.Now()
	if body.At > 0 {
		at = time.Unix(body.At, 0)
	}

	if errRecord := h.src.RecordLogin(c.Request.Context(), body.UserID, at); errRecord != nil {
		if errors.Is(errRecord, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown user"})
			return
		}
		log.WithError(errRecord).WithField("user_id", body.UserID).Error("record login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "record login failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// authorized checks the shared token from either the dedicated header
// or a bearer Authorization header.
func (h *loginEventHandler) authorized(c *gin.Context) bool {
	candidate := strings.TrimSpace(c.GetHeader("X-Ingest-Token"))
	if candidate == "" {
		authHeader := c.GetHeader("Authorization")
		trimmed := strings.TrimPrefix(authHeader, "Bearer ")
		if trimmed != authHeader {
			candidate = strings.TrimSpace(trimmed)
		}
	}
	if candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(h.token)) == 1
}
