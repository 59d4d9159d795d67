package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/recoveryfit/corpreport/internal/models"
	"github.com/recoveryfit/corpreport/internal/report"
	"github.com/recoveryfit/corpreport/internal/store"
)

// MemberHandler exposes individual member records and their login
// metrics.
type MemberHandler struct {
	src *store.GormSource // Query layer for members and attributes.
	svc *report.Service   // Aggregation service for full entries.
}

// NewMemberHandler constructs a member handler.
func NewMemberHandler(src *store.GormSource, svc *report.Service) *MemberHandler {
	return &MemberHandler{src: src, svc: svc}
}

// List returns all member entries, newest registrations first.
func (h *MemberHandler) List(c *gin.Context) {
	payload, errBuild := h.svc.BuildMemberPayload(c.Request.Context())
	if errBuild != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list members failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": payload.Members})
}

// Get returns one member entry by ID.
func (h *MemberHandler) Get(c *gin.Context) {
	user, ok := h.findByParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	rawCount, _ := h.src.Attribute(ctx, user.ID, models.AttrLoginCount)
	rawLast, _ := h.src.Attribute(ctx, user.ID, models.AttrLastLogin)
	subs, _ := h.src.ActiveSubscriptions(ctx, user.ID)

	c.JSON(http.StatusOK, report.BuildUserEntry(user, rawCount, rawLast, subs))
}

// Logins returns a member's raw and interpreted login metrics.
func (h *MemberHandler) Logins(c *gin.Context) {
	user, ok := h.findByParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	rawCount, _ := h.src.Attribute(ctx, user.ID, models.AttrLoginCount)
	rawLast, _ := h.src.Attribute(ctx, user.ID, models.AttrLastLogin)

	ts, display := report.ParseLastLogin(rawLast)
	c.JSON(http.StatusOK, gin.H{
		"user_id":        user.ID,
		"login_count":    report.CoerceLoginCount(rawCount),
		"last_login":     display,
		"last_login_ts":  ts,
		"raw_login_count": rawCount,
		"raw_last_login":  rawLast,
	})
}

// findByParam loads the user named by the :id route param. On failure
// it writes the response and returns ok=false.
func (h *MemberHandler) findByParam(c *gin.Context) (*models.User, bool) {
	id, errParse := strconv.ParseUint(c.Param("id"), 10, 64)
	if errParse != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return nil, false
	}

	user, errFind := h.src.UserByID(c.Request.Context(), id)
	if errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return nil, false
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return nil, false
	}
	return user, true
}
