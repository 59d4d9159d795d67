package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/recoveryfit/corpreport/internal/report"
	log "github.com/sirupsen/logrus"
)

// DashboardHandler serves the invoice and member dashboards.
type DashboardHandler struct {
	svc *report.Service // Aggregation service over the membership data.
}

// NewDashboardHandler constructs a dashboard handler.
func NewDashboardHandler(svc *report.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Invoices returns the invoice-grouped hierarchy, filtered and sorted
// per the query parameters.
func (h *DashboardHandler) Invoices(c *gin.Context) {
	groups, errBuild := h.svc.BuildInvoiceHierarchy(c.Request.Context())
	if errBuild != nil {
		log.WithError(errBuild).Error("build invoice hierarchy failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "build invoice dashboard failed"})
		return
	}

	filter := report.InvoiceFilter{
		Search:       c.Query("search"),
		InvoiceLabel: c.Query("invoice"),
		Days:         c.DefaultQuery("days", report.DateFilterAll),
		Sort:         c.Query("sort"),
	}
	filtered := report.FilterInvoices(groups, filter, time.Now())

	c.JSON(http.StatusOK, gin.H{
		"invoices":       filtered,
		"total_invoices": len(groups),
	})
}

// Members returns the flat member dashboard. Totals always cover the
// whole member set; filters narrow only the listed entries.
func (h *DashboardHandler) Members(c *gin.Context) {
	payload, errBuild := h.svc.BuildMemberPayload(c.Request.Context())
	if errBuild != nil {
		log.WithError(errBuild).Error("build member payload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "build member dashboard failed"})
		return
	}

	filter := report.MemberFilter{
		Search:     c.Query("search"),
		Membership: c.Query("membership"),
		Days:       c.DefaultQuery("days", report.DateFilterAll),
		MinLogins:  parseIntQuery(c, "min_logins"),
		Sort:       c.Query("sort"),
	}
	filtered := report.FilterMembers(payload.Members, filter, time.Now())

	c.JSON(http.StatusOK, gin.H{
		"members": filtered,
		"totals":  payload.Totals,
	})
}

// parseIntQuery reads a non-negative integer query parameter, treating
// malformed or negative values as absent.
func parseIntQuery(c *gin.Context, name string) int {
	raw := c.Query(name)
	if raw == "" {
		return 0
	}
	value, errParse := strconv.Atoi(raw)
	if errParse != nil || value < 0 {
		return 0
	}
	return value
}
