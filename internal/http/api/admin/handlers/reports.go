package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/recoveryfit/corpreport/internal/config"
	"github.com/recoveryfit/corpreport/internal/export"
	"github.com/recoveryfit/corpreport/internal/report"
	"github.com/recoveryfit/corpreport/internal/store"
	log "github.com/sirupsen/logrus"
)

// ReportHandler serves the flattened corporate report and its CSV export.
type ReportHandler struct {
	src *store.GormSource  // Query layer for report rows.
	cfg config.ReportConfig // Default product IDs and statuses.
}

// NewReportHandler constructs a report handler.
func NewReportHandler(src *store.GormSource, cfg config.ReportConfig) *ReportHandler {
	return &ReportHandler{src: src, cfg: cfg}
}

// Corporate returns report rows plus the summary block.
func (h *ReportHandler) Corporate(c *gin.Context) {
	rows, ok := h.buildRows(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"rows":    rows,
		"summary": report.SummarizeReport(rows),
	})
}

// ExportCSV streams the report as a CSV attachment.
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	rows, ok := h.buildRows(c)
	if !ok {
		return
	}

	filename := "corporate-report-" + time.Now().UTC().Format("20060102") + ".csv"
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	if errWrite := export.WriteCorporateReportCSV(c.Writer, rows); errWrite != nil {
		log.WithError(errWrite).Error("stream corporate report csv failed")
	}
}

// buildRows runs the query, post-filter, and sort pipeline shared by the
// JSON and CSV endpoints. On failure it writes the response and returns
// ok=false.
func (h *ReportHandler) buildRows(c *gin.Context) ([]report.CorporateReportRow, bool) {
	query := store.ReportQuery{
		Search:     c.Query("search"),
		Location:   c.Query("location"),
		ProductIDs: h.productIDs(c.Query("membership_ids")),
	}

	rows, errRows := h.src.CorporateReportRows(c.Request.Context(), query)
	if errRows != nil {
		log.WithError(errRows).Error("build corporate report failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "build corporate report failed"})
		return nil, false
	}

	rows = report.FilterReportRows(rows, parseIntQuery(c, "min_logins"))
	report.SortReportRows(rows, c.Query("order_by"), c.Query("order"))
	return rows, true
}

// productIDs parses the membership_ids parameter, a comma-separated ID
// list, falling back to the configured corporate products.
func (h *ReportHandler) productIDs(raw string) []uint64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return h.cfg.CorporateProductIDs
	}

	parts := strings.Split(raw, ",")
	ids := make([]uint64, 0, len(parts))
	for _, part := range parts {
		id, errParse := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if errParse != nil || id == 0 {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return h.cfg.CorporateProductIDs
	}
	return ids
}
