package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"sku-pulse/internal/config"
	"sku-pulse/internal/dashboard"
	"sku-pulse/internal/services"
)

type APIHandler struct {
	store    *services.MetricStore
	notifier *services.AlertNotifier
	hub      *Hub
	cfg      *config.Config
}

func SetupRoutes(r *gin.RouterGroup, db *gorm.DB, cfg *config.Config, hub *Hub) *APIHandler {
	handler := &APIHandler{
		store:    services.NewMetricStore(db),
		notifier: services.NewAlertNotifier(cfg.AlertWebhookURL),
		hub:      hub,
		cfg:      cfg,
	}

	// Report routes - stored rows or ad-hoc upload
	report := r.Group("/report")
	{
		report.GET("", handler.GetReport)
		report.POST("/upload", handler.UploadReport)
	}

	// Store management
	r.POST("/seed", handler.SeedStore)
	r.GET("/meta", handler.GetMeta)

	// Downloads
	export := r.Group("/export")
	{
		export.GET("/snapshot", handler.ExportSnapshot)
		export.GET("/workbook", handler.ExportWorkbook)
	}

	return handler
}

// GetReport builds the dashboard report over the stored rows with the
// request's filters applied. A never-seeded store is a valid empty
// state here, not an error, so the dashboard can render its prompt.
func (h *APIHandler) GetReport(c *gin.Context) {
	filters, err := parseFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rows, err := h.store.LoadAll()
	if err != nil {
		if errors.Is(err, services.ErrNotSeeded) {
			c.JSON(http.StatusOK, gin.H{"code": 200, "msg": "ok", "data": gin.H{"no_data": true}})
		} else {
			log.Printf("Load failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		}
		return
	}
	rep := dashboard.BuildReport(rows, filters)
	c.JSON(http.StatusOK, gin.H{"code": 200, "msg": "ok", "data": rep})
}

// UploadReport builds a report from an uploaded csv without touching
// the stored rows.
func (h *APIHandler) UploadReport(c *gin.Context) {
	filters, err := parseFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing csv file"})
		return
	}
	defer file.Close()

	rows, err := services.ParseMetricsCSV(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "csv has no data rows"})
		return
	}

	rep := dashboard.BuildReport(rows, filters)
	c.JSON(http.StatusOK, gin.H{"code": 200, "msg": "ok", "data": rep})
}

// SeedStore regenerates the sample data set and replaces the stored
// rows. Connected dashboards get a refresh push, and the anomaly
// webhook fires when the fresh unfiltered report has flagged days.
func (h *APIHandler) SeedStore(c *gin.Context) {
	req := struct {
		Days int    `json:"days"`
		SKUs int    `json:"skus"`
		Seed *int64 `json:"seed"`
	}{}
	_ = c.ShouldBindJSON(&req)
	if req.Days <= 0 {
		req.Days = h.cfg.SeedDays
	}
	if req.SKUs <= 0 {
		req.SKUs = h.cfg.SeedSKUs
	}
	seed := h.cfg.SeedValue
	if req.Seed != nil {
		seed = *req.Seed
	}

	rows := services.GenerateSampleRows(req.Days, req.SKUs, seed)
	if err := h.store.Seed(rows); err != nil {
		log.Printf("Seed failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	h.hub.Broadcast("seeded")

	if h.notifier.Enabled() {
		rep := dashboard.BuildReport(rows, dashboard.Filters{})
		go func() {
			if err := h.notifier.NotifyAnomalies(rep); err != nil {
				log.Printf("Anomaly alert failed: %v", err)
			}
		}()
	}

	c.JSON(http.StatusOK, gin.H{"code": 200, "msg": "seeded", "data": gin.H{
		"rows": len(rows),
		"days": req.Days,
		"skus": req.SKUs,
		"seed": seed,
	}})
}

// GetMeta returns the distinct filter values and bounds of the stored
// rows so the dashboard can build its controls. An unseeded store
// answers with the zero-value meta rather than an error.
func (h *APIHandler) GetMeta(c *gin.Context) {
	meta, err := h.store.Meta()
	if err != nil {
		if errors.Is(err, services.ErrNotSeeded) {
			meta = &services.StoreMeta{
				Categories:   []string{},
				Brands:       []string{},
				Fulfillments: []string{},
			}
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "msg": "ok", "data": meta})
}

// ExportSnapshot downloads the one-row KPI snapshot csv.
func (h *APIHandler) ExportSnapshot(c *gin.Context) {
	rep, ok := h.buildStoredReport(c)
	if !ok {
		return
	}
	data, err := services.SnapshotCSV(rep)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	filename := fmt.Sprintf("sku_pulse_snapshot_%s.csv", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportWorkbook downloads the full report as a multi-sheet xlsx.
func (h *APIHandler) ExportWorkbook(c *gin.Context) {
	rep, ok := h.buildStoredReport(c)
	if !ok {
		return
	}
	f, err := services.ReportWorkbook(rep)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	filename := fmt.Sprintf("sku_pulse_report_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")
	if err := f.Write(c.Writer); err != nil {
		log.Printf("Failed to write workbook: %v", err)
	}
}

// buildStoredReport loads the store and applies the request filters
// for the download routes, which have nothing to serve without data.
// It writes the error response itself and reports success via ok.
func (h *APIHandler) buildStoredReport(c *gin.Context) (*dashboard.Report, bool) {
	filters, err := parseFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	rows, err := h.store.LoadAll()
	if err != nil {
		if errors.Is(err, services.ErrNotSeeded) {
			c.JSON(http.StatusConflict, gin.H{"error": "no data: seed the store or upload a csv first"})
		} else {
			log.Printf("Load failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		}
		return nil, false
	}
	return dashboard.BuildReport(rows, filters), true
}

// parseFilters reads the filter query parameters shared by the report
// and export routes. List parameters take comma-separated values.
func parseFilters(c *gin.Context) (dashboard.Filters, error) {
	var f dashboard.Filters
	if v := c.Query("start"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, fmt.Errorf("invalid start %q", v)
		}
		f.DateStart = &t
	}
	if v := c.Query("end"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, fmt.Errorf("invalid end %q", v)
		}
		f.DateEnd = &t
	}
	f.Categories = splitList(c.Query("category"))
	f.Brands = splitList(c.Query("brand"))
	f.Fulfillments = splitList(c.Query("fulfillment"))
	if v := c.Query("price_min"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, fmt.Errorf("invalid price_min %q", v)
		}
		f.PriceMin = &p
	}
	if v := c.Query("price_max"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, fmt.Errorf("invalid price_max %q", v)
		}
		f.PriceMax = &p
	}
	return f, nil
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
