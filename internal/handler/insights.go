package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bolt-support/insights-service/internal/dataset"
	"github.com/bolt-support/insights-service/internal/errs"
	"github.com/bolt-support/insights-service/internal/export"
	"github.com/bolt-support/insights-service/internal/service"
	"github.com/gin-gonic/gin"
)

type InsightsHandler struct {
	svc        service.InsightsServicer
	dateLayout string
	now        func() time.Time
}

func NewInsightsHandler(svc service.InsightsServicer, dateLayout string) *InsightsHandler {
	return &InsightsHandler{svc: svc, dateLayout: dateLayout, now: time.Now}
}

// filterFromQuery reads the shared filter params: category, review, from, to.
func filterFromQuery(c *gin.Context) (dataset.Filter, error) {
	var f dataset.Filter
	f.Category = c.Query("category")
	review, err := dataset.ParseReviewStatus(c.Query("review"))
	if err != nil {
		return dataset.Filter{}, err
	}
	f.Review = review
	if f.From, err = dataset.ParseDate(c.Query("from")); err != nil {
		return dataset.Filter{}, err
	}
	if f.To, err = dataset.ParseDate(c.Query("to")); err != nil {
		return dataset.Filter{}, err
	}
	return f, nil
}

func (h *InsightsHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrBadFilter):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrDatasetUnavailable), errors.Is(err, errs.ErrMissingColumn):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to load data: " + err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *InsightsHandler) Summary(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	s, err := h.svc.Summary(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *InsightsHandler) Categories(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	counts, err := h.svc.Categories(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": counts})
}

func (h *InsightsHandler) ReviewFlags(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	counts, err := h.svc.ReviewFlags(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"review_flags": counts})
}

func (h *InsightsHandler) Timeline(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	buckets, err := h.svc.Timeline(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timeline": buckets})
}

func (h *InsightsHandler) Breakdown(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	rows, err := h.svc.Breakdown(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"breakdown": rows})
}

func (h *InsightsHandler) Tickets(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	limit := 0
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	items, total, err := h.svc.Tickets(c.Request.Context(), f, limit, offset)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tickets": items,
		"total":   total,
	})
}

func (h *InsightsHandler) Options(c *gin.Context) {
	opts, err := h.svc.Options(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

// Export streams the filtered view as an attachment. format=csv (default)
// or format=xlsx.
func (h *InsightsHandler) Export(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
		return
	}
	view, err := h.svc.View(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(format, h.now())+`"`)
	if format == "xlsx" {
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Status(http.StatusOK)
		if err := export.WriteXLSX(c.Writer, view, h.dateLayout); err != nil {
			_ = c.Error(err)
		}
		return
	}
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := export.WriteCSV(c.Writer, view, h.dateLayout); err != nil {
		_ = c.Error(err)
	}
}

func (h *InsightsHandler) Reload(c *gin.Context) {
	rows, err := h.svc.Reload(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reloaded", "rows": rows})
}
