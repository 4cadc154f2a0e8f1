package handlers

import (
	"net/http"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
	"github.com/andresuchdata/inventory-analytics/internal/service"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	service *service.AnalyticsService
}

func NewAnalyticsHandler(service *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

func (h *AnalyticsHandler) GetKPI(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	summary, err := h.service.KPI(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "failed to compute kpi")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *AnalyticsHandler) GetForecast(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	window, err := queryInt(c, "window")
	if err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.service.Forecast(c.Request.Context(), filter, window)
	if err != nil {
		respondError(c, err, "failed to compute forecast")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AnalyticsHandler) GetABC(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	rows, summary, err := h.service.ABC(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "failed to classify products")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":   rows,
		"summary": summary,
	})
}

func (h *AnalyticsHandler) GetBottlenecks(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	rows, err := h.service.Bottlenecks(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "failed to score bottlenecks")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items": rows,
		"total": len(rows),
	})
}

func (h *AnalyticsHandler) GetInventory(c *gin.Context) {
	filter, params, ok := h.parsePlanRequest(c)
	if !ok {
		return
	}

	plan, err := h.service.Inventory(c.Request.Context(), filter, params)
	if err != nil {
		respondError(c, err, "failed to plan inventory")
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	filter, params, ok := h.parsePlanRequest(c)
	if !ok {
		return
	}
	window, err := queryInt(c, "window")
	if err != nil {
		badRequest(c, err)
		return
	}

	dash, err := h.service.Dashboard(c.Request.Context(), filter, window, params)
	if err != nil {
		respondError(c, err, "failed to build dashboard")
		return
	}
	c.JSON(http.StatusOK, dash)
}

func (h *AnalyticsHandler) GetDimensions(c *gin.Context) {
	dims, err := h.service.Dimensions(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch ledger dimensions")
		return
	}
	c.JSON(http.StatusOK, dims)
}

func (h *AnalyticsHandler) parsePlanRequest(c *gin.Context) (domain.LedgerFilter, domain.InventoryParams, bool) {
	filter, err := parseFilter(c)
	if err != nil {
		badRequest(c, err)
		return domain.LedgerFilter{}, domain.InventoryParams{}, false
	}
	params, err := parseParams(c, h.service.DefaultParams())
	if err != nil {
		badRequest(c, err)
		return domain.LedgerFilter{}, domain.InventoryParams{}, false
	}
	return filter, params, true
}
