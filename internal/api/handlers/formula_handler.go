package handlers

import (
	"net/http"

	"github.com/andresuchdata/inventory-analytics/internal/analytics"
	"github.com/gin-gonic/gin"
)

// FormulaHandler exposes the closed-form inventory formulas on raw scalars.
type FormulaHandler struct{}

func NewFormulaHandler() *FormulaHandler {
	return &FormulaHandler{}
}

type eoqRequest struct {
	Demand      *float64 `json:"demand" binding:"required"`
	OrderCost   *float64 `json:"order_cost" binding:"required"`
	HoldingCost *float64 `json:"holding_cost" binding:"required"`
}

type ropRequest struct {
	AvgDemand *float64 `json:"avg_demand" binding:"required"`
	LeadTime  *float64 `json:"lead_time" binding:"required"`
	StdDev    *float64 `json:"std_dev" binding:"required"`
	ServiceZ  *float64 `json:"service_z" binding:"required"`
}

type newsvendorRequest struct {
	Mu             *float64 `json:"mu" binding:"required"`
	Sigma          *float64 `json:"sigma" binding:"required"`
	UnderstockCost *float64 `json:"understock_cost" binding:"required"`
	OverstockCost  *float64 `json:"overstock_cost" binding:"required"`
}

func (h *FormulaHandler) EOQ(c *gin.Context) {
	var req eoqRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	q, err := analytics.EconomicOrderQuantity(*req.Demand, *req.OrderCost, *req.HoldingCost)
	if err != nil {
		respondError(c, err, "invalid eoq input")
		return
	}
	c.JSON(http.StatusOK, gin.H{"eoq": q})
}

func (h *FormulaHandler) ROP(c *gin.Context) {
	var req ropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rop, err := analytics.ReorderPoint(*req.AvgDemand, *req.LeadTime, *req.StdDev, *req.ServiceZ)
	if err != nil {
		respondError(c, err, "invalid reorder point input")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reorder_point": rop})
}

func (h *FormulaHandler) Newsvendor(c *gin.Context) {
	var req newsvendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ratio, err := analytics.CriticalRatio(*req.UnderstockCost, *req.OverstockCost)
	if err != nil {
		respondError(c, err, "invalid newsvendor input")
		return
	}
	q, err := analytics.NewsvendorQuantity(*req.Mu, *req.Sigma, *req.UnderstockCost, *req.OverstockCost)
	if err != nil {
		respondError(c, err, "invalid newsvendor input")
		return
	}
	c.JSON(http.StatusOK, gin.H{"critical_ratio": ratio, "quantity": q})
}
